package mqtt

import "fmt"

// Topic prefixes for the Flotilla MQTT contract.
//
// The fleet supervisor (the process that owns device configurations and
// performs discovery) publishes retained snapshots and online-state maps;
// Flotilla publishes requests. All topics live under a single root:
//
//	flotilla/devices/snapshot   retained device-collection snapshots
//	flotilla/devices/online     retained configuration -> online map
//	flotilla/devices/request    snapshot refresh requests
//	flotilla/metadata/request   metadata regeneration requests
//	flotilla/system/status      dashboard online/offline (LWT)
const (
	// TopicPrefix is the root of all Flotilla topics.
	TopicPrefix = "flotilla"

	// TopicPrefixDevices is the base for device-collection topics.
	TopicPrefixDevices = "flotilla/devices"

	// TopicPrefixMetadata is the base for metadata topics.
	TopicPrefixMetadata = "flotilla/metadata"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "flotilla/system"
)

// Topics provides builders for Flotilla MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// DeviceSnapshot returns the topic carrying device-collection snapshots.
//
// Example payload: {"configured":[...],"importable":[...]}
func (Topics) DeviceSnapshot() string {
	return fmt.Sprintf("%s/snapshot", TopicPrefixDevices)
}

// DeviceOnline returns the topic carrying the configuration -> online map.
//
// Example payload: {"living-room.yaml":true,"garage.yaml":false}
func (Topics) DeviceOnline() string {
	return fmt.Sprintf("%s/online", TopicPrefixDevices)
}

// DeviceRequest returns the topic for snapshot refresh requests.
//
// The fleet supervisor responds by re-publishing the retained snapshot.
func (Topics) DeviceRequest() string {
	return fmt.Sprintf("%s/request", TopicPrefixDevices)
}

// MetadataRequest returns the topic for metadata regeneration requests.
//
// Published when a configured device reports no loaded integrations,
// meaning its definition has not been analysed yet.
func (Topics) MetadataRequest() string {
	return fmt.Sprintf("%s/request", TopicPrefixMetadata)
}

// SystemStatus returns the topic for the dashboard's own online status.
// Used for the Last Will and Testament message.
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
