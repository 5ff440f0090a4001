package feed

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/flotilla/internal/fleet"
	"github.com/nerrad567/flotilla/internal/infrastructure/mqtt"
)

// Broker is the subset of the MQTT client the feeds depend on.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// SnapshotHandler receives each decoded device snapshot.
type SnapshotHandler func(snap fleet.Snapshot)

// OnlineHandler receives each decoded online map.
type OnlineHandler func(online fleet.OnlineMap)

// DeviceFeed subscribes to full device collection snapshots.
type DeviceFeed struct {
	broker Broker
	qos    byte
	topics mqtt.Topics
}

// NewDeviceFeed creates a device snapshot feed on the given broker.
func NewDeviceFeed(broker Broker, qos byte) *DeviceFeed {
	return &DeviceFeed{broker: broker, qos: qos}
}

// Subscribe registers the handler for snapshot emissions. The returned
// subscription supports Refresh via the device request topic.
func (f *DeviceFeed) Subscribe(handler SnapshotHandler) (*Subscription, error) {
	topic := f.topics.DeviceSnapshot()

	err := f.broker.Subscribe(topic, f.qos, func(_ string, payload []byte) error {
		var snap fleet.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return fmt.Errorf("feed: decode device snapshot: %w", err)
		}
		handler(snap)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("feed: subscribe device snapshots: %w", err)
	}

	return &Subscription{
		broker:       f.broker,
		topic:        topic,
		qos:          f.qos,
		refreshTopic: f.topics.DeviceRequest(),
	}, nil
}

// OnlineFeed subscribes to the per-device online map.
type OnlineFeed struct {
	broker Broker
	qos    byte
	topics mqtt.Topics
}

// NewOnlineFeed creates an online status feed on the given broker.
func NewOnlineFeed(broker Broker, qos byte) *OnlineFeed {
	return &OnlineFeed{broker: broker, qos: qos}
}

// Subscribe registers the handler for online map emissions. The
// returned subscription has no request channel; Refresh reports
// ErrRefreshUnsupported.
func (f *OnlineFeed) Subscribe(handler OnlineHandler) (*Subscription, error) {
	topic := f.topics.DeviceOnline()

	err := f.broker.Subscribe(topic, f.qos, func(_ string, payload []byte) error {
		var online fleet.OnlineMap
		if err := json.Unmarshal(payload, &online); err != nil {
			return fmt.Errorf("feed: decode online map: %w", err)
		}
		handler(online)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("feed: subscribe online map: %w", err)
	}

	return &Subscription{
		broker: f.broker,
		topic:  topic,
		qos:    f.qos,
	}, nil
}
