package fleet

// Kind discriminates the two device variants carried by an Entry.
type Kind string

const (
	// KindConfigured marks a device with a definition already on disk.
	KindConfigured Kind = "configured"

	// KindImportable marks a discovered device awaiting adoption.
	KindImportable Kind = "importable"
)

// ConfiguredDevice is a device whose definition file is present and managed.
//
// Name is the unique stable identifier within the configured set.
// Configuration is the path-like identifier of the backing definition and
// is the key used by the online map. An empty LoadedIntegrations slice
// means metadata has not been computed yet for this device.
type ConfiguredDevice struct {
	Name               string   `json:"name"`
	Configuration      string   `json:"configuration"`
	FriendlyName       string   `json:"friendly_name,omitempty"`
	IP                 string   `json:"ip,omitempty"`
	UpdateAvailable    bool     `json:"update_available"`
	LoadedIntegrations []string `json:"loaded_integrations,omitempty"`
}

// DisplayName returns the friendly name when set, the raw name otherwise.
func (d ConfiguredDevice) DisplayName() string {
	if d.FriendlyName != "" {
		return d.FriendlyName
	}
	return d.Name
}

// ImportableDevice is a device discovered on the network that has no
// configuration yet. Ignored marks a discovery the user has dismissed;
// ignored entries stay in the list but sort after active discoveries.
type ImportableDevice struct {
	Name             string `json:"name"`
	PackageImportURL string `json:"package_import_url"`
	ProjectName      string `json:"project_name,omitempty"`
	Ignored          bool   `json:"ignored"`
	Comment          string `json:"comment,omitempty"`
}

// Entry is a tagged union of the two device variants. Exactly one of
// Configured or Importable is non-nil, matching Kind.
type Entry struct {
	Kind       Kind              `json:"kind"`
	Configured *ConfiguredDevice `json:"configured,omitempty"`
	Importable *ImportableDevice `json:"importable,omitempty"`
}

// NewConfiguredEntry wraps a configured device in a view list entry.
func NewConfiguredEntry(d ConfiguredDevice) Entry {
	return Entry{Kind: KindConfigured, Configured: &d}
}

// NewImportableEntry wraps an importable device in a view list entry.
func NewImportableEntry(d ImportableDevice) Entry {
	return Entry{Kind: KindImportable, Importable: &d}
}

// Name returns the entry's device name regardless of variant.
func (e Entry) Name() string {
	switch e.Kind {
	case KindConfigured:
		return e.Configured.Name
	case KindImportable:
		return e.Importable.Name
	}
	return ""
}

// ViewList is the ordered merged list presented to the dashboard.
type ViewList []Entry

// configuredNames collects the names of the configured subset, used for
// membership tests when detecting newly appeared devices.
func (v ViewList) configuredNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, e := range v {
		if e.Kind == KindConfigured {
			names[e.Configured.Name] = struct{}{}
		}
	}
	return names
}

// Snapshot is one emission from the device subscription feed.
//
// A nil Configured slice means the emission carried no device data and
// the previous view list must be retained unchanged. An empty non-nil
// slice means the configured set is genuinely empty.
type Snapshot struct {
	Configured []ConfiguredDevice `json:"configured"`
	Importable []ImportableDevice `json:"importable"`
}

// OnlineMap maps a configuration identifier to its online state.
// Absent keys are treated as offline.
type OnlineMap map[string]bool
