package fleet

// Status is the display state of a view list entry.
type Status string

const (
	StatusUpdateAvailable Status = "update-available"
	StatusOnline          Status = "online"
	StatusOffline         Status = "offline"
	StatusDiscovered      Status = "discovered"
)

// Status derives the entry's display status from the online map.
//
// For configured devices an available update takes precedence over the
// online state; otherwise the device is online when its configuration
// identifier maps to true, offline in every other case. Importable
// devices are always discovered.
func (e Entry) Status(online OnlineMap) Status {
	switch e.Kind {
	case KindImportable:
		return StatusDiscovered
	case KindConfigured:
		if e.Configured.UpdateAvailable {
			return StatusUpdateAvailable
		}
		if online[e.Configured.Configuration] {
			return StatusOnline
		}
		return StatusOffline
	}
	return StatusOffline
}
