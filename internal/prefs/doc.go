// Package prefs persists the dashboard's view preferences between
// sessions.
//
// Preferences are stored as key/value pairs under a fixed namespace in
// the ui_preferences table. They are read once when a dashboard client
// connects and written through on every user change. Unknown or
// corrupted stored values fall back to defaults rather than failing
// the load.
package prefs
