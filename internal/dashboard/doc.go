// Package dashboard owns the live device view served to browsers.
//
// A single event loop consumes two feeds: full device snapshots and the
// per-device online map. Each snapshot is reconciled against the
// previous view list; the result is published to WebSocket clients,
// metadata regeneration is requested for devices that need it, and
// status transitions are recorded to the history sink. Online map
// updates replace the map wholesale and trigger a status broadcast.
//
// Because every mutation happens on the loop goroutine there are no
// partial-update races between the two feeds. REST handlers read the
// published state through accessors guarded by a read lock.
package dashboard
