// Package fleet implements the device list reconciliation core.
//
// The package merges successive snapshots of configured and importable
// (discovered) devices into a single ordered view list, detects newly
// appeared configured devices, and derives the display status of each
// entry from a continuously updated online map.
//
// All operations are pure functions over value inputs. The package holds
// no state and performs no I/O; the dashboard controller owns the
// previous view list and feeds it back into each Reconcile call.
//
// Ordering rules:
//
//   - Importable devices come first. Within them, non-ignored entries
//     sort before ignored ones, each group ascending case-insensitive
//     by name.
//   - Configured devices follow, ascending case-insensitive by friendly
//     name, falling back to name when no friendly name is set.
//
// Comparison uses locale-aware collation so names with accents and
// mixed case order the way a user expects.
package fleet
