package fleet

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result is the outcome of one reconciliation cycle.
type Result struct {
	// List is the new ordered view list. When Changed is false it is
	// the previous list, untouched.
	List ViewList

	// Added holds the names of configured devices present in the
	// snapshot but absent from the previous view list, in snapshot
	// iteration order. The set is valid for exactly one cycle.
	Added []string

	// ScrollTarget is the first added name, used to scroll the new
	// device into view. Empty when nothing was added.
	ScrollTarget string

	// NeedsMetadata holds the configuration identifiers of configured
	// devices whose integration metadata has not been computed yet.
	NeedsMetadata []string

	// Changed reports whether the snapshot carried device data. A
	// snapshot with a nil configured slice is a heartbeat and leaves
	// all state as it was.
	Changed bool
}

// Reconcile merges a device snapshot into a new ordered view list.
//
// The previous list is read only for membership tests; the output list
// is always built fresh from the snapshot. Importable devices sort
// first (non-ignored before ignored, each group ascending
// case-insensitive by name), configured devices follow (ascending
// case-insensitive by friendly name, falling back to name).
//
// A nil prev is the first run; every configured device in the snapshot
// counts as newly added.
func Reconcile(prev ViewList, snap Snapshot) Result {
	if snap.Configured == nil {
		return Result{List: prev}
	}

	prevNames := prev.configuredNames()

	var added []string
	var needsMetadata []string
	for _, d := range snap.Configured {
		if _, ok := prevNames[d.Name]; !ok {
			added = append(added, d.Name)
		}
		if len(d.LoadedIntegrations) == 0 {
			needsMetadata = append(needsMetadata, d.Configuration)
		}
	}

	// Collators are not safe for concurrent use, so each cycle builds
	// its own. Reconciliation runs on a single event loop and the cost
	// is negligible next to the sorts themselves.
	coll := collate.New(language.Und, collate.IgnoreCase)

	configured := make([]ConfiguredDevice, len(snap.Configured))
	copy(configured, snap.Configured)
	sort.SliceStable(configured, func(i, j int) bool {
		return coll.CompareString(configured[i].DisplayName(), configured[j].DisplayName()) < 0
	})

	list := make(ViewList, 0, len(snap.Importable)+len(configured))

	if snap.Importable != nil {
		importable := make([]ImportableDevice, len(snap.Importable))
		copy(importable, snap.Importable)
		sort.SliceStable(importable, func(i, j int) bool {
			if importable[i].Ignored != importable[j].Ignored {
				return !importable[i].Ignored
			}
			return coll.CompareString(importable[i].Name, importable[j].Name) < 0
		})
		for _, d := range importable {
			list = append(list, NewImportableEntry(d))
		}
	}

	for _, d := range configured {
		list = append(list, NewConfiguredEntry(d))
	}

	scrollTarget := ""
	if len(added) > 0 {
		scrollTarget = added[0]
	}

	return Result{
		List:          list,
		Added:         added,
		ScrollTarget:  scrollTarget,
		NeedsMetadata: needsMetadata,
		Changed:       true,
	}
}
