package fleet

import "strings"

// Filter returns the entries visible under the dashboard's current view
// options. An entry survives when it is a configured device or
// showDiscovered is set, and when the query is empty or matches any of
// the entry's searchable fields as a case-insensitive substring.
//
// Searchable fields are name and friendly name for configured devices,
// and name, project name and comment for importable devices.
func Filter(list ViewList, showDiscovered bool, query string) ViewList {
	q := strings.ToLower(query)

	out := make(ViewList, 0, len(list))
	for _, e := range list {
		if e.Kind == KindImportable && !showDiscovered {
			continue
		}
		if q != "" && !e.matchesQuery(q) {
			continue
		}
		out = append(out, e)
	}

	return out
}

// matchesQuery expects q already lowercased.
func (e Entry) matchesQuery(q string) bool {
	switch e.Kind {
	case KindConfigured:
		return containsFold(e.Configured.Name, q) ||
			containsFold(e.Configured.FriendlyName, q)
	case KindImportable:
		return containsFold(e.Importable.Name, q) ||
			containsFold(e.Importable.ProjectName, q) ||
			containsFold(e.Importable.Comment, q)
	}
	return false
}

func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
