package prefs

import (
	"context"
	"fmt"
)

// View modes supported by the dashboard.
const (
	ViewModeCard  = "card"
	ViewModeGrid  = "grid"
	ViewModeTable = "table"
)

// Sort directions.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// Columns available for sorting and grouping.
const (
	ColumnName   = "name"
	ColumnStatus = "status"
	ColumnIP     = "ip"
)

// Preferences capture the dashboard view state a user expects to find
// again on the next visit.
type Preferences struct {
	ViewMode       string `json:"view_mode"`
	SortColumn     string `json:"sort_column"`
	SortDirection  string `json:"sort_direction"`
	GroupBy        string `json:"group_by"`
	ShowDiscovered bool   `json:"show_discovered"`
}

// Default returns the preferences used for a first visit.
func Default() Preferences {
	return Preferences{
		ViewMode:       ViewModeCard,
		SortColumn:     ColumnName,
		SortDirection:  SortAscending,
		GroupBy:        "",
		ShowDiscovered: true,
	}
}

// Validate checks every field against its allowed values.
func (p Preferences) Validate() error {
	switch p.ViewMode {
	case ViewModeCard, ViewModeGrid, ViewModeTable:
	default:
		return fmt.Errorf("invalid view_mode %q", p.ViewMode)
	}

	switch p.SortColumn {
	case ColumnName, ColumnStatus, ColumnIP:
	default:
		return fmt.Errorf("invalid sort_column %q", p.SortColumn)
	}

	switch p.SortDirection {
	case SortAscending, SortDescending:
	default:
		return fmt.Errorf("invalid sort_direction %q", p.SortDirection)
	}

	switch p.GroupBy {
	case "", ColumnStatus:
	default:
		return fmt.Errorf("invalid group_by %q", p.GroupBy)
	}

	return nil
}

// Store loads and saves dashboard preferences.
type Store interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, p Preferences) error
}
