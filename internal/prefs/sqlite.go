package prefs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nerrad567/flotilla/internal/infrastructure/database"
)

// namespace groups the dashboard's preference rows in ui_preferences.
const namespace = "dashboard"

// Preference keys as stored.
const (
	keyViewMode       = "view_mode"
	keySortColumn     = "sort_column"
	keySortDirection  = "sort_direction"
	keyGroupBy        = "group_by"
	keyShowDiscovered = "show_discovered"
)

// SQLiteStore persists preferences in the ui_preferences table.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a preference store backed by the given database.
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads the stored preferences, filling any missing or invalid
// field from defaults. A namespace with no rows yields the defaults.
func (s *SQLiteStore) Load(ctx context.Context) (Preferences, error) {
	p := Default()

	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM ui_preferences WHERE namespace = ?",
		namespace,
	)
	if err != nil {
		return p, fmt.Errorf("querying preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return p, fmt.Errorf("scanning preference row: %w", err)
		}
		applyStoredValue(&p, key, value)
	}
	if err := rows.Err(); err != nil {
		return p, fmt.Errorf("iterating preferences: %w", err)
	}

	// Stored values from an older version may no longer be allowed;
	// fall back wholesale rather than serve a half-valid state.
	if err := p.Validate(); err != nil {
		return Default(), nil
	}

	return p, nil
}

// Save writes all preference fields in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	pairs := map[string]string{
		keyViewMode:       p.ViewMode,
		keySortColumn:     p.SortColumn,
		keySortDirection:  p.SortDirection,
		keyGroupBy:        p.GroupBy,
		keyShowDiscovered: strconv.FormatBool(p.ShowDiscovered),
	}

	for key, value := range pairs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ui_preferences (namespace, key, value)
			VALUES (?, ?, ?)
			ON CONFLICT (namespace, key)
			DO UPDATE SET value = excluded.value,
			              updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		`, namespace, key, value); err != nil {
			return fmt.Errorf("upserting preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing preferences: %w", err)
	}
	return nil
}

func applyStoredValue(p *Preferences, key, value string) {
	switch key {
	case keyViewMode:
		p.ViewMode = value
	case keySortColumn:
		p.SortColumn = value
	case keySortDirection:
		p.SortDirection = value
	case keyGroupBy:
		p.GroupBy = value
	case keyShowDiscovered:
		if b, err := strconv.ParseBool(value); err == nil {
			p.ShowDiscovered = b
		}
	}
}
