// Package database provides SQLite database access for Flotilla.
//
// It wraps database/sql with lifecycle management, health checks, and an
// embedded-migration runner. SQLite is used as a single-writer store for
// persisted dashboard preferences; the connection pool is sized accordingly
// (one connection, WAL mode for concurrent readers).
//
// # Migrations
//
// SQL migration files are embedded into the binary by the migrations
// package and applied on startup:
//
//	db, err := database.Open(database.Config{Path: "./data/flotilla.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration filenames follow YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql for rollback.
package database
