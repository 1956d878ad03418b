package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"activitysignup/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		name             TEXT PRIMARY KEY,
		description      TEXT NOT NULL,
		schedule         TEXT NOT NULL,
		max_participants INTEGER NOT NULL CHECK (max_participants > 0),
		position         INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activity_participants (
		activity_name TEXT NOT NULL REFERENCES activities (name) ON DELETE CASCADE,
		email         TEXT NOT NULL,
		position      INTEGER NOT NULL,
		PRIMARY KEY (activity_name, email)
	)`,
}

// Open connects to Postgres with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the schema if needed and inserts any seed activity that is
// not stored yet. Rosters of activities that already exist are left alone, so
// restarting the service keeps signups.
func Migrate(ctx context.Context, db *sql.DB, seed []*domain.Activity) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertActivity := `
		INSERT INTO activities (name, description, schedule, max_participants, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`
	for i, a := range seed {
		res, err := tx.ExecContext(ctx, insertActivity, a.Name, a.Description, a.Schedule, a.MaxParticipants, i)
		if err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		if n == 0 {
			continue
		}
		if err := writeRoster(ctx, tx, a.Name, a.Participants); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
	}
	return tx.Commit()
}
