package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"activitysignup/internal/domain"
)

type activityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) domain.ActivityRepository {
	return &activityRepository{
		DB: db,
	}
}

func (r *activityRepository) List(ctx context.Context) ([]*domain.Activity, error) {
	query := `
		SELECT name, description, schedule, max_participants
		FROM activities
		ORDER BY position
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*domain.Activity
	byName := make(map[string]*domain.Activity)
	for rows.Next() {
		a := &domain.Activity{Participants: []string{}}
		if err := rows.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants); err != nil {
			return nil, err
		}
		activities = append(activities, a)
		byName[a.Name] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	participantsQuery := `
		SELECT activity_name, email
		FROM activity_participants
		ORDER BY activity_name, position
	`
	prows, err := r.DB.QueryContext(ctx, participantsQuery)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var name, email string
		if err := prows.Scan(&name, &email); err != nil {
			return nil, err
		}
		if a, ok := byName[name]; ok {
			a.Participants = append(a.Participants, email)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []*domain.Activity{}
	}
	return activities, nil
}

// Update locks the activity row for the lifetime of the transaction, so two
// writers on the same activity are serialised by Postgres.
func (r *activityRepository) Update(ctx context.Context, name string, fn func(*domain.Activity) error) (*domain.Activity, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	a := &domain.Activity{Participants: []string{}}
	err = tx.QueryRowContext(ctx, `
		SELECT name, description, schedule, max_participants
		FROM activities
		WHERE name = $1
		FOR UPDATE
	`, name).Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT email
		FROM activity_participants
		WHERE activity_name = $1
		ORDER BY position
	`, name)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			rows.Close()
			return nil, err
		}
		a.Participants = append(a.Participants, email)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := fn(a); err != nil {
		return nil, err
	}

	if err := writeRoster(ctx, tx, name, a.Participants); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	a.Name = name
	return a, nil
}

// writeRoster replaces the stored roster of one activity; position records signup order.
func writeRoster(ctx context.Context, tx *sql.Tx, name string, participants []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_participants WHERE activity_name = $1`, name); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	insert := `
		INSERT INTO activity_participants (activity_name, email, position)
		VALUES ($1, $2, $3)
	`
	for i, email := range participants {
		if _, err := tx.ExecContext(ctx, insert, name, email, i); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}
	return nil
}
