package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"activitysignup/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var activityColumns = []string{"name", "description", "schedule", "max_participants"}

func TestActivityRepository_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    []*domain.Activity
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT name, description, schedule, max_participants\s+FROM activities\s+ORDER BY position`).
					WillReturnRows(sqlmock.NewRows(activityColumns).
						AddRow("Chess Club", "Chess", "Fridays", 12).
						AddRow("Art Club", "Art", "Thursdays", 15))
				mock.ExpectQuery(`SELECT activity_name, email\s+FROM activity_participants`).
					WillReturnRows(sqlmock.NewRows([]string{"activity_name", "email"}).
						AddRow("Chess Club", "michael@mergington.edu").
						AddRow("Chess Club", "daniel@mergington.edu"))
			},
			want: []*domain.Activity{
				{Name: "Chess Club", Description: "Chess", Schedule: "Fridays", MaxParticipants: 12,
					Participants: []string{"michael@mergington.edu", "daniel@mergington.edu"}},
				{Name: "Art Club", Description: "Art", Schedule: "Thursdays", MaxParticipants: 15,
					Participants: []string{}},
			},
		},
		{
			name: "empty",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT name, description, schedule, max_participants`).
					WillReturnRows(sqlmock.NewRows(activityColumns))
				mock.ExpectQuery(`SELECT activity_name, email`).
					WillReturnRows(sqlmock.NewRows([]string{"activity_name", "email"}))
			},
			want: []*domain.Activity{},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT name, description, schedule, max_participants`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewActivityRepository(db)
			got, err := repo.List(ctx)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActivityRepository_Update(t *testing.T) {
	ctx := context.Background()
	signup := func(a *domain.Activity) error { return a.Signup("alice.test@mergington.edu") }

	tests := []struct {
		name     string
		activity string
		fn       func(*domain.Activity) error
		mock     func(mock sqlmock.Sqlmock)
		wantErr  error
		wantAny  bool
		want     []string
	}{
		{
			name:     "success rewrites roster in order",
			activity: "Chess Club",
			fn:       signup,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT name, description, schedule, max_participants\s+FROM activities\s+WHERE name = \$1\s+FOR UPDATE`).
					WithArgs("Chess Club").
					WillReturnRows(sqlmock.NewRows(activityColumns).AddRow("Chess Club", "Chess", "Fridays", 12))
				mock.ExpectQuery(`SELECT email\s+FROM activity_participants`).
					WithArgs("Chess Club").
					WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("michael@mergington.edu"))
				mock.ExpectExec(`DELETE FROM activity_participants WHERE activity_name = \$1`).
					WithArgs("Chess Club").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO activity_participants \(activity_name, email, position\)`).
					WithArgs("Chess Club", "michael@mergington.edu", 0).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO activity_participants \(activity_name, email, position\)`).
					WithArgs("Chess Club", "alice.test@mergington.edu", 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			want: []string{"michael@mergington.edu", "alice.test@mergington.edu"},
		},
		{
			name:     "not found",
			activity: "Knitting",
			fn:       signup,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs("Knitting").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:     "domain rejection rolls back",
			activity: "Chess Club",
			fn:       signup,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs("Chess Club").
					WillReturnRows(sqlmock.NewRows(activityColumns).AddRow("Chess Club", "Chess", "Fridays", 12))
				mock.ExpectQuery(`SELECT email`).
					WithArgs("Chess Club").
					WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("ALICE.TEST@mergington.edu"))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadySignedUp,
		},
		{
			name:     "insert failure rolls back",
			activity: "Chess Club",
			fn:       signup,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs("Chess Club").
					WillReturnRows(sqlmock.NewRows(activityColumns).AddRow("Chess Club", "Chess", "Fridays", 12))
				mock.ExpectQuery(`SELECT email`).
					WithArgs("Chess Club").
					WillReturnRows(sqlmock.NewRows([]string{"email"}))
				mock.ExpectExec(`DELETE FROM activity_participants`).
					WithArgs("Chess Club").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`INSERT INTO activity_participants`).
					WithArgs("Chess Club", "alice.test@mergington.edu", 0).
					WillReturnError(errors.New("unique violation"))
				mock.ExpectRollback()
			},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewActivityRepository(db)
			got, err := repo.Update(ctx, tt.activity, tt.fn)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.activity, got.Name)
				assert.Equal(t, tt.want, got.Participants)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	seed := []*domain.Activity{
		domain.NewActivity("Chess Club", "Chess", "Fridays", 12, "michael@mergington.edu"),
		domain.NewActivity("Art Club", "Art", "Thursdays", 15, "amelia@mergington.edu"),
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS activities`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS activity_participants`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	// Chess Club is new and gets its roster.
	mock.ExpectExec(`INSERT INTO activities .* ON CONFLICT \(name\) DO NOTHING`).
		WithArgs("Chess Club", "Chess", "Fridays", 12, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM activity_participants`).
		WithArgs("Chess Club").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO activity_participants`).
		WithArgs("Chess Club", "michael@mergington.edu", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Art Club already exists, its roster is kept.
	mock.ExpectExec(`INSERT INTO activities`).
		WithArgs("Art Club", "Art", "Thursdays", 15, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, Migrate(ctx, db, seed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS activities`).WillReturnError(sql.ErrConnDone)

	err = Migrate(context.Background(), db, domain.SeedActivities())
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}
