package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"activitysignup/internal/domain"
	"activitysignup/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	err           error
	confirmations []*domain.RosterEmailData
	notices       []*domain.RosterEmailData
}

func (f *fakeEmailService) SendSignupConfirmation(ctx context.Context, data *domain.RosterEmailData) error {
	f.confirmations = append(f.confirmations, data)
	return f.err
}

func (f *fakeEmailService) SendUnregisterNotice(ctx context.Context, data *domain.RosterEmailData) error {
	f.notices = append(f.notices, data)
	return f.err
}

// failingRepo implements domain.ActivityRepository and fails every call.
type failingRepo struct {
	err error
}

func (f *failingRepo) List(ctx context.Context) ([]*domain.Activity, error) { return nil, f.err }
func (f *failingRepo) Update(ctx context.Context, name string, fn func(*domain.Activity) error) (*domain.Activity, error) {
	return nil, f.err
}

func newTestService(emails domain.EmailService) (domain.ActivityService, *memory.ActivityRepository) {
	repo := memory.NewActivityRepository(domain.SeedActivities())
	return NewActivityService(repo, emails, testLogger), repo
}

func TestActivityService_ListActivities(t *testing.T) {
	svc, _ := newTestService(nil)

	got, err := svc.ListActivities(context.Background())
	require.NoError(t, err)

	for _, a := range domain.SeedActivities() {
		require.Contains(t, got, a.Name)
		assert.Equal(t, a.Participants, got[a.Name].Participants)
	}
}

func TestActivityService_ListActivities_RepoError(t *testing.T) {
	svc := NewActivityService(&failingRepo{err: errors.New("db down")}, nil, testLogger)

	_, err := svc.ListActivities(context.Background())
	require.Error(t, err)
}

func TestActivityService_SignupDuplicateUnregisterFlow(t *testing.T) {
	ctx := context.Background()
	emails := &fakeEmailService{}
	svc, _ := newTestService(emails)
	const email = "alice.test@mergington.edu"

	a, err := svc.Signup(ctx, "Chess Club", email)
	require.NoError(t, err)
	assert.Equal(t, email, a.Participants[len(a.Participants)-1])

	_, err = svc.Signup(ctx, "Chess Club", email)
	require.ErrorIs(t, err, domain.ErrAlreadySignedUp)

	list, err := svc.ListActivities(ctx)
	require.NoError(t, err)
	count := 0
	for _, p := range list["Chess Club"].Participants {
		if p == email {
			count++
		}
	}
	assert.Equal(t, 1, count)

	a, err = svc.Unregister(ctx, "Chess Club", email)
	require.NoError(t, err)
	assert.NotContains(t, a.Participants, email)

	_, err = svc.Unregister(ctx, "Chess Club", email)
	require.ErrorIs(t, err, domain.ErrNotRegistered)

	require.Len(t, emails.confirmations, 1)
	assert.Equal(t, "Chess Club", emails.confirmations[0].ActivityName)
	assert.Equal(t, 9, emails.confirmations[0].SpotsLeft)
	require.Len(t, emails.notices, 1)
	assert.Equal(t, email, emails.notices[0].Email)
}

func TestActivityService_Signup_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		activity string
		email    string
		wantErr  error
	}{
		{"unknown activity", "Knitting", "a@mergington.edu", domain.ErrNotFound},
		{"blank email", "Chess Club", "   ", domain.ErrInvalidInput},
		{"malformed email", "Chess Club", "not-an-email", domain.ErrInvalidInput},
		{"case variant duplicate", "Chess Club", "MICHAEL@mergington.edu", domain.ErrAlreadySignedUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(nil)
			_, err := svc.Signup(ctx, tt.activity, tt.email)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestActivityService_Signup_TrimsEmail(t *testing.T) {
	svc, _ := newTestService(nil)

	a, err := svc.Signup(context.Background(), "Art Club", "  bea@mergington.edu ")
	require.NoError(t, err)
	assert.Contains(t, a.Participants, "bea@mergington.edu")
}

func TestActivityService_Signup_Full(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewActivityRepository([]*domain.Activity{
		domain.NewActivity("Chess Club", "desc", "Fridays", 2, "michael@mergington.edu", "daniel@mergington.edu"),
	})
	svc := NewActivityService(repo, nil, testLogger)

	_, err := svc.Signup(ctx, "Chess Club", "full.test@mergington.edu")
	require.ErrorIs(t, err, domain.ErrActivityFull)

	list, err := svc.ListActivities(ctx)
	require.NoError(t, err)
	assert.Len(t, list["Chess Club"].Participants, 2)
}

func TestActivityService_EmailFailureDoesNotFailSignup(t *testing.T) {
	svc, _ := newTestService(&fakeEmailService{err: errors.New("ses throttled")})

	_, err := svc.Signup(context.Background(), "Drama Club", "new@mergington.edu")
	require.NoError(t, err)
	_, err = svc.Unregister(context.Background(), "Drama Club", "new@mergington.edu")
	require.NoError(t, err)
}

func TestActivityService_Unregister_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		activity string
		email    string
		wantErr  error
	}{
		{"unknown activity", "Knitting", "michael@mergington.edu", domain.ErrNotFound},
		{"not registered", "Chess Club", "not.registered@mergington.edu", domain.ErrNotRegistered},
		{"missing email", "Chess Club", "", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(nil)
			_, err := svc.Unregister(ctx, tt.activity, tt.email)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestActivityService_Unregister_CaseInsensitive(t *testing.T) {
	emails := &fakeEmailService{}
	svc, _ := newTestService(emails)

	a, err := svc.Unregister(context.Background(), "Chess Club", "Michael@Mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, []string{"daniel@mergington.edu"}, a.Participants)
	require.Len(t, emails.notices, 1)
	assert.Equal(t, "michael@mergington.edu", emails.notices[0].Email)
}

func TestActivityService_InfoLogsOmitEmail(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	repo := memory.NewActivityRepository(domain.SeedActivities())
	svc := NewActivityService(repo, &fakeEmailService{err: errors.New("ses throttled")}, logger)

	_, err := svc.Signup(context.Background(), "Art Club", "private.person@mergington.edu")
	require.NoError(t, err)
	_, err = svc.Unregister(context.Background(), "Art Club", "private.person@mergington.edu")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "participant signed up")
	assert.Contains(t, out, "participant unregistered")
	assert.Contains(t, out, "not sent")
	assert.NotContains(t, out, "private.person@mergington.edu")
}
