package domain

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for activity roster operations.
var (
	ErrAlreadySignedUp = errors.New("student already signed up")
	ErrNotRegistered   = errors.New("student not registered for this activity")
	ErrActivityFull    = errors.New("activity is full")
)

// Activity is an extracurricular offering and its roster. The name is the
// directory key and is not part of the JSON record.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// NewActivity returns a new Activity with a copy of the given roster.
func NewActivity(name, description, schedule string, maxParticipants int, participants ...string) *Activity {
	return &Activity{
		Name:            name,
		Description:     description,
		Schedule:        schedule,
		MaxParticipants: maxParticipants,
		Participants:    append([]string{}, participants...),
	}
}

// Clone returns a deep copy so callers never share a roster slice with a store.
func (a *Activity) Clone() *Activity {
	if a == nil {
		return nil
	}
	c := *a
	c.Participants = append([]string{}, a.Participants...)
	return &c
}

// SpotsLeft is the remaining capacity, never negative.
func (a *Activity) SpotsLeft() int {
	if n := a.MaxParticipants - len(a.Participants); n > 0 {
		return n
	}
	return 0
}

// indexOf finds email in the roster ignoring case.
func (a *Activity) indexOf(email string) int {
	for i, p := range a.Participants {
		if strings.EqualFold(p, email) {
			return i
		}
	}
	return -1
}

// HasParticipant reports whether email is on the roster. Comparison ignores case.
func (a *Activity) HasParticipant(email string) bool {
	return a.indexOf(email) >= 0
}

// Signup appends email to the end of the roster.
func (a *Activity) Signup(email string) error {
	if a.HasParticipant(email) {
		return ErrAlreadySignedUp
	}
	if len(a.Participants) >= a.MaxParticipants {
		return ErrActivityFull
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes email from the roster, keeping the order of everyone else.
// It returns the roster entry that was removed, which may differ in case from email.
func (a *Activity) Unregister(email string) (string, error) {
	i := a.indexOf(email)
	if i < 0 {
		return "", ErrNotRegistered
	}
	removed := a.Participants[i]
	a.Participants = append(a.Participants[:i:i], a.Participants[i+1:]...)
	return removed, nil
}

// ActivityRepository defines storage for the activity directory.
// Update runs fn against the current state of one activity and persists the
// result atomically; if fn returns an error nothing is written and the error
// is returned unchanged.
type ActivityRepository interface {
	List(ctx context.Context) ([]*Activity, error)
	Update(ctx context.Context, name string, fn func(*Activity) error) (*Activity, error)
}

// ActivityService defines the directory operations exposed to participants.
type ActivityService interface {
	ListActivities(ctx context.Context) (map[string]*Activity, error)
	Signup(ctx context.Context, activityName, email string) (*Activity, error)
	Unregister(ctx context.Context, activityName, email string) (*Activity, error)
}
