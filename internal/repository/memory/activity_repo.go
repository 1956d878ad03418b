// Package memory holds the process-local activity directory. State lives as
// long as the process does.
package memory

import (
	"context"
	"sync"

	"activitysignup/internal/domain"
)

// ActivityRepository is a mutex-guarded in-memory directory. The set of
// activities is fixed at construction; only rosters change.
type ActivityRepository struct {
	mu         sync.RWMutex
	order      []string
	activities map[string]*domain.Activity
}

// NewActivityRepository seeds a directory from the given activities, keeping their order.
func NewActivityRepository(seed []*domain.Activity) *ActivityRepository {
	r := &ActivityRepository{
		activities: make(map[string]*domain.Activity, len(seed)),
	}
	for _, a := range seed {
		if _, ok := r.activities[a.Name]; ok {
			continue
		}
		r.order = append(r.order, a.Name)
		r.activities[a.Name] = a.Clone()
	}
	return r
}

func (r *ActivityRepository) List(_ context.Context) ([]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Activity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.activities[name].Clone())
	}
	return out, nil
}

func (r *ActivityRepository) Update(_ context.Context, name string, fn func(*domain.Activity) error) (*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.activities[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.Name = name
	r.activities[name] = working
	return working.Clone(), nil
}

// Snapshot is a deep copy of the directory, keyed by activity name.
type Snapshot map[string]*domain.Activity

// Snapshot captures the current directory.
func (r *ActivityRepository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(Snapshot, len(r.activities))
	for name, a := range r.activities {
		snap[name] = a.Clone()
	}
	return snap
}

// Restore replaces every roster with the one recorded in snap. Activities
// missing from snap are left untouched.
func (r *ActivityRepository) Restore(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, a := range snap {
		if _, ok := r.activities[name]; ok {
			r.activities[name] = a.Clone()
		}
	}
}
