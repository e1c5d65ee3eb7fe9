package store

import (
	"context"
	"sync"

	"github.com/smartbooker/backend/internal/model"
)

// MutateFunc transforms a snapshot. It may return the input slice modified
// in place. Returning an error aborts the cycle without saving.
type MutateFunc func(appointments []model.Appointment) ([]model.Appointment, error)

// Synced wraps an AppointmentStore and serializes every load-mutate-save
// cycle through one mutex. The underlying stores overwrite the whole
// snapshot on Save, so two interleaved cycles would silently drop one
// writer's changes; funnelling all mutations through Update closes that.
type Synced struct {
	mu    sync.Mutex
	inner AppointmentStore
}

func NewSynced(inner AppointmentStore) *Synced {
	return &Synced{inner: inner}
}

// Load returns the current snapshot. Reads are taken under the same mutex
// so a reader never observes a half-finished cycle.
func (s *Synced) Load(ctx context.Context) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Load(ctx)
}

// Update runs one atomic load-mutate-save cycle. The snapshot is saved only
// when fn succeeds.
func (s *Synced) Update(ctx context.Context, fn MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointments, err := s.inner.Load(ctx)
	if err != nil {
		return err
	}
	appointments, err = fn(appointments)
	if err != nil {
		return err
	}
	return s.inner.Save(ctx, appointments)
}
