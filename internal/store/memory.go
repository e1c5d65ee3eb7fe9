package store

import (
	"context"
	"sync"

	"github.com/smartbooker/backend/internal/model"
)

// MemoryStore keeps the snapshot in memory. Used by tests and useful as a
// throwaway backend for local demos.
type MemoryStore struct {
	mu           sync.Mutex
	appointments []model.Appointment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, appointments []model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = make([]model.Appointment, len(appointments))
	copy(s.appointments, appointments)
	return nil
}
