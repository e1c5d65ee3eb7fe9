package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/smartbooker/backend/internal/model"
)

func TestSynced_UpdateAbortsWithoutSave(t *testing.T) {
	mem := NewMemoryStore()
	s := NewSynced(mem)
	ctx := context.Background()

	if err := s.Update(ctx, func(a []model.Appointment) ([]model.Appointment, error) {
		return append(a, model.Appointment{ID: 1, Contact: "a@x.com"}), nil
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	boom := errors.New("boom")
	err := s.Update(ctx, func(a []model.Appointment) ([]model.Appointment, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to propagate, got %v", err)
	}

	appointments, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(appointments) != 1 {
		t.Fatalf("aborted update must not save; got %d records", len(appointments))
	}
}

func TestSynced_ConcurrentUpdatesLoseNothing(t *testing.T) {
	s := NewSynced(NewMemoryStore())
	ctx := context.Background()

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = s.Update(ctx, func(a []model.Appointment) ([]model.Appointment, error) {
				return append(a, model.Appointment{
					ID:      len(a) + 1,
					Contact: fmt.Sprintf("user-%d@x.com", n),
					Date:    "2025-03-10",
					Time:    fmt.Sprintf("%02d:00", n),
				}), nil
			})
		}(i)
	}
	wg.Wait()

	appointments, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(appointments) != writers {
		t.Fatalf("lost updates: expected %d records, got %d", writers, len(appointments))
	}
	seen := map[int]bool{}
	for _, a := range appointments {
		if seen[a.ID] {
			t.Fatalf("duplicate id %d in snapshot", a.ID)
		}
		seen[a.ID] = true
	}
}
