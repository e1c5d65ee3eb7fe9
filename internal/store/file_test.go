package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartbooker/backend/internal/model"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "appointments.json"))
	appointments, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(appointments) != 0 {
		t.Fatalf("expected empty snapshot, got %d records", len(appointments))
	}
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	s := NewFileStore(path)
	appointments, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt file should read as empty, got error: %v", err)
	}
	if len(appointments) != 0 {
		t.Fatalf("expected empty snapshot, got %d records", len(appointments))
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "appointments.json"))
	ctx := context.Background()

	want := []model.Appointment{
		{
			ID:        1,
			Name:      "Ada",
			Contact:   "a@x.com",
			Date:      "2025-03-10",
			Time:      "10:00",
			Status:    model.StatusConfirmed,
			CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           2,
			Contact:      "b@x.com",
			Date:         "2025-03-11",
			Time:         "11:00",
			Status:       model.StatusConfirmed,
			CreatedAt:    time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
			ReminderSent: true,
		},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Contact != want[i].Contact ||
			got[i].Date != want[i].Date || got[i].Time != want[i].Time ||
			got[i].Status != want[i].Status || got[i].ReminderSent != want[i].ReminderSent {
			t.Fatalf("record %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("record %d created_at mismatch: got %s want %s", i, got[i].CreatedAt, want[i].CreatedAt)
		}
	}
}

func TestFileStore_Ensure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	s := NewFileStore(path)

	if err := s.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", raw)
	}

	// Second call must not clobber existing state.
	if err := s.Save(context.Background(), []model.Appointment{{ID: 1, Contact: "a@x.com"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	appointments, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(appointments) != 1 {
		t.Fatalf("Ensure overwrote existing state: %d records", len(appointments))
	}
}
