package store

import (
	"context"

	"github.com/smartbooker/backend/internal/model"
)

// AppointmentStore is the durable snapshot contract: Load returns the full
// ordered set of appointments (empty if no prior state), Save overwrites it
// wholesale. Implementations provide no atomicity across a load-mutate-save
// cycle; callers that mutate must go through Synced.
type AppointmentStore interface {
	Load(ctx context.Context) ([]model.Appointment, error)
	Save(ctx context.Context, appointments []model.Appointment) error
}
