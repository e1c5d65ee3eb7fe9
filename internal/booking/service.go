package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/smartbooker/backend/internal/events"
	"github.com/smartbooker/backend/internal/model"
	"github.com/smartbooker/backend/internal/notify"
	"github.com/smartbooker/backend/internal/store"
)

// Service owns every mutation of the appointment snapshot: booking,
// cancellation and the availability query. All cycles run through the
// synced store, so concurrent requests cannot interleave load-mutate-save.
type Service struct {
	store     *store.Synced
	sender    notify.Sender
	events    *events.Publisher
	logger    *slog.Logger
	demoDelay time.Duration
	now       func() time.Time
}

type Config struct {
	// DemoDelay is how long the per-booking demo reminder waits before
	// firing.
	DemoDelay time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func NewService(st *store.Synced, sender notify.Sender, publisher *events.Publisher, logger *slog.Logger, cfg Config) *Service {
	if cfg.DemoDelay <= 0 {
		cfg.DemoDelay = 10 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		store:     st,
		sender:    sender,
		events:    publisher,
		logger:    logger,
		demoDelay: cfg.DemoDelay,
		now:       cfg.Now,
	}
}

type BookInput struct {
	Name    string
	Contact string
	Date    string
	Time    string
}

// CheckAvailability reports whether the (date, time) slot is free. Pure
// read; slots are compared by exact string equality.
func (s *Service) CheckAvailability(ctx context.Context, date, timeOfDay string) (bool, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(timeOfDay) == "" {
		return false, validationError("Date and time are required")
	}

	appointments, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}
	return !slotTaken(appointments, date, timeOfDay), nil
}

// Book validates and commits a new appointment. The slot is re-checked
// against the snapshot loaded inside the same cycle that saves, so a prior
// /check result going stale cannot cause a double booking.
func (s *Service) Book(ctx context.Context, in BookInput) (model.Appointment, error) {
	if strings.TrimSpace(in.Contact) == "" {
		return model.Appointment{}, validationError("Contact information is required")
	}
	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" {
		return model.Appointment{}, validationError("Date and time are required")
	}

	var booked model.Appointment
	err := s.store.Update(ctx, func(appointments []model.Appointment) ([]model.Appointment, error) {
		if slotTaken(appointments, in.Date, in.Time) {
			return nil, ErrSlotTaken
		}
		booked = model.Appointment{
			// Ids derive from the snapshot length, so one vacated by a
			// cancellation can be reused by a later booking. Kept as-is:
			// callers depend on the numbering.
			ID:           len(appointments) + 1,
			Name:         in.Name,
			Contact:      in.Contact,
			Date:         in.Date,
			Time:         in.Time,
			Status:       model.StatusConfirmed,
			CreatedAt:    s.now(),
			ReminderSent: false,
		}
		return append(appointments, booked), nil
	})
	if err != nil {
		return model.Appointment{}, err
	}

	s.logger.Info("appointment booked",
		"appointment_id", booked.ID,
		"contact", booked.Contact,
		"date", booked.Date,
		"time", booked.Time,
	)
	s.events.AppointmentBooked(ctx, booked)
	s.spawnDemoReminder(booked)

	return booked, nil
}

// Cancel removes the first appointment whose contact matches exactly.
// It reports found=false when nothing matched; that is not an error.
// At most one appointment is removed per call even if the contact holds
// several bookings.
func (s *Service) Cancel(ctx context.Context, contact string) (bool, error) {
	if strings.TrimSpace(contact) == "" {
		return false, validationError("Contact information is required")
	}

	var cancelled model.Appointment
	found := false
	err := s.store.Update(ctx, func(appointments []model.Appointment) ([]model.Appointment, error) {
		for i, a := range appointments {
			if a.Contact == contact {
				cancelled = a
				found = true
				return append(appointments[:i], appointments[i+1:]...), nil
			}
		}
		return appointments, nil
	})
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	s.logger.Info("appointment cancelled",
		"appointment_id", cancelled.ID,
		"contact", cancelled.Contact,
		"date", cancelled.Date,
		"time", cancelled.Time,
	)
	s.events.AppointmentCancelled(ctx, cancelled)
	return true, nil
}

// List returns the full snapshot.
func (s *Service) List(ctx context.Context) ([]model.Appointment, error) {
	return s.store.Load(ctx)
}

// spawnDemoReminder fires a one-shot confirmation reminder after a fixed
// delay, carrying the record as booked. It is detached: no handle, no
// cancellation, failures and panics only logged.
func (s *Service) spawnDemoReminder(appt model.Appointment) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("demo reminder panicked", "panic", r, "appointment_id", appt.ID)
			}
		}()

		time.Sleep(s.demoDelay)
		if err := s.sender.Send(context.Background(), appt); err != nil {
			s.logger.Error("demo reminder send failed", "err", err, "appointment_id", appt.ID)
			return
		}
		s.logger.Info("demo reminder sent", "appointment_id", appt.ID, "contact", appt.Contact)
	}()
}

func slotTaken(appointments []model.Appointment, date, timeOfDay string) bool {
	for _, a := range appointments {
		if a.OccupiesSlot(date, timeOfDay) {
			return true
		}
	}
	return false
}
