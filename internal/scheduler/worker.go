package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/smartbooker/backend/internal/events"
	"github.com/smartbooker/backend/internal/model"
	"github.com/smartbooker/backend/internal/notify"
	"github.com/smartbooker/backend/internal/store"
)

// Worker is the perpetual reminder scanner. Each cycle it loads the full
// snapshot and fires a reminder for every appointment that is exactly one
// day away, during the configured hour of day, at most once per record.
//
// The window check is hour-granular: if the process is down or a cycle is
// delayed past the target hour, that day's reminders are skipped for good.
// There is no catch-up.
type Worker struct {
	store      *store.Synced
	sender     notify.Sender
	events     *events.Publisher
	logger     *slog.Logger
	interval   time.Duration
	targetHour int
	now        func() time.Time
}

type Config struct {
	// Interval between scans. The first scan runs immediately on start.
	Interval time.Duration
	// TargetHour is the local hour of day during which due reminders fire.
	TargetHour int
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func NewWorker(st *store.Synced, sender notify.Sender, publisher *events.Publisher, logger *slog.Logger, cfg Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.TargetHour < 0 || cfg.TargetHour > 23 {
		cfg.TargetHour = 9
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Worker{
		store:      st,
		sender:     sender,
		events:     publisher,
		logger:     logger,
		interval:   cfg.Interval,
		targetHour: cfg.TargetHour,
		now:        cfg.Now,
	}
}

// Run alternates between scanning and sleeping until ctx is cancelled.
// Cycle errors are logged and swallowed; the loop never dies on its own.
func (w *Worker) Run(ctx context.Context) {
	w.runScan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runScan(ctx)
		}
	}
}

func (w *Worker) runScan(ctx context.Context) {
	if err := w.Scan(ctx); err != nil {
		w.logger.Error("reminder scan failed", "err", err)
	}
}

// Scan performs one full pass over the snapshot. Exported so tests can
// drive cycles directly.
func (w *Worker) Scan(ctx context.Context) error {
	appointments, err := w.store.Load(ctx)
	if err != nil {
		return err
	}

	for _, appt := range appointments {
		if appt.ReminderSent {
			continue
		}

		due, err := w.dueNow(appt)
		if err != nil {
			w.logger.Error("skipping appointment with invalid date",
				"err", err, "appointment_id", appt.ID, "date", appt.Date)
			continue
		}
		if !due {
			continue
		}

		w.fire(ctx, appt)
	}
	return nil
}

// dueNow reports whether the reminder window is open for this appointment:
// current date equals the appointment date minus one day, and the current
// hour equals the target hour.
func (w *Worker) dueNow(appt model.Appointment) (bool, error) {
	apptDate, err := time.ParseInLocation(model.DateLayout, appt.Date, time.Local)
	if err != nil {
		return false, err
	}

	now := w.now()
	remindDay := apptDate.AddDate(0, 0, -1)
	sameDay := now.Year() == remindDay.Year() &&
		now.Month() == remindDay.Month() &&
		now.Day() == remindDay.Day()
	return sameDay && now.Hour() == w.targetHour, nil
}

// fire sends the reminder and, on success, flips reminder_sent and persists
// the whole snapshot before the scan moves to the next record.
func (w *Worker) fire(ctx context.Context, appt model.Appointment) {
	if err := w.sender.Send(ctx, appt); err != nil {
		w.logger.Error("reminder send failed", "err", err, "appointment_id", appt.ID, "contact", appt.Contact)
		return
	}

	flipped := false
	err := w.store.Update(ctx, func(appointments []model.Appointment) ([]model.Appointment, error) {
		for i, a := range appointments {
			if a.ID == appt.ID && a.OccupiesSlot(appt.Date, appt.Time) && !a.ReminderSent {
				appointments[i].ReminderSent = true
				flipped = true
				break
			}
		}
		return appointments, nil
	})
	if err != nil {
		w.logger.Error("failed to persist reminder flag", "err", err, "appointment_id", appt.ID)
		return
	}
	if !flipped {
		// Record vanished or was already handled between load and save.
		return
	}

	w.events.ReminderSent(ctx, appt, w.sender.ProviderID())
	w.logger.Info("reminder sent", "appointment_id", appt.ID, "contact", appt.Contact, "date", appt.Date)
}
