package notify

import (
	"context"
	"log/slog"

	"github.com/smartbooker/backend/internal/model"
)

// LogSender is the default simulated side-channel: it writes the reminder
// to the structured log instead of a real transport.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) ProviderID() string {
	return "log"
}

func (s *LogSender) Send(_ context.Context, appt model.Appointment) error {
	s.logger.Info("sending reminder",
		"to", appt.Contact,
		"subject", reminderSubject(),
		"message", reminderBody(appt),
	)
	return nil
}
