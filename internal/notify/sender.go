package notify

import (
	"context"
	"fmt"

	"github.com/smartbooker/backend/internal/model"
)

// Sender delivers a reminder for one appointment. Failures are reported to
// the caller but are never fatal to the process.
type Sender interface {
	Send(ctx context.Context, appt model.Appointment) error
	ProviderID() string
}

func reminderSubject() string {
	return "Appointment Reminder - SmartBooker"
}

func reminderBody(appt model.Appointment) string {
	return fmt.Sprintf("Your appointment is scheduled for %s at %s.", appt.Date, appt.Time)
}
