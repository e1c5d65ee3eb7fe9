package model

import "time"

// DateLayout is the calendar-date form used on the wire and in storage.
const DateLayout = "2006-01-02"

// StatusConfirmed is the only status a booking can have; there are no
// transitions out of it (cancellation deletes the record outright).
const StatusConfirmed = "confirmed"

// Appointment is the sole stored entity. Identity is by (date, time) for
// slot uniqueness and by contact for cancellation lookup.
type Appointment struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Contact      string    `json:"contact"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Time         string    `json:"time"` // free-form, compared by string equality
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	ReminderSent bool      `json:"reminder_sent"`
}

// OccupiesSlot reports whether the appointment holds the given slot.
func (a Appointment) OccupiesSlot(date, timeOfDay string) bool {
	return a.Date == date && a.Time == timeOfDay
}
