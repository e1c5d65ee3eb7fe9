package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/smartbooker/backend/internal/booking"
)

// BookingHandler exposes the public JSON surface: /check, /book, /cancel,
// /appointments and /health.
type BookingHandler struct {
	svc    *booking.Service
	logger *slog.Logger
	now    func() time.Time
}

func NewBookingHandler(svc *booking.Service, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger, now: time.Now}
}

type checkRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type bookRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type cancelRequest struct {
	Contact string `json:"contact"`
}

func (h *BookingHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	available, err := h.svc.CheckAvailability(r.Context(), req.Date, req.Time)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": available})
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	appt, err := h.svc.Book(r.Context(), booking.BookInput{
		Name:    req.Name,
		Contact: req.Contact,
		Date:    req.Date,
		Time:    req.Time,
	})
	if err != nil {
		if errors.Is(err, booking.ErrSlotTaken) {
			writeError(w, http.StatusConflict, "Time slot no longer available")
			return
		}
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"appointment_id": appt.ID,
		"message":        "Appointment booked successfully",
	})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	found, err := h.svc.Cancel(r.Context(), req.Contact)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !found {
		// A miss is a negative result, not an HTTP error.
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "No appointment found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Appointment cancelled successfully",
	})
}

func (h *BookingHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	appointments, err := h.svc.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *BookingHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

func (h *BookingHandler) writeServiceError(w http.ResponseWriter, err error) {
	if booking.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
