package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartbooker/backend/internal/booking"
	"github.com/smartbooker/backend/internal/events"
	"github.com/smartbooker/backend/internal/notify"
	"github.com/smartbooker/backend/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	synced := store.NewSynced(store.NewMemoryStore())
	svc := booking.NewService(synced, notify.NewNoopSender(), events.NewPublisher("", logger), logger, booking.Config{
		DemoDelay: time.Millisecond,
	})
	h := NewBookingHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/check", h.Check)
	mux.HandleFunc("/book", h.Book)
	mux.HandleFunc("/cancel", h.Cancel)
	mux.HandleFunc("/appointments", h.Appointments)
	mux.HandleFunc("/health", h.Health)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	return out
}

func TestBookAndCheckFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/book", `{"contact":"a@x.com","date":"2025-03-10","time":"10:00"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body)
	}
	if body["appointment_id"] != float64(1) {
		t.Fatalf("expected appointment_id 1, got %v", body["appointment_id"])
	}

	// Booked slot is now unavailable, a different time is free.
	resp, body = postJSON(t, srv.URL+"/check", `{"date":"2025-03-10","time":"10:00"}`)
	if resp.StatusCode != http.StatusOK || body["available"] != false {
		t.Fatalf("expected available=false, got %d %v", resp.StatusCode, body)
	}
	resp, body = postJSON(t, srv.URL+"/check", `{"date":"2025-03-10","time":"11:00"}`)
	if resp.StatusCode != http.StatusOK || body["available"] != true {
		t.Fatalf("expected available=true, got %d %v", resp.StatusCode, body)
	}
}

func TestBook_Conflict(t *testing.T) {
	srv := newTestServer(t)

	if resp, _ := postJSON(t, srv.URL+"/book", `{"contact":"a@x.com","date":"2025-03-10","time":"10:00"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("first booking failed with %d", resp.StatusCode)
	}

	resp, body := postJSON(t, srv.URL+"/book", `{"contact":"b@x.com","date":"2025-03-10","time":"10:00"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if body["error"] != "Time slot no longer available" {
		t.Fatalf("unexpected conflict body: %v", body)
	}

	// Store unchanged: one stored appointment.
	resp, err := http.Get(srv.URL + "/appointments")
	if err != nil {
		t.Fatalf("GET /appointments failed: %v", err)
	}
	listBody := decodeBody(t, resp)
	appointments, ok := listBody["appointments"].([]any)
	if !ok || len(appointments) != 1 {
		t.Fatalf("expected 1 stored appointment, got %v", listBody)
	}
}

func TestBook_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/book", `{"date":"2025-03-10","time":"10:00"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Contact information is required" {
		t.Fatalf("unexpected error body: %v", body)
	}

	resp, body = postJSON(t, srv.URL+"/book", `{"contact":"a@x.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Date and time are required" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestCheck_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/check", `{"date":"2025-03-10"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Date and time are required" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestCancel_FlowAndMiss(t *testing.T) {
	srv := newTestServer(t)

	if resp, _ := postJSON(t, srv.URL+"/book", `{"contact":"a@x.com","date":"2025-03-10","time":"10:00"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("booking failed with %d", resp.StatusCode)
	}

	resp, body := postJSON(t, srv.URL+"/cancel", `{"contact":"a@x.com"}`)
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("expected successful cancel, got %d %v", resp.StatusCode, body)
	}

	resp, body = postJSON(t, srv.URL+"/cancel", `{"contact":"a@x.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel miss must still be 200, got %d", resp.StatusCode)
	}
	if body["success"] != false || body["message"] != "No appointment found" {
		t.Fatalf("unexpected miss body: %v", body)
	}

	resp, body = postJSON(t, srv.URL+"/cancel", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing contact, got %d", resp.StatusCode)
	}
	if body["error"] != "Contact information is required" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	body := decodeBody(t, resp)
	if resp.StatusCode != http.StatusOK || body["status"] != "healthy" {
		t.Fatalf("unexpected health response: %d %v", resp.StatusCode, body)
	}
	ts, _ := body["timestamp"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Fatalf("timestamp not RFC 3339: %q", ts)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/book")
	if err != nil {
		t.Fatalf("GET /book failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
