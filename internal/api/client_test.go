package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harborview/opsync/internal/model"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com", "test-token")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.token != "test-token" {
			t.Errorf("token = %q, want %q", c.token, "test-token")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.retryBackoff != time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with retries option", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithRetries(5, 2*time.Second))
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", "", WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", "", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})

	t.Run("empty token", func(t *testing.T) {
		c := NewClient("https://api.example.com", "")
		if c.token != "" {
			t.Errorf("token = %q, want empty", c.token)
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{
			StatusCode: 404,
			Message:    "Not Found",
			Body:       []byte(`{"error": "room not found"}`),
		}
		expected := "api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{504, true},
			{429, true},
			{400, false},
			{401, false},
			{403, false},
			{404, false},
			{200, false},
			{499, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.expected {
				t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})
}

// TestDoRequest tests the HTTP request functionality.
func TestDoRequest(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if r.Header.Get("Authorization") != "Bearer test-token" {
				t.Errorf("Authorization header = %q, want %q", r.Header.Get("Authorization"), "Bearer test-token")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-token")
		body, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"status": "ok"}` {
			t.Errorf("body = %q, want %q", string(body), `{"status": "ok"}`)
		}
	})

	t.Run("request without token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				t.Errorf("Authorization header should be empty, got %q", r.Header.Get("Authorization"))
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "")
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("request with query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") != "10" {
				t.Errorf("limit = %q, want %q", r.URL.Query().Get("limit"), "10")
			}
			if r.URL.Query().Get("cursor") != "abc123" {
				t.Errorf("cursor = %q, want %q", r.URL.Query().Get("cursor"), "abc123")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		query := make(map[string][]string)
		query["limit"] = []string{"10"}
		query["cursor"] = []string{"abc123"}
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("4xx error returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "not found"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, 404)
		}
		if !strings.Contains(string(apiErr.Body), "not found") {
			t.Errorf("Body should contain 'not found', got %q", string(apiErr.Body))
		}
	})

	t.Run("5xx error returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`internal error`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != 500 {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, 500)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := c.doRequest(ctx, http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "context canceled") {
			t.Errorf("error should contain 'context canceled', got %v", err)
		}
	})
}

// TestDoWithRetry tests the retry logic.
func TestDoWithRetry(t *testing.T) {
	t.Run("succeeds on first try", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token", WithRetries(3, 10*time.Millisecond))
		body, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"ok": true}` {
			t.Errorf("body = %q, want %q", string(body), `{"ok": true}`)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("retries on 5xx and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&attempts, 1)
			if n < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`error`))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token", WithRetries(3, 10*time.Millisecond))
		body, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"ok": true}` {
			t.Errorf("body = %q, want %q", string(body), `{"ok": true}`)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("retries on 429 and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&attempts, 1)
			if n == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`rate limited`))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token", WithRetries(3, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	})

	t.Run("does not retry on 4xx (except 429)", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`bad request`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token", WithRetries(3, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`error`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token", WithRetries(2, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "max retries exceeded") {
			t.Errorf("error should contain 'max retries exceeded', got %v", err)
		}
		// 1 initial + 2 retries = 3 attempts
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("context cancellation during retry", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, "token", WithRetries(5, 50*time.Millisecond))
		ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
		defer cancel()

		_, err := c.doWithRetry(ctx, http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "context") {
			t.Errorf("error should be context-related, got %v", err)
		}
	})
}

// TestGetRooms tests the GetRooms method.
func TestGetRooms(t *testing.T) {
	t.Run("basic request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rooms" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/rooms")
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(RoomsResponse{
				Rooms: []model.Room{
					{Number: "101", Floor: 1, Status: model.RoomAvailable},
					{Number: "102", Floor: 1, Status: model.RoomOccupied},
				},
				Cursor: "",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		resp, err := c.GetRooms(context.Background(), GetRoomsOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Rooms) != 2 {
			t.Errorf("len(Rooms) = %d, want 2", len(resp.Rooms))
		}
		if resp.Rooms[0].Number != "101" {
			t.Errorf("Rooms[0].Number = %q, want %q", resp.Rooms[0].Number, "101")
		}
	})

	t.Run("with options", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("limit") != "100" {
				t.Errorf("limit = %q, want %q", q.Get("limit"), "100")
			}
			if q.Get("cursor") != "cursor123" {
				t.Errorf("cursor = %q, want %q", q.Get("cursor"), "cursor123")
			}
			if q.Get("floor") != "3" {
				t.Errorf("floor = %q, want %q", q.Get("floor"), "3")
			}
			if q.Get("status") != "available" {
				t.Errorf("status = %q, want %q", q.Get("status"), "available")
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(RoomsResponse{Rooms: []model.Room{}, Cursor: ""})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		_, err := c.GetRooms(context.Background(), GetRoomsOptions{
			Limit:  100,
			Cursor: "cursor123",
			Floor:  3,
			Status: "available",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestGetAllRooms tests pagination through all rooms.
func TestGetAllRooms(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(RoomsResponse{
				Rooms:  []model.Room{{Number: "101"}, {Number: "102"}},
				Cursor: "",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		rooms, err := c.GetAllRooms(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rooms) != 2 {
			t.Errorf("len(rooms) = %d, want 2", len(rooms))
		}
	})

	t.Run("multiple pages", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			cursor := r.URL.Query().Get("cursor")

			switch {
			case count == 1 && cursor == "":
				json.NewEncoder(w).Encode(RoomsResponse{
					Rooms:  []model.Room{{Number: "101"}, {Number: "102"}},
					Cursor: "page2",
				})
			case count == 2 && cursor == "page2":
				json.NewEncoder(w).Encode(RoomsResponse{
					Rooms:  []model.Room{{Number: "201"}},
					Cursor: "page3",
				})
			case count == 3 && cursor == "page3":
				json.NewEncoder(w).Encode(RoomsResponse{
					Rooms:  []model.Room{{Number: "301"}},
					Cursor: "",
				})
			default:
				t.Errorf("unexpected request: count=%d cursor=%q", count, cursor)
			}
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		rooms, err := c.GetAllRooms(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rooms) != 4 {
			t.Errorf("len(rooms) = %d, want 4", len(rooms))
		}
		if requestCount != 3 {
			t.Errorf("requestCount = %d, want 3", requestCount)
		}
	})

	t.Run("with floor filter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("floor") != "2" {
				t.Errorf("floor = %q, want %q", r.URL.Query().Get("floor"), "2")
			}
			if r.URL.Query().Get("limit") != "500" {
				t.Errorf("limit = %q, want %q", r.URL.Query().Get("limit"), "500")
			}
			json.NewEncoder(w).Encode(RoomsResponse{
				Rooms:  []model.Room{{Number: "201", Floor: 2}},
				Cursor: "",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		rooms, err := c.GetAllRoomsWithOptions(context.Background(), GetRoomsOptions{Floor: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rooms) != 1 {
			t.Errorf("len(rooms) = %d, want 1", len(rooms))
		}
	})
}

// TestGetRoom tests fetching a single room.
func TestGetRoom(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rooms/101" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/rooms/101")
			}
			json.NewEncoder(w).Encode(SingleRoomResponse{
				Room: model.Room{
					Number: "101",
					Floor:  1,
					Type:   "standard",
					Status: model.RoomCleaning,
				},
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		room, err := c.GetRoom(context.Background(), "101")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if room.Number != "101" {
			t.Errorf("Number = %q, want %q", room.Number, "101")
		}
		if room.Status != model.RoomCleaning {
			t.Errorf("Status = %q, want %q", room.Status, model.RoomCleaning)
		}
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "room not found"})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token", WithRetries(0, time.Millisecond))
		_, err := c.GetRoom(context.Background(), "999")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError in wrapped error, got %T: %v", err, err)
		}
		if apiErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
		}
	})
}

// TestGetReservations tests the GetReservations method.
func TestGetReservations(t *testing.T) {
	t.Run("basic request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/reservations" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/reservations")
			}
			json.NewEncoder(w).Encode(ReservationsResponse{
				Reservations: []model.Reservation{
					{RoomNumber: "101", GuestName: "Ada Lovelace", Status: model.ReservationConfirmed},
					{RoomNumber: "102", GuestName: "Alan Turing", Status: model.ReservationCheckedIn},
				},
				Cursor: "",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		resp, err := c.GetReservations(context.Background(), GetReservationsOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Reservations) != 2 {
			t.Errorf("len(Reservations) = %d, want 2", len(resp.Reservations))
		}
	})

	t.Run("with options", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("limit") != "50" {
				t.Errorf("limit = %q, want %q", q.Get("limit"), "50")
			}
			if q.Get("cursor") != "cursor456" {
				t.Errorf("cursor = %q, want %q", q.Get("cursor"), "cursor456")
			}
			if q.Get("room_number") != "101" {
				t.Errorf("room_number = %q, want %q", q.Get("room_number"), "101")
			}
			if q.Get("status") != "confirmed" {
				t.Errorf("status = %q, want %q", q.Get("status"), "confirmed")
			}
			json.NewEncoder(w).Encode(ReservationsResponse{Reservations: []model.Reservation{}, Cursor: ""})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		_, err := c.GetReservations(context.Background(), GetReservationsOptions{
			Limit:      50,
			Cursor:     "cursor456",
			RoomNumber: "101",
			Status:     "confirmed",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestGetAllReservations tests pagination through all reservations.
func TestGetAllReservations(t *testing.T) {
	t.Run("multiple pages", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			cursor := r.URL.Query().Get("cursor")

			if count == 1 && cursor == "" {
				json.NewEncoder(w).Encode(ReservationsResponse{
					Reservations: []model.Reservation{{RoomNumber: "101"}},
					Cursor:       "page2",
				})
			} else if count == 2 && cursor == "page2" {
				json.NewEncoder(w).Encode(ReservationsResponse{
					Reservations: []model.Reservation{{RoomNumber: "102"}},
					Cursor:       "",
				})
			}
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		reservations, err := c.GetAllReservations(context.Background(), GetReservationsOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reservations) != 2 {
			t.Errorf("len(reservations) = %d, want 2", len(reservations))
		}
		if requestCount != 2 {
			t.Errorf("requestCount = %d, want 2", requestCount)
		}
	})
}

// TestGetServiceRequests tests the GetServiceRequests method.
func TestGetServiceRequests(t *testing.T) {
	t.Run("basic request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/service-requests" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/service-requests")
			}
			json.NewEncoder(w).Encode(ServiceRequestsResponse{
				ServiceRequests: []model.ServiceRequest{
					{RoomNumber: "101", Kind: "housekeeping", Status: model.ServiceOpen},
				},
				Cursor: "",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		resp, err := c.GetServiceRequests(context.Background(), GetServiceRequestsOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.ServiceRequests) != 1 {
			t.Errorf("len(ServiceRequests) = %d, want 1", len(resp.ServiceRequests))
		}
		if resp.ServiceRequests[0].Kind != "housekeeping" {
			t.Errorf("Kind = %q, want %q", resp.ServiceRequests[0].Kind, "housekeeping")
		}
	})

	t.Run("with status filter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("status") != "open" {
				t.Errorf("status = %q, want %q", r.URL.Query().Get("status"), "open")
			}
			json.NewEncoder(w).Encode(ServiceRequestsResponse{ServiceRequests: []model.ServiceRequest{}, Cursor: ""})
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		_, err := c.GetServiceRequests(context.Background(), GetServiceRequestsOptions{Status: "open"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestJSONUnmarshalErrors tests error handling for invalid JSON.
func TestJSONUnmarshalErrors(t *testing.T) {
	t.Run("invalid JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`not valid json`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		_, err := c.GetRooms(context.Background(), GetRoomsOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "unmarshal") {
			t.Errorf("error should contain 'unmarshal', got %v", err)
		}
	})
}
