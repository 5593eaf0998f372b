package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"frontdesk/internal/config"
	"frontdesk/internal/database"
	"frontdesk/internal/events"
	"frontdesk/internal/models"
	"frontdesk/internal/repository"
	"frontdesk/internal/service"

	"github.com/rs/zerolog"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(path, &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestHTTPServer(db *database.DB) *HTTPServer {
	cfg := config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true, Port: 0},
		Auth:    config.APIAuthConfig{Enabled: false},
	}
	logger := zerolog.New(io.Discard)
	cache := repository.NewMemoryRoomCache(time.Minute)
	bus := events.NewEventBus()

	rooms := service.NewRoomService(db, cache, bus, "", "", 0, &logger)
	cash := service.NewCashService(db, nil, &logger)
	timeclock := service.NewTimeclockService(db, &logger)
	notes := service.NewNoteService(db, &logger)

	return NewHTTPServer(cfg, rooms, cash, timeclock, notes)
}

func seedTestRoom(t *testing.T, db *database.DB, number string) models.Room {
	t.Helper()
	rooms := []models.Room{{Number: number, Type: "standard", Floor: 1}}
	if err := db.SeedRooms(context.Background(), rooms); err != nil {
		t.Fatalf("seed rooms: %v", err)
	}
	room, err := db.GetRoomByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("get seeded room: %v", err)
	}
	return *room
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestListRooms(t *testing.T) {
	db := newTestDB(t)
	seedTestRoom(t, db, "101")
	seedTestRoom(t, db, "102")

	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/v1/rooms")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body struct {
		Rooms []models.Room `json:"rooms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(body.Rooms))
	}
}

func TestGetRoomNotFound(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/v1/rooms/999")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTransitionCheckIn(t *testing.T) {
	db := newTestDB(t)
	room := seedTestRoom(t, db, "101")

	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	url := fmt.Sprintf("%s/api/v1/rooms/%d/transition", ts.URL, room.ID)
	resp := doJSON(t, http.MethodPost, url, map[string]any{
		"status":     models.StatusOccupied,
		"guest_name": "Anna K",
		"check_in":   "2026-09-01",
		"check_out":  "2026-09-03",
		"changed_by": "desk",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status: %d body=%s", resp.StatusCode, raw)
	}

	var got models.Room
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Status != models.StatusOccupied {
		t.Fatalf("expected OCCUPIED, got %s", got.Status)
	}
	if got.GuestName != "Anna K" {
		t.Fatalf("expected guest Anna K, got %q", got.GuestName)
	}
	if got.Version != room.Version+1 {
		t.Fatalf("expected version bump to %d, got %d", room.Version+1, got.Version)
	}
}

func TestCheckInConflict(t *testing.T) {
	db := newTestDB(t)
	room := seedTestRoom(t, db, "101")

	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	url := fmt.Sprintf("%s/api/v1/rooms/%d/transition", ts.URL, room.ID)
	resp := doJSON(t, http.MethodPost, url, map[string]any{
		"status":     models.StatusOccupied,
		"guest_name": "First Guest",
		"check_in":   "2026-09-01",
		"check_out":  "2026-09-05",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first check-in failed: %d", resp.StatusCode)
	}

	// Room turned over, but the booking row for the first stay remains.
	for _, status := range []string{models.StatusDirty, models.StatusAvailable} {
		resp = doJSON(t, http.MethodPost, url, map[string]any{"status": status})
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transition to %s failed: %d", status, resp.StatusCode)
		}
	}

	resp = doJSON(t, http.MethodPost, url, map[string]any{
		"status":     models.StatusOccupied,
		"guest_name": "Second Guest",
		"check_in":   "2026-09-02",
		"check_out":  "2026-09-04",
	})
	if resp.StatusCode != http.StatusConflict {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("expected 409, got %d body=%s", resp.StatusCode, raw)
	}
	var body struct {
		Conflict bool `json:"conflict"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	if !body.Conflict {
		t.Fatalf("expected conflict flag in response")
	}

	// The clerk confirmed the overbooking; force pushes it through.
	resp = doJSON(t, http.MethodPost, url, map[string]any{
		"status":     models.StatusOccupied,
		"guest_name": "Second Guest",
		"check_in":   "2026-09-02",
		"check_out":  "2026-09-04",
		"force":      true,
		"changed_by": "manager",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forced check-in: expected 200, got %d", resp.StatusCode)
	}
}

func TestSaveRoomGuestEdit(t *testing.T) {
	db := newTestDB(t)
	room := seedTestRoom(t, db, "101")

	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	url := fmt.Sprintf("%s/api/v1/rooms/%d/transition", ts.URL, room.ID)
	resp := doJSON(t, http.MethodPost, url, map[string]any{
		"status":     models.StatusOccupied,
		"guest_name": "Anna K",
		"check_in":   "2026-09-01",
		"check_out":  "2026-09-03",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check-in failed: %d", resp.StatusCode)
	}

	fresh, err := db.GetRoom(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("reload room: %v", err)
	}
	edit := fresh.Clone()
	edit.GuestName = "Anna Karenina"

	saveURL := fmt.Sprintf("%s/api/v1/rooms/%d", ts.URL, room.ID)
	resp = doJSON(t, http.MethodPut, saveURL, map[string]any{
		"room":       edit,
		"changed_by": "desk",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, raw)
	}
	var got models.Room
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.GuestName != "Anna Karenina" {
		t.Fatalf("expected updated guest name, got %q", got.GuestName)
	}
	if len(got.History) == 0 || got.History[0].Kind != models.HistoryInfo {
		t.Fatalf("expected INFO entry at history head, got %+v", got.History)
	}
}

func TestRoomAvailability(t *testing.T) {
	db := newTestDB(t)
	room := seedTestRoom(t, db, "101")

	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	checkIn := fmt.Sprintf("%s/api/v1/rooms/%d/transition", ts.URL, room.ID)
	resp := doJSON(t, http.MethodPost, checkIn, map[string]any{
		"status":     models.StatusOccupied,
		"guest_name": "Anna K",
		"check_in":   "2026-09-01",
		"check_out":  "2026-09-03",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check-in failed: %d", resp.StatusCode)
	}

	cases := []struct {
		name      string
		checkIn   string
		checkOut  string
		available bool
	}{
		{"Overlap", "2026-09-02", "2026-09-04", false},
		{"BackToBack", "2026-09-03", "2026-09-05", true},
		{"Before", "2026-08-28", "2026-09-01", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			url := fmt.Sprintf("%s/api/v1/rooms/%d/availability?check_in=%s&check_out=%s",
				ts.URL, room.ID, tc.checkIn, tc.checkOut)
			resp, err := http.Get(url)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("unexpected status: %d", resp.StatusCode)
			}
			var body struct {
				Available bool `json:"available"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Available != tc.available {
				t.Fatalf("expected available=%v, got %v", tc.available, body.Available)
			}
		})
	}
}

func TestCashFlow(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/cash", map[string]any{
		"kind":        models.CashIn,
		"amount":      200.0,
		"description": "room 101 cash payment",
		"staff_name":  "maria",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/cash", map[string]any{
		"kind":        models.CashOut,
		"amount":      50.0,
		"description": "cleaning supplies",
		"staff_name":  "maria",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/v1/cash/balance")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Balance float64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Balance != 150 {
		t.Fatalf("expected balance 150, got %v", body.Balance)
	}
}

func TestCashRejectsNegativeAmount(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/cash", map[string]any{
		"kind":   models.CashIn,
		"amount": -5.0,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestTimeclockFlow(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/timeclock/in", map[string]any{
		"staff_name": "maria",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("clock-in: expected 201, got %d", resp.StatusCode)
	}

	// Double clock-in is a 409.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/timeclock/in", map[string]any{
		"staff_name": "maria",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double clock-in: expected 409, got %d", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/v1/timeclock?staff=maria")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var status struct {
		OnShift bool `json:"on_shift"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	if !status.OnShift {
		t.Fatalf("expected on_shift=true")
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/timeclock/out", map[string]any{
		"staff_name": "maria",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clock-out: expected 200, got %d", resp.StatusCode)
	}

	// Second clock-out has no open shift left.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/timeclock/out", map[string]any{
		"staff_name": "maria",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second clock-out: expected 409, got %d", resp.StatusCode)
	}
}

func TestNotesCRUD(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/notes", map[string]any{
		"title": "Boiler",
		"body":  "Plumber comes Tuesday morning",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	var created models.Note
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	if created.ID == 0 {
		t.Fatalf("expected note id to be assigned")
	}

	noteURL := fmt.Sprintf("%s/api/v1/notes/%d", ts.URL, created.ID)
	resp = doJSON(t, http.MethodPut, noteURL, map[string]any{
		"title":  "Boiler",
		"body":   "Plumber rescheduled to Wednesday",
		"pinned": true,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, noteURL, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, noteURL, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestEmptyNoteRejected(t *testing.T) {
	db := newTestDB(t)
	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/notes", map[string]any{
		"title": "   ",
		"body":  "",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
