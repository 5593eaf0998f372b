package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"frontdesk/internal/database"
	"frontdesk/internal/models"
	"frontdesk/internal/service"
)

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rooms, err := s.rooms.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// handleRoomSubtree dispatches /api/v1/rooms/{id}[/action].
func (s *HTTPServer) handleRoomSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/rooms/")
	parts := strings.SplitN(rest, "/", 2)

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.getRoom(w, r, id)
		case http.MethodPut:
			s.saveRoom(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case "transition":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.transitionRoom(w, r, id)
	case "availability":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.roomAvailability(w, r, id)
	case "bookings":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.roomBookings(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) getRoom(w http.ResponseWriter, r *http.Request, id int64) {
	room, err := s.rooms.GetRoom(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get room")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

type saveRoomRequest struct {
	Room      models.Room `json:"room"`
	Force     bool        `json:"force"`
	ChangedBy string      `json:"changed_by"`
}

func (s *HTTPServer) saveRoom(w http.ResponseWriter, r *http.Request, id int64) {
	var body saveRoomRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.Room.ID = id

	saved, err := s.rooms.SaveRoom(r.Context(), &body.Room, service.SaveOptions{
		Force:     body.Force,
		ChangedBy: body.ChangedBy,
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type transitionRequest struct {
	Status    string `json:"status"`
	Issue     string `json:"issue"`
	GuestName string `json:"guest_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Hourly    bool   `json:"hourly"`
	Force     bool   `json:"force"`
	ChangedBy string `json:"changed_by"`
}

func (s *HTTPServer) transitionRoom(w http.ResponseWriter, r *http.Request, id int64) {
	var body transitionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	opts := service.SaveOptions{Force: body.Force, ChangedBy: body.ChangedBy}

	var room *models.Room
	var err error
	switch body.Status {
	case models.StatusOccupied:
		room, err = s.rooms.CheckIn(r.Context(), id, body.GuestName, body.CheckIn, body.CheckOut, body.Hourly, opts)
	case models.StatusMaintenance:
		room, err = s.rooms.StartMaintenance(r.Context(), id, body.Issue, opts)
	case models.StatusAvailable, models.StatusDirty, models.StatusReserved:
		room, err = s.rooms.Transition(r.Context(), id, body.Status, opts)
	default:
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *HTTPServer) roomAvailability(w http.ResponseWriter, r *http.Request, id int64) {
	checkIn := strings.TrimSpace(r.URL.Query().Get("check_in"))
	checkOut := strings.TrimSpace(r.URL.Query().Get("check_out"))
	if checkIn == "" || checkOut == "" {
		writeError(w, http.StatusBadRequest, "check_in and check_out are required")
		return
	}

	available, err := s.rooms.CheckAvailability(r.Context(), id, checkIn, checkOut)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check availability")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":   id,
		"check_in":  checkIn,
		"check_out": checkOut,
		"available": available,
	})
}

func (s *HTTPServer) roomBookings(w http.ResponseWriter, r *http.Request, id int64) {
	bookings, err := s.rooms.ActiveBookings(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// writeRoomError maps storage and conflict errors to HTTP statuses.
func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, database.ErrBookingConflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    "booking conflict",
			"conflict": true,
		})
	case errors.Is(err, database.ErrVersionMismatch):
		writeError(w, http.StatusConflict, "room was modified concurrently, reload and retry")
	default:
		writeError(w, http.StatusInternalServerError, "failed to save room")
	}
}
