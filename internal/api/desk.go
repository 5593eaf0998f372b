package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"frontdesk/internal/database"
	"frontdesk/internal/models"
	"frontdesk/internal/service"
)

// parseDateRange reads ?start and ?end as YYYY-MM-DD. A missing start
// defaults to 30 days back, a missing end to tomorrow.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 1)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(models.DateFormat, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid start date")
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(models.DateFormat, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid end date")
		}
		end = parsed
	}
	return start, end, nil
}

func (s *HTTPServer) handleCash(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		start, end, err := parseDateRange(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		entries, err := s.cash.ListEntries(r.Context(), start, end)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list cash entries")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})

	case http.MethodPost:
		var entry models.CashEntry
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&entry); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.cash.AddEntry(r.Context(), &entry); err != nil {
			if errors.Is(err, service.ErrInvalidAmount) || errors.Is(err, service.ErrInvalidCashKind) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to record cash entry")
			return
		}
		writeJSON(w, http.StatusCreated, entry)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCashBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	balance, err := s.cash.Balance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get balance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

type exportRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (s *HTTPServer) handleCashExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body exportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	start, err := time.Parse(models.DateFormat, body.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	end, err := time.Parse(models.DateFormat, body.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date")
		return
	}

	if err := s.cash.RequestLedgerExport(r.Context(), start, end); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue export")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *HTTPServer) handleTimeclock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// ?staff= asks for one person's open shift, no param lists entries.
	if staff := strings.TrimSpace(r.URL.Query().Get("staff")); staff != "" {
		entry, err := s.timeclock.Status(r.Context(), staff)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get shift status")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"staff_name": staff,
			"on_shift":   entry != nil,
			"entry":      entry,
		})
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.timeclock.ListEntries(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list time entries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type clockRequest struct {
	StaffName string `json:"staff_name"`
}

func (s *HTTPServer) handleClockIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body clockRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := s.timeclock.ClockIn(r.Context(), body.StaffName)
	switch {
	case errors.Is(err, service.ErrEmptyStaffName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrShiftOpen):
		writeError(w, http.StatusConflict, "shift already open")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to clock in")
	default:
		writeJSON(w, http.StatusCreated, entry)
	}
}

func (s *HTTPServer) handleClockOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body clockRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := s.timeclock.ClockOut(r.Context(), body.StaffName)
	switch {
	case errors.Is(err, service.ErrEmptyStaffName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNoOpenShift):
		writeError(w, http.StatusConflict, "no open shift")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to clock out")
	default:
		writeJSON(w, http.StatusOK, entry)
	}
}

func (s *HTTPServer) handleNotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		notes, err := s.notes.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list notes")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notes": notes})

	case http.MethodPost:
		var note models.Note
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&note); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.notes.Create(r.Context(), &note); err != nil {
			if errors.Is(err, service.ErrEmptyNote) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to create note")
			return
		}
		writeJSON(w, http.StatusCreated, note)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/notes/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var note models.Note
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&note); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		note.ID = id
		if err := s.notes.Update(r.Context(), &note); err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyNote):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, database.ErrNotFound):
				writeError(w, http.StatusNotFound, "note not found")
			default:
				writeError(w, http.StatusInternalServerError, "failed to update note")
			}
			return
		}
		writeJSON(w, http.StatusOK, note)

	case http.MethodDelete:
		if err := s.notes.Delete(r.Context(), id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				writeError(w, http.StatusNotFound, "note not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete note")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
