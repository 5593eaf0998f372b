package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"frontdesk/internal/config"
	"frontdesk/internal/metrics"
	"frontdesk/internal/service"
)

// HTTPServer exposes the front-desk dashboard API.
type HTTPServer struct {
	cfg       config.APIConfig
	rooms     *service.RoomService
	cash      *service.CashService
	timeclock *service.TimeclockService
	notes     *service.NoteService
	server    *http.Server
	auth      *HTTPAuth
}

func NewHTTPServer(cfg config.APIConfig, rooms *service.RoomService, cash *service.CashService, timeclock *service.TimeclockService, notes *service.NoteService) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:       cfg,
		rooms:     rooms,
		cash:      cash,
		timeclock: timeclock,
		notes:     notes,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/rooms", srv.handleRooms)
	mux.HandleFunc("/api/v1/rooms/", srv.handleRoomSubtree)
	mux.HandleFunc("/api/v1/cash", srv.handleCash)
	mux.HandleFunc("/api/v1/cash/balance", srv.handleCashBalance)
	mux.HandleFunc("/api/v1/cash/export", srv.handleCashExport)
	mux.HandleFunc("/api/v1/timeclock", srv.handleTimeclock)
	mux.HandleFunc("/api/v1/timeclock/in", srv.handleClockIn)
	mux.HandleFunc("/api/v1/timeclock/out", srv.handleClockOut)
	mux.HandleFunc("/api/v1/notes", srv.handleNotes)
	mux.HandleFunc("/api/v1/notes/", srv.handleNoteByID)

	handler := loggingMiddleware(metricsMiddleware(srv.auth.Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	log.Printf("HTTP API listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the full middleware chain, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)
		log.Printf("http method=%s path=%s status=%d dur=%s", r.Method, r.URL.Path, recorder.status, dur)
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.IncHTTP(endpointLabel(r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// endpointLabel collapses subtree paths so the counter cardinality
// stays bounded.
func endpointLabel(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/api/v1/"), "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "unknown"
	}
	return parts[0]
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
