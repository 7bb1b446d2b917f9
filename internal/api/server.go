package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nrfsmart/nrfdash/internal/poller"
	"github.com/nrfsmart/nrfdash/internal/render"
	"github.com/nrfsmart/nrfdash/internal/session"
	"github.com/nrfsmart/nrfdash/internal/types"
	"github.com/nrfsmart/nrfdash/internal/webui"
	"github.com/rs/zerolog"
)

// HubAPI is the part of the hub client used directly by the web UI.
type HubAPI interface {
	Device(ctx context.Context, id types.UUID) (types.Device, error)
	DeviceParam(ctx context.Context, id types.UUID, param string) (json.RawMessage, error)
	SetDeviceParam(ctx context.Context, id types.UUID, param string, value interface{}) error
	Restart(ctx context.Context) error
}

// Server serves the local dashboard
type Server struct {
	gate      *session.Gate
	dashboard *poller.Dashboard
	hub       HubAPI
	logger    zerolog.Logger
	addr      string
	logBuffer *webui.LogBuffer
	intervals poller.Intervals
	startTime time.Time
	version   string
	commit    string
	buildDate string
	httpSrv   *http.Server
}

// NewServer creates a new dashboard server
func NewServer(gate *session.Gate, dashboard *poller.Dashboard, hub HubAPI, logger zerolog.Logger, addr string) *Server {
	return &Server{
		gate:      gate,
		dashboard: dashboard,
		hub:       hub,
		logger:    logger.With().Str("component", "web").Logger(),
		addr:      addr,
		intervals: poller.Intervals{Devices: 3 * time.Second, Logs: time.Second},
		startTime: time.Now(),
	}
}

// SetLogBuffer sets the buffer shown as the developer console
func (s *Server) SetLogBuffer(lb *webui.LogBuffer) {
	s.logBuffer = lb
}

// SetIntervals sets how often the browser refreshes each view
func (s *Server) SetIntervals(iv poller.Intervals) {
	s.intervals = iv
}

// SetVersion sets the version information
func (s *Server) SetVersion(version, commit, buildDate string) {
	s.version = version
	s.commit = commit
	s.buildDate = buildDate
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/view/banner", s.handleBanner).Methods(http.MethodGet)

	auth := r.NewRoute().Subrouter()
	auth.Use(s.requireLogin)
	auth.HandleFunc("/view/devices", s.handleDevicesView).Methods(http.MethodGet)
	auth.HandleFunc("/view/logs", s.handleLogsView).Methods(http.MethodGet)
	auth.HandleFunc("/view/console", s.handleConsoleView).Methods(http.MethodGet)
	auth.HandleFunc("/filter", s.handleFilter).Methods(http.MethodPost)
	auth.HandleFunc("/devices/{uuid}/rename", s.handleRename).Methods(http.MethodPost)
	auth.HandleFunc("/devices/{uuid}/remove", s.handleRemove).Methods(http.MethodPost)
	auth.HandleFunc("/devices/{uuid}/param", s.handleSetParam).Methods(http.MethodPost)
	auth.HandleFunc("/devices/{uuid}/param/{param}", s.handleGetParam).Methods(http.MethodGet)
	auth.HandleFunc("/device/{uuid}", s.handleDevicePage).Methods(http.MethodGet)
	auth.HandleFunc("/restart", s.handleRestart).Methods(http.MethodPost)
	auth.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	auth.HandleFunc("/api/console", s.handleConsoleAPI).Methods(http.MethodGet)

	return r
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().
		Str("address", s.addr).
		Msg("Starting dashboard server")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.gate.LoggedIn() {
			http.Error(w, "Login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns service health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus returns version and session summary
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logged_in":  s.gate.LoggedIn(),
		"polling":    s.dashboard.Running(),
		"time":       time.Now().UTC().Format(time.RFC3339),
		"uptime":     time.Since(s.startTime).Round(time.Second).String(),
		"version":    s.version,
		"commit":     s.commit,
		"build_date": s.buildDate,
	})
}

// StateResponse is the JSON render model of the whole dashboard
type StateResponse struct {
	LoggedIn bool               `json:"logged_in"`
	Banner   string             `json:"banner"`
	Devices  render.DeviceTable `json:"devices"`
	Logs     render.LogPanel    `json:"logs"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StateResponse{
		LoggedIn: s.gate.LoggedIn(),
		Banner:   s.gate.Session().Banner().Text(),
		Devices:  s.dashboard.Devices.Table(),
		Logs:     s.dashboard.Logs.Panel(),
	})
}

func (s *Server) handleConsoleAPI(w http.ResponseWriter, r *http.Request) {
	entries := []webui.ConsoleEntry{}
	if s.logBuffer != nil {
		entries = s.logBuffer.Recent(200)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
