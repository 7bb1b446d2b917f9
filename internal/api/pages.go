package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/nrfsmart/nrfdash/internal/poller"
	"github.com/nrfsmart/nrfdash/internal/render"
	"github.com/nrfsmart/nrfdash/internal/types"
	"github.com/nrfsmart/nrfdash/internal/webui"
)

// PageData holds all data for the main page template
type PageData struct {
	LoggedIn        bool
	Banner          string
	Version         string
	Devices         render.DeviceTable
	Logs            render.LogPanel
	Filter          render.Filter
	DeviceRefreshMS int64
	LogRefreshMS    int64
}

// DevicePageData holds data for the device detail page
type DevicePageData struct {
	Row   render.DeviceRow
	Error string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		LoggedIn:        s.gate.LoggedIn(),
		Banner:          s.gate.Session().Banner().Text(),
		Version:         s.version,
		DeviceRefreshMS: s.intervals.Devices.Milliseconds(),
		LogRefreshMS:    s.intervals.Logs.Milliseconds(),
	}
	if data.LoggedIn {
		data.Devices = s.dashboard.Devices.Table()
		data.Logs = s.dashboard.Logs.Panel()
		data.Filter = s.dashboard.Logs.Filter()
	}
	s.renderTemplate(w, "base", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	password := r.PostFormValue("password")
	if err := s.gate.Login(r.Context(), password); err != nil {
		s.logger.Debug().Err(err).Msg("Login attempt failed")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.gate.Logout()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.gate.Session().Banner().Text()))
}

func (s *Server) handleDevicesView(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "devices", s.dashboard.Devices.Table())
}

func (s *Server) handleLogsView(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "logs", s.dashboard.Logs.Panel())
}

func (s *Server) handleConsoleView(w http.ResponseWriter, r *http.Request) {
	var entries []webui.ConsoleEntry
	if s.logBuffer != nil {
		entries = s.logBuffer.Recent(200)
	}
	s.renderTemplate(w, "console", entries)
}

// handleFilter changes the log severity filter; the panel is re-rendered
// from the cached logs without asking the hub.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	f, err := render.ParseFilter(r.PostFormValue("severity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.dashboard.Logs.SetFilter(f)
	w.WriteHeader(http.StatusNoContent)
}

// formPrompter answers device prompts from an already submitted form:
// a missing name field means the prompt was cancelled.
type formPrompter struct {
	r *http.Request
}

func (p formPrompter) PromptName(types.UUID) (string, bool) {
	if err := p.r.ParseForm(); err != nil {
		return "", false
	}
	if _, ok := p.r.PostForm["name"]; !ok {
		return "", false
	}
	return p.r.PostForm.Get("name"), true
}

func (p formPrompter) Confirm(string) bool {
	return strings.EqualFold(p.r.PostFormValue("confirm"), "yes")
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	err := s.dashboard.Devices.RenameDevice(r.Context(), mux.Vars(r)["uuid"], formPrompter{r})
	s.mutationResult(w, err)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	err := s.dashboard.Devices.RemoveDevice(r.Context(), mux.Vars(r)["uuid"], formPrompter{r})
	s.mutationResult(w, err)
}

// mutationResult reports rename/remove outcomes to the browser console only.
func (s *Server) mutationResult(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, poller.ErrCancelled):
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func (s *Server) handleDevicePage(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseDOM(mux.Vars(r)["uuid"])
	if err != nil {
		http.Error(w, "Unable to parse UUID", http.StatusBadRequest)
		return
	}
	device, err := s.hub.Device(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("uuid", id.Path()).Msg("Failed to fetch device")
		http.Error(w, "Device not available: "+err.Error(), http.StatusBadGateway)
		return
	}
	data := DevicePageData{
		Row:   render.Device(device, time.Now()),
		Error: r.URL.Query().Get("error"),
	}
	s.renderTemplate(w, "device", data)
}

func (s *Server) handleSetParam(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["uuid"]
	id, err := types.ParseDOM(key)
	if err != nil {
		http.Error(w, "Unable to parse UUID", http.StatusBadRequest)
		return
	}
	param := strings.TrimSpace(r.PostFormValue("param"))
	if param == "" || param == "name" {
		http.Error(w, "Unsupported parameter", http.StatusBadRequest)
		return
	}

	target := "/device/" + key
	if err := s.hub.SetDeviceParam(r.Context(), id, param, r.PostFormValue("value")); err != nil {
		s.logger.Error().Err(err).Str("uuid", id.Path()).Str("param", param).Msg("Failed to set device parameter")
		target += "?error=" + url.QueryEscape(err.Error())
	} else {
		s.logger.Info().Str("uuid", id.Path()).Str("param", param).Msg("Device parameter set")
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleGetParam(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := types.ParseDOM(vars["uuid"])
	if err != nil {
		http.Error(w, "Unable to parse UUID", http.StatusBadRequest)
		return
	}
	value, err := s.hub.DeviceParam(r.Context(), id, vars["param"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(value)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.Restart(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("Hub restart failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.logger.Warn().Msg("Hub restart requested")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.Templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

var _ poller.Prompter = formPrompter{}
