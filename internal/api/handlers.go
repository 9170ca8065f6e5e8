package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/finder"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/mac"
	"github.com/martinsuchenak/portfinder/internal/model"
)

// Locator resolves a MAC address across a list of agents
type Locator interface {
	Locate(ctx context.Context, macText string, agents []model.Agent, report func(model.Result)) ([]model.Result, error)
}

// AgentSource returns the agents to query, re-read on every request
type AgentSource func() ([]model.Agent, error)

// Handler handles HTTP requests
type Handler struct {
	locator Locator
	agents  AgentSource
}

// NewHandler creates a new API handler
func NewHandler(locator Locator, agents AgentSource) *Handler {
	return &Handler{locator: locator, agents: agents}
}

// LocateResponse is the body of GET /api/locate
type LocateResponse struct {
	MAC     string         `json:"mac"`
	Found   bool           `json:"found"`
	Results []model.Result `json:"results"`
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/locate", h.locate)
	mux.HandleFunc("GET /api/switches", h.listSwitches)
	mux.HandleFunc("GET /api/health", h.health)
}

func (h *Handler) locate(w http.ResponseWriter, r *http.Request) {
	macText := r.URL.Query().Get("mac")
	if macText == "" {
		log.Warn("Locate request missing mac")
		h.writeError(w, http.StatusBadRequest, "mac query parameter required")
		return
	}

	agents, err := h.agents()
	if err != nil {
		h.agentsError(w, err)
		return
	}

	results, err := h.locator.Locate(r.Context(), macText, agents, nil)
	if err != nil {
		if errors.Is(err, mac.ErrInvalidAddressFormat) {
			log.Debug("Rejected locate request", "mac", macText, "error", err)
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, err)
		return
	}

	found := finder.AnyFound(results)
	log.Info("Locate completed", "mac", macText, "agents", len(agents), "found", found)
	h.writeJSON(w, http.StatusOK, LocateResponse{MAC: macText, Found: found, Results: results})
}

func (h *Handler) listSwitches(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agents()
	if err != nil {
		h.agentsError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, agents)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// agentsError reports a failure to resolve the switch list
func (h *Handler) agentsError(w http.ResponseWriter, err error) {
	if errors.Is(err, config.ErrNoSwitches) {
		log.Warn("No switches configured")
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	h.internalError(w, err)
}

// internalError logs the error and writes a generic 500 response
func (h *Handler) internalError(w http.ResponseWriter, err error) {
	log.Error("Internal server error", "error", err)
	h.writeError(w, http.StatusInternalServerError, "Internal Server Error")
}
