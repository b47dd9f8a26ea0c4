package api

import (
	"encoding/json"
	"net/http"

	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/service"
)

// Handler contains all HTTP handlers for the API.
//
// The /colors resource is mounted twice: at the root, which is the path the
// collection manager's HTTP client speaks, and under /api/v1 for the web UI.
type Handler struct {
	colorService *service.ColorService
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(colorService *service.ColorService) *Handler {
	return &Handler{colorService: colorService}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	for _, prefix := range []string{"", "/api/v1"} {
		mux.HandleFunc("GET "+prefix+"/colors", h.ListColors)
		mux.HandleFunc("POST "+prefix+"/colors", h.CreateColor)
		mux.HandleFunc("GET "+prefix+"/colors/{id}", h.GetColor)
		mux.HandleFunc("PUT "+prefix+"/colors/{id}", h.UpdateColor)
		mux.HandleFunc("DELETE "+prefix+"/colors/{id}", h.DeleteColor)
	}

	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /favicon.svg", h.GetFavicon)

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

// ListColors returns every color in creation order as a bare JSON array.
func (h *Handler) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.colorService.List()
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, colors)
}

// GetColor returns a single color.
func (h *Handler) GetColor(w http.ResponseWriter, r *http.Request) {
	color, err := h.colorService.Get(r.PathValue("id"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, color)
}

// CreateColor creates a new color. Name and hex are validated for format but
// not for uniqueness.
func (h *Handler) CreateColor(w http.ResponseWriter, r *http.Request) {
	var req model.ColorInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	color, err := h.colorService.Add(req)
	if err != nil {
		Error(w, err)
		return
	}

	colorsCreated.Inc()
	JSON(w, http.StatusCreated, color)
}

// UpdateColor replaces a color's name and hex.
func (h *Handler) UpdateColor(w http.ResponseWriter, r *http.Request) {
	var req model.ColorInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	color, err := h.colorService.Update(r.PathValue("id"), req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, color)
}

// DeleteColor removes a color.
func (h *Handler) DeleteColor(w http.ResponseWriter, r *http.Request) {
	if err := h.colorService.Delete(r.PathValue("id")); err != nil {
		Error(w, err)
		return
	}

	colorsDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
