package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"mindcanvas/internal/codec"
	"mindcanvas/internal/domain"
)

// ListMaps returns every stored map, most recently updated first
func (h *Handler) ListMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := h.maps.List(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list maps", err)
		return
	}
	if maps == nil {
		maps = []domain.MindMapRecord{}
	}
	h.writeJSON(w, maps, http.StatusOK)
}

// GetMap returns one stored map
func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	rec, err := h.maps.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to load map", err)
		return
	}
	h.writeJSON(w, rec, http.StatusOK)
}

// CreateMap stores a snapshot as a new map
func (h *Handler) CreateMap(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if !h.decode(w, r, &snap) {
		return
	}
	rec, err := h.maps.Save(r.Context(), snap)
	if err != nil {
		h.writeServiceError(w, "Failed to save map", err)
		return
	}
	h.writeJSON(w, rec, http.StatusCreated)
}

// UpdateMap replaces a stored map's snapshot
func (h *Handler) UpdateMap(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if !h.decode(w, r, &snap) {
		return
	}
	rec, err := h.maps.Update(r.Context(), chi.URLParam(r, "id"), snap)
	if err != nil {
		h.writeServiceError(w, "Failed to update map", err)
		return
	}
	h.writeJSON(w, rec, http.StatusOK)
}

// DeleteMap removes a stored map
func (h *Handler) DeleteMap(w http.ResponseWriter, r *http.Request) {
	if err := h.maps.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete map", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var contentTypes = map[string]string{
	"json":     "application/json",
	"yaml":     "application/yaml",
	"markdown": "text/markdown; charset=utf-8",
}

// ExportMap writes a stored map as ?format=json|yaml|markdown
func (h *Handler) ExportMap(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	var buf bytes.Buffer
	if err := h.maps.Export(r.Context(), id, c.Format(), &buf); err != nil {
		h.writeServiceError(w, "Failed to export map", err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[c.Format()])
	if r.URL.Query().Get("download") == "true" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+extension(c.Format())))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func extension(format string) string {
	switch format {
	case "markdown":
		return ".md"
	case "yaml":
		return ".yaml"
	default:
		return ".json"
	}
}

// ImportMap parses the request body and stores it as a new map. The format
// comes from ?format= or, failing that, the Content-Type.
func (h *Handler) ImportMap(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatFromContentType(r.Header.Get("Content-Type"))
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	rec, err := h.maps.Import(r.Context(), format, r.Body)
	if err != nil {
		h.writeServiceError(w, "Failed to import map", err)
		return
	}
	h.writeJSON(w, rec, http.StatusCreated)
}

func formatFromContentType(ct string) string {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "yaml"):
		return "yaml"
	case strings.Contains(ct, "markdown"):
		return "markdown"
	default:
		return "json"
	}
}

// Generate expands a topic into a map, optionally storing it and opening
// a session on it
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !h.decode(w, r, &req) {
		return
	}

	g, err := h.maps.Generate(r.Context(), req.Topic)
	if err != nil {
		h.writeServiceError(w, "Failed to generate map", err)
		return
	}

	resp := GenerateResponse{Snapshot: g.Snapshot(), Stats: g.Stats()}
	var mapID string
	if req.Save {
		rec, err := h.maps.Save(r.Context(), resp.Snapshot)
		if err != nil {
			h.writeServiceError(w, "Failed to save generated map", err)
			return
		}
		resp.Map = rec
		mapID = rec.ID
	}
	if req.Open {
		id, err := h.sessions.OpenGraph(g, mapID)
		if err != nil {
			h.writeServiceError(w, "Failed to open session", err)
			return
		}
		resp.SessionID = id
	}

	status := http.StatusOK
	if req.Save || req.Open {
		status = http.StatusCreated
	}
	h.writeJSON(w, resp, status)
}

// ListAgents returns every stored agent persona
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agents.List(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list agents", err)
		return
	}
	if agents == nil {
		agents = []domain.AgentPersona{}
	}
	h.writeJSON(w, agents, http.StatusOK)
}
