package handler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/interaction"
	"mindcanvas/internal/service"
)

// OpenSession starts an interactive session on a stored map or an inline
// snapshot
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	snap := req.Snapshot
	if req.MapID != "" {
		rec, err := h.maps.Get(r.Context(), req.MapID)
		if err != nil {
			h.writeServiceError(w, "Failed to load map", err)
			return
		}
		snap = &rec.Snapshot
	}

	id, err := h.sessions.OpenInteractive(*snap, req.MapID)
	if err != nil {
		h.writeServiceError(w, "Failed to open session", err)
		return
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		h.writeServiceError(w, "Failed to open session", err)
		return
	}
	h.writeJSON(w, SessionResponse{State: sess.State()}, http.StatusCreated)
}

// session resolves the {id} URL parameter, writing a 404 when it is unknown
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Session not found", err)
		return nil, false
	}
	return sess, true
}

// GetSession returns the session state
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, SessionResponse{State: sess.State()}, http.StatusOK)
}

// CloseSession ends a session without saving it
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Frame renders the session's current frame as PNG
func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := sess.WritePNG(&buf); err != nil {
		h.writeServiceError(w, "Failed to render frame", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Snapshot returns the session's graph in nested form
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var snap domain.Snapshot
	_ = sess.Do(func(c *interaction.Controller) error {
		snap = c.Snapshot()
		return nil
	})
	h.writeJSON(w, snap, http.StatusOK)
}

// Positions returns the model-space layout of every node
func (h *Handler) Positions(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	positions := map[string]domain.Point{}
	_ = sess.Do(func(c *interaction.Controller) error {
		for id, p := range c.Positions() {
			positions[id] = p
		}
		return nil
	})
	h.writeJSON(w, positions, http.StatusOK)
}

// Pointer applies a pointer event: down, move, up or double (double click)
func (h *Handler) Pointer(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *interaction.Controller, resp *SessionResponse) error {
		switch req.Type {
		case "down":
			c.PointerDown(req.X, req.Y)
		case "move":
			c.PointerMove(req.X, req.Y)
		case "up":
			c.PointerUp()
		case "double":
			c.DoubleClick(req.X, req.Y)
		}
		return nil
	})
}

// Wheel zooms by a wheel delta
func (h *Handler) Wheel(w http.ResponseWriter, r *http.Request) {
	var req WheelRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *interaction.Controller, resp *SessionResponse) error {
		c.Wheel(req.Delta)
		return nil
	})
}

// View changes zoom or pan from the zoom controls
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *interaction.Controller, resp *SessionResponse) error {
		switch req.Action {
		case "zoom_in":
			c.ZoomIn()
		case "zoom_out":
			c.ZoomOut()
		case "set_zoom":
			c.SetZoom(req.Zoom)
		case "reset":
			c.ResetView()
		case "reset_pan":
			c.ResetPan()
		}
		return nil
	})
}

// Resize changes the session's drawing surface
func (h *Handler) Resize(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *interaction.Controller, resp *SessionResponse) error {
		c.Resize(req.Width, req.Height)
		return nil
	})
}

// Action runs a toolbar action against the current selection
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *interaction.Controller, resp *SessionResponse) error {
		switch req.Action {
		case "add_main":
			n, err := c.AddMainNode()
			resp.Node = copyNode(n)
			return err
		case "add_subtopic":
			n, err := c.AddSubtopic()
			resp.Node = copyNode(n)
			return err
		case "delete":
			return c.DeleteSelected()
		case "edit":
			return c.BeginEdit()
		case "recolor":
			color := domain.ColorKey(req.Color)
			if !color.Valid() {
				return &domain.InputError{Op: "recolor", Field: "color", Err: domain.ErrUnknownColor}
			}
			return c.RecolorSelected(color)
		case "create_agent":
			agent, err := c.CreateAgent()
			if err != nil {
				return err
			}
			resp.Agent = &agent
		}
		return nil
	})
}

// CommitEdit applies the edited label
func (h *Handler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *interaction.Controller, resp *SessionResponse) error {
		return c.CommitEdit(req.Text)
	})
}

// CancelEdit abandons the current edit
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(c *interaction.Controller, resp *SessionResponse) error {
		c.CancelEdit()
		return nil
	})
}

// SaveSession stores the session's map and links the session to it
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	rec, err := h.maps.SaveSession(r.Context(), sess)
	if err != nil {
		h.writeServiceError(w, "Failed to save session", err)
		return
	}
	h.writeJSON(w, rec, http.StatusOK)
}

// mutate runs fn under the session lock and replies with the resulting
// state. Errors still carry the state so clients can resync.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(c *interaction.Controller, resp *SessionResponse) error) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var resp SessionResponse
	state, err := sess.Mutate(func(c *interaction.Controller) error {
		return fn(c, &resp)
	})
	resp.State = state
	if err != nil {
		status := statusFor(err)
		h.writeJSON(w, struct {
			ErrorResponse
			State service.SessionState `json:"state"`
		}{ErrorResponse{Error: "Action failed", Details: err.Error()}, state}, status)
		return
	}
	h.writeJSON(w, resp, http.StatusOK)
}

func copyNode(n *domain.Node) *domain.Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.ChildIDs = append([]string(nil), n.ChildIDs...)
	return &cp
}
