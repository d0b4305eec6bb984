package handler

import (
	"mindcanvas/internal/domain"
	"mindcanvas/internal/service"
)

// GenerateRequest asks for a new map built from a topic
type GenerateRequest struct {
	Topic string `json:"topic" validate:"required,max=200"`
	// Save stores the generated map
	Save bool `json:"save"`
	// Open starts an interactive session on the generated map
	Open bool `json:"open"`
}

// GenerateResponse carries the generated snapshot and, when requested, the
// stored record and session id
type GenerateResponse struct {
	Snapshot  domain.Snapshot       `json:"snapshot"`
	Stats     domain.Stats          `json:"stats"`
	Map       *domain.MindMapRecord `json:"map,omitempty"`
	SessionID string                `json:"session_id,omitempty"`
}

// OpenSessionRequest opens a session on a stored map or an inline snapshot
type OpenSessionRequest struct {
	MapID    string           `json:"map_id" validate:"required_without=Snapshot"`
	Snapshot *domain.Snapshot `json:"snapshot" validate:"required_without=MapID"`
}

// PointerRequest is a pointer event in screen coordinates
type PointerRequest struct {
	Type string  `json:"type" validate:"required,oneof=down move up double"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// WheelRequest is a wheel event; negative deltas zoom in
type WheelRequest struct {
	Delta float64 `json:"delta" validate:"required"`
}

// ViewRequest changes zoom or pan
type ViewRequest struct {
	Action string  `json:"action" validate:"required,oneof=zoom_in zoom_out set_zoom reset reset_pan"`
	Zoom   float64 `json:"zoom" validate:"required_if=Action set_zoom,gte=0"`
}

// ResizeRequest changes the drawing surface
type ResizeRequest struct {
	Width  int `json:"width" validate:"required,gte=1,lte=8192"`
	Height int `json:"height" validate:"required,gte=1,lte=8192"`
}

// ActionRequest runs a toolbar action on the current selection
type ActionRequest struct {
	Action string `json:"action" validate:"required,oneof=add_main add_subtopic delete edit recolor create_agent"`
	Color  string `json:"color" validate:"required_if=Action recolor"`
}

// EditRequest commits the label being edited
type EditRequest struct {
	Text string `json:"text" validate:"required"`
}

// SessionResponse wraps a session state with an optional created node or
// agent request
type SessionResponse struct {
	State service.SessionState `json:"state"`
	Node  *domain.Node         `json:"node,omitempty"`
	Agent *domain.AgentRequest `json:"agent,omitempty"`
}
