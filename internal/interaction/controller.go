// Package interaction turns pointer, wheel and toolbar input into graph
// and viewport changes.
//
// A Controller is the single owner of one mind map's graph, viewport,
// selection, surface size and cached layout. It is not safe for concurrent
// use; callers that share one across goroutines serialize access.
package interaction

import (
	"image"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/layout"
	"mindcanvas/internal/render"
	"mindcanvas/internal/viewport"
)

// State is the controller's input mode
type State int

const (
	StateIdle State = iota
	StatePanning
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePanning:
		return "panning"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// FrameRenderer draws a scene
type FrameRenderer interface {
	Frame(render.Scene) *image.RGBA
}

// AgentSpawner receives expert-agent requests. It must not block.
type AgentSpawner func(domain.AgentRequest)

// Actions reports which toolbar actions are currently available
type Actions struct {
	AddMain     bool `json:"add_main"`
	AddSubtopic bool `json:"add_subtopic"`
	Edit        bool `json:"edit"`
	Delete      bool `json:"delete"`
	Recolor     bool `json:"recolor"`
	CreateAgent bool `json:"create_agent"`
	ZoomIn      bool `json:"zoom_in"`
	ZoomOut     bool `json:"zoom_out"`
}

// Controller drives one interactive mind map
type Controller struct {
	graph    *domain.Graph
	view     viewport.Viewport
	renderer FrameRenderer
	spawn    AgentSpawner
	mapID    string

	state      State
	selection  string
	editTarget string

	width, height int
	baseRadius    float64
	params        layout.Params

	positions layout.Positions
	laidOut   uint64
	stale     bool

	// pan gesture
	last  domain.Point
	moved bool
}

// Option configures a Controller
type Option func(*Controller)

// WithSpawner sets the receiver of CreateAgent requests
func WithSpawner(fn AgentSpawner) Option {
	return func(c *Controller) {
		c.spawn = fn
	}
}

// WithLayout overrides the layout parameters. A zero base radius derives
// the radius from the surface size.
func WithLayout(baseRadius float64, p layout.Params) Option {
	return func(c *Controller) {
		c.baseRadius = baseRadius
		c.params = p
	}
}

// WithMapID tags agent requests with the stored map they came from
func WithMapID(id string) Option {
	return func(c *Controller) {
		c.mapID = id
	}
}

// New creates a controller for g drawing onto a width x height surface
func New(g *domain.Graph, width, height int, r FrameRenderer, opts ...Option) *Controller {
	if g == nil {
		g = domain.NewGraph("")
	}
	c := &Controller{
		graph:    g,
		view:     viewport.New(),
		renderer: r,
		width:    width,
		height:   height,
		params:   layout.DefaultParams(),
		stale:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open replaces the graph with one built from snap and resets selection,
// input state, viewport and layout
func (c *Controller) Open(snap domain.Snapshot) {
	c.graph = domain.FromSnapshot(snap)
	c.view.Reset()
	c.resetInput()
	c.invalidate()
}

// OpenGraph is Open for an already built graph
func (c *Controller) OpenGraph(g *domain.Graph) {
	if g == nil {
		g = domain.NewGraph("")
	}
	c.graph = g
	c.view.Reset()
	c.resetInput()
	c.invalidate()
}

func (c *Controller) resetInput() {
	c.state = StateIdle
	c.selection = ""
	c.editTarget = ""
	c.moved = false
}

// Snapshot returns the nested form of the current graph
func (c *Controller) Snapshot() domain.Snapshot {
	return c.graph.Snapshot()
}

// Stats counts the current graph's nodes
func (c *Controller) Stats() domain.Stats {
	return c.graph.Stats()
}

// Topic returns the root label
func (c *Controller) Topic() string {
	return c.graph.Topic
}

// Node returns a copy of a node of the current graph
func (c *Controller) Node(id string) (*domain.Node, bool) {
	return c.graph.Node(id)
}

// MapID returns the stored map id agent requests are tagged with
func (c *Controller) MapID() string {
	return c.mapID
}

// SetMapID tags future agent requests with a stored map id
func (c *Controller) SetMapID(id string) {
	c.mapID = id
}

// State returns the current input mode
func (c *Controller) State() State {
	return c.state
}

// Selection returns the selected id, or "" when nothing is selected
func (c *Controller) Selection() string {
	return c.selection
}

// Viewport returns the current zoom and pan
func (c *Controller) Viewport() viewport.Viewport {
	return c.view
}

// Size returns the surface size
func (c *Controller) Size() (width, height int) {
	return c.width, c.height
}

// EditTarget returns the id being edited and its current label
func (c *Controller) EditTarget() (id, text string, ok bool) {
	if c.state != StateEditing {
		return "", "", false
	}
	return c.editTarget, c.label(c.editTarget), true
}

func (c *Controller) label(id string) string {
	if id == domain.RootID {
		return c.graph.Topic
	}
	if n, ok := c.graph.Node(id); ok {
		return n.Text
	}
	return ""
}

// Actions reports which actions the current selection enables
func (c *Controller) Actions() Actions {
	a := Actions{
		AddMain: true,
		ZoomIn:  c.view.CanZoomIn(),
		ZoomOut: c.view.CanZoomOut(),
	}
	if c.selection == "" {
		return a
	}
	a.Edit = true
	if c.selection == domain.RootID {
		return a
	}
	n, ok := c.graph.Node(c.selection)
	if !ok {
		return a
	}
	a.Delete = true
	a.Recolor = true
	if n.IsMain() {
		a.AddSubtopic = true
		a.CreateAgent = true
	}
	return a
}
