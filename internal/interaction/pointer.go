package interaction

import (
	"image"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/layout"
	"mindcanvas/internal/render"
)

// HitTest returns the node under a screen point. The root is tested first,
// then main branches, then leaves; the first match wins.
func (c *Controller) HitTest(x, y float64) (string, bool) {
	pos := c.layout()
	m := c.view.ToModel(domain.Pt(x, y))

	if p, ok := pos[domain.RootID]; ok && m.Dist(p) <= render.RootRadius {
		return domain.RootID, true
	}
	mains := c.graph.MainNodes()
	for _, n := range mains {
		if p, ok := pos[n.ID]; ok && m.Dist(p) <= render.MainRadius {
			return n.ID, true
		}
	}
	for _, n := range mains {
		for _, cid := range n.ChildIDs {
			if p, ok := pos[cid]; ok && m.Dist(p) <= render.LeafRadius {
				return cid, true
			}
		}
	}
	return "", false
}

// PointerDown handles a press at a screen point. A press on a node toggles
// its selection; a press on empty canvas starts panning.
//
// A press while editing cancels the edit. The controller never holds the
// pending text, so clients that commit on blur must call CommitEdit before
// forwarding the press.
func (c *Controller) PointerDown(x, y float64) {
	if c.state == StateEditing {
		c.CancelEdit()
	}

	if id, ok := c.HitTest(x, y); ok {
		if c.selection == id {
			c.selection = ""
		} else {
			c.selection = id
		}
		c.state = StateIdle
		return
	}

	c.state = StatePanning
	c.last = domain.Pt(x, y)
	c.moved = false
}

// PointerMove pans by the drag delta while panning
func (c *Controller) PointerMove(x, y float64) {
	if c.state != StatePanning {
		return
	}
	p := domain.Pt(x, y)
	d := p.Sub(c.last)
	if d.X == 0 && d.Y == 0 {
		return
	}
	c.view.PanByScreen(d.X, d.Y)
	c.last = p
	c.moved = true
}

// PointerUp ends a gesture. A press on empty canvas released without
// dragging clears the selection.
func (c *Controller) PointerUp() {
	if c.state == StatePanning && !c.moved {
		c.selection = ""
	}
	if c.state == StatePanning {
		c.state = StateIdle
	}
	c.moved = false
}

// Wheel zooms in for negative deltas and out for positive ones
func (c *Controller) Wheel(delta float64) {
	switch {
	case delta < 0:
		c.view.ZoomIn()
	case delta > 0:
		c.view.ZoomOut()
	}
}

// ZoomIn zooms in one step
func (c *Controller) ZoomIn() {
	c.view.ZoomIn()
}

// ZoomOut zooms out one step
func (c *Controller) ZoomOut() {
	c.view.ZoomOut()
}

// SetZoom sets the zoom, clamped to the allowed range
func (c *Controller) SetZoom(z float64) {
	c.view.SetZoom(z)
}

// ResetView restores zoom 1 and zero pan
func (c *Controller) ResetView() {
	c.view.Reset()
}

// ResetPan restores zero pan
func (c *Controller) ResetPan() {
	c.view.ResetPan()
}

// Resize changes the surface size and invalidates the layout
func (c *Controller) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.invalidate()
}

func (c *Controller) invalidate() {
	c.stale = true
}

// layout returns the cached positions, recomputing them after any
// structural change or resize
func (c *Controller) layout() layout.Positions {
	if !c.stale && c.laidOut == c.graph.Version() && c.positions != nil {
		return c.positions
	}
	w, h := float64(c.width), float64(c.height)
	radius := c.baseRadius
	if radius <= 0 {
		radius = layout.BaseRadiusFor(w, h)
	}
	c.positions = layout.Radial(c.graph, layout.CenterFor(w, h), radius, c.params)
	c.laidOut = c.graph.Version()
	c.stale = false
	return c.positions
}

// Positions returns a copy of the current layout
func (c *Controller) Positions() layout.Positions {
	pos := c.layout()
	out := make(layout.Positions, len(pos))
	for id, p := range pos {
		out[id] = p
	}
	return out
}

// Scene returns everything needed to draw the current state
func (c *Controller) Scene() render.Scene {
	return render.Scene{
		Graph:     c.graph,
		Positions: c.layout(),
		Viewport:  c.view,
		Selection: c.selection,
		Width:     c.width,
		Height:    c.height,
	}
}

// Frame relayouts if needed and draws the current state
// Without a renderer it returns nil.
func (c *Controller) Frame() *image.RGBA {
	if c.renderer == nil {
		return nil
	}
	return c.renderer.Frame(c.Scene())
}
