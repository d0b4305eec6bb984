// Package viewport maps between model space and screen space.
//
// A viewport is a uniform zoom plus a pan offset expressed in model units:
//
//	screen = (model + pan) * zoom
//	model  = screen / zoom - pan
package viewport

import (
	"fmt"
	"math"

	"mindcanvas/internal/domain"
)

const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 0.1
)

// Viewport is the current zoom and pan of the canvas
type Viewport struct {
	Zoom float64      `json:"zoom"`
	Pan  domain.Point `json:"pan"`
}

// New returns the identity viewport
func New() Viewport {
	return Viewport{Zoom: 1}
}

// ToScreen converts a model-space point to screen space
func (v Viewport) ToScreen(p domain.Point) domain.Point {
	return p.Add(v.Pan).Scale(v.zoom())
}

// ToModel converts a screen-space point to model space
func (v Viewport) ToModel(s domain.Point) domain.Point {
	return s.Scale(1 / v.zoom()).Sub(v.Pan)
}

// Scale converts a model-space length to screen space
func (v Viewport) Scale(length float64) float64 {
	return length * v.zoom()
}

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom]
func (v *Viewport) SetZoom(z float64) {
	v.Zoom = Clamp(z)
}

// ZoomIn increases the zoom by one step
func (v *Viewport) ZoomIn() {
	v.SetZoom(step(v.zoom() + ZoomStep))
}

// ZoomOut decreases the zoom by one step
func (v *Viewport) ZoomOut() {
	v.SetZoom(step(v.zoom() - ZoomStep))
}

// step rounds step arithmetic to two decimals so repeated steps land
// exactly on the bounds
func step(z float64) float64 {
	return math.Round(z*100) / 100
}

// PanBy moves the pan offset by a model-space delta. Pan is unbounded.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan = v.Pan.Add(domain.Pt(dx, dy))
}

// PanByScreen moves the pan offset by a screen-space drag delta
func (v *Viewport) PanByScreen(dx, dy float64) {
	z := v.zoom()
	v.PanBy(dx/z, dy/z)
}

// Reset restores zoom 1 and zero pan
func (v *Viewport) Reset() {
	*v = New()
}

// ResetPan restores zero pan, keeping the zoom
func (v *Viewport) ResetPan() {
	v.Pan = domain.Point{}
}

// Percent returns the zoom as a label such as "100%"
func (v Viewport) Percent() string {
	return fmt.Sprintf("%d%%", int(math.Round(v.zoom()*100)))
}

// CanZoomIn reports whether ZoomIn would change the zoom
func (v Viewport) CanZoomIn() bool {
	return v.zoom() < MaxZoom-1e-9
}

// CanZoomOut reports whether ZoomOut would change the zoom
func (v Viewport) CanZoomOut() bool {
	return v.zoom() > MinZoom+1e-9
}

// zoom treats the zero value as the identity
func (v Viewport) zoom() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

// Clamp limits z to [MinZoom, MaxZoom]
func Clamp(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
