package render

import (
	"math"

	"github.com/fogleman/gg"

	"mindcanvas/internal/domain"
)

// Nominal node radii in model units
const (
	RootRadius = 80.0
	MainRadius = 50.0
	LeafRadius = 35.0
)

// Radius returns the nominal radius of a node at level
func Radius(level domain.Level) float64 {
	switch level {
	case domain.LevelRoot:
		return RootRadius
	case domain.LevelMain:
		return MainRadius
	default:
		return LeafRadius
	}
}

const (
	arrowLength = 8.0
	arrowSpread = math.Pi / 6
	curveBend   = 0.1
)

// lobe is one circle of a cloud, in units of the cloud radius
type lobe struct {
	dx, dy, r float64
}

var cloudLobes = []lobe{
	{-0.3, -0.2, 0.4},
	{0.3, -0.2, 0.4},
	{-0.2, 0.1, 0.3},
	{0.2, 0.1, 0.3},
	{0, 0, 0.5},
}

// CloudPath adds the cloud outline centered at (x, y) to the current path.
// Filling with the nonzero rule gives the union of the lobes.
func CloudPath(dc *gg.Context, x, y, r float64) {
	for _, l := range cloudLobes {
		dc.NewSubPath()
		dc.DrawCircle(x+l.dx*r, y+l.dy*r, l.r*r)
	}
}

// ControlPoint returns the quadratic control point bending the connector
// from a to b slightly to one side
func ControlPoint(a, b domain.Point) domain.Point {
	mid := a.Add(b).Scale(0.5)
	d := b.Sub(a)
	return mid.Add(domain.Pt(d.Y, -d.X).Scale(curveBend))
}

// ArrowHead returns the two base corners of the arrowhead whose tip is at
// end, pointing along the direction from control to end. ok is false for
// degenerate connectors.
func ArrowHead(control, end domain.Point, length float64) (left, right domain.Point, ok bool) {
	if control.Dist(end) < 1e-9 {
		return left, right, false
	}
	angle := math.Atan2(end.Y-control.Y, end.X-control.X)
	left = domain.Pt(
		end.X-length*math.Cos(angle-arrowSpread),
		end.Y-length*math.Sin(angle-arrowSpread),
	)
	right = domain.Pt(
		end.X-length*math.Cos(angle+arrowSpread),
		end.Y-length*math.Sin(angle+arrowSpread),
	)
	return left, right, true
}

// drawConnector strokes a curved connector between two screen points and
// fills its arrowhead at the end
func drawConnector(dc *gg.Context, from, to domain.Point, zoom float64) {
	if from.Dist(to) < 1e-9 {
		return
	}
	ctrl := ControlPoint(from, to)

	dc.SetColor(ConnectorColor)
	dc.SetLineWidth(2 * zoom)
	dc.NewSubPath()
	dc.MoveTo(from.X, from.Y)
	dc.QuadraticTo(ctrl.X, ctrl.Y, to.X, to.Y)
	dc.Stroke()

	left, right, ok := ArrowHead(ctrl, to, arrowLength*zoom)
	if !ok {
		return
	}
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	dc.Fill()
}
