// Package layout computes radial positions for a mind-map graph.
//
// The root sits at the center. Main branches are spread evenly on a circle
// of the base radius, starting straight up and proceeding clockwise in
// screen coordinates. Each main branch fans its leaves around its own angle
// on a smaller circle centered on the branch.
//
// Layout is a pure function of the graph, the center and the parameters.
// Nothing here caches; callers recompute after every structural change.
package layout

import (
	"math"

	"mindcanvas/internal/domain"
)

const (
	// DefaultChildRadius is the distance from a main branch to its leaves
	DefaultChildRadius = 120.0
	// DefaultFanStep is the angular gap between sibling leaves, in radians
	DefaultFanStep = 0.4
	// DefaultBaseRadius is the main-branch radius used by the interactive canvas
	DefaultBaseRadius = 200.0
	// MinBaseRadius keeps main branches clear of the root on small surfaces.
	// It is the root radius (80) plus the main-branch radius (50), so a main
	// branch center never falls inside the root's hit area.
	MinBaseRadius = 130.0
	// SurfaceRatio is the base radius as a fraction of the smaller surface side
	SurfaceRatio = 0.3
)

// Positions maps node ids (and domain.RootID) to model-space centers
type Positions map[string]domain.Point

// Params tunes the radial layout
type Params struct {
	ChildRadius float64
	FanStep     float64
}

// DefaultParams returns the standard layout parameters
func DefaultParams() Params {
	return Params{
		ChildRadius: DefaultChildRadius,
		FanStep:     DefaultFanStep,
	}
}

func (p Params) withDefaults() Params {
	if p.ChildRadius <= 0 {
		p.ChildRadius = DefaultChildRadius
	}
	if p.FanStep <= 0 {
		p.FanStep = DefaultFanStep
	}
	return p
}

// Radial places every node of g around center
func Radial(g *domain.Graph, center domain.Point, baseRadius float64, p Params) Positions {
	p = p.withDefaults()
	pos := Positions{domain.RootID: center}
	if g == nil {
		return pos
	}

	mains := g.MainNodes()
	n := len(mains)
	for i, main := range mains {
		theta := Angle(i, n)
		mp := Polar(center, baseRadius, theta)
		pos[main.ID] = mp

		m := len(main.ChildIDs)
		for j, cid := range main.ChildIDs {
			pos[cid] = Polar(mp, p.ChildRadius, ChildAngle(theta, j, m, p.FanStep))
		}
	}
	return pos
}

// Angle returns the angle of main branch i of n. Branch 0 points up.
func Angle(i, n int) float64 {
	if n <= 0 {
		return -math.Pi / 2
	}
	return float64(i)*2*math.Pi/float64(n) - math.Pi/2
}

// ChildAngle returns the angle of leaf j of m around a parent at parentAngle.
// Leaves are centered on the parent's angle.
func ChildAngle(parentAngle float64, j, m int, step float64) float64 {
	offset := float64(j) - float64(m-1)/2
	return parentAngle + offset*step
}

// Polar returns the point at radius r and angle theta around origin
func Polar(origin domain.Point, r, theta float64) domain.Point {
	return domain.Point{
		X: origin.X + r*math.Cos(theta),
		Y: origin.Y + r*math.Sin(theta),
	}
}

// BaseRadiusFor derives the main-branch radius from the surface size
func BaseRadiusFor(width, height float64) float64 {
	r := math.Min(width, height) * SurfaceRatio
	if r < MinBaseRadius || math.IsNaN(r) {
		return MinBaseRadius
	}
	return r
}

// CenterFor returns the middle of a surface
func CenterFor(width, height float64) domain.Point {
	return domain.Point{X: width / 2, Y: height / 2}
}

// Bounds returns the model-space bounding box of all positions, padded by pad
func (p Positions) Bounds(pad float64) (lo, hi domain.Point) {
	first := true
	for _, pt := range p {
		if first {
			lo, hi = pt, pt
			first = false
			continue
		}
		lo.X = math.Min(lo.X, pt.X)
		lo.Y = math.Min(lo.Y, pt.Y)
		hi.X = math.Max(hi.X, pt.X)
		hi.Y = math.Max(hi.Y, pt.Y)
	}
	return lo.Sub(domain.Pt(pad, pad)), hi.Add(domain.Pt(pad, pad))
}
