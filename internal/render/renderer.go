// Package render rasterizes a laid-out mind map.
//
// A frame is drawn back to front: background, every connector, the root,
// the main branches, then the leaves. Each node is a cloud of overlapping
// circles with its label wrapped inside. All geometry is computed in model
// space and mapped to the surface through the scene's viewport, so the
// same viewport drives drawing and hit-testing.
//
// A Renderer caches font faces and is not safe for concurrent use.
package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/layout"
	"mindcanvas/internal/viewport"
)

// Scene is everything needed to draw one frame
type Scene struct {
	Graph     *domain.Graph
	Positions layout.Positions
	Viewport  viewport.Viewport
	Selection string
	Width     int
	Height    int
}

// Renderer draws scenes onto RGBA images
type Renderer struct {
	fonts      *fonts
	background color.Color
}

// Option configures a Renderer
type Option func(*Renderer)

// WithBackground overrides the canvas background color
func WithBackground(c color.Color) Option {
	return func(r *Renderer) {
		r.background = c
	}
}

// NewRenderer creates a renderer with the bundled Go fonts
func NewRenderer(opts ...Option) (*Renderer, error) {
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		fonts:      f,
		background: Background,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Frame draws the scene. A non-positive surface yields a 1x1 image.
func (r *Renderer) Frame(s Scene) *image.RGBA {
	if s.Width <= 0 || s.Height <= 0 {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, r.background)
		return img
	}

	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(r.background)
	dc.Clear()

	v := s.Viewport
	zoom := v.Scale(1)
	rootPos, hasRoot := s.Positions[domain.RootID]

	var mains []*domain.Node
	if s.Graph != nil {
		mains = s.Graph.MainNodes()
	}

	screen := func(id string) (domain.Point, bool) {
		p, ok := s.Positions[id]
		if !ok {
			return domain.Point{}, false
		}
		return v.ToScreen(p), true
	}

	// connectors: root to main, then main to leaf
	if hasRoot {
		from := v.ToScreen(rootPos)
		for _, m := range mains {
			if to, ok := screen(m.ID); ok {
				drawConnector(dc, from, to, zoom)
			}
		}
	}
	for _, m := range mains {
		from, ok := screen(m.ID)
		if !ok {
			continue
		}
		for _, cid := range m.ChildIDs {
			if to, ok := screen(cid); ok {
				drawConnector(dc, from, to, zoom)
			}
		}
	}

	if hasRoot {
		topic := domain.DefaultTopic
		if s.Graph != nil {
			topic = s.Graph.Topic
		}
		r.drawNode(dc, v.ToScreen(rootPos), domain.LevelRoot, domain.DefaultColor, topic, s.Selection == domain.RootID, zoom)
	}
	for _, m := range mains {
		if p, ok := screen(m.ID); ok {
			r.drawNode(dc, p, domain.LevelMain, m.Color, m.Text, s.Selection == m.ID, zoom)
		}
	}
	for _, m := range mains {
		for _, leaf := range s.Graph.Children(m.ID) {
			if p, ok := screen(leaf.ID); ok {
				r.drawNode(dc, p, domain.LevelLeaf, leaf.Color, leaf.Text, s.Selection == leaf.ID, zoom)
			}
		}
	}

	return img
}

// EncodePNG draws the scene and writes it as PNG
func (r *Renderer) EncodePNG(w io.Writer, s Scene) error {
	return WritePNG(w, r.Frame(s))
}

// WritePNG encodes an already drawn frame
func WritePNG(w io.Writer, img *image.RGBA) error {
	return gg.NewContextForRGBA(img).EncodePNG(w)
}

func (r *Renderer) drawNode(dc *gg.Context, at domain.Point, level domain.Level, key domain.ColorKey, text string, selected bool, zoom float64) {
	radius := Radius(level) * zoom

	var fill, stroke color.Color = Fill(key), NodeStroke
	lineWidth := 2.0
	if level == domain.LevelRoot {
		fill, stroke = RootFill, RootStroke
		lineWidth = 3
	}
	if selected {
		fill, stroke = SelectedFill, SelectedStroke
	}

	CloudPath(dc, at.X, at.Y, radius)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(stroke)
	dc.SetLineWidth(lineWidth * zoom)
	dc.Stroke()

	r.drawLabel(dc, text, level, at, zoom)
}
