package render

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"mindcanvas/internal/domain"
)

// labelStyle is the font and spacing of one node level
type labelStyle struct {
	size       float64
	bold       bool
	lineHeight float64
}

func styleFor(level domain.Level) labelStyle {
	switch level {
	case domain.LevelRoot:
		return labelStyle{size: 16, bold: true, lineHeight: 16}
	case domain.LevelMain:
		return labelStyle{size: 14, lineHeight: 16}
	default:
		return labelStyle{size: 12, lineHeight: 14}
	}
}

type faceKey struct {
	bold bool
	size int // in hundredths of a point
}

// fonts parses the Go fonts once per renderer and caches faces by size
type fonts struct {
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
}

func loadFonts() (*fonts, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &fonts{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func (f *fonts) face(bold bool, size float64) font.Face {
	key := faceKey{bold: bold, size: int(math.Round(size * 100))}
	if face, ok := f.faces[key]; ok {
		return face
	}
	ttf := f.regular
	if bold {
		ttf = f.bold
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(key.size) / 100,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	f.faces[key] = face
	return face
}

// WrapLabel splits text into lines no wider than maxWidth using the
// context's current font face. A single word wider than maxWidth stays on
// its own line.
func WrapLabel(dc *gg.Context, text string, maxWidth float64) []string {
	lines := dc.WordWrap(text, maxWidth)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// drawLabel draws white, centered, word-wrapped text at a screen point
func (r *Renderer) drawLabel(dc *gg.Context, text string, level domain.Level, at domain.Point, zoom float64) {
	style := styleFor(level)
	size := math.Max(style.size*zoom, 1)
	dc.SetFontFace(r.fonts.face(style.bold, size))
	dc.SetColor(LabelColor)

	lineHeight := style.lineHeight * zoom
	lines := WrapLabel(dc, text, Radius(level)*1.5*zoom)
	y := at.Y - float64(len(lines)-1)*lineHeight/2
	for i, line := range lines {
		dc.DrawStringAnchored(line, at.X, y+float64(i)*lineHeight, 0.5, 0.5)
	}
}
