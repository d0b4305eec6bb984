package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"mindcanvas/internal/domain"
)

const eps = 1e-9

func TestRoundTrip(t *testing.T) {
	points := []domain.Point{
		domain.Pt(0, 0),
		domain.Pt(123.5, -42),
		domain.Pt(-1e4, 3e3),
	}
	viewports := []Viewport{
		New(),
		{Zoom: 0.5, Pan: domain.Pt(10, -20)},
		{Zoom: 2, Pan: domain.Pt(-300, 75.25)},
		{Zoom: 1.3, Pan: domain.Pt(0.1, 0.2)},
		{},
	}

	for _, v := range viewports {
		for _, p := range points {
			got := v.ToModel(v.ToScreen(p))
			assert.True(t, got.Near(p, 1e-6), "viewport %+v point %+v got %+v", v, p, got)
		}
	}
}

func TestZoomAndPanManualInverse(t *testing.T) {
	v := New()
	v.SetZoom(2)
	v.PanBy(50, 50)

	screen := domain.Pt(300, 200)
	want := domain.Pt(300/2.0-50, 200/2.0-50)
	assert.True(t, v.ToModel(screen).Near(want, eps))
	assert.True(t, v.ToScreen(want).Near(screen, eps))
}

func TestZoomClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below", 0.1, MinZoom},
		{"above", 5, MaxZoom},
		{"inside", 1.5, 1.5},
		{"kept exact", 1.234, 1.234},
		{"not a number", math.NaN(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.SetZoom(tt.in)
			assert.InDelta(t, tt.want, v.Zoom, eps)
		})
	}
}

func TestZoomSteps(t *testing.T) {
	v := New()
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, MaxZoom, v.Zoom)
	assert.False(t, v.CanZoomIn())
	assert.Equal(t, "200%", v.Percent())

	for i := 0; i < 30; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, MinZoom, v.Zoom)
	assert.False(t, v.CanZoomOut())
	assert.Equal(t, "50%", v.Percent())

	v.ZoomIn()
	assert.Equal(t, "60%", v.Percent())

	v.SetZoom(1.234)
	v.ZoomIn()
	assert.Equal(t, 1.33, v.Zoom, "steps round to two decimals")
}

func TestPanByScreen(t *testing.T) {
	v := New()
	v.SetZoom(2)
	v.PanByScreen(40, -10)
	assert.Equal(t, domain.Pt(20, -5), v.Pan)

	v.ResetPan()
	assert.Equal(t, domain.Point{}, v.Pan)
	assert.Equal(t, 2.0, v.Zoom)

	v.PanBy(1e6, -1e6)
	assert.Equal(t, domain.Pt(1e6, -1e6), v.Pan, "pan is unbounded")
}

func TestReset(t *testing.T) {
	v := Viewport{Zoom: 1.7, Pan: domain.Pt(3, 4)}
	v.Reset()
	assert.Equal(t, New(), v)
	assert.Equal(t, "100%", v.Percent())
}
