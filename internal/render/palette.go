package render

import (
	"image/color"

	"mindcanvas/internal/domain"
)

// Fixed colors of the canvas
var (
	Background     = hex(0xf8fafc)
	ConnectorColor = hex(0xcbd5e1)
	NodeStroke     = hex(0xe2e8f0)
	SelectedFill   = hex(0xfbbf24)
	SelectedStroke = hex(0xf59e0b)
	RootFill       = hex(0x3b82f6)
	RootStroke     = hex(0x1e40af)
	LabelColor     = hex(0xffffff)
)

// Palette maps color keys to fill colors
var Palette = map[domain.ColorKey]color.RGBA{
	domain.ColorBlue:   hex(0x3b82f6),
	domain.ColorGreen:  hex(0x10b981),
	domain.ColorPurple: hex(0x8b5cf6),
	domain.ColorOrange: hex(0xf59e0b),
	domain.ColorPink:   hex(0xec4899),
	domain.ColorYellow: hex(0xeab308),
	domain.ColorRed:    hex(0xef4444),
	domain.ColorIndigo: hex(0x6366f1),
}

// Fill returns the fill color for a key, falling back to the default color
func Fill(key domain.ColorKey) color.RGBA {
	if c, ok := Palette[key]; ok {
		return c
	}
	return Palette[domain.DefaultColor]
}

func hex(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}
