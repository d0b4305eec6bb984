package domain

import "strings"

// ColorKey is a symbolic palette entry shared by a main branch and its leaves
type ColorKey string

const (
	ColorBlue   ColorKey = "blue"
	ColorGreen  ColorKey = "green"
	ColorPurple ColorKey = "purple"
	ColorOrange ColorKey = "orange"
	ColorPink   ColorKey = "pink"
	ColorYellow ColorKey = "yellow"
	ColorRed    ColorKey = "red"
	ColorIndigo ColorKey = "indigo"
)

// Palette lists the color keys in round-robin assignment order
var Palette = []ColorKey{
	ColorBlue,
	ColorGreen,
	ColorPurple,
	ColorOrange,
	ColorPink,
	ColorYellow,
	ColorRed,
	ColorIndigo,
}

// DefaultColor is used whenever a key cannot be resolved
const DefaultColor = ColorBlue

// PaletteColor returns the round-robin color for the i-th main branch
func PaletteColor(i int) ColorKey {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Valid reports whether the key is a palette entry
func (c ColorKey) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// OrDefault returns the key, or DefaultColor if it is not a palette entry
func (c ColorKey) OrDefault() ColorKey {
	if c.Valid() {
		return c
	}
	return DefaultColor
}

// ParseColorKey resolves a palette name or a legacy style-class string
// such as "bg-green-100 text-green-800" to a palette entry.
// Unknown values resolve to DefaultColor.
func ParseColorKey(s string) ColorKey {
	s = strings.ToLower(strings.TrimSpace(s))
	if k := ColorKey(s); k.Valid() {
		return k
	}
	for _, k := range Palette {
		if strings.Contains(s, string(k)) {
			return k
		}
	}
	return DefaultColor
}
