package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"mindcanvas/internal/domain"
)

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// branchColors maps palette keys to the closest terminal color
var branchColors = map[domain.ColorKey]color.Attribute{
	domain.ColorBlue:   color.FgBlue,
	domain.ColorGreen:  color.FgGreen,
	domain.ColorPurple: color.FgMagenta,
	domain.ColorOrange: color.FgHiYellow,
	domain.ColorPink:   color.FgHiMagenta,
	domain.ColorYellow: color.FgYellow,
	domain.ColorRed:    color.FgRed,
	domain.ColorIndigo: color.FgHiBlue,
}

func colorFor(key domain.ColorKey, extra ...color.Attribute) *color.Color {
	return color.New(append([]color.Attribute{branchColors[key.OrDefault()]}, extra...)...)
}

// printTree writes the map as an indented tree, each branch in its color
func printTree(w io.Writer, snap domain.Snapshot) {
	fmt.Fprintln(w, brand.Sprint(snap.Topic))
	for i, n := range snap.Nodes {
		last := i == len(snap.Nodes)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintln(w, subtle.Sprint(branch)+colorFor(n.Color, color.Bold).Sprint(n.Text))
		for j, leaf := range n.Children {
			mark := "├── "
			if j == len(n.Children)-1 {
				mark = "└── "
			}
			fmt.Fprintln(w, subtle.Sprint(indent+mark)+colorFor(n.Color).Sprint(leaf.Text))
		}
	}
}

// table prints aligned columns with a dim header
func table(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var head, sep strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&head, "%-*s  ", widths[i], h)
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	subtle.Fprintln(w, strings.TrimRight(head.String(), " "))
	subtle.Fprintln(w, strings.TrimRight(sep.String(), " "))
	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&line, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func dirOf(path string) string {
	if path == ":memory:" {
		return "."
	}
	return filepath.Dir(path)
}
