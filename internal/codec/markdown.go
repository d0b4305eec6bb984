package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mindcanvas/internal/domain"
)

// MarkdownCodec reads and writes mind maps as indented outlines:
//
//	# Travel
//
//	- Packing
//	  - Clothes
//	- Budget
//
// "## Heading" lines are accepted as main branches too. Items nested deeper
// than two levels are folded into the nearest main branch.
type MarkdownCodec struct{}

// NewMarkdownCodec creates a new Markdown codec
func NewMarkdownCodec() *MarkdownCodec {
	return &MarkdownCodec{}
}

// Format returns the codec format identifier
func (c *MarkdownCodec) Format() string {
	return "markdown"
}

// Parse imports a mind map from a Markdown outline
func (c *MarkdownCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{Nodes: make([]domain.SnapshotNode, 0)}
	var current *domain.SnapshotNode
	// under a "##" heading, unindented items are leaves
	underHeading := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		trimmed := strings.TrimLeft(raw, " \t")
		indent := indentWidth(raw[:len(raw)-len(trimmed)])

		switch {
		case strings.HasPrefix(trimmed, "# "):
			snap.Topic = strings.TrimSpace(trimmed[2:])
		case strings.HasPrefix(trimmed, "## "):
			snap.Nodes = append(snap.Nodes, domain.SnapshotNode{Text: strings.TrimSpace(trimmed[3:])})
			current = &snap.Nodes[len(snap.Nodes)-1]
			underHeading = true
		case isListItem(trimmed):
			text := strings.TrimSpace(trimmed[2:])
			if indent == 0 && !underHeading {
				snap.Nodes = append(snap.Nodes, domain.SnapshotNode{Text: text})
				current = &snap.Nodes[len(snap.Nodes)-1]
				continue
			}
			if current == nil {
				return nil, fmt.Errorf("line %d: item %q has no parent branch", lineNo, text)
			}
			current.Children = append(current.Children, domain.SnapshotNode{Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read markdown: %w", err)
	}

	return snap, nil
}

// Export writes a mind map as a Markdown outline
func (c *MarkdownCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", oneLine(snap.Topic))
	if len(snap.Nodes) > 0 {
		bw.WriteString("\n")
	}
	for _, sn := range snap.Nodes {
		fmt.Fprintf(bw, "- %s\n", oneLine(sn.Text))
		for _, leaf := range sn.Children {
			fmt.Fprintf(bw, "  - %s\n", oneLine(leaf.Text))
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

func isListItem(s string) bool {
	return strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") || strings.HasPrefix(s, "+ ")
}

// indentWidth counts a tab as two spaces
func indentWidth(ws string) int {
	n := 0
	for _, r := range ws {
		if r == '\t' {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// oneLine keeps multi-line labels on a single outline line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
