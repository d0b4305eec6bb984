package domain

import "strings"

// Outline is the result of expanding a topic: main branch names, each with
// its leaf names
type Outline struct {
	Topic    string   `json:"topic" yaml:"topic"`
	Branches []Branch `json:"branches" yaml:"branches"`
}

// Branch is one main branch of an outline
type Branch struct {
	Name   string   `json:"name" yaml:"name"`
	Leaves []string `json:"leaves" yaml:"leaves"`
}

// NewOutline creates an empty outline for a topic
func NewOutline(topic string) *Outline {
	return &Outline{
		Topic:    topic,
		Branches: make([]Branch, 0),
	}
}

// AddBranch appends a main branch with its leaves
func (o *Outline) AddBranch(name string, leaves ...string) {
	o.Branches = append(o.Branches, Branch{Name: name, Leaves: leaves})
}

// FromOutline converts an outline 1:1 into a graph, assigning palette colors
// round-robin over main branches. At least one branch is required; empty
// leaf lists are fine. Blank names get the placeholder labels.
func FromOutline(o *Outline) (*Graph, error) {
	if o == nil || len(o.Branches) == 0 {
		return nil, &InputError{Op: "from outline", Field: "branches", Err: ErrEmptyOutline}
	}

	g := NewGraph(strings.TrimSpace(o.Topic))
	for i, b := range o.Branches {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			name = PlaceholderMain
		}
		main, err := g.AddMainNode(name, PaletteColor(i))
		if err != nil {
			return nil, err
		}
		for _, leaf := range b.Leaves {
			leaf = strings.TrimSpace(leaf)
			if leaf == "" {
				leaf = PlaceholderLeaf
			}
			if _, err := g.AddChildNode(main.ID, leaf); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
