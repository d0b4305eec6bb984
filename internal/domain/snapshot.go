package domain

import "time"

// Snapshot is the nested, serializable form of a Graph
type Snapshot struct {
	Topic string         `json:"topic" yaml:"topic"`
	Nodes []SnapshotNode `json:"nodes" yaml:"nodes"`
}

// SnapshotNode is one main branch (with Children) or one leaf (without)
type SnapshotNode struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Text     string         `json:"text" yaml:"text"`
	Color    ColorKey       `json:"color,omitempty" yaml:"color,omitempty"`
	Children []SnapshotNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// MindMapRecord is a saved mind map
type MindMapRecord struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Snapshot  Snapshot  `json:"snapshot"`
	NodeCount int       `json:"node_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot converts the graph to its nested form
func (g *Graph) Snapshot() Snapshot {
	snap := Snapshot{
		Topic: g.Topic,
		Nodes: make([]SnapshotNode, 0, len(g.order)),
	}
	for _, main := range g.MainNodes() {
		sn := SnapshotNode{ID: main.ID, Text: main.Text, Color: main.Color}
		for _, leaf := range g.Children(main.ID) {
			sn.Children = append(sn.Children, SnapshotNode{ID: leaf.ID, Text: leaf.Text, Color: leaf.Color})
		}
		snap.Nodes = append(snap.Nodes, sn)
	}
	return snap
}

// NodeCount returns the number of main and leaf nodes in the snapshot
func (s Snapshot) NodeCount() int {
	count := len(s.Nodes)
	for _, n := range s.Nodes {
		count += len(n.Children)
	}
	return count
}

// FromSnapshot builds a fresh graph from its nested form. Missing or
// duplicate ids are regenerated, blank labels get placeholders, unknown
// colors resolve through ParseColorKey, and leaves always take their main
// branch's color unless they carry their own valid key.
func FromSnapshot(s Snapshot) *Graph {
	g := NewGraph(s.Topic)
	seen := make(map[string]bool)

	id := func(candidate string) string {
		if candidate == "" || candidate == RootID || seen[candidate] {
			candidate = NewID()
		}
		seen[candidate] = true
		return candidate
	}

	for i, sn := range s.Nodes {
		color := ParseColorKey(string(sn.Color))
		if sn.Color == "" {
			color = PaletteColor(i)
		}
		text := sn.Text
		if blank(text) {
			text = PlaceholderMain
		}
		main := &Node{ID: id(sn.ID), Text: text, Level: LevelMain, Color: color, ChildIDs: make([]string, 0, len(sn.Children))}
		g.insertMain(main)

		for _, sc := range sn.Children {
			leafColor := color
			if k := ColorKey(sc.Color); k.Valid() {
				leafColor = k
			}
			leafText := sc.Text
			if blank(leafText) {
				leafText = PlaceholderLeaf
			}
			g.insertLeaf(main, &Node{ID: id(sc.ID), Text: leafText, Level: LevelLeaf, Color: leafColor})
		}
	}
	return g
}
