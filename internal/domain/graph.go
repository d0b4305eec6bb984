package domain

// Graph is the mind-map tree: an implicit root (Topic), ordered main
// branches, and the leaves each main branch owns.
type Graph struct {
	Topic string

	order   []string         // main branch ids, display order
	nodes   map[string]*Node // every main and leaf node by id
	version uint64
}

// Stats summarizes the size of a graph
type Stats struct {
	Main  int `json:"main"`
	Sub   int `json:"sub"`
	Total int `json:"total"`
}

// NewGraph creates an empty graph for a topic
func NewGraph(topic string) *Graph {
	if blank(topic) {
		topic = DefaultTopic
	}
	return &Graph{
		Topic: topic,
		order: make([]string, 0),
		nodes: make(map[string]*Node),
	}
}

// Version increases on every structural mutation
func (g *Graph) Version() uint64 {
	return g.version
}

func (g *Graph) touch() {
	g.version++
}

// SetTopic renames the root label
func (g *Graph) SetTopic(text string) error {
	if blank(text) {
		return &InputError{Op: "set topic", Field: "text", Err: ErrEmptyText}
	}
	g.Topic = text
	return nil
}

// AddMainNode appends a new main branch with no children
func (g *Graph) AddMainNode(text string, color ColorKey) (*Node, error) {
	if blank(text) {
		return nil, &InputError{Op: "add main node", Field: "text", Err: ErrEmptyText}
	}
	n := NewNode(LevelMain, text, color)
	n.ChildIDs = make([]string, 0)
	g.insertMain(n)
	return n.clone(), nil
}

// AddChildNode appends a leaf to a main branch. The leaf inherits the
// parent's color. Leaves cannot have children.
func (g *Graph) AddChildNode(parentID, text string) (*Node, error) {
	parent, ok := g.nodes[parentID]
	if !ok {
		return nil, &StructuralError{Op: "add child node", ID: parentID, Err: ErrNotFound}
	}
	if !parent.IsMain() {
		return nil, &StructuralError{Op: "add child node", ID: parentID, Err: ErrTooDeep}
	}
	if blank(text) {
		return nil, &InputError{Op: "add child node", Field: "text", Err: ErrEmptyText}
	}
	n := NewNode(LevelLeaf, text, parent.Color)
	g.insertLeaf(parent, n)
	return n.clone(), nil
}

func (g *Graph) insertMain(n *Node) {
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	g.touch()
}

func (g *Graph) insertLeaf(parent, n *Node) {
	n.ParentID = parent.ID
	n.ChildIDs = nil
	g.nodes[n.ID] = n
	parent.ChildIDs = append(parent.ChildIDs, n.ID)
	g.touch()
}

// RemoveNode removes a main branch with its leaves, or a single leaf.
// It reports whether anything was removed.
func (g *Graph) RemoveNode(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}

	if n.IsMain() {
		for _, cid := range n.ChildIDs {
			delete(g.nodes, cid)
		}
		g.order = removeID(g.order, id)
	} else if parent, ok := g.nodes[n.ParentID]; ok {
		parent.ChildIDs = removeID(parent.ChildIDs, id)
	}

	delete(g.nodes, id)
	g.touch()
	return true
}

// RenameNode updates a node's text in place. Unknown ids are ignored.
func (g *Graph) RenameNode(id, text string) error {
	if blank(text) {
		return &InputError{Op: "rename node", Field: "text", Err: ErrEmptyText}
	}
	if n, ok := g.nodes[id]; ok {
		n.Text = text
	}
	return nil
}

// Recolor sets a node's color. On a main branch the color propagates to
// every leaf so the branch stays visually coherent.
func (g *Graph) Recolor(id string, color ColorKey) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	color = color.OrDefault()
	n.Color = color
	if n.IsMain() {
		for _, cid := range n.ChildIDs {
			if c, ok := g.nodes[cid]; ok {
				c.Color = color
			}
		}
	}
	return true
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return n.clone(), true
}

// MainNodes returns copies of the main branches in display order
func (g *Graph) MainNodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n.clone())
		}
	}
	return out
}

// Children returns copies of a main branch's leaves in display order
func (g *Graph) Children(id string) []*Node {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(n.ChildIDs))
	for _, cid := range n.ChildIDs {
		if c, ok := g.nodes[cid]; ok {
			out = append(out, c.clone())
		}
	}
	return out
}

// ChildTexts returns the labels of a main branch's leaves
func (g *Graph) ChildTexts(id string) []string {
	children := g.Children(id)
	texts := make([]string, 0, len(children))
	for _, c := range children {
		texts = append(texts, c.Text)
	}
	return texts
}

// Len returns the number of nodes, excluding the root
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Stats counts main branches and leaves
func (g *Graph) Stats() Stats {
	s := Stats{Main: len(g.order)}
	s.Sub = len(g.nodes) - s.Main
	s.Total = s.Main + s.Sub
	return s
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Topic:   g.Topic,
		order:   append([]string(nil), g.order...),
		nodes:   make(map[string]*Node, len(g.nodes)),
		version: g.version,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.clone()
	}
	return c
}

// Equal reports whether two graphs have the same shape and content,
// ignoring node ids
func (g *Graph) Equal(other *Graph) bool {
	if g.Topic != other.Topic || len(g.order) != len(other.order) || len(g.nodes) != len(other.nodes) {
		return false
	}
	a, b := g.MainNodes(), other.MainNodes()
	for i := range a {
		if a[i].Text != b[i].Text || a[i].Color != b[i].Color {
			return false
		}
		ca, cb := g.Children(a[i].ID), other.Children(b[i].ID)
		if len(ca) != len(cb) {
			return false
		}
		for j := range ca {
			if ca[j].Text != cb[j].Text || ca[j].Color != cb[j].Color {
				return false
			}
		}
	}
	return true
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
