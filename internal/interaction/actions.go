package interaction

import (
	"mindcanvas/internal/domain"
)

func disabled(op, id string) error {
	return &domain.StructuralError{Op: op, ID: id, Err: domain.ErrActionDisabled}
}

// DoubleClick starts editing the node under a screen point
func (c *Controller) DoubleClick(x, y float64) bool {
	id, ok := c.HitTest(x, y)
	if !ok {
		return false
	}
	c.selection = id
	c.state = StateEditing
	c.editTarget = id
	return true
}

// BeginEdit starts editing the selected node
func (c *Controller) BeginEdit() error {
	if c.selection == "" {
		return disabled("begin edit", "")
	}
	c.state = StateEditing
	c.editTarget = c.selection
	return nil
}

// CommitEdit applies text to the node being edited and returns to idle.
// Blank text leaves the old label in place and reports an InputError.
func (c *Controller) CommitEdit(text string) error {
	if c.state != StateEditing {
		return disabled("commit edit", "")
	}
	target := c.editTarget
	c.state = StateIdle
	c.editTarget = ""

	if target == domain.RootID {
		return c.graph.SetTopic(text)
	}
	return c.graph.RenameNode(target, text)
}

// CancelEdit abandons the current edit
func (c *Controller) CancelEdit() {
	if c.state != StateEditing {
		return
	}
	c.state = StateIdle
	c.editTarget = ""
}

// AddMainNode appends a placeholder main branch with the next palette
// color, selects it and starts editing it
func (c *Controller) AddMainNode() (*domain.Node, error) {
	color := domain.PaletteColor(len(c.graph.MainNodes()))
	n, err := c.graph.AddMainNode(domain.PlaceholderMain, color)
	if err != nil {
		return nil, err
	}
	c.selectForEdit(n.ID)
	return n, nil
}

// AddSubtopic appends a placeholder leaf to the selected main branch,
// selects it and starts editing it
func (c *Controller) AddSubtopic() (*domain.Node, error) {
	if c.selection == "" || c.selection == domain.RootID {
		return nil, disabled("add subtopic", c.selection)
	}
	n, err := c.graph.AddChildNode(c.selection, domain.PlaceholderLeaf)
	if err != nil {
		return nil, err
	}
	c.selectForEdit(n.ID)
	return n, nil
}

func (c *Controller) selectForEdit(id string) {
	c.selection = id
	c.state = StateEditing
	c.editTarget = id
}

// DeleteSelected removes the selected node and clears the selection.
// The root cannot be deleted.
func (c *Controller) DeleteSelected() error {
	if c.selection == "" || c.selection == domain.RootID {
		return disabled("delete", c.selection)
	}
	if !c.graph.RemoveNode(c.selection) {
		return &domain.StructuralError{Op: "delete", ID: c.selection, Err: domain.ErrNotFound}
	}
	c.selection = ""
	if c.state == StateEditing {
		c.CancelEdit()
	}
	return nil
}

// RecolorSelected sets the selected node's color
func (c *Controller) RecolorSelected(color domain.ColorKey) error {
	if c.selection == "" || c.selection == domain.RootID {
		return disabled("recolor", c.selection)
	}
	if !c.graph.Recolor(c.selection, color) {
		return &domain.StructuralError{Op: "recolor", ID: c.selection, Err: domain.ErrNotFound}
	}
	return nil
}

// CreateAgent hands the selected main branch and its leaves to the agent
// spawner. The graph is not changed.
func (c *Controller) CreateAgent() (domain.AgentRequest, error) {
	if c.selection == "" || c.selection == domain.RootID {
		return domain.AgentRequest{}, disabled("create agent", c.selection)
	}
	n, ok := c.graph.Node(c.selection)
	if !ok {
		return domain.AgentRequest{}, &domain.StructuralError{Op: "create agent", ID: c.selection, Err: domain.ErrNotFound}
	}
	if !n.IsMain() {
		return domain.AgentRequest{}, disabled("create agent", n.ID)
	}

	req := domain.AgentRequest{
		MapID:      c.mapID,
		NodeID:     n.ID,
		NodeText:   n.Text,
		ChildTexts: c.graph.ChildTexts(n.ID),
	}
	if c.spawn != nil {
		c.spawn(req)
	}
	return req, nil
}
