package domain

import (
	"errors"
	"testing"
)

func newTravelGraph(t *testing.T) *Graph {
	t.Helper()
	o := NewOutline("Travel")
	o.AddBranch("Planning", "Budget", "Itinerary")
	o.AddBranch("Packing", "Clothes", "Gadgets")
	o.AddBranch("Destinations", "Beaches", "Mountains")
	g, err := FromOutline(o)
	if err != nil {
		t.Fatalf("FromOutline: %v", err)
	}
	return g
}

func TestNewGraph(t *testing.T) {
	t.Run("creates empty graph", func(t *testing.T) {
		g := NewGraph("Travel")

		if g.Topic != "Travel" {
			t.Errorf("expected topic 'Travel', got %s", g.Topic)
		}
		if g.Len() != 0 {
			t.Errorf("expected 0 nodes, got %d", g.Len())
		}
		if len(g.MainNodes()) != 0 {
			t.Errorf("expected no main nodes, got %d", len(g.MainNodes()))
		}
	})

	t.Run("blank topic gets default", func(t *testing.T) {
		g := NewGraph("   ")
		if g.Topic != DefaultTopic {
			t.Errorf("expected %q, got %q", DefaultTopic, g.Topic)
		}
	})
}

func TestGraphAddMainNode(t *testing.T) {
	t.Run("appends in order", func(t *testing.T) {
		g := NewGraph("t")
		a, err := g.AddMainNode("A", ColorGreen)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, _ := g.AddMainNode("B", ColorRed)

		mains := g.MainNodes()
		if len(mains) != 2 {
			t.Fatalf("expected 2 main nodes, got %d", len(mains))
		}
		if mains[0].ID != a.ID || mains[1].ID != b.ID {
			t.Error("expected insertion order to be display order")
		}
		if a.Level != LevelMain {
			t.Errorf("expected level main, got %s", a.Level)
		}
		if a.Color != ColorGreen {
			t.Errorf("expected green, got %s", a.Color)
		}
	})

	t.Run("empty text is an input error", func(t *testing.T) {
		g := NewGraph("t")
		_, err := g.AddMainNode("  ", ColorBlue)
		if !IsInput(err) {
			t.Fatalf("expected InputError, got %v", err)
		}
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("expected ErrEmptyText, got %v", err)
		}
		if g.Len() != 0 {
			t.Error("expected graph to be unchanged")
		}
	})

	t.Run("unknown color falls back to default", func(t *testing.T) {
		g := NewGraph("t")
		n, _ := g.AddMainNode("A", ColorKey("chartreuse"))
		if n.Color != DefaultColor {
			t.Errorf("expected %s, got %s", DefaultColor, n.Color)
		}
	})

	t.Run("bumps version", func(t *testing.T) {
		g := NewGraph("t")
		v := g.Version()
		g.AddMainNode("A", ColorBlue)
		if g.Version() <= v {
			t.Error("expected version to increase")
		}
	})
}

func TestGraphAddChildNode(t *testing.T) {
	t.Run("inherits parent color", func(t *testing.T) {
		g := NewGraph("t")
		main, _ := g.AddMainNode("A", ColorPurple)
		leaf, err := g.AddChildNode(main.ID, "a1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if leaf.Level != LevelLeaf {
			t.Errorf("expected leaf level, got %s", leaf.Level)
		}
		if leaf.Color != ColorPurple {
			t.Errorf("expected purple, got %s", leaf.Color)
		}
		if leaf.ParentID != main.ID {
			t.Errorf("expected parent %s, got %s", main.ID, leaf.ParentID)
		}
		if got := g.ChildTexts(main.ID); len(got) != 1 || got[0] != "a1" {
			t.Errorf("unexpected children %v", got)
		}
	})

	t.Run("unknown parent is a structural error", func(t *testing.T) {
		g := NewGraph("t")
		_, err := g.AddChildNode("missing", "x")
		if !IsStructural(err) {
			t.Fatalf("expected StructuralError, got %v", err)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("root is not a valid parent", func(t *testing.T) {
		g := NewGraph("t")
		if _, err := g.AddChildNode(RootID, "x"); !IsStructural(err) {
			t.Fatalf("expected StructuralError, got %v", err)
		}
	})

	t.Run("leaf parent always fails", func(t *testing.T) {
		g := newTravelGraph(t)
		for _, main := range g.MainNodes() {
			for _, leaf := range g.Children(main.ID) {
				before := g.Len()
				_, err := g.AddChildNode(leaf.ID, "grandchild")
				if !IsStructural(err) {
					t.Fatalf("expected StructuralError for leaf %s, got %v", leaf.Text, err)
				}
				if !errors.Is(err, ErrTooDeep) {
					t.Errorf("expected ErrTooDeep, got %v", err)
				}
				if g.Len() != before {
					t.Error("expected graph to be unchanged")
				}
			}
		}
	})
}

func TestGraphRemoveNode(t *testing.T) {
	t.Run("removes main with subtree", func(t *testing.T) {
		g := newTravelGraph(t)
		first := g.MainNodes()[0]
		if !g.RemoveNode(first.ID) {
			t.Fatal("expected removal")
		}
		if g.Len() != 6 {
			t.Errorf("expected 6 nodes left, got %d", g.Len())
		}
		for _, cid := range first.ChildIDs {
			if _, ok := g.Node(cid); ok {
				t.Errorf("expected leaf %s to be removed", cid)
			}
		}
	})

	t.Run("removes single leaf", func(t *testing.T) {
		g := newTravelGraph(t)
		main := g.MainNodes()[1]
		leaf := g.Children(main.ID)[0]
		g.RemoveNode(leaf.ID)

		texts := g.ChildTexts(main.ID)
		if len(texts) != 1 || texts[0] != "Gadgets" {
			t.Errorf("unexpected children after removal: %v", texts)
		}
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		g := newTravelGraph(t)
		v := g.Version()
		if g.RemoveNode("missing") {
			t.Error("expected no removal")
		}
		if g.Version() != v {
			t.Error("expected version unchanged")
		}
	})

	t.Run("deleting the only branch leaves an empty list", func(t *testing.T) {
		g := NewGraph("Solo")
		main, _ := g.AddMainNode("Only", ColorBlue)
		g.AddChildNode(main.ID, "leaf")
		g.RemoveNode(main.ID)

		if len(g.MainNodes()) != 0 {
			t.Errorf("expected no main nodes, got %d", len(g.MainNodes()))
		}
		if g.Len() != 0 {
			t.Errorf("expected empty graph, got %d nodes", g.Len())
		}
	})
}

func TestGraphAddRemoveRoundTrip(t *testing.T) {
	t.Run("main node", func(t *testing.T) {
		g := newTravelGraph(t)
		before := g.Clone()

		n, _ := g.AddMainNode("Extra", ColorPink)
		g.RemoveNode(n.ID)

		if !g.Equal(before) {
			t.Error("expected graph to equal its state before add")
		}
	})

	t.Run("leaf node", func(t *testing.T) {
		g := newTravelGraph(t)
		before := g.Clone()

		parent := g.MainNodes()[2]
		n, _ := g.AddChildNode(parent.ID, "Extra")
		g.RemoveNode(n.ID)

		if !g.Equal(before) {
			t.Error("expected graph to equal its state before add")
		}
	})
}

func TestGraphRenameNode(t *testing.T) {
	t.Run("renames in place", func(t *testing.T) {
		g := newTravelGraph(t)
		main := g.MainNodes()[0]
		v := g.Version()

		if err := g.RenameNode(main.ID, "Plans"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, _ := g.Node(main.ID)
		if n.Text != "Plans" {
			t.Errorf("expected 'Plans', got %s", n.Text)
		}
		if g.Version() != v {
			t.Error("rename must not count as a structural change")
		}
	})

	t.Run("nonexistent id is a no-op", func(t *testing.T) {
		g := newTravelGraph(t)
		before := g.Clone()
		if err := g.RenameNode("missing", "x"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if !g.Equal(before) {
			t.Error("expected graph unchanged")
		}
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		g := newTravelGraph(t)
		main := g.MainNodes()[0]
		if err := g.RenameNode(main.ID, ""); !IsInput(err) {
			t.Errorf("expected InputError, got %v", err)
		}
	})
}

func TestGraphRecolor(t *testing.T) {
	t.Run("main branch propagates to leaves", func(t *testing.T) {
		g := newTravelGraph(t)
		main := g.MainNodes()[0]
		g.Recolor(main.ID, ColorRed)

		for _, c := range g.Children(main.ID) {
			if c.Color != ColorRed {
				t.Errorf("expected leaf %s to be red, got %s", c.Text, c.Color)
			}
		}
	})

	t.Run("leaf recolors only itself", func(t *testing.T) {
		g := newTravelGraph(t)
		main := g.MainNodes()[0]
		leaves := g.Children(main.ID)
		g.Recolor(leaves[0].ID, ColorYellow)

		got := g.Children(main.ID)
		if got[0].Color != ColorYellow {
			t.Errorf("expected yellow, got %s", got[0].Color)
		}
		if got[1].Color != main.Color {
			t.Errorf("expected sibling to keep %s, got %s", main.Color, got[1].Color)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		g := newTravelGraph(t)
		if g.Recolor("missing", ColorRed) {
			t.Error("expected false for missing id")
		}
	})
}

func TestGraphStats(t *testing.T) {
	g := newTravelGraph(t)
	s := g.Stats()
	if s.Main != 3 || s.Sub != 6 || s.Total != 9 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestGraphCloneIsIndependent(t *testing.T) {
	g := newTravelGraph(t)
	c := g.Clone()
	main := g.MainNodes()[0]
	g.RenameNode(main.ID, "Changed")

	n, _ := c.Node(main.ID)
	if n.Text == "Changed" {
		t.Error("expected clone to be independent of original")
	}
}

func TestNodeAccessorsReturnCopies(t *testing.T) {
	g := newTravelGraph(t)
	main := g.MainNodes()[0]
	main.Text = "mutated"

	n, _ := g.Node(main.ID)
	if n.Text == "mutated" {
		t.Error("expected MainNodes to return copies")
	}
}
