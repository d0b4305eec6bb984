package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestFromOutline(t *testing.T) {
	t.Run("assigns palette round robin", func(t *testing.T) {
		o := NewOutline("Colors")
		for i := 0; i < len(Palette)+2; i++ {
			o.AddBranch("b", "x")
		}
		g, err := FromOutline(o)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, main := range g.MainNodes() {
			if main.Color != PaletteColor(i) {
				t.Errorf("branch %d: expected %s, got %s", i, PaletteColor(i), main.Color)
			}
		}
	})

	t.Run("tolerates empty leaf lists", func(t *testing.T) {
		o := NewOutline("t")
		o.AddBranch("only")
		g, err := FromOutline(o)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.Stats().Sub != 0 {
			t.Errorf("expected no leaves, got %d", g.Stats().Sub)
		}
	})

	t.Run("requires at least one branch", func(t *testing.T) {
		_, err := FromOutline(NewOutline("t"))
		if !IsInput(err) || !errors.Is(err, ErrEmptyOutline) {
			t.Errorf("expected InputError(ErrEmptyOutline), got %v", err)
		}
		if _, err := FromOutline(nil); err == nil {
			t.Error("expected error for nil outline")
		}
	})

	t.Run("blank names get placeholders", func(t *testing.T) {
		tests := []struct {
			name   string
			branch string
			leaves []string
			main   string
			want   []string
		}{
			{"blank branch", " ", []string{"leaf"}, PlaceholderMain, []string{"leaf"}},
			{"blank leaf", "Packing", []string{"", "Clothes"}, "Packing", []string{PlaceholderLeaf, "Clothes"}},
			{"whitespace leaf", "Packing", []string{"  \t"}, "Packing", []string{PlaceholderLeaf}},
			{"all blank", "", []string{"", " "}, PlaceholderMain, []string{PlaceholderLeaf, PlaceholderLeaf}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				o := NewOutline("t")
				o.AddBranch(tt.branch, tt.leaves...)
				g, err := FromOutline(o)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				main := g.MainNodes()[0]
				if main.Text != tt.main {
					t.Errorf("main: expected %q, got %q", tt.main, main.Text)
				}
				if texts := g.ChildTexts(main.ID); strings.Join(texts, "|") != strings.Join(tt.want, "|") {
					t.Errorf("leaves: expected %v, got %v", tt.want, texts)
				}
			})
		}
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newTravelGraph(t)
	snap := g.Snapshot()

	if snap.Topic != "Travel" {
		t.Errorf("expected topic Travel, got %s", snap.Topic)
	}
	if snap.NodeCount() != 9 {
		t.Errorf("expected 9 nodes, got %d", snap.NodeCount())
	}

	back := FromSnapshot(snap)
	if !back.Equal(g) {
		t.Error("expected graph rebuilt from snapshot to equal original")
	}
	for _, main := range g.MainNodes() {
		if _, ok := back.Node(main.ID); !ok {
			t.Errorf("expected id %s to be preserved", main.ID)
		}
	}
}

func TestFromSnapshotRepairs(t *testing.T) {
	snap := Snapshot{
		Topic: "Legacy",
		Nodes: []SnapshotNode{
			{ID: "dup", Text: "A", Color: "bg-green-100 text-green-800 border-green-300", Children: []SnapshotNode{
				{ID: "dup", Text: ""},
			}},
			{ID: RootID, Text: "B"},
			{Text: "C", Color: "mauve"},
		},
	}
	g := FromSnapshot(snap)

	if g.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.Len())
	}
	mains := g.MainNodes()
	if mains[0].Color != ColorGreen {
		t.Errorf("expected legacy class to resolve to green, got %s", mains[0].Color)
	}
	if mains[1].ID == RootID {
		t.Error("expected reserved root id to be replaced")
	}
	if mains[2].Color != DefaultColor {
		t.Errorf("expected unknown color to fall back, got %s", mains[2].Color)
	}

	leaves := g.Children(mains[0].ID)
	if leaves[0].ID == "dup" {
		t.Error("expected duplicate id to be regenerated")
	}
	if leaves[0].Text != PlaceholderLeaf {
		t.Errorf("expected placeholder, got %q", leaves[0].Text)
	}
	if leaves[0].Color != ColorGreen {
		t.Errorf("expected leaf to inherit green, got %s", leaves[0].Color)
	}
}

func TestParseColorKey(t *testing.T) {
	tests := []struct {
		input string
		want  ColorKey
	}{
		{"green", ColorGreen},
		{" Indigo ", ColorIndigo},
		{"bg-purple-100 text-purple-800", ColorPurple},
		{"bg-orange-100 text-orange-800 border-orange-300", ColorOrange},
		{"", DefaultColor},
		{"teal", DefaultColor},
	}

	for _, tt := range tests {
		if got := ParseColorKey(tt.input); got != tt.want {
			t.Errorf("ParseColorKey(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestExpertPrompt(t *testing.T) {
	req := AgentRequest{NodeText: "Packing", ChildTexts: []string{"Clothes", "Gadgets"}}
	p := NewAgentPersona(req)

	if p.Name != "Packing Expert" {
		t.Errorf("expected 'Packing Expert', got %s", p.Name)
	}
	if !strings.Contains(p.SystemPrompt, `"Packing"`) {
		t.Error("expected prompt to quote the topic")
	}
	for _, c := range req.ChildTexts {
		if !strings.Contains(p.SystemPrompt, "- "+c+"\n") {
			t.Errorf("expected prompt to list %s", c)
		}
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Error("expected id and timestamp")
	}
}
