package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Level is the depth of a node in the tree
type Level int

const (
	LevelRoot Level = 0 // The topic; drawn at the center, never stored as a Node
	LevelMain Level = 1 // Main branch
	LevelLeaf Level = 2 // Leaf branch
)

// RootID addresses the topic for selection and hit-testing
const RootID = "root"

// Placeholder labels used when a node is created without text
const (
	PlaceholderMain = "New Topic"
	PlaceholderLeaf = "New Subtopic"
	DefaultTopic    = "My Mind Map"
)

func (l Level) String() string {
	switch l {
	case LevelRoot:
		return "root"
	case LevelMain:
		return "main"
	case LevelLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Node is a labeled vertex of the mind map
type Node struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Level    Level    `json:"level"`
	Color    ColorKey `json:"color"`
	ParentID string   `json:"parent_id,omitempty"` // leaves only
	ChildIDs []string `json:"child_ids,omitempty"` // main branches only, display order
}

// NewNode creates a node with a fresh id
func NewNode(level Level, text string, color ColorKey) *Node {
	return &Node{
		ID:    NewID(),
		Text:  text,
		Level: level,
		Color: color.OrDefault(),
	}
}

// NewID returns a new opaque node identifier
func NewID() string {
	return uuid.NewString()
}

// IsMain reports whether the node is a main branch
func (n *Node) IsMain() bool {
	return n.Level == LevelMain
}

// IsLeaf reports whether the node is a leaf branch
func (n *Node) IsLeaf() bool {
	return n.Level == LevelLeaf
}

// clone returns a copy that shares no slices with n
func (n *Node) clone() *Node {
	c := *n
	if n.ChildIDs != nil {
		c.ChildIDs = append([]string(nil), n.ChildIDs...)
	}
	return &c
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
