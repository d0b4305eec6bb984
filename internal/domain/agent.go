package domain

import (
	"fmt"
	"strings"
	"time"
)

// AgentRequest is emitted when the user spawns an expert agent from a main
// branch. The engine does not wait for or depend on the result.
type AgentRequest struct {
	MapID      string   `json:"map_id,omitempty"`
	NodeID     string   `json:"node_id"`
	NodeText   string   `json:"node_text"`
	ChildTexts []string `json:"child_texts"`
}

// AgentPersona is a specialized assistant scoped to one branch of a mind map
type AgentPersona struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Topic        string    `json:"topic"`
	SystemPrompt string    `json:"system_prompt"`
	SourceMapID  string    `json:"source_map_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAgentPersona builds an expert persona for the branch in req
func NewAgentPersona(req AgentRequest) *AgentPersona {
	return &AgentPersona{
		ID:           NewID(),
		Name:         req.NodeText + " Expert",
		Topic:        req.NodeText,
		SystemPrompt: ExpertPrompt(req.NodeText, req.ChildTexts),
		SourceMapID:  req.MapID,
		CreatedAt:    time.Now(),
	}
}

// ExpertPrompt renders the system prompt for an expert on topic whose
// knowledge areas are the branch's leaves
func ExpertPrompt(topic string, areas []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI expert specialized in %q. ", topic)
	b.WriteString("Your role is to provide detailed, practical, and actionable advice about this topic. ")
	b.WriteString("You have deep knowledge about:\n\n")
	for _, a := range areas {
		fmt.Fprintf(&b, "- %s\n", a)
	}
	b.WriteString("\nWhen users ask questions, provide comprehensive answers that are:\n")
	b.WriteString("- Practical and actionable\n")
	b.WriteString("- Based on current best practices\n")
	b.WriteString("- Tailored to different skill levels\n")
	b.WriteString("- Include specific examples when helpful\n\n")
	b.WriteString("Your personality is helpful, knowledgeable, and encouraging. ")
	b.WriteString("You break down complex concepts into understandable steps.")
	return b.String()
}
