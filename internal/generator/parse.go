package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"mindcanvas/internal/domain"
)

// wireOutline accepts the shapes models tend to produce: branches with
// leaves, or nodes/children in the snapshot style
type wireOutline struct {
	Topic    string       `json:"topic"`
	Branches []wireBranch `json:"branches"`
	Nodes    []wireBranch `json:"nodes"`
}

type wireBranch struct {
	Name     string     `json:"name"`
	Text     string     `json:"text"`
	Leaves   []wireLeaf `json:"leaves"`
	Children []wireLeaf `json:"children"`
}

// wireLeaf is either a bare string or an object with a name or text field
type wireLeaf string

func (l *wireLeaf) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = wireLeaf(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Name != "" {
		*l = wireLeaf(obj.Name)
	} else {
		*l = wireLeaf(obj.Text)
	}
	return nil
}

// ParseOutline extracts an outline from a model answer. Code fences and
// prose around the JSON object are ignored. A missing topic falls back to
// the requested one.
func ParseOutline(topic, answer string) (*domain.Outline, error) {
	raw := extractJSON(answer)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var w wireOutline
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}

	branches := w.Branches
	if len(branches) == 0 {
		branches = w.Nodes
	}

	out := domain.NewOutline(strings.TrimSpace(w.Topic))
	if out.Topic == "" {
		out.Topic = topic
	}
	for _, b := range branches {
		name := b.Name
		if name == "" {
			name = b.Text
		}
		leaves := b.Leaves
		if len(leaves) == 0 {
			leaves = b.Children
		}
		texts := make([]string, 0, len(leaves))
		for _, l := range leaves {
			if s := strings.TrimSpace(string(l)); s != "" {
				texts = append(texts, s)
			}
		}
		if strings.TrimSpace(name) == "" && len(texts) == 0 {
			continue
		}
		out.AddBranch(strings.TrimSpace(name), texts...)
	}

	if len(out.Branches) == 0 {
		return nil, &domain.InputError{Op: "parse outline", Field: "branches", Err: domain.ErrEmptyOutline}
	}
	return out, nil
}

// extractJSON returns the outermost {...} span of s, or ""
func extractJSON(s string) string {
	s = stripFences(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	// fenced content sits at the odd indexes
	for i := 1; i < len(parts); i += 2 {
		body := parts[i]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.Contains(body[:nl], "{") {
			body = body[nl+1:]
		}
		if strings.Contains(body, "{") {
			return strings.TrimSpace(body)
		}
	}
	return s
}
