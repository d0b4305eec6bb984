package generator

import (
	"context"
	"fmt"

	"mindcanvas/internal/domain"
)

// staticAspects are the branches every static outline is built from
var staticAspects = []struct {
	name   string
	leaves []string
}{
	{"Overview", []string{"Definition", "Scope"}},
	{"Key Concepts", []string{"Principles", "Terminology"}},
	{"Applications", []string{"Use Cases", "Examples"}},
	{"Challenges", []string{"Risks", "Limitations"}},
	{"Resources", []string{"Books", "Communities"}},
}

// Static builds a fixed outline without network access
type Static struct{}

// NewStatic creates the offline provider
func NewStatic() *Static {
	return &Static{}
}

// Name returns "static"
func (Static) Name() string {
	return "static"
}

// Expand returns the same shape for every topic. Branch names are prefixed
// with the topic only when the topic is short enough to stay readable.
func (Static) Expand(ctx context.Context, topic string) (*domain.Outline, error) {
	topic, err := checkTopic(topic)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := domain.NewOutline(topic)
	for _, a := range staticAspects {
		name := a.name
		if len(topic) <= 12 {
			name = fmt.Sprintf("%s %s", topic, a.name)
		}
		out.AddBranch(name, a.leaves...)
	}
	return out, nil
}
