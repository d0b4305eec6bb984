// Package generator expands a topic into a two-level outline.
//
// Concrete providers talk to an OpenAI-compatible chat completions endpoint
// (Groq by default) or to Gemini through the genai SDK. Static produces a
// deterministic outline without any network access. Fallback chains
// providers, each behind its own circuit breaker, and tries them in order.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindcanvas/internal/domain"
)

var (
	// ErrEmptyTopic is returned when Expand is called with a blank topic
	ErrEmptyTopic = errors.New("topic is required")
	// ErrNoProviders is returned by a Fallback with nothing to try
	ErrNoProviders = errors.New("no generator providers configured")
	// ErrMissingKey is returned when a remote provider has no API key
	ErrMissingKey = errors.New("api key not configured")
)

// Generator expands a topic into an outline
type Generator interface {
	Name() string
	Expand(ctx context.Context, topic string) (*domain.Outline, error)
}

// ProviderError wraps a failure of one named provider
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func checkTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", &domain.InputError{Op: "expand", Field: "topic", Err: ErrEmptyTopic}
	}
	return topic, nil
}

const systemPrompt = `You build mind maps. Answer with a single JSON object and nothing else.
The object has the shape {"topic": string, "branches": [{"name": string, "leaves": [string]}]}.
Use 4 to 6 branches with 2 to 4 leaves each. Keep every label under five words.`

// userPrompt asks for an outline of topic
func userPrompt(topic string) string {
	return fmt.Sprintf("Create a mind map for the topic %q.", topic)
}
