package generator

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"mindcanvas/internal/domain"
)

// GeminiConfig configures the Gemini provider
type GeminiConfig struct {
	Name   string
	APIKey string
	Model  string
}

// GeminiClient expands topics with Google's Gemini API
type GeminiClient struct {
	name   string
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a Gemini provider. The SDK client is created on
// first use so a missing key only fails the request, not startup.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Name == "" {
		cfg.Name = "gemini"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &GeminiClient{name: cfg.Name, apiKey: cfg.APIKey, model: cfg.Model}
}

// Name returns the provider name
func (c *GeminiClient) Name() string {
	return c.name
}

func (c *GeminiClient) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	c.client = client
	return client, nil
}

// Expand asks Gemini for a JSON outline of topic
func (c *GeminiClient) Expand(ctx context.Context, topic string) (*domain.Outline, error) {
	topic, err := checkTopic(topic)
	if err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		return nil, &ProviderError{Provider: c.name, Err: ErrMissingKey}
	}

	client, err := c.sdk(ctx)
	if err != nil {
		return nil, &ProviderError{Provider: c.name, Err: err}
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt(topic)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, &ProviderError{Provider: c.name, Err: err}
	}

	outline, err := ParseOutline(topic, resp.Text())
	if err != nil {
		return nil, &ProviderError{Provider: c.name, Err: err}
	}
	return outline, nil
}
