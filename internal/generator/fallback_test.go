package generator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mindcanvas/internal/config"
	"mindcanvas/internal/domain"
)

type stubGenerator struct {
	name  string
	err   error
	calls int
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Expand(ctx context.Context, topic string) (*domain.Outline, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := domain.NewOutline(topic)
	out.AddBranch(s.name)
	return out, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string][]string
	states   map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{outcomes: map[string][]string{}, states: map[string]int{}}
}

func (o *recordingObserver) ObserveGenerator(provider, outcome string, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes[provider] = append(o.outcomes[provider], outcome)
}

func (o *recordingObserver) SetBreakerState(provider string, state int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states[provider] = state
}

func TestFallbackUsesFirstHealthyProvider(t *testing.T) {
	broken := &stubGenerator{name: "groq", err: errors.New("boom")}
	healthy := &stubGenerator{name: "gemini"}
	obs := newRecordingObserver()

	f := NewFallback([]Generator{broken, healthy}, DefaultBreakerSettings(),
		WithLogger(zaptest.NewLogger(t)), WithObserver(obs))

	out, err := f.Expand(t.Context(), "Travel")
	require.NoError(t, err)
	assert.Equal(t, "gemini", out.Branches[0].Name)
	assert.Equal(t, []string{"error"}, obs.outcomes["groq"])
	assert.Equal(t, []string{"success"}, obs.outcomes["gemini"])
}

func TestFallbackOpensBreaker(t *testing.T) {
	broken := &stubGenerator{name: "groq", err: errors.New("boom")}
	obs := newRecordingObserver()
	bs := BreakerSettings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, MinRequests: 2, FailureRatio: 0.5}

	f := NewFallback([]Generator{broken, NewStatic()}, bs, WithObserver(obs))

	for i := 0; i < 4; i++ {
		_, err := f.Expand(t.Context(), "Travel")
		require.NoError(t, err)
	}

	assert.Equal(t, 2, broken.calls, "breaker should stop calling after it opens")
	assert.Equal(t, 2, obs.states["groq"])
	assert.Contains(t, obs.outcomes["groq"], "rejected")
}

func TestFallbackAllFail(t *testing.T) {
	f := NewFallback([]Generator{
		&stubGenerator{name: "a", err: errors.New("down")},
		&stubGenerator{name: "b", err: errors.New("down")},
	}, DefaultBreakerSettings())

	_, err := f.Expand(t.Context(), "Travel")
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "a", pe.Provider)
	assert.Contains(t, err.Error(), "b:")
}

func TestFallbackRejectsBlankTopic(t *testing.T) {
	stub := &stubGenerator{name: "a"}
	f := NewFallback([]Generator{stub}, DefaultBreakerSettings())

	_, err := f.Expand(t.Context(), " ")
	assert.True(t, domain.IsInput(err))
	assert.Zero(t, stub.calls)

	_, err = NewFallback(nil, DefaultBreakerSettings()).Expand(t.Context(), "Travel")
	assert.True(t, errors.Is(err, ErrNoProviders))
}

func TestFromConfig(t *testing.T) {
	cfg := config.GeneratorConfig{
		Providers: []config.ProviderConfig{
			{Name: "groq", Kind: config.KindOpenAI},
			{Name: "gemini", Kind: config.KindGemini, APIKey: "k"},
		},
		Timeout: config.Duration(5 * time.Second),
	}

	f := FromConfig(cfg)
	assert.Equal(t, "fallback(gemini,static)", f.Name())
	assert.Equal(t, 5*time.Second, f.timeout)
}
