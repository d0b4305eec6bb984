package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/interaction"
	"mindcanvas/internal/metrics"
)

func travelSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Topic: "Travel",
		Nodes: []domain.SnapshotNode{
			{Text: "Packing", Children: []domain.SnapshotNode{{Text: "Clothes"}, {Text: "Documents"}}},
			{Text: "Budget", Children: []domain.SnapshotNode{{Text: "Flights"}}},
		},
	}
}

func newTestManager(t *testing.T, cfg SessionConfig, spawner interaction.AgentSpawner) (*SessionManager, *EventBus, *metrics.Collector) {
	t.Helper()
	if cfg.Width == 0 {
		cfg.Width, cfg.Height = 400, 300
	}
	bus := NewEventBus()
	m := metrics.NewCollector()
	return NewSessionManager(cfg, spawner, bus, m, nil), bus, m
}

func TestOpenInteractive(t *testing.T) {
	mgr, bus, m := newTestManager(t, SessionConfig{}, nil)
	drain := collect(bus)

	id, err := mgr.OpenInteractive(travelSnapshot(), "map-1")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, mgr.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))

	sess, err := mgr.Get(id)
	require.NoError(t, err)

	st := sess.State()
	assert.Equal(t, "map-1", st.MapID)
	assert.Equal(t, "Travel", st.Topic)
	assert.Equal(t, "idle", st.Mode)
	assert.Equal(t, "100%", st.ZoomPercent)
	assert.Equal(t, domain.Stats{Main: 2, Sub: 3, Total: 5}, st.Stats)
	assert.Equal(t, []EventType{EventSessionOpened}, eventTypes(drain()))

	second, err := mgr.OpenInteractive(travelSnapshot(), "")
	require.NoError(t, err)
	assert.NotEqual(t, id, second)
}

func TestSessionMutatePublishes(t *testing.T) {
	mgr, bus, _ := newTestManager(t, SessionConfig{}, nil)
	id, err := mgr.OpenInteractive(travelSnapshot(), "")
	require.NoError(t, err)
	drain := collect(bus)
	sess, _ := mgr.Get(id)

	st, err := sess.Mutate(func(c *interaction.Controller) error {
		_, err := c.AddMainNode()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 3, st.Stats.Main)
	assert.Equal(t, "editing", st.Mode)
	require.NotNil(t, st.Editing)
	assert.Equal(t, domain.PlaceholderMain, st.Editing.Text)

	_, err = sess.Mutate(func(c *interaction.Controller) error {
		return c.DeleteSelected()
	})
	require.NoError(t, err)

	// a failing mutation publishes nothing
	_, err = sess.Mutate(func(c *interaction.Controller) error {
		return c.DeleteSelected()
	})
	assert.True(t, domain.IsStructural(err))

	assert.Equal(t, []EventType{EventGraphChanged, EventGraphChanged}, eventTypes(drain()))
}

func TestSessionWritePNG(t *testing.T) {
	mgr, _, m := newTestManager(t, SessionConfig{Width: 320, Height: 200}, nil)
	id, err := mgr.OpenInteractive(travelSnapshot(), "")
	require.NoError(t, err)
	sess, _ := mgr.Get(id)

	var buf bytes.Buffer
	require.NoError(t, sess.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesRendered))
}

func TestSessionSpawnsAgents(t *testing.T) {
	got := make(chan domain.AgentRequest, 1)
	mgr, _, _ := newTestManager(t, SessionConfig{}, func(req domain.AgentRequest) { got <- req })
	id, err := mgr.OpenInteractive(travelSnapshot(), "map-7")
	require.NoError(t, err)
	sess, _ := mgr.Get(id)

	err = sess.Do(func(c *interaction.Controller) error {
		pos := c.Positions()
		main := c.Snapshot().Nodes[0].ID
		p := c.Viewport().ToScreen(pos[main])
		c.PointerDown(p.X, p.Y)
		c.PointerUp()
		_, err := c.CreateAgent()
		return err
	})
	require.NoError(t, err)

	req := <-got
	assert.Equal(t, "map-7", req.MapID)
	assert.Equal(t, "Packing", req.NodeText)
	assert.Equal(t, []string{"Clothes", "Documents"}, req.ChildTexts)
}

func TestSessionEvictionAndClose(t *testing.T) {
	mgr, _, _ := newTestManager(t, SessionConfig{MaxSessions: 2}, nil)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return clock }

	first, _ := mgr.OpenInteractive(travelSnapshot(), "")
	clock = clock.Add(time.Second)
	second, _ := mgr.OpenInteractive(travelSnapshot(), "")
	clock = clock.Add(time.Second)

	// touching first makes second the least recently used
	s, _ := mgr.Get(first)
	s.Do(func(*interaction.Controller) error { return nil })
	clock = clock.Add(time.Second)

	third, err := mgr.OpenInteractive(travelSnapshot(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, mgr.Len())

	_, err = mgr.Get(second)
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	require.NoError(t, mgr.Close(third))
	assert.True(t, errors.Is(mgr.Close(third), ErrSessionNotFound))
	assert.Equal(t, 1, mgr.Len())
}

func TestSessionSweep(t *testing.T) {
	mgr, _, _ := newTestManager(t, SessionConfig{TTL: time.Hour}, nil)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return clock }

	stale, _ := mgr.OpenInteractive(travelSnapshot(), "")
	clock = clock.Add(50 * time.Minute)
	fresh, _ := mgr.OpenInteractive(travelSnapshot(), "")
	clock = clock.Add(20 * time.Minute)

	assert.Equal(t, 1, mgr.Sweep())
	_, err := mgr.Get(stale)
	assert.Error(t, err)
	_, err = mgr.Get(fresh)
	assert.NoError(t, err)
}

func TestSaveSessionLinksMap(t *testing.T) {
	mgr, _, _ := newTestManager(t, SessionConfig{}, nil)
	svc := NewMindMapService(newTestRepo(t), nil, nil, nil, nil)
	ctx := context.Background()

	id, _ := mgr.OpenInteractive(travelSnapshot(), "")
	sess, _ := mgr.Get(id)

	rec, err := svc.SaveSession(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, sess.State().MapID)

	sess.Mutate(func(c *interaction.Controller) error {
		_, err := c.AddMainNode()
		return err
	})
	again, err := svc.SaveSession(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, 6, again.NodeCount)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// the stored map disappears: the next save creates a new one
	require.NoError(t, svc.Delete(ctx, rec.ID))
	third, err := svc.SaveSession(ctx, sess)
	require.NoError(t, err)
	assert.NotEqual(t, rec.ID, third.ID)
}
