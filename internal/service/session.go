package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/interaction"
	"mindcanvas/internal/layout"
	"mindcanvas/internal/metrics"
	"mindcanvas/internal/render"
	"mindcanvas/internal/repository"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// SessionConfig sizes new sessions and bounds how many stay open
type SessionConfig struct {
	Width       int
	Height      int
	BaseRadius  float64
	Params      layout.Params
	MaxSessions int
	TTL         time.Duration
}

// SessionState is the JSON view of a session after an operation
type SessionState struct {
	ID          string              `json:"id"`
	MapID       string              `json:"map_id,omitempty"`
	Topic       string              `json:"topic"`
	Mode        string              `json:"mode"`
	Selection   string              `json:"selection,omitempty"`
	Editing     *EditState          `json:"editing,omitempty"`
	Zoom        float64             `json:"zoom"`
	ZoomPercent string              `json:"zoom_percent"`
	Pan         domain.Point        `json:"pan"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	Stats       domain.Stats        `json:"stats"`
	Actions     interaction.Actions `json:"actions"`
}

// EditState describes the label being edited
type EditState struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Session is one interactive mind map. All access to its controller goes
// through Do or Mutate, which serialize callers.
type Session struct {
	ID string

	mu       sync.Mutex
	ctrl     *interaction.Controller
	lastUsed time.Time

	now      func() time.Time
	eventBus *EventBus
	metrics  *metrics.Collector
}

// Do runs fn with exclusive access to the controller
func (s *Session) Do(fn func(c *interaction.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	return fn(s.ctrl)
}

// Mutate is Do for operations that may change the graph. On success a
// graph_changed event carrying the new state is published.
func (s *Session) Mutate(fn func(c *interaction.Controller) error) (SessionState, error) {
	s.mu.Lock()
	s.lastUsed = s.now()
	err := fn(s.ctrl)
	state := s.stateLocked()
	s.mu.Unlock()

	if err != nil {
		return state, err
	}
	s.eventBus.Publish(Event{Type: EventGraphChanged, Payload: state})
	return state, nil
}

// State returns the current session state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() SessionState {
	c := s.ctrl
	view := c.Viewport()
	w, h := c.Size()
	st := SessionState{
		ID:          s.ID,
		MapID:       c.MapID(),
		Topic:       c.Topic(),
		Mode:        c.State().String(),
		Selection:   c.Selection(),
		Zoom:        view.Zoom,
		ZoomPercent: view.Percent(),
		Pan:         view.Pan,
		Width:       w,
		Height:      h,
		Stats:       c.Stats(),
		Actions:     c.Actions(),
	}
	if id, text, ok := c.EditTarget(); ok {
		st.Editing = &EditState{ID: id, Text: text}
	}
	return st
}

// WritePNG renders the current frame as PNG
func (s *Session) WritePNG(w io.Writer) error {
	s.mu.Lock()
	s.lastUsed = s.now()
	start := time.Now()
	img := s.ctrl.Frame()
	elapsed := time.Since(start)
	s.mu.Unlock()

	if img == nil {
		return fmt.Errorf("session %s has no renderer", s.ID)
	}
	if s.metrics != nil {
		s.metrics.ObserveFrame(elapsed)
	}
	return render.WritePNG(w, img)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// SessionManager hosts interactive sessions
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg      SessionConfig
	spawner  interaction.AgentSpawner
	eventBus *EventBus
	metrics  *metrics.Collector
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionManager creates a session manager. spawner receives agent
// requests from every session and may be nil.
func NewSessionManager(cfg SessionConfig, spawner interaction.AgentSpawner, eventBus *EventBus, m *metrics.Collector, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 256
	}
	if cfg.Params == (layout.Params{}) {
		cfg.Params = layout.DefaultParams()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		spawner:  spawner,
		eventBus: eventBus,
		metrics:  m,
		logger:   logger.Named("sessions"),
		now:      time.Now,
	}
}

// OpenInteractive opens snap for editing and returns the new session id.
// mapID links the session to a stored map and may be empty.
func (m *SessionManager) OpenInteractive(snap domain.Snapshot, mapID string) (string, error) {
	return m.OpenGraph(domain.FromSnapshot(snap), mapID)
}

// OpenGraph is OpenInteractive for an already built graph
func (m *SessionManager) OpenGraph(g *domain.Graph, mapID string) (string, error) {
	r, err := render.NewRenderer()
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	opts := []interaction.Option{
		interaction.WithLayout(m.cfg.BaseRadius, m.cfg.Params),
		interaction.WithMapID(mapID),
	}
	if m.spawner != nil {
		opts = append(opts, interaction.WithSpawner(m.spawner))
	}

	s := &Session{
		ID:       domain.NewID(),
		ctrl:     interaction.New(g, m.cfg.Width, m.cfg.Height, r, opts...),
		lastUsed: m.now(),
		now:      m.now,
		eventBus: m.eventBus,
		metrics:  m.metrics,
	}

	m.mu.Lock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.evictLocked()
	}
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.gauge(count)
	m.logger.Info("session opened", zap.String("session", s.ID), zap.String("map", mapID), zap.String("topic", g.Topic))
	m.eventBus.Publish(Event{
		Type:    EventSessionOpened,
		Payload: map[string]string{"session_id": s.ID, "map_id": mapID, "topic": g.Topic},
	})
	return s.ID, nil
}

// evictLocked drops the least recently used session
func (m *SessionManager) evictLocked() {
	var oldest *Session
	var oldestAt time.Time
	for _, s := range m.sessions {
		at := s.idleSince()
		if oldest == nil || at.Before(oldestAt) {
			oldest, oldestAt = s, at
		}
	}
	if oldest != nil {
		delete(m.sessions, oldest.ID)
		m.logger.Warn("session limit reached, evicting", zap.String("session", oldest.ID))
		m.eventBus.Publish(Event{Type: EventSessionClosed, Payload: map[string]string{"session_id": oldest.ID, "reason": "evicted"}})
	}
}

// Get returns an open session
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Close ends a session
func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	m.gauge(count)
	m.eventBus.Publish(Event{Type: EventSessionClosed, Payload: map[string]string{"session_id": id, "reason": "closed"}})
	return nil
}

// Len returns the number of open sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were closed. A zero TTL keeps sessions forever.
func (m *SessionManager) Sweep() int {
	if m.cfg.TTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.TTL)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		m.gauge(count)
		m.logger.Info("expired sessions closed", zap.Int("count", len(expired)))
		for _, id := range expired {
			m.eventBus.Publish(Event{Type: EventSessionClosed, Payload: map[string]string{"session_id": id, "reason": "expired"}})
		}
	}
	return len(expired)
}

// Run sweeps expired sessions until ctx is done
func (m *SessionManager) Run(ctx context.Context) {
	if m.cfg.TTL <= 0 {
		return
	}
	interval := m.cfg.TTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *SessionManager) gauge(count int) {
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(float64(count))
	}
}

// SaveSession stores the session's map. A session opened from a stored map
// updates it; otherwise a new map is created and linked to the session.
func (s *MindMapService) SaveSession(ctx context.Context, sess *Session) (*domain.MindMapRecord, error) {
	var snap domain.Snapshot
	var mapID string
	sess.Do(func(c *interaction.Controller) error {
		snap = c.Snapshot()
		mapID = c.MapID()
		return nil
	})

	var rec *domain.MindMapRecord
	var err error
	if mapID != "" {
		rec, err = s.Update(ctx, mapID, snap)
		if errors.Is(err, repository.ErrNotFound) {
			// the stored map was deleted meanwhile
			rec, err = s.Save(ctx, snap)
		}
	} else {
		rec, err = s.Save(ctx, snap)
	}
	if err != nil {
		return nil, err
	}

	sess.Do(func(c *interaction.Controller) error {
		c.SetMapID(rec.ID)
		return nil
	})
	return rec, nil
}
