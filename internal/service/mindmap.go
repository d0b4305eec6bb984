package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"mindcanvas/internal/codec"
	"mindcanvas/internal/domain"
	"mindcanvas/internal/generator"
	"mindcanvas/internal/metrics"
	"mindcanvas/internal/repository"
)

// MindMapService provides business logic for stored mind maps
type MindMapService struct {
	store     repository.MindMapStore
	generator generator.Generator
	eventBus  *EventBus
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// NewMindMapService creates a new mind map service. gen and m may be nil;
// without a generator Generate reports an error.
func NewMindMapService(store repository.MindMapStore, gen generator.Generator, eventBus *EventBus, m *metrics.Collector, logger *zap.Logger) *MindMapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MindMapService{
		store:     store,
		generator: gen,
		eventBus:  eventBus,
		metrics:   m,
		logger:    logger.Named("mindmaps"),
	}
}

// Generate expands topic into a new, unsaved graph
func (s *MindMapService) Generate(ctx context.Context, topic string) (*domain.Graph, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &domain.InputError{Op: "generate", Field: "topic", Err: generator.ErrEmptyTopic}
	}
	if s.generator == nil {
		return nil, generator.ErrNoProviders
	}

	outline, err := s.generator.Expand(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to expand topic: %w", err)
	}
	g, err := domain.FromOutline(outline)
	if err != nil {
		return nil, err
	}

	stats := g.Stats()
	s.logger.Info("mind map generated",
		zap.String("topic", g.Topic),
		zap.String("generator", s.generator.Name()),
		zap.Int("nodes", stats.Total))
	s.eventBus.Publish(Event{
		Type:    EventMapGenerated,
		Payload: map[string]interface{}{"topic": g.Topic, "stats": stats},
	})
	return g, nil
}

// Save stores a snapshot as a new map
func (s *MindMapService) Save(ctx context.Context, snap domain.Snapshot) (*domain.MindMapRecord, error) {
	snap = normalize(snap)
	id, err := s.store.Save(ctx, snap)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MapsSaved.Inc()
	}
	s.eventBus.Publish(Event{
		Type:    EventMapSaved,
		Payload: recordSummary(rec),
	})
	return rec, nil
}

// Update replaces a stored map's snapshot
func (s *MindMapService) Update(ctx context.Context, id string, snap domain.Snapshot) (*domain.MindMapRecord, error) {
	if err := s.store.Update(ctx, id, normalize(snap)); err != nil {
		return nil, err
	}
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MapsSaved.Inc()
	}
	s.eventBus.Publish(Event{
		Type:    EventMapUpdated,
		Payload: recordSummary(rec),
	})
	return rec, nil
}

// Get returns one stored map
func (s *MindMapService) Get(ctx context.Context, id string) (*domain.MindMapRecord, error) {
	return s.store.Load(ctx, id)
}

// List returns every stored map, most recently updated first
func (s *MindMapService) List(ctx context.Context) ([]domain.MindMapRecord, error) {
	return s.store.List(ctx)
}

// Delete removes a stored map
func (s *MindMapService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventMapDeleted,
		Payload: map[string]string{"id": id},
	})
	return nil
}

// Import parses r in the given format and stores the result as a new map
func (s *MindMapService) Import(ctx context.Context, format string, r io.Reader) (*domain.MindMapRecord, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, &domain.InputError{Op: "import", Field: "format", Err: err}
	}
	snap, err := c.Parse(r)
	if err != nil {
		return nil, &domain.InputError{Op: "import", Field: "body", Err: err}
	}

	rec, err := s.Save(ctx, *snap)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(Event{
		Type:    EventMapImported,
		Payload: map[string]string{"id": rec.ID, "format": c.Format()},
	})
	return rec, nil
}

// Export writes a stored map in the given format
func (s *MindMapService) Export(ctx context.Context, id, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return &domain.InputError{Op: "export", Field: "format", Err: err}
	}
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return err
	}
	return c.Export(&rec.Snapshot, w)
}

// normalize rebuilds the snapshot through a graph so stored maps always
// have ids, colors and non-blank labels
func normalize(snap domain.Snapshot) domain.Snapshot {
	return domain.FromSnapshot(snap).Snapshot()
}

func recordSummary(rec *domain.MindMapRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":         rec.ID,
		"topic":      rec.Topic,
		"node_count": rec.NodeCount,
	}
}
