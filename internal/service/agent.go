package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/metrics"
	"mindcanvas/internal/repository"
)

// AgentService turns agent requests into persisted expert personas
type AgentService struct {
	store    repository.AgentStore
	eventBus *EventBus
	metrics  *metrics.Collector
	logger   *zap.Logger
	timeout  time.Duration
	pending  sync.WaitGroup
}

// NewAgentService creates a new agent service
func NewAgentService(store repository.AgentStore, eventBus *EventBus, m *metrics.Collector, logger *zap.Logger) *AgentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentService{
		store:    store,
		eventBus: eventBus,
		metrics:  m,
		logger:   logger.Named("agents"),
		timeout:  10 * time.Second,
	}
}

// Create builds and stores the persona for req
func (s *AgentService) Create(ctx context.Context, req domain.AgentRequest) (*domain.AgentPersona, error) {
	if req.NodeText == "" {
		return nil, &domain.InputError{Op: "create agent", Field: "node_text", Err: domain.ErrEmptyText}
	}

	agent := domain.NewAgentPersona(req)
	agent.Active = true
	if err := s.store.SaveAgent(ctx, agent); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AgentsCreated.Inc()
	}
	s.logger.Info("agent created", zap.String("id", agent.ID), zap.String("name", agent.Name))
	s.eventBus.Publish(Event{
		Type:    EventAgentCreated,
		Payload: agent,
	})
	return agent, nil
}

// List returns every stored persona
func (s *AgentService) List(ctx context.Context) ([]domain.AgentPersona, error) {
	return s.store.ListAgents(ctx)
}

// Spawn is an interaction.AgentSpawner. The persona is stored in the
// background so the caller is never blocked.
func (s *AgentService) Spawn(req domain.AgentRequest) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Create(ctx, req); err != nil {
			s.logger.Error("failed to create agent", zap.String("node", req.NodeID), zap.Error(err))
		}
	}()
}

// Wait blocks until every spawned persona has been stored or has failed.
// Call it before closing the store.
func (s *AgentService) Wait() {
	s.pending.Wait()
}
