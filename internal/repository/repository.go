package repository

import (
	"context"
	"errors"

	"mindcanvas/internal/domain"
)

// ErrNotFound is returned when a record id does not exist
var ErrNotFound = errors.New("record not found")

// MindMapStore persists mind map snapshots
type MindMapStore interface {
	// Save stores a new map and returns its id
	Save(ctx context.Context, snap domain.Snapshot) (string, error)
	// Update replaces the snapshot of an existing map
	Update(ctx context.Context, id string, snap domain.Snapshot) error
	Load(ctx context.Context, id string) (*domain.MindMapRecord, error)
	// List returns saved maps, most recently updated first
	List(ctx context.Context) ([]domain.MindMapRecord, error)
	Delete(ctx context.Context, id string) error
}

// AgentStore persists expert personas
type AgentStore interface {
	SaveAgent(ctx context.Context, agent *domain.AgentPersona) error
	ListAgents(ctx context.Context) ([]domain.AgentPersona, error)
}

// Repository is the full data access surface used by the services
type Repository interface {
	MindMapStore
	AgentStore

	// Close releases resources
	Close() error
}
