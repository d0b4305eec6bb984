package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindcanvas/internal/domain"
	"mindcanvas/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository. ":memory:" opens a private
// in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	memory := dbPath == ":memory:" || strings.HasPrefix(dbPath, "file::memory:")
	if !memory {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mind_maps (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		snapshot JSON NOT NULL,
		node_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_personas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		topic TEXT NOT NULL,
		system_prompt TEXT NOT NULL,
		source_map_id TEXT,
		active INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mind_maps_updated ON mind_maps(updated_at);
	CREATE INDEX IF NOT EXISTS idx_agent_personas_map ON agent_personas(source_map_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ============================================================================
// Mind Maps
// ============================================================================

// Save stores a new mind map and returns its id
func (r *Repository) Save(ctx context.Context, snap domain.Snapshot) (string, error) {
	data, err := marshalSnapshot(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	id := domain.NewID()
	now := r.now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO mind_maps (id, topic, snapshot, node_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, snap.Topic, data, snap.NodeCount(), now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert mind map: %w", err)
	}
	return id, nil
}

// Update replaces the snapshot of an existing mind map
func (r *Repository) Update(ctx context.Context, id string, snap domain.Snapshot) error {
	data, err := marshalSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE mind_maps SET topic = ?, snapshot = ?, node_count = ?, updated_at = ?
		WHERE id = ?
	`, snap.Topic, data, snap.NodeCount(), r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update mind map: %w", err)
	}
	return expectRow(result, id)
}

// Load returns one mind map by id
func (r *Repository) Load(ctx context.Context, id string) (*domain.MindMapRecord, error) {
	var row mindMapRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+mindMapColumns+` FROM mind_maps WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mind map %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mind map: %w", err)
	}
	return row.toDomain()
}

// List returns every saved map, most recently updated first
func (r *Repository) List(ctx context.Context) ([]domain.MindMapRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mindMapColumns+` FROM mind_maps ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mind maps: %w", err)
	}
	defer rows.Close()

	records := make([]domain.MindMapRecord, 0)
	for rows.Next() {
		var row mindMapRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan mind map: %w", err)
		}
		rec, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("mind map %s: %w", row.ID, err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mind maps: %w", err)
	}
	return records, nil
}

// Delete removes a mind map. Agents created from it keep their persona but
// lose the back-reference.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM mind_maps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mind map: %w", err)
	}
	if err := expectRow(result, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE agent_personas SET source_map_id = NULL WHERE source_map_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach agents: %w", err)
	}
	return tx.Commit()
}

// ============================================================================
// Agents
// ============================================================================

// SaveAgent inserts or replaces an expert persona
func (r *Repository) SaveAgent(ctx context.Context, agent *domain.AgentPersona) error {
	if agent.ID == "" {
		agent.ID = domain.NewID()
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = r.now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agent_personas (`+agentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			topic = excluded.topic,
			system_prompt = excluded.system_prompt,
			source_map_id = excluded.source_map_id,
			active = excluded.active
	`, agentInsertArgs(agent)...)
	if err != nil {
		return fmt.Errorf("failed to save agent: %w", err)
	}
	return nil
}

// ListAgents returns every persona, newest first
func (r *Repository) ListAgents(ctx context.Context) ([]domain.AgentPersona, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+agentColumns+` FROM agent_personas ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	agents := make([]domain.AgentPersona, 0)
	for rows.Next() {
		var row agentRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}
	return agents, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// expectRow turns a zero-row write into ErrNotFound
func expectRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mind map %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
