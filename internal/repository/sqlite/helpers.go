package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mindcanvas/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToBool converts sql.NullInt64 to bool (0 = false, non-zero = true)
func nullToBool(ni sql.NullInt64) bool {
	return ni.Valid && ni.Int64 != 0
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// boolToInt stores booleans the way SQLite expects them
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ============================================================================
// Snapshot Encoding
// ============================================================================

// marshalSnapshot encodes a snapshot for the snapshot column. Nodes is
// never stored as null so an empty map round-trips as [].
func marshalSnapshot(snap domain.Snapshot) (string, error) {
	if snap.Nodes == nil {
		snap.Nodes = []domain.SnapshotNode{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalSnapshot decodes the snapshot column
func unmarshalSnapshot(s string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if s == "" {
		return snap, nil
	}
	if err := json.Unmarshal([]byte(s), &snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a column to mind_maps:
// 1. Add the field to mindMapRow
// 2. APPEND it to scanArgs() and to mindMapColumns
// 3. Map it in toDomain()
// 4. Add the column to the schema in sqlite.go migrate()
//
// CRITICAL: column order must match between mindMapColumns and scanArgs().
// The same applies to agent_personas.

// ============================================================================
// Mind Map Row Scanner
// ============================================================================

// mindMapRow holds all columns from a mind_maps query for scanning
type mindMapRow struct {
	ID           string
	Topic        string
	SnapshotJSON string
	NodeCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match mindMapColumns order exactly:
// id, topic, snapshot, node_count, created_at, updated_at
func (r *mindMapRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,           // 1
		&r.Topic,        // 2
		&r.SnapshotJSON, // 3
		&r.NodeCount,    // 4
		&r.CreatedAt,    // 5
		&r.UpdatedAt,    // 6
	}
}

// toDomain converts the scanned row to a domain.MindMapRecord
func (r *mindMapRow) toDomain() (*domain.MindMapRecord, error) {
	snap, err := unmarshalSnapshot(r.SnapshotJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	// the indexed column wins over the blob
	snap.Topic = r.Topic

	return &domain.MindMapRecord{
		ID:        r.ID,
		Topic:     r.Topic,
		Snapshot:  snap,
		NodeCount: r.NodeCount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// mindMapColumns is the SELECT column list for mind map queries
const mindMapColumns = `id, topic, snapshot, node_count, created_at, updated_at`

// ============================================================================
// Agent Row Scanner
// ============================================================================

// agentRow holds all columns from an agent_personas query for scanning
type agentRow struct {
	ID           string
	Name         string
	Topic        string
	SystemPrompt string
	SourceMapID  sql.NullString
	Active       sql.NullInt64
	CreatedAt    time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match agentColumns order exactly:
// id, name, topic, system_prompt, source_map_id, active, created_at
func (r *agentRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,           // 1
		&r.Name,         // 2
		&r.Topic,        // 3
		&r.SystemPrompt, // 4
		&r.SourceMapID,  // 5
		&r.Active,       // 6
		&r.CreatedAt,    // 7
	}
}

// toDomain converts the scanned row to a domain.AgentPersona
func (r *agentRow) toDomain() domain.AgentPersona {
	return domain.AgentPersona{
		ID:           r.ID,
		Name:         r.Name,
		Topic:        r.Topic,
		SystemPrompt: r.SystemPrompt,
		SourceMapID:  nullToString(r.SourceMapID),
		Active:       nullToBool(r.Active),
		CreatedAt:    r.CreatedAt,
	}
}

// agentColumns is the SELECT column list for agent queries
const agentColumns = `id, name, topic, system_prompt, source_map_id, active, created_at`

// ============================================================================
// Write Helpers
// ============================================================================

// agentInsertArgs prepares arguments for agent INSERT
// Returns: id, name, topic, system_prompt, source_map_id, active, created_at
func agentInsertArgs(a *domain.AgentPersona) []interface{} {
	return []interface{}{
		a.ID,
		a.Name,
		a.Topic,
		a.SystemPrompt,
		stringToNull(a.SourceMapID),
		boolToInt(a.Active),
		a.CreatedAt.UTC(),
	}
}
