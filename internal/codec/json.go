package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"mindcanvas/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// jsonDocument accepts both the snapshot shape and a generated outline
type jsonDocument struct {
	domain.Snapshot
	Branches []domain.Branch `json:"branches,omitempty"`
}

// Parse imports a mind map from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var doc jsonDocument
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	snap := doc.Snapshot
	if len(snap.Nodes) == 0 && len(doc.Branches) > 0 {
		snap = outlineSnapshot(doc.Topic, doc.Branches)
	}
	if snap.Nodes == nil {
		snap.Nodes = []domain.SnapshotNode{}
	}
	return &snap, nil
}

// Export exports a mind map to JSON
func (c *JSONCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// outlineSnapshot converts outline branches into snapshot nodes without ids
func outlineSnapshot(topic string, branches []domain.Branch) domain.Snapshot {
	snap := domain.Snapshot{Topic: topic, Nodes: make([]domain.SnapshotNode, 0, len(branches))}
	for _, b := range branches {
		sn := domain.SnapshotNode{Text: b.Name}
		for _, leaf := range b.Leaves {
			sn.Children = append(sn.Children, domain.SnapshotNode{Text: leaf})
		}
		snap.Nodes = append(snap.Nodes, sn)
	}
	return snap
}
