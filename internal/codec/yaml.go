package codec

import (
	"fmt"
	"io"

	"mindcanvas/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlMap is the hand-editable YAML layout. Leaves may be written as bare
// strings or as mappings with text and color.
type yamlMap struct {
	Topic    string       `yaml:"topic"`
	Branches []yamlBranch `yaml:"branches"`
}

type yamlBranch struct {
	ID     string     `yaml:"id,omitempty"`
	Text   string     `yaml:"text"`
	Color  string     `yaml:"color,omitempty"`
	Leaves []yamlLeaf `yaml:"leaves,omitempty"`
}

type yamlLeaf struct {
	ID    string `yaml:"id,omitempty"`
	Text  string `yaml:"text"`
	Color string `yaml:"color,omitempty"`
}

// UnmarshalYAML accepts a scalar leaf as shorthand for {text: ...}
func (l *yamlLeaf) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Text = node.Value
		return nil
	}
	type plain yamlLeaf
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*l = yamlLeaf(p)
	return nil
}

// Parse imports a mind map from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var ym yamlMap
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ym); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	snap := &domain.Snapshot{
		Topic: ym.Topic,
		Nodes: make([]domain.SnapshotNode, 0, len(ym.Branches)),
	}
	for _, yb := range ym.Branches {
		sn := domain.SnapshotNode{
			ID:    yb.ID,
			Text:  yb.Text,
			Color: domain.ColorKey(yb.Color),
		}
		for _, yl := range yb.Leaves {
			sn.Children = append(sn.Children, domain.SnapshotNode{
				ID:    yl.ID,
				Text:  yl.Text,
				Color: domain.ColorKey(yl.Color),
			})
		}
		snap.Nodes = append(snap.Nodes, sn)
	}

	return snap, nil
}

// Export exports a mind map to YAML. Leaves sharing their branch color are
// written as bare strings.
func (c *YAMLCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalar("topic"), scalar(snap.Topic))

	branches := &yaml.Node{Kind: yaml.SequenceNode}
	for _, sn := range snap.Nodes {
		b := &yaml.Node{Kind: yaml.MappingNode}
		if sn.ID != "" {
			b.Content = append(b.Content, scalar("id"), scalar(sn.ID))
		}
		b.Content = append(b.Content, scalar("text"), scalar(sn.Text))
		if sn.Color != "" {
			b.Content = append(b.Content, scalar("color"), scalar(string(sn.Color)))
		}
		if len(sn.Children) > 0 {
			leaves := &yaml.Node{Kind: yaml.SequenceNode}
			for _, leaf := range sn.Children {
				leaves.Content = append(leaves.Content, leafNode(leaf, sn.Color))
			}
			b.Content = append(b.Content, scalar("leaves"), leaves)
		}
		branches.Content = append(branches.Content, b)
	}
	root.Content = append(root.Content, scalar("branches"), branches)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func leafNode(leaf domain.SnapshotNode, branchColor domain.ColorKey) *yaml.Node {
	if leaf.ID == "" && (leaf.Color == "" || leaf.Color == branchColor) {
		return scalar(leaf.Text)
	}
	n := &yaml.Node{Kind: yaml.MappingNode}
	if leaf.ID != "" {
		n.Content = append(n.Content, scalar("id"), scalar(leaf.ID))
	}
	n.Content = append(n.Content, scalar("text"), scalar(leaf.Text))
	if leaf.Color != "" && leaf.Color != branchColor {
		n.Content = append(n.Content, scalar("color"), scalar(string(leaf.Color)))
	}
	return n
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
