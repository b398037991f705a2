package wire

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/parleyio/parley/internal/logging"
	"github.com/parleyio/parley/pkg/dialogue"
)

// Codec converts between model graphs, wire documents and bytes.
type Codec struct {
	logger *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for schema-drift warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// NewCodec creates a codec.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToWire converts a model graph into its serializable form.
// Plain and choice nodes are split into separate record maps, as are plain
// and choice edges.
func ToWire(g *dialogue.Graph) *Graph {
	w := &Graph{
		UniqueID:    g.NextID(),
		Nodes:       make(map[int]Node),
		ChoiceNodes: make(map[int]ChoiceNode),
		Version:     Version,
	}

	for id, n := range g.Nodes() {
		if n.Kind == dialogue.KindChoice {
			record := ChoiceNode{
				Text:       n.Text,
				Audio:      n.AudioFile,
				Options:    make(map[int]string, len(n.Options)),
				Conditions: make(map[int]string, len(n.Conditions)),
			}
			for optID, text := range n.Options {
				record.Options[optID] = text
			}
			for optID, cond := range n.Conditions {
				record.Conditions[optID] = cond
			}
			w.ChoiceNodes[id] = record
			continue
		}

		record := Node{Type: n.Kind.String(), Text: n.Text, Audio: n.AudioFile}
		if n.Kind == dialogue.KindFunction && n.NumTimes != dialogue.UnlimitedCalls {
			record.NumTimes = n.NumTimes
		}
		w.Nodes[id] = record
	}

	for _, e := range g.Edges() {
		if e.IsChoice() {
			w.ChoiceEdges = append(w.ChoiceEdges, ChoiceEdge{Source: e.Source, OptionID: e.Option, Target: e.Target})
		} else {
			w.Edges = append(w.Edges, Edge{Source: e.Source, Target: e.Target})
		}
	}

	return w
}

// FromWire rebuilds a model graph from its serializable form.
// Version checking happens in the decode entry points.
func (c *Codec) FromWire(w *Graph) (*dialogue.Graph, error) {
	g := dialogue.NewGraph()

	for id, record := range w.Nodes {
		kind, ok := dialogue.ParseKind(record.Type)
		if !ok {
			c.logger.Warn("unknown node type tag, treating as text", "id", id, "type", record.Type)
			kind = dialogue.KindText
		}

		n := dialogue.NewNode(kind, record.Text)
		n.AudioFile = record.Audio
		if kind == dialogue.KindFunction && record.NumTimes != 0 {
			n.NumTimes = record.NumTimes
		}
		g.PutNode(id, n)
	}

	for id, record := range w.ChoiceNodes {
		n := dialogue.NewChoice(record.Text)
		n.AudioFile = record.Audio
		for optID, text := range record.Options {
			n.Options[optID] = text
		}
		for optID, cond := range record.Conditions {
			n.Conditions[optID] = cond
		}
		g.PutNode(id, n)
	}

	for _, e := range w.Edges {
		g.AddEdge(e.Source, e.Target)
	}
	for _, e := range w.ChoiceEdges {
		g.AddChoiceEdge(e.Source, e.OptionID, e.Target)
	}

	if w.UniqueID > g.NextID() {
		g.SetNextID(w.UniqueID)
	}

	return g, nil
}

// EncodeJSON serializes a wire document.
func (c *Codec) EncodeJSON(w *Graph) ([]byte, error) {
	return json.MarshalIndent(w, "", "  ")
}

// DecodeJSON parses a wire document, tolerating unknown and missing fields.
func (c *Codec) DecodeJSON(data []byte) (*Graph, error) {
	// Decode into a loose map first, then map the fields we know about.
	// Unknown fields are dropped and missing fields keep zero values, which
	// is what makes soft schema migration possible.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("wire: invalid json: %w", err)
	}
	return c.fromRaw(raw)
}

// EncodeYAML serializes a wire document as YAML.
func (c *Codec) EncodeYAML(w *Graph) ([]byte, error) {
	return yaml.Marshal(w)
}

// DecodeYAML parses a YAML wire document.
func (c *Codec) DecodeYAML(data []byte) (*Graph, error) {
	var w Graph
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("wire: invalid yaml: %w", err)
	}
	c.checkVersion(&w)
	return &w, nil
}

// DecodeGraphJSON is DecodeJSON followed by FromWire.
func (c *Codec) DecodeGraphJSON(data []byte) (*dialogue.Graph, error) {
	w, err := c.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return c.FromWire(w)
}

// DecodeGraphYAML is DecodeYAML followed by FromWire.
func (c *Codec) DecodeGraphYAML(data []byte) (*dialogue.Graph, error) {
	w, err := c.DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return c.FromWire(w)
}

func (c *Codec) fromRaw(raw map[string]any) (*Graph, error) {
	var w Graph
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &w,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("wire: decoder setup: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("wire: decode: %w", err)
	}

	c.checkVersion(&w)
	return &w, nil
}

func (c *Codec) checkVersion(w *Graph) {
	if w.Version != Version {
		c.logger.Warn("dialogue graph version differs from current, parsing best-effort",
			"got", w.Version,
			"want", Version,
		)
	}
}
