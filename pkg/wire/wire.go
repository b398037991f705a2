/*
Package wire implements the versioned on-disk representation of dialogue
graphs.

The schema is deliberately tolerant: a version mismatch is logged, not
rejected, and decoding proceeds best-effort assuming the current field
layout, so graphs survive soft schema drift between releases.
*/
package wire

// Version is the current schema version written by the encoder.
const Version = 1

// Node is the record for every non-choice node.
type Node struct {
	Type  string `json:"type" yaml:"type" mapstructure:"type"`
	Text  string `json:"text" yaml:"text" mapstructure:"text"`
	Audio string `json:"audio,omitempty" yaml:"audio,omitempty" mapstructure:"audio"`

	// NumTimes only applies to function nodes; 0 is mapped to unlimited on
	// read so records written before the field existed keep their behavior.
	NumTimes int `json:"numTimes,omitempty" yaml:"numTimes,omitempty" mapstructure:"numTimes"`
}

// ChoiceNode is the record for choice nodes, which carry the option and
// condition maps plain records do not have.
type ChoiceNode struct {
	Text       string         `json:"text" yaml:"text" mapstructure:"text"`
	Audio      string         `json:"audio,omitempty" yaml:"audio,omitempty" mapstructure:"audio"`
	Options    map[int]string `json:"options" yaml:"options" mapstructure:"options"`
	Conditions map[int]string `json:"conditions" yaml:"conditions" mapstructure:"conditions"`
}

// Edge is a plain edge record.
type Edge struct {
	Source int `json:"source" yaml:"source" mapstructure:"source"`
	Target int `json:"target" yaml:"target" mapstructure:"target"`
}

// ChoiceEdge is an option-keyed edge record.
type ChoiceEdge struct {
	Source   int `json:"source" yaml:"source" mapstructure:"source"`
	OptionID int `json:"optionId" yaml:"optionId" mapstructure:"optionId"`
	Target   int `json:"target" yaml:"target" mapstructure:"target"`
}

// Point is an editor-only node position. It round-trips opaquely and is
// never consulted by traversal.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Graph is the serialized form of a dialogue graph.
type Graph struct {
	UniqueID    int                `json:"uniqueId" yaml:"uniqueId" mapstructure:"uniqueId"`
	Nodes       map[int]Node       `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	ChoiceNodes map[int]ChoiceNode `json:"choiceNodes" yaml:"choiceNodes" mapstructure:"choiceNodes"`
	Edges       []Edge             `json:"edges" yaml:"edges" mapstructure:"edges"`
	ChoiceEdges []ChoiceEdge       `json:"choiceEdges" yaml:"choiceEdges" mapstructure:"choiceEdges"`
	Version     int                `json:"version" yaml:"version" mapstructure:"version"`
	UIMetadata  map[int]Point      `json:"uiMetadata,omitempty" yaml:"uiMetadata,omitempty" mapstructure:"uiMetadata"`
}
