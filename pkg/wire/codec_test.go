package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyio/parley/pkg/dialogue"
)

func sampleGraph() *dialogue.Graph {
	g := dialogue.NewGraph()

	start := dialogue.NewStart("Hello, $name.")
	start.AudioFile = "greeting.ogg"
	s := g.AddNode(start)

	fn := dialogue.NewFunction("add visits 1")
	fn.NumTimes = 1
	f := g.AddNode(fn)

	choice := dialogue.NewChoice("What now?")
	choice.AddOption("Fight")
	choice.AddConditionalOption("Flee", "$hp < 10")
	c := g.AddNode(choice)

	fight := g.AddNode(dialogue.NewText("You fight."))
	flee := g.AddNode(dialogue.NewText("You flee."))
	end := g.AddNode(dialogue.NewEnd("The end."))

	g.AddEdge(s, f)
	g.AddEdge(f, c)
	g.AddChoiceEdge(c, 0, fight)
	g.AddChoiceEdge(c, 1, flee)
	g.AddEdge(fight, end)
	g.AddEdge(flee, end)

	return g
}

// assertGraphsEquivalent compares two graphs structurally: same node set by
// id, same edge set regardless of order.
func assertGraphsEquivalent(t *testing.T, want, got *dialogue.Graph) {
	t.Helper()

	require.Equal(t, want.NodeIDs(), got.NodeIDs())
	for _, id := range want.NodeIDs() {
		wn, err := want.NodeByID(id)
		require.NoError(t, err)
		gn, err := got.NodeByID(id)
		require.NoError(t, err)

		assert.Equal(t, wn.Kind, gn.Kind, "node %d kind", id)
		assert.Equal(t, wn.Text, gn.Text, "node %d text", id)
		assert.Equal(t, wn.AudioFile, gn.AudioFile, "node %d audio", id)
		assert.Equal(t, wn.NumTimes, gn.NumTimes, "node %d numTimes", id)
		if len(wn.Options) > 0 || len(gn.Options) > 0 {
			assert.Equal(t, wn.Options, gn.Options, "node %d options", id)
			assert.Equal(t, wn.Conditions, gn.Conditions, "node %d conditions", id)
		}
	}
	assert.ElementsMatch(t, want.Edges(), got.Edges())
	assert.Equal(t, want.NextID(), got.NextID())
}

func TestJSONRoundTrip(t *testing.T) {
	codec := NewCodec()
	g := sampleGraph()

	data, err := codec.EncodeJSON(ToWire(g))
	require.NoError(t, err)

	got, err := codec.DecodeGraphJSON(data)
	require.NoError(t, err)
	assertGraphsEquivalent(t, g, got)
}

func TestYAMLRoundTrip(t *testing.T) {
	codec := NewCodec()
	g := sampleGraph()

	data, err := codec.EncodeYAML(ToWire(g))
	require.NoError(t, err)

	got, err := codec.DecodeGraphYAML(data)
	require.NoError(t, err)
	assertGraphsEquivalent(t, g, got)
}

func TestToWireSplitsChoiceRecords(t *testing.T) {
	w := ToWire(sampleGraph())

	assert.Len(t, w.ChoiceNodes, 1)
	assert.Len(t, w.Nodes, 5)
	assert.Len(t, w.ChoiceEdges, 2)
	assert.Len(t, w.Edges, 4)
	assert.Equal(t, Version, w.Version)
}

func TestNumTimesOnlyWrittenForLimitedFunctions(t *testing.T) {
	g := dialogue.NewGraph()
	limited := dialogue.NewFunction("add x 1")
	limited.NumTimes = 3
	lid := g.AddNode(limited)
	uid := g.AddNode(dialogue.NewFunction("add y 1"))

	w := ToWire(g)
	assert.Equal(t, 3, w.Nodes[lid].NumTimes)
	assert.Zero(t, w.Nodes[uid].NumTimes)

	// Zero reads back as unlimited.
	got, err := NewCodec().FromWire(w)
	require.NoError(t, err)
	n, err := got.NodeByID(uid)
	require.NoError(t, err)
	assert.Equal(t, dialogue.UnlimitedCalls, n.NumTimes)
}

func TestDecodeJSONToleratesUnknownFields(t *testing.T) {
	codec := NewCodec()

	data := []byte(`{
		"uniqueId": 2,
		"version": 1,
		"futureField": {"anything": true},
		"nodes": {
			"0": {"type": "start", "text": "hi", "legacyFlag": 7},
			"1": {"type": "end", "text": "bye"}
		},
		"edges": [{"source": 0, "target": 1}]
	}`)

	g, err := codec.DecodeGraphJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())

	start, err := g.StartNode()
	require.NoError(t, err)
	assert.Equal(t, "hi", start.Text)
}

func TestDecodeVersionDriftIsNotFatal(t *testing.T) {
	codec := NewCodec()

	data := []byte(`{
		"uniqueId": 1,
		"version": 99,
		"nodes": {"0": {"type": "start", "text": "hi"}}
	}`)

	g, err := codec.DecodeGraphJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestDecodeUnknownNodeTypeFallsBackToText(t *testing.T) {
	codec := NewCodec()

	w := &Graph{
		UniqueID: 1,
		Version:  Version,
		Nodes:    map[int]Node{0: {Type: "hologram", Text: "zzz"}},
	}

	g, err := codec.FromWire(w)
	require.NoError(t, err)

	n, err := g.NodeByID(0)
	require.NoError(t, err)
	assert.Equal(t, dialogue.KindText, n.Kind)
}

func TestDecodeInvalidPayloads(t *testing.T) {
	codec := NewCodec()

	_, err := codec.DecodeJSON([]byte("{not json"))
	assert.Error(t, err)

	_, err = codec.DecodeYAML([]byte(":\t bad"))
	assert.Error(t, err)
}

func TestUIMetadataRoundTripsOpaquely(t *testing.T) {
	codec := NewCodec()

	w := ToWire(sampleGraph())
	w.UIMetadata = map[int]Point{0: {X: 12.5, Y: -3}}

	data, err := codec.EncodeJSON(w)
	require.NoError(t, err)

	got, err := codec.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, w.UIMetadata, got.UIMetadata)
}
