package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyio/parley/pkg/dialogue"
	"github.com/parleyio/parley/pkg/ports"
	"github.com/parleyio/parley/pkg/wire"
)

func writeGraph(t *testing.T, dir, name string, g *dialogue.Graph) {
	t.Helper()

	codec := wire.NewCodec()
	data, err := codec.EncodeJSON(wire.ToWire(g))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644))
}

func TestLoaderContract(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)
	ports.RunGraphLoaderContract(t, loader, func(name string, g *dialogue.Graph) {
		writeGraph(t, dir, name, g)
	})
}

func TestLoaderYAML(t *testing.T) {
	dir := t.TempDir()

	g := dialogue.NewGraph()
	start := g.AddNode(dialogue.NewStart("Hello"))
	end := g.AddNode(dialogue.NewEnd("Bye"))
	g.AddEdge(start, end)

	codec := wire.NewCodec()
	data, err := codec.EncodeYAML(wire.ToWire(g))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.yaml"), data, 0o644))

	loader := NewLoader(dir)
	got, err := loader.Load("intro")
	require.NoError(t, err)

	node, err := got.StartNode()
	require.NoError(t, err)
	assert.Equal(t, "Hello", node.Text)
}

func TestLoaderListSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()

	g := dialogue.NewGraph()
	g.AddNode(dialogue.NewStart("Hi"))
	writeGraph(t, dir, "quest", g)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))

	loader := NewLoader(dir)
	names, err := loader.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"quest"}, names)
}

func TestLoaderWatch(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := loader.Watch(ctx)
	require.NoError(t, err)

	g := dialogue.NewGraph()
	g.AddNode(dialogue.NewStart("Hi"))
	writeGraph(t, dir, "quest", g)

	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected channel to close on cancel")
		}
	}
}
