package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyio/parley/pkg/dialogue"
	"github.com/parleyio/parley/pkg/scope"
)

// RunGraphLoaderContract verifies that a GraphLoader implementation adheres
// to the interface contract. The seed function must store the given graph
// under the given name before the suite runs.
func RunGraphLoaderContract(t *testing.T, loader GraphLoader, seed func(name string, g *dialogue.Graph)) {
	g := dialogue.NewGraph()
	start := g.AddNode(dialogue.NewStart("hello"))
	end := g.AddNode(dialogue.NewEnd(""))
	g.AddEdge(start, end)

	seed("greeting", g)

	t.Run("Load", func(t *testing.T) {
		loaded, err := loader.Load("greeting")
		require.NoError(t, err)
		require.NotNil(t, loaded)

		startNode, err := loaded.StartNode()
		require.NoError(t, err)
		assert.Equal(t, "hello", startNode.Text)
		assert.Equal(t, 2, loaded.Len())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.Load("no-such-graph")
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List()
		require.NoError(t, err)
		assert.Contains(t, names, "greeting")
	})
}

// RunScopeStoreContract verifies that a ScopeStore implementation adheres to
// the interface contract.
func RunScopeStoreContract(t *testing.T, store ScopeStore) {
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		vars := scope.NewMap()
		vars.Set("name", "Villager")
		vars.Set("hp", 42)
		vars.Set("brave", true)

		require.NoError(t, store.Save(ctx, vars))

		restored := scope.NewMap()
		require.NoError(t, store.Load(ctx, restored))

		name, err := restored.GetString("name")
		require.NoError(t, err)
		assert.Equal(t, "Villager", name)

		hp, err := restored.GetInt("hp")
		require.NoError(t, err)
		assert.Equal(t, 42, hp)

		brave, err := restored.GetBool("brave")
		require.NoError(t, err)
		assert.True(t, brave)
	})

	t.Run("Load Into Populated Scope", func(t *testing.T) {
		vars := scope.NewMap()
		vars.Set("hp", 100)
		require.NoError(t, store.Save(ctx, vars))

		target := scope.NewMap()
		target.Set("hp", 1)
		target.Set("untouched", "still here")
		require.NoError(t, store.Load(ctx, target))

		hp, err := target.GetInt("hp")
		require.NoError(t, err)
		assert.Equal(t, 100, hp)
		assert.True(t, target.Exists("untouched"))
	})
}
