package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyio/parley/pkg/scope"
)

func newTestRunner(local, global map[string]any) *Runner {
	l := scope.FromValues(local)
	g := scope.FromValues(global)
	return NewRunner(l, g, NewRegistry())
}

func TestReplaceVariables(t *testing.T) {
	r := newTestRunner(
		map[string]any{"hp": 42},
		map[string]any{"name": "Aria", "hp": 1},
	)

	// Local wins over global for the same name.
	assert.Equal(t, "HP: 42", r.ReplaceVariables("HP: $hp"))
	assert.Equal(t, "Hello Aria", r.ReplaceVariables("Hello $name"))

	// One trailing punctuation rune does not belong to the token.
	assert.Equal(t, "Hi Aria, you have 42.", r.ReplaceVariables("Hi $name, you have $hp."))

	// Unresolved tokens stay as written.
	assert.Equal(t, "owes $gold now", r.ReplaceVariables("owes $gold now"))

	// A bare dollar sign is not a token.
	assert.Equal(t, "paid in $", r.ReplaceVariables("paid in $"))
}

func TestAssignmentTyping(t *testing.T) {
	local := scope.NewMap()
	global := scope.NewMap()
	r := NewRunner(local, global, NewRegistry())

	for _, line := range []string{
		"hp = 42",
		"speed = 1.5",
		"alive = true",
		"name = Aria",
	} {
		_, err := r.Call(line)
		require.NoError(t, err)
	}

	hp, err := local.GetInt("hp")
	require.NoError(t, err)
	assert.Equal(t, 42, hp)

	speed, err := local.GetFloat("speed")
	require.NoError(t, err)
	assert.Equal(t, 1.5, speed)

	alive, err := local.GetBool("alive")
	require.NoError(t, err)
	assert.True(t, alive)

	name, err := local.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Aria", name)
}

func TestAssignmentTargetsExistingScope(t *testing.T) {
	local := scope.NewMap()
	global := scope.FromValues(map[string]any{"gold": 10})
	r := NewRunner(local, global, NewRegistry())

	// An existing global is written through, not shadowed.
	_, err := r.Call("gold = 25")
	require.NoError(t, err)

	gold, err := global.GetInt("gold")
	require.NoError(t, err)
	assert.Equal(t, 25, gold)
	assert.False(t, local.Exists("gold"))

	// A new name lands in the local scope.
	_, err = r.Call("visited = true")
	require.NoError(t, err)
	assert.True(t, local.Exists("visited"))
	assert.False(t, global.Exists("visited"))
}

func TestVariableRead(t *testing.T) {
	r := newTestRunner(map[string]any{"hp": 42}, nil)

	v, err := r.Call("hp")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestBuiltins(t *testing.T) {
	local := scope.FromValues(map[string]any{"hp": 10})
	global := scope.FromValues(map[string]any{"gold": 100})
	r := NewRunner(local, global, NewRegistry())

	for _, line := range []string{
		"add hp 5",
		"mul hp 2",
		"sub gold 30",
		"div gold 7",
	} {
		_, err := r.Call(line)
		require.NoError(t, err)
	}

	hp, err := local.GetInt("hp")
	require.NoError(t, err)
	assert.Equal(t, 30, hp)

	gold, err := global.GetInt("gold")
	require.NoError(t, err)
	assert.Equal(t, 10, gold)

	// Unknown target or bad operand degrade to a warning, not an error.
	_, err = r.Call("add missing 1")
	assert.NoError(t, err)
	_, err = r.Call("add hp lots")
	assert.NoError(t, err)
}

func TestBuiltinsFractionalOperandOnInt(t *testing.T) {
	local := scope.FromValues(map[string]any{"hp": 10})
	r := NewRunner(local, scope.NewMap(), NewRegistry())

	_, err := r.Call("div hp 0.5")
	require.NoError(t, err)
	hp, err := local.GetFloat("hp")
	require.NoError(t, err)
	assert.Equal(t, 20.0, hp)

	local.Set("gold", 10)
	_, err = r.Call("mul gold 0.5")
	require.NoError(t, err)
	gold, err := local.GetFloat("gold")
	require.NoError(t, err)
	assert.Equal(t, 5.0, gold)
}

func TestCallBooleanComparisons(t *testing.T) {
	r := newTestRunner(
		map[string]any{"score": 100, "name": "Aria"},
		map[string]any{"speed": 1.5},
	)

	cases := []struct {
		line string
		want bool
	}{
		{"$score == 100", true},
		{"$score >= 100", true},
		{"$score <= 99", false},
		{"$score > 50", true},
		{"$score < 50", false},
		{"$name == Aria", true},
		{"$speed > 1", true},
		// Numeric ordering, not lexicographic: "5" < "10".
		{"5 < 10", true},
	}
	for _, tc := range cases {
		got, err := r.CallBoolean(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}
}

func TestCallBooleanTypeMismatchIsFatal(t *testing.T) {
	r := newTestRunner(map[string]any{"name": "Aria"}, nil)

	_, err := r.CallBoolean("$name > 5")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCallBooleanNonBooleanResultDefaultsFalse(t *testing.T) {
	funcs := NewRegistry()
	require.NoError(t, funcs.Register("playerLevel", nil, func(args []any) (any, error) {
		return 7, nil
	}))
	r := NewRunner(scope.NewMap(), scope.NewMap(), funcs)

	got, err := r.CallBoolean("playerLevel")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCallBooleanFunctionResult(t *testing.T) {
	funcs := NewRegistry()
	require.NoError(t, funcs.Register("hasKey", []string{"string"}, func(args []any) (any, error) {
		return args[0] == "vault", nil
	}))
	r := NewRunner(scope.NewMap(), scope.NewMap(), funcs)

	got, err := r.CallBoolean("hasKey vault")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCallAll(t *testing.T) {
	local := scope.NewMap()
	r := NewRunner(local, scope.NewMap(), NewRegistry())

	require.NoError(t, r.CallAll("hp = 10\n\nadd hp 5\n"))

	hp, err := local.GetInt("hp")
	require.NoError(t, err)
	assert.Equal(t, 15, hp)
}

func TestCallSubstitutesArguments(t *testing.T) {
	funcs := NewRegistry()
	var got []any
	require.NoError(t, funcs.Register("give", []string{"string", "int"}, func(args []any) (any, error) {
		got = args
		return nil, nil
	}))

	local := scope.FromValues(map[string]any{"item": "sword", "count": 3})
	r := NewRunner(local, scope.NewMap(), funcs)

	_, err := r.Call("give $item $count")
	require.NoError(t, err)
	assert.Equal(t, []any{"sword", 3}, got)
}

func TestIsAssignment(t *testing.T) {
	assert.True(t, isAssignment("hp = 5"))
	assert.True(t, isAssignment("name=Aria"))
	assert.False(t, isAssignment("hp == 5"))
	assert.False(t, isAssignment("hp >= 5"))
	assert.False(t, isAssignment("hp <= 5"))
	assert.False(t, isAssignment("hp != 5"))
	assert.False(t, isAssignment("add hp 5"))
}
