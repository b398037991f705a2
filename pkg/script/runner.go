package script

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/parleyio/parley/internal/logging"
	"github.com/parleyio/parley/pkg/scope"
)

// Runner evaluates dialogue script lines against a pair of scopes.
//
// Variables resolve local scope first, then global. New names created by
// assignment default to local.
type Runner struct {
	local  *scope.Map
	global *scope.Map
	funcs  *Registry
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets a structured logger for script warnings.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner over the given scopes and function registry.
func NewRunner(local, global *scope.Map, funcs *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		local:  local,
		global: global,
		funcs:  funcs,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReplaceVariables substitutes every $name token in the line with the
// variable's display value. A token is a maximal run of non-space characters
// starting with '$', minus one trailing punctuation rune (so "$hp." reads
// variable "hp"). Unresolved tokens are left as they are.
func (r *Runner) ReplaceVariables(line string) string {
	names := make(map[string]bool)
	for _, tok := range strings.Fields(line) {
		if !strings.HasPrefix(tok, "$") || len(tok) < 2 {
			continue
		}

		name := tok[1:]
		runes := []rune(name)
		if last := runes[len(runes)-1]; !unicode.IsLetter(last) && !unicode.IsDigit(last) {
			name = string(runes[:len(runes)-1])
		}
		if name != "" {
			names[name] = true
		}
	}

	result := line
	for name := range names {
		if v, ok := r.lookup(name); ok {
			result = strings.ReplaceAll(result, "$"+name, Display(v))
		}
	}
	return result
}

// Call executes a single statement: an assignment, a variable read (a bare
// name matching a local or global variable) or a function invocation with
// variable-substituted arguments.
func (r *Runner) Call(line string) (any, error) {
	line = strings.TrimSpace(line)

	if isAssignment(line) {
		r.assign(line)
		return nil, nil
	}

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCall, line)
	}

	name := tokens[0]

	// A bare known variable name is a variable read, the only case where a
	// "function call" is not a call at all.
	if len(tokens) == 1 {
		if v, ok := r.lookup(name); ok {
			return v, nil
		}
	}

	args := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		args = append(args, r.ReplaceVariables(tok))
	}

	if done := r.callBuiltin(name, args); done {
		return nil, nil
	}

	return r.funcs.Call(name, args)
}

// CallBoolean evaluates a line as a condition.
//
// Lines containing a comparison operator are evaluated as a typed comparison
// of their substituted sides; a type-incompatible pair is a fatal
// ErrTypeMismatch. Any other line is dispatched through Call and coerced to
// boolean, warning and defaulting to false for non-boolean results.
func (r *Runner) CallBoolean(line string) (bool, error) {
	// Probe two-rune operators first so ">=" is not split by ">".
	for _, op := range []string{"==", ">=", "<=", ">", "<"} {
		idx := strings.Index(line, op)
		if idx < 0 {
			continue
		}

		lhs := ParseLiteral(strings.TrimSpace(r.ReplaceVariables(line[:idx])))
		rhs := ParseLiteral(strings.TrimSpace(r.ReplaceVariables(line[idx+len(op):])))

		cmp, err := Compare(lhs, rhs)
		if err != nil {
			return false, fmt.Errorf("evaluating %q: %w", line, err)
		}

		switch op {
		case "==":
			return cmp == 0, nil
		case ">=":
			return cmp >= 0, nil
		case "<=":
			return cmp <= 0, nil
		case ">":
			return cmp > 0, nil
		default:
			return cmp < 0, nil
		}
	}

	result, err := r.Call(line)
	if err != nil {
		return false, err
	}

	b, ok := result.(bool)
	if !ok {
		r.logger.Warn("boolean function call did not return a boolean, assuming false",
			"line", line,
			"result", result,
		)
		return false, nil
	}
	return b, nil
}

// CallAll executes every non-empty newline-separated statement in text.
func (r *Runner) CallAll(text string) error {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := r.Call(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) lookup(name string) (any, bool) {
	if v, ok := r.local.Get(name); ok {
		return v, true
	}
	return r.global.Get(name)
}

// assign parses "name = value" and writes the typed value to the scope the
// name already lives in, creating it locally when it is new.
func (r *Runner) assign(line string) {
	name := strings.TrimSpace(line[:strings.Index(line, "=")])
	value := ParseLiteral(strings.TrimSpace(line[strings.Index(line, "=")+1:]))

	switch {
	case r.local.Exists(name):
		r.local.Set(name, value)
	case r.global.Exists(name):
		r.global.Set(name, value)
	default:
		r.local.Set(name, value)
	}
}

// callBuiltin handles the arithmetic built-ins (add, sub, mul, div) applied
// to the first scope holding the named variable, local first. Returns false
// when the name is not a built-in, so dispatch can continue.
func (r *Runner) callBuiltin(name string, args []string) bool {
	if len(args) != 2 {
		return false
	}

	var apply func(m *scope.Map, varName string, operand float64) error
	switch name {
	case "add":
		apply = (*scope.Map).Increment
	case "sub":
		apply = func(m *scope.Map, varName string, operand float64) error {
			return m.Increment(varName, -operand)
		}
	case "mul":
		apply = (*scope.Map).Multiply
	case "div":
		apply = (*scope.Map).Divide
	default:
		return false
	}

	varName := args[0]
	operand, ok := toNumber(ParseLiteral(args[1]))
	if !ok {
		r.logger.Warn("built-in operand is not numeric", "func", name, "operand", args[1])
		return true
	}

	for _, vars := range []*scope.Map{r.local, r.global} {
		if !vars.Exists(varName) {
			continue
		}
		if err := apply(vars, varName, operand); err != nil {
			r.logger.Warn("cannot apply built-in operation", "func", name, "var", varName, "err", err)
		}
		return true
	}

	r.logger.Warn("built-in target variable does not exist", "func", name, "var", varName)
	return true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// isAssignment reports whether the line's first '=' is a bare assignment
// operator rather than part of ==, >=, <= or !=.
func isAssignment(line string) bool {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return false
	}
	if idx+1 < len(line) && line[idx+1] == '=' {
		return false
	}
	if idx > 0 {
		switch line[idx-1] {
		case '<', '>', '!':
			return false
		}
	}
	return true
}
