package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyio/parley/internal/adapters/memory"
	"github.com/parleyio/parley/pkg/dialogue"
	"github.com/parleyio/parley/pkg/session"
)

// testEngine adapts a memory loader to the Engine interface without
// pulling in the root package.
type testEngine struct {
	loader *memory.Loader
}

func (e *testEngine) Start(name string) (*session.Session, error) {
	g, err := e.loader.Load(name)
	if err != nil {
		return nil, err
	}
	return session.New(g, session.WithLoader(e.loader))
}

func (e *testEngine) Validate(name string) ([]error, error) {
	g, err := e.loader.Load(name)
	if err != nil {
		return nil, err
	}
	return dialogue.Validate(g), nil
}

func (e *testEngine) List() ([]string, error) {
	return e.loader.List()
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	loader := memory.NewLoader()

	g := dialogue.NewGraph()
	start := g.AddNode(dialogue.NewStart("Welcome."))
	ask := dialogue.NewChoice("Tea or coffee?")
	ask.AddOption("Tea")
	ask.AddOption("Coffee")
	askID := g.AddNode(ask)
	tea := g.AddNode(dialogue.NewText("Tea it is."))
	coffee := g.AddNode(dialogue.NewText("Coffee it is."))
	end := g.AddNode(dialogue.NewEnd("Enjoy."))
	g.AddEdge(start, askID)
	g.AddChoiceEdge(askID, 0, tea)
	g.AddChoiceEdge(askID, 1, coffee)
	g.AddEdge(tea, end)
	g.AddEdge(coffee, end)
	loader.Put("cafe", g)

	broken := dialogue.NewGraph()
	broken.AddNode(dialogue.NewText("orphan"))
	loader.Put("broken", broken)

	return NewHandler(&testEngine{loader: loader}, session.NewManager())
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	resp := map[string]any{}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t)

	rr, resp := doJSON(t, handler, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", resp["status"])
}

func TestListDialogues(t *testing.T) {
	handler := newTestHandler(t)

	rr, resp := doJSON(t, handler, "GET", "/dialogues", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.ElementsMatch(t, []any{"broken", "cafe"}, resp["dialogues"])
}

func TestValidateDialogue(t *testing.T) {
	handler := newTestHandler(t)

	rr, resp := doJSON(t, handler, "GET", "/dialogues/cafe/validate", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, resp["valid"])

	rr, resp = doJSON(t, handler, "GET", "/dialogues/broken/validate", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, resp["valid"])
	assert.NotEmpty(t, resp["problems"])

	rr, _ = doJSON(t, handler, "GET", "/dialogues/missing/validate", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionLifecycle(t *testing.T) {
	handler := newTestHandler(t)

	// Create: the opening line comes back immediately.
	rr, resp := doJSON(t, handler, "POST", "/dialogues/cafe/sessions", "")
	require.Equal(t, http.StatusCreated, rr.Code)

	state := resp["state"].(map[string]any)
	id := state["id"].(string)
	require.NotEmpty(t, id)

	events := resp["events"].([]any)
	require.Len(t, events, 1)
	first := events[0].(map[string]any)
	assert.Equal(t, "line", first["kind"])
	assert.Equal(t, "Welcome.", first["line"])

	// Advance lands on the choice node.
	rr, resp = doJSON(t, handler, "POST", "/sessions/"+id+"/advance", "")
	require.Equal(t, http.StatusOK, rr.Code)
	state = resp["state"].(map[string]any)
	assert.Equal(t, true, state["awaitingChoice"])

	events = resp["events"].([]any)
	require.Len(t, events, 2)
	choices := events[1].(map[string]any)["choices"].([]any)
	assert.Len(t, choices, 2)

	// Selecting while awaiting a choice moves to the chosen branch.
	rr, resp = doJSON(t, handler, "POST", "/sessions/"+id+"/select", `{"option": 1}`)
	require.Equal(t, http.StatusOK, rr.Code)
	events = resp["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "Coffee it is.", events[0].(map[string]any)["line"])

	// Selecting again conflicts, the session is back on a text node.
	rr, _ = doJSON(t, handler, "POST", "/sessions/"+id+"/select", `{"option": 0}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Run to the end.
	rr, resp = doJSON(t, handler, "POST", "/sessions/"+id+"/advance", "")
	require.Equal(t, http.StatusOK, rr.Code)
	state = resp["state"].(map[string]any)
	assert.Equal(t, true, state["finished"])

	// Cleanup.
	rr, _ = doJSON(t, handler, "DELETE", "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr, _ = doJSON(t, handler, "GET", "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionNotFound(t *testing.T) {
	handler := newTestHandler(t)

	rr, _ := doJSON(t, handler, "POST", "/sessions/nope/advance", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = doJSON(t, handler, "POST", "/dialogues/missing/sessions", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
