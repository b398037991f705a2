package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/parleyio/parley/internal/logging"
	"github.com/parleyio/parley/internal/metrics"
	"github.com/parleyio/parley/pkg/dialogue"
	"github.com/parleyio/parley/pkg/ports"
	"github.com/parleyio/parley/pkg/scope"
	"github.com/parleyio/parley/pkg/script"
)

// Session is one live traversal of a dialogue graph, from its Start node to
// an End node.
type Session struct {
	graph  *dialogue.Graph
	local  *scope.Map
	global *scope.Map
	runner *script.Runner
	funcs  *script.Registry
	loader ports.GraphLoader
	audio  ports.AudioPlayer
	logger *slog.Logger

	onFinished func()
	strict     bool
	typewriter bool

	current        int
	startEmitted   bool
	awaitingChoice bool
	pendingText    bool
	finished       bool
}

// Option configures a Session.
type Option func(*Session)

// WithGlobals sets the shared global scope. Defaults to a fresh empty scope.
func WithGlobals(vars *scope.Map) Option {
	return func(s *Session) {
		s.global = vars
	}
}

// WithFunctions sets the function registry used for Function, Branch and
// Choice-condition dispatch.
func WithFunctions(funcs *script.Registry) Option {
	return func(s *Session) {
		s.funcs = funcs
	}
}

// WithLoader sets the loader used to resolve SubDialogue references.
func WithLoader(loader ports.GraphLoader) Option {
	return func(s *Session) {
		s.loader = loader
	}
}

// WithAudio sets the audio player receiving node cues.
func WithAudio(player ports.AudioPlayer) Option {
	return func(s *Session) {
		s.audio = player
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithOnFinished registers a callback fired exactly once at session end.
func WithOnFinished(fn func()) Option {
	return func(s *Session) {
		s.onFinished = fn
	}
}

// WithStrict makes dangling transitions errors instead of degrading them to
// a synthesized end of conversation.
func WithStrict(strict bool) Option {
	return func(s *Session) {
		s.strict = strict
	}
}

// WithTypewriter enables pending-text tracking: while a line is being
// revealed externally, Advance and Select flush the reveal instead of
// transitioning.
func WithTypewriter(enabled bool) Option {
	return func(s *Session) {
		s.typewriter = enabled
	}
}

// New creates a session over a private copy of the graph, expanding every
// SubDialogue node up front, and positions it at the Start node.
//
// Expansion assumes sub-dialogue references are acyclic; a graph that
// (transitively) references itself will not terminate.
func New(g *dialogue.Graph, opts ...Option) (*Session, error) {
	s := &Session{
		graph:  g.Copy(),
		local:  scope.NewMap(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.global == nil {
		s.global = scope.NewMap()
	}
	if s.funcs == nil {
		s.funcs = script.NewRegistry(script.WithRegistryLogger(s.logger))
	}
	if s.audio == nil {
		s.audio = nopAudio{}
	}

	s.runner = script.NewRunner(s.local, s.global, s.funcs, script.WithLogger(s.logger))

	if err := s.expandSubDialogues(); err != nil {
		return nil, err
	}

	startID, err := s.graph.StartNodeID()
	if err != nil {
		return nil, err
	}
	s.current = startID

	metrics.SessionsStarted.Inc()
	return s, nil
}

// expandSubDialogues repeatedly splices the referenced graph in place of
// each SubDialogue node until none remain.
func (s *Session) expandSubDialogues() error {
	for {
		subID := s.graph.FindNodeIDByKind(dialogue.KindSubDialogue)
		if subID == dialogue.NodeNotFound {
			return nil
		}

		subNode, err := s.graph.NodeByID(subID)
		if err != nil {
			return err
		}

		if s.loader == nil {
			return fmt.Errorf("graph references sub-dialogue %q but no loader is configured", subNode.Text)
		}

		sub, err := s.loader.Load(subNode.Text)
		if err != nil {
			return fmt.Errorf("loading sub-dialogue %q: %w", subNode.Text, err)
		}

		source, ok := s.incomingSource(subID)
		if !ok {
			return fmt.Errorf("sub-dialogue node %d has no incoming edge", subID)
		}
		target, ok := s.graph.NextNode(subID)
		if !ok {
			return fmt.Errorf("sub-dialogue node %d has no outgoing edge", subID)
		}

		// Break the chain source -> subdialogue -> target, then reconnect
		// source and target through the loaded graph.
		s.graph.RemoveNode(subID)

		spliced := sub.Copy()
		spliced.Rebase(s.graph.NextID())
		if err := dialogue.AppendGraph(s.graph, source, target, spliced); err != nil {
			return fmt.Errorf("splicing sub-dialogue %q: %w", subNode.Text, err)
		}
	}
}

func (s *Session) incomingSource(id int) (int, bool) {
	for _, e := range s.graph.Edges() {
		if e.Target == id {
			return e.Source, true
		}
	}
	return dialogue.NodeNotFound, false
}

// Advance moves the conversation forward one step.
//
// The first call emits the Start node's line without consuming an edge.
// While a Choice node is awaiting Select, or after the session finished,
// Advance emits nothing. With typewriter tracking enabled, an advance during
// a pending reveal only flushes the reveal.
func (s *Session) Advance() ([]Event, error) {
	if s.finished {
		return nil, nil
	}
	if s.pendingText {
		s.pendingText = false
		return []Event{{Kind: EventRevealed}}, nil
	}
	if s.awaitingChoice {
		return nil, nil
	}

	if !s.startEmitted {
		s.startEmitted = true
		node, err := s.graph.NodeByID(s.current)
		if err != nil {
			return nil, err
		}
		s.visit(node)
		return s.emitLine(node), nil
	}

	next, ok := s.graph.NextNode(s.current)
	if !ok {
		var err error
		next, err = s.danglingTransition(fmt.Sprintf("no next node from node %d", s.current))
		if err != nil {
			return nil, err
		}
	}
	return s.stepInto(next)
}

// Select resumes a session paused at a Choice node with the chosen option.
// An option id with no matching transition is handled like any dangling
// transition: a warning and a synthesized end, or an error in strict mode.
func (s *Session) Select(option int) ([]Event, error) {
	if s.finished {
		return nil, nil
	}
	if s.pendingText {
		s.pendingText = false
		return []Event{{Kind: EventRevealed}}, nil
	}
	if !s.awaitingChoice {
		s.logger.Warn("select called outside a choice node", "node", s.current, "option", option)
		return nil, nil
	}

	s.awaitingChoice = false

	next, ok := s.graph.NextNodeForOption(s.current, option)
	if !ok {
		var err error
		next, err = s.danglingTransition(fmt.Sprintf("no next node from node %d using option %d", s.current, option))
		if err != nil {
			return nil, err
		}
	}
	return s.stepInto(next)
}

// stepInto processes nodes until one that waits for external input is
// reached: Function and Branch nodes continue immediately, everything else
// pauses the walk.
func (s *Session) stepInto(id int) ([]Event, error) {
	for {
		node, err := s.graph.NodeByID(id)
		if err != nil {
			return nil, err
		}

		s.current = id
		s.visit(node)

		switch node.Kind {
		case dialogue.KindFunction:
			if err := s.runFunction(id, node); err != nil {
				return nil, err
			}

			next, ok := s.graph.NextNode(id)
			if !ok {
				next, err = s.danglingTransition(fmt.Sprintf("no next node from function node %d", id))
				if err != nil {
					return nil, err
				}
			}
			id = next

		case dialogue.KindBranch:
			option, err := s.evalBranch(node)
			if err != nil {
				return nil, err
			}

			next, ok := s.graph.NextNodeForOption(id, option)
			if !ok {
				next, err = s.danglingTransition(fmt.Sprintf("no next node from branch node %d using option %d", id, option))
				if err != nil {
					return nil, err
				}
			}
			id = next

		case dialogue.KindChoice:
			events := s.emitLine(node)

			choices, err := s.availableChoices(node)
			if err != nil {
				return nil, err
			}
			events = append(events, Event{Kind: EventChoices, Choices: choices})

			s.awaitingChoice = true
			return events, nil

		case dialogue.KindEnd:
			events := s.emitLine(node)
			return append(events, s.finish()...), nil

		default:
			// Start nodes reached mid-graph behave like plain text.
			return s.emitLine(node), nil
		}
	}
}

// runFunction executes the node's newline-separated statements, honoring its
// call limit. The per-node call count lives in the local scope.
func (s *Session) runFunction(id int, node *dialogue.Node) error {
	counter := fmt.Sprintf("dialogue.function.numTimesCalled.%d", id)
	if !s.local.Exists(counter) {
		s.local.Set(counter, 0)
	}

	called, err := s.local.GetInt(counter)
	if err != nil {
		return err
	}

	if node.NumTimes != dialogue.UnlimitedCalls && called >= node.NumTimes {
		return nil
	}

	if err := s.local.Increment(counter, 1); err != nil {
		return err
	}
	return s.runner.CallAll(node.Text)
}

// evalBranch returns option 0 for true and option 1 for false. An empty
// expression is an authoring defect and defaults to the false branch.
func (s *Session) evalBranch(node *dialogue.Node) (int, error) {
	if strings.TrimSpace(node.Text) == "" {
		s.logger.Warn("branch node has no expression, assuming false branch", "node", s.current)
		metrics.TraversalWarnings.Inc()
		return 1, nil
	}

	result, err := s.runner.CallBoolean(node.Text)
	if err != nil {
		return 0, err
	}
	if result {
		return 0, nil
	}
	return 1, nil
}

// availableChoices filters the node's options by their conditions and
// substitutes variables into the surviving texts. Options with empty text
// after substitution are skipped.
func (s *Session) availableChoices(node *dialogue.Node) ([]ChoiceLine, error) {
	choices := make([]ChoiceLine, 0, len(node.Options))

	for _, optID := range node.OptionIDs() {
		condition := node.Conditions[optID]
		if strings.TrimSpace(condition) != "" {
			ok, err := s.runner.CallBoolean(condition)
			if err != nil {
				return nil, fmt.Errorf("condition of option %d: %w", optID, err)
			}
			if !ok {
				continue
			}
		}

		text := s.runner.ReplaceVariables(node.Options[optID])
		if text == "" {
			continue
		}
		choices = append(choices, ChoiceLine{Option: optID, Text: text})
	}

	metrics.ChoicesOffered.Add(float64(len(choices)))
	return choices, nil
}

// danglingTransition implements the NotFound recovery policy: in strict mode
// it fails; by default it warns and synthesizes a transient End node
// carrying the warning as its label.
func (s *Session) danglingTransition(warning string) (int, error) {
	if s.strict {
		return dialogue.NodeNotFound, fmt.Errorf("%w: %s", dialogue.ErrNodeNotFound, warning)
	}

	s.logger.Warn(warning)
	metrics.TraversalWarnings.Inc()
	return s.graph.AddNode(dialogue.NewEnd(warning)), nil
}

func (s *Session) emitLine(node *dialogue.Node) []Event {
	if s.typewriter {
		s.pendingText = true
	}
	return []Event{{Kind: EventLine, Line: s.runner.ReplaceVariables(node.Text)}}
}

// visit records the node visit and fires its audio cue, at most once per
// visit and only when a cue is referenced.
func (s *Session) visit(node *dialogue.Node) {
	metrics.NodesVisited.WithLabelValues(node.Kind.String()).Inc()

	if node.AudioFile == "" {
		return
	}
	s.audio.Stop(node.AudioFile)
	s.audio.Play(node.AudioFile)
}

// finish marks the session complete, releases the local scope and fires the
// onFinished callback exactly once.
func (s *Session) finish() []Event {
	s.finished = true
	s.awaitingChoice = false
	s.pendingText = false
	s.local.Clear()

	metrics.SessionsFinished.Inc()

	if s.onFinished != nil {
		fn := s.onFinished
		s.onFinished = nil
		fn()
	}
	return []Event{{Kind: EventFinished}}
}

// Finished reports whether the session reached an End node.
func (s *Session) Finished() bool {
	return s.finished
}

// AwaitingChoice reports whether the session is paused on a Choice node.
func (s *Session) AwaitingChoice() bool {
	return s.awaitingChoice
}

// TextPending reports whether an emitted line has not been fully revealed
// yet (typewriter mode only).
func (s *Session) TextPending() bool {
	return s.pendingText
}

// MarkRevealed clears the pending-text state. The presentation layer calls
// this when its reveal animation completes on its own.
func (s *Session) MarkRevealed() {
	s.pendingText = false
}

// CurrentID returns the id of the current node in the session's private
// graph copy.
func (s *Session) CurrentID() int {
	return s.current
}

// Current returns the current node.
func (s *Session) Current() (*dialogue.Node, error) {
	return s.graph.NodeByID(s.current)
}

// Locals returns the session's private scope.
func (s *Session) Locals() *scope.Map {
	return s.local
}

// Globals returns the shared scope the session writes through to.
func (s *Session) Globals() *scope.Map {
	return s.global
}

// Graph returns the session's private, fully expanded graph copy.
func (s *Session) Graph() *dialogue.Graph {
	return s.graph
}

type nopAudio struct{}

func (nopAudio) Play(string) {}
func (nopAudio) Stop(string) {}
