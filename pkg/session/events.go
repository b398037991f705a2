package session

// EventKind categorizes what a traversal step produced.
type EventKind string

const (
	// EventLine carries a display line with variables substituted.
	EventLine EventKind = "line"
	// EventChoices carries the selectable player lines of a Choice node.
	EventChoices EventKind = "choices"
	// EventRevealed signals that a pending typewriter reveal was flushed
	// instead of a transition happening.
	EventRevealed EventKind = "revealed"
	// EventFinished signals that the session reached an End node.
	EventFinished EventKind = "finished"
)

// ChoiceLine is one selectable option shown to the player.
type ChoiceLine struct {
	// Option is the local option id to pass back to Select.
	Option int    `json:"option"`
	Text   string `json:"text"`
}

// Event is a single presentation instruction emitted by the session.
type Event struct {
	Kind    EventKind    `json:"kind"`
	Line    string       `json:"line,omitempty"`
	Choices []ChoiceLine `json:"choices,omitempty"`
}
