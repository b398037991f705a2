package dialogue

import "sort"

// Kind identifies the control-flow behavior of a node.
type Kind int

const (
	// KindStart is the single entry point of a graph.
	KindStart Kind = iota
	// KindEnd terminates a conversation.
	KindEnd
	// KindText shows a line and waits for the player to advance.
	KindText
	// KindSubDialogue references another graph by name; it is expanded
	// (spliced inline) before traversal begins.
	KindSubDialogue
	// KindFunction executes script statements silently and continues.
	KindFunction
	// KindBranch evaluates a boolean expression and picks option 0 (true)
	// or option 1 (false).
	KindBranch
	// KindChoice offers a set of selectable player lines.
	KindChoice
)

var kindNames = map[Kind]string{
	KindStart:       "start",
	KindEnd:         "end",
	KindText:        "text",
	KindSubDialogue: "subdialogue",
	KindFunction:    "function",
	KindBranch:      "branch",
	KindChoice:      "choice",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind resolves a kind from its serialized name.
// The second return is false for unrecognized names.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindText, false
}

// UnlimitedCalls disables the call limit on a Function node.
const UnlimitedCalls = -1

// Node is a single unit of dialogue content or control flow.
//
// Text is a template: tokens prefixed with '$' are substituted from the
// session scopes at traversal time. For Function nodes Text holds
// newline-separated script statements; for Branch nodes a boolean expression;
// for SubDialogue nodes the name of the graph to splice in.
type Node struct {
	Kind Kind
	Text string

	// AudioFile is an optional audio cue reference, played once per visit.
	AudioFile string

	// NumTimes limits how often a Function node executes its statements.
	// UnlimitedCalls (the default for NewFunction) removes the limit.
	NumTimes int

	// Options maps local option id to option text. Only used by Choice nodes.
	// Ids start at 0 and are assigned in insertion order.
	Options map[int]string

	// Conditions maps local option id to an optional boolean expression.
	// An empty condition means the option is always available.
	Conditions map[int]string
}

// NewNode creates a node of the given kind.
func NewNode(kind Kind, text string) *Node {
	n := &Node{Kind: kind, Text: text, NumTimes: UnlimitedCalls}
	if kind == KindChoice {
		n.Options = make(map[int]string)
		n.Conditions = make(map[int]string)
	}
	return n
}

// NewStart creates a Start node.
func NewStart(text string) *Node { return NewNode(KindStart, text) }

// NewEnd creates an End node.
func NewEnd(text string) *Node { return NewNode(KindEnd, text) }

// NewText creates a Text node.
func NewText(text string) *Node { return NewNode(KindText, text) }

// NewSubDialogue creates a SubDialogue node referencing another graph by name.
func NewSubDialogue(name string) *Node { return NewNode(KindSubDialogue, name) }

// NewFunction creates a Function node with unlimited calls.
func NewFunction(text string) *Node { return NewNode(KindFunction, text) }

// NewBranch creates a Branch node.
func NewBranch(text string) *Node { return NewNode(KindBranch, text) }

// NewChoice creates a Choice node with no options.
func NewChoice(text string) *Node { return NewNode(KindChoice, text) }

// LastOptionID returns the highest option id present, or -1 with no options.
func (n *Node) LastOptionID() int {
	last := -1
	for id := range n.Options {
		if id > last {
			last = id
		}
	}
	return last
}

// AddOption appends an option with an always-true condition.
func (n *Node) AddOption(text string) int {
	return n.AddConditionalOption(text, "")
}

// AddConditionalOption appends an option guarded by a boolean expression
// and returns its local id.
func (n *Node) AddConditionalOption(text, condition string) int {
	if n.Options == nil {
		n.Options = make(map[int]string)
	}
	if n.Conditions == nil {
		n.Conditions = make(map[int]string)
	}

	id := n.LastOptionID() + 1
	n.Options[id] = text
	n.Conditions[id] = condition
	return id
}

// OptionIDs returns the option ids in ascending order.
func (n *Node) OptionIDs() []int {
	ids := make([]int, 0, len(n.Options))
	for id := range n.Options {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Copy returns a deep copy of the node.
func (n *Node) Copy() *Node {
	c := &Node{
		Kind:      n.Kind,
		Text:      n.Text,
		AudioFile: n.AudioFile,
		NumTimes:  n.NumTimes,
	}
	if n.Options != nil {
		c.Options = make(map[int]string, len(n.Options))
		for id, text := range n.Options {
			c.Options[id] = text
		}
	}
	if n.Conditions != nil {
		c.Conditions = make(map[int]string, len(n.Conditions))
		for id, cond := range n.Conditions {
			c.Conditions[id] = cond
		}
	}
	return c
}

func (n *Node) String() string {
	return n.Kind.String()
}
