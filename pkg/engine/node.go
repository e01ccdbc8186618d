package engine

// CommandNode is one line of a compiled script. The root is a sentinel with
// no command; every other node owns its subtree.
type CommandNode struct {
	Line     int              `json:"line"`
	Logic    BranchLogic      `json:"logic"`
	Command  *ResolvedCommand `json:"command,omitempty"`
	Errors   []Diagnostic     `json:"errors,omitempty"`
	Children []*CommandNode   `json:"children,omitempty"`
}

func NewRoot() *CommandNode {
	return &CommandNode{}
}

func (n *CommandNode) IsRoot() bool {
	return n.Command == nil && n.Line == 0
}

func (n *CommandNode) addChild(child *CommandNode) {
	n.Children = append(n.Children, child)
}

func (n *CommandNode) addError(d Diagnostic) {
	n.Errors = append(n.Errors, d)
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func (n *CommandNode) Walk(fn func(*CommandNode) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Flatten lists every line node in pre-order, the root excluded.
func (n *CommandNode) Flatten() []*CommandNode {
	var out []*CommandNode
	n.Walk(func(node *CommandNode) bool {
		if node != n {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Diagnostics collects the errors of the whole tree in pre-order.
func (n *CommandNode) Diagnostics() []Diagnostic {
	var out []Diagnostic
	n.Walk(func(node *CommandNode) bool {
		out = append(out, node.Errors...)
		return true
	})
	return out
}

// Depth is the nesting depth of the deepest line below n.
func (n *CommandNode) Depth() int {
	depth := 0
	for _, child := range n.Children {
		if d := child.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}
