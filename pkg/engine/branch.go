package engine

import (
	"msci/pkg/lexer"
)

type frame struct {
	node  *CommandNode
	logic BranchLogic
}

// Assembler nests a stream of classified lines into a command tree. Malformed
// structure is reported on the offending node and never stops the stream.
type Assembler struct {
	root  *CommandNode
	stack []frame
}

func NewAssembler() *Assembler {
	return &Assembler{root: NewRoot()}
}

func (a *Assembler) top() (frame, bool) {
	if len(a.stack) == 0 {
		return frame{}, false
	}
	return a.stack[len(a.stack)-1], true
}

func (a *Assembler) parent() *CommandNode {
	if f, ok := a.top(); ok {
		return f.node
	}
	return a.root
}

func (a *Assembler) push(node *CommandNode) {
	a.stack = append(a.stack, frame{node: node, logic: node.Logic})
}

func (a *Assembler) pop() {
	a.stack = a.stack[:len(a.stack)-1]
}

func (a *Assembler) inLoop() bool {
	for _, f := range a.stack {
		if f.logic == LogicWhile {
			return true
		}
	}
	return false
}

// Add places the next line in the tree.
func (a *Assembler) Add(node *CommandNode) {
	if f, ok := a.top(); ok && f.logic == LogicSkipIf {
		switch node.Logic {
		case LogicNop:
			f.node.addChild(node)
			return
		case LogicNone, LogicBreak, LogicContinue:
			a.place(node)
			a.pop()
			return
		default:
			node.addError(NewDiagnostic(node.Line, keywordTokens(node), "skip-if must be followed by a single command, not %s", node.Logic.word()))
			a.pop()
		}
	}
	a.place(node)
}

func (a *Assembler) place(node *CommandNode) {
	switch node.Logic {
	case LogicIf, LogicWhile, LogicSkipIf:
		a.parent().addChild(node)
		a.push(node)

	case LogicElse, LogicElseIf:
		f, ok := a.top()
		if !ok || (f.logic != LogicIf && f.logic != LogicElseIf) {
			a.orphan(node, "%s without matching if", node.Logic.word())
			return
		}
		f.node.addChild(node)
		a.push(node)

	case LogicEnd:
		i := len(a.stack) - 1
		for i >= 0 && (a.stack[i].logic == LogicElse || a.stack[i].logic == LogicElseIf) {
			i--
		}
		if i < 0 || (a.stack[i].logic != LogicIf && a.stack[i].logic != LogicWhile) {
			a.orphan(node, "end without matching if or while")
			return
		}
		a.parent().addChild(node)
		a.stack = a.stack[:i]

	case LogicBreak, LogicContinue:
		if !a.inLoop() {
			a.orphan(node, "%s outside of a while loop", node.Logic.word())
			return
		}
		a.parent().addChild(node)

	default:
		a.parent().addChild(node)
	}
}

func (a *Assembler) orphan(node *CommandNode, format string, args ...interface{}) {
	node.addError(NewDiagnostic(node.Line, keywordTokens(node), format, args...))
	a.parent().addChild(node)
}

// Finish reports blocks left open and returns the root.
func (a *Assembler) Finish() *CommandNode {
	for _, f := range a.stack {
		switch f.logic {
		case LogicIf, LogicWhile:
			f.node.addError(NewDiagnostic(f.node.Line, keywordTokens(f.node), "unterminated %s block: missing end", f.logic.word()))
		case LogicSkipIf:
			f.node.addError(NewDiagnostic(f.node.Line, keywordTokens(f.node), "skip-if has no command"))
		}
	}
	a.stack = nil
	return a.root
}

// keywordTokens is the span a structural diagnostic underlines: the first
// token of the line.
func keywordTokens(node *CommandNode) []lexer.Token {
	if node.Command == nil || len(node.Command.Tokens) == 0 {
		return nil
	}
	return node.Command.Tokens[:1]
}
