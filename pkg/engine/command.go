package engine

import (
	"sort"
	"strings"

	"msci/pkg/lexer"
	"msci/pkg/syntax"
)

// BranchLogic is the role a line plays in the block structure of a script.
type BranchLogic int

const (
	LogicNone BranchLogic = iota // plain command
	LogicNop
	LogicIf
	LogicWhile
	LogicSkipIf
	LogicElse
	LogicElseIf
	LogicEnd
	LogicBreak
	LogicContinue
)

var logicNames = [...]string{
	LogicNone:     "NONE",
	LogicNop:      "NOP",
	LogicIf:       "IF",
	LogicWhile:    "WHILE",
	LogicSkipIf:   "SKIP_IF",
	LogicElse:     "ELSE",
	LogicElseIf:   "ELSE_IF",
	LogicEnd:      "END",
	LogicBreak:    "BREAK",
	LogicContinue: "CONTINUE",
}

func (l BranchLogic) String() string {
	if l >= 0 && int(l) < len(logicNames) {
		return logicNames[l]
	}
	return "UNKNOWN"
}

// word is the logic as written in source, for messages.
func (l BranchLogic) word() string {
	return strings.ToLower(strings.ReplaceAll(l.String(), "_", " "))
}

func (l BranchLogic) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Conditional is the conditional prefix of a line with negation folded in.
type Conditional int

const (
	CondNone Conditional = iota
	CondIf
	CondIfNot
	CondWhile
	CondWhileNot
	CondSkipIf
	CondSkipIfNot
	CondElseIf
	CondElseIfNot
	CondElse
)

var conditionalPrefixes = [...]string{
	CondNone:      "",
	CondIf:        "if",
	CondIfNot:     "if not",
	CondWhile:     "while",
	CondWhileNot:  "while not",
	CondSkipIf:    "skip if",
	CondSkipIfNot: "skip if not",
	CondElseIf:    "else if",
	CondElseIfNot: "else if not",
	CondElse:      "else",
}

// Prefix is the canonical source text of the conditional.
func (c Conditional) Prefix() string {
	if c >= 0 && int(c) < len(conditionalPrefixes) {
		return conditionalPrefixes[c]
	}
	return ""
}

func (c Conditional) String() string {
	if c == CondNone {
		return "NONE"
	}
	return strings.ToUpper(strings.ReplaceAll(c.Prefix(), " ", "_"))
}

func (c Conditional) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Negated reports whether the condition is inverted.
func (c Conditional) Negated() bool {
	return c == CondIfNot || c == CondWhileNot || c == CondSkipIfNot || c == CondElseIfNot
}

// Argument binds a token of the line to one parameter of the signature.
type Argument struct {
	Param syntax.ParameterSyntax `json:"param"`
	Token lexer.Token            `json:"token"`
}

// ResolvedCommand is one classified and identified source line.
type ResolvedCommand struct {
	Conditional Conditional       `json:"conditional"`
	Signature   *syntax.Signature `json:"-"`
	Assignment  *lexer.Token      `json:"assignment,omitempty"`
	Arguments   []Argument        `json:"arguments,omitempty"` // by physical index
	Variadic    []lexer.Token     `json:"variadic,omitempty"`
	Expression  Expression        `json:"expression,omitempty"`
	Commented   bool              `json:"commented,omitempty"`
	Concurrent  bool              `json:"concurrent,omitempty"`
	Tokens      []lexer.Token     `json:"-"`

	// tokens left after the branch keywords
	body []lexer.Token
}

// ID is the signature id, syntax.UnrecognisedID when unresolved.
func (c *ResolvedCommand) ID() uint32 {
	if c == nil || c.Signature == nil {
		return syntax.UnrecognisedID
	}
	return c.Signature.ID
}

// IsUnrecognised reports whether the line matched no catalog entry.
func (c *ResolvedCommand) IsUnrecognised() bool {
	return c == nil || c.Signature.IsUnrecognised()
}

// Argument returns the argument bound to the parameter at physical index phys.
func (c *ResolvedCommand) Argument(phys int) (Argument, bool) {
	for _, a := range c.Arguments {
		if a.Param.PhysicalIndex == phys {
			return a, true
		}
	}
	return Argument{}, false
}

// DisplayText renders the command in canonical form: conditional prefix,
// start marker and the signature template filled with the bound arguments.
func (c *ResolvedCommand) DisplayText() string {
	if c == nil || c.Signature == nil {
		return ""
	}
	switch c.Signature.ID {
	case syntax.CmdElse, syntax.CmdEnd, syntax.CmdBreak, syntax.CmdContinue:
		return c.Signature.DisplayText(nil)
	}
	var body string
	switch {
	case c.Signature.IsUnrecognised():
		body = tokenText(c.body)
	case c.Signature.ID == syntax.CmdNop:
		body = ""
	case c.Signature.ID == syntax.CmdComment:
		body = tokenText(c.Tokens)
	case c.Signature.ID == syntax.CmdExpression:
		if c.Expression == nil {
			// unparsable, keep the source
			body = tokenText(c.body)
			break
		}
		body = c.Expression.String()
		if c.Assignment != nil {
			body = c.Assignment.Text + " = " + body
		}
	default:
		args := make([]string, len(c.Signature.Parameters))
		for _, a := range c.Arguments {
			if a.Param.PhysicalIndex < len(args) {
				args[a.Param.PhysicalIndex] = a.Token.Text
			}
		}
		body = c.Signature.DisplayText(args)
		if _, hasReturn := c.Signature.Return(); hasReturn && c.Assignment == nil {
			body = stripReturnPrefix(body)
		}
		if c.Signature.Variadic {
			body = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), "..."))
			if len(c.Variadic) > 0 {
				body += " " + tokenText(c.Variadic)
			}
		}
	}
	if c.Concurrent {
		body = "start " + body
	}
	if prefix := c.Conditional.Prefix(); prefix != "" {
		body = strings.TrimSpace(prefix + " " + body)
	}
	if c.Commented {
		body = "* " + body
	}
	return body
}

// stripReturnPrefix drops an unfilled "$n = " from a rendered template.
func stripReturnPrefix(s string) string {
	tokens := lexer.Tokenize(s)
	if len(tokens) >= 2 && tokens[0].Kind == lexer.TokenVariable && tokens[1].Is(lexer.TokenOperator, "=") {
		return strings.TrimSpace(string([]rune(s)[tokens[1].End:]))
	}
	return s
}

func tokenText(tokens []lexer.Token) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// bindArguments pairs the value tokens of h with the parameters of sig. For a
// variadic signature the tokens of rest past the matched prefix are returned
// as the variadic tail.
func bindArguments(sig *syntax.Signature, rest []lexer.Token, h lexer.CommandHash, assignment *lexer.Token) ([]Argument, []lexer.Token) {
	var args []Argument
	slots := sig.Slots()
	for i, param := range slots {
		if i < len(h.Parameters) {
			args = append(args, Argument{Param: param, Token: h.Parameters[i]})
		}
	}
	if ret, ok := sig.Return(); ok && assignment != nil {
		args = append(args, Argument{Param: ret, Token: *assignment})
	}
	sort.Slice(args, func(i, j int) bool { return args[i].Param.PhysicalIndex < args[j].Param.PhysicalIndex })

	var variadic []lexer.Token
	if sig.Variadic && len(rest) > sig.Width() {
		variadic = append(variadic, rest[sig.Width():]...)
	}
	return args, variadic
}
