package engine

import (
	"fmt"

	"msci/pkg/lexer"
	"msci/pkg/syntax"
)

// Parser classifies and resolves single source lines against a catalog for
// one game version. It holds no per-line state and may be reused.
type Parser struct {
	catalog Catalog
	version syntax.GameVersion
}

func NewParser(cat Catalog, version syntax.GameVersion) *Parser {
	return &Parser{catalog: cat, version: version}
}

// ClassifyAndParse classifies one line, strips its branch keywords and
// assignment target, and identifies the remaining command. Problems are
// reported as diagnostics; the returned command is never nil.
func (p *Parser) ClassifyAndParse(line int, tokens []lexer.Token) (BranchLogic, *ResolvedCommand, []Diagnostic) {
	tokens = Reclassify(tokens)
	cmd := &ResolvedCommand{Tokens: tokens}

	if len(tokens) == 0 {
		cmd.Signature = p.keyword(syntax.CmdNop)
		return LogicNop, cmd, nil
	}

	// * comment, possibly a commented-out command
	if tokens[0].Is(lexer.TokenOperator, "*") {
		if len(tokens) > 1 && tokens[1].Kind == lexer.TokenComment {
			if inner := p.commented(line, tokens[1]); inner != nil {
				return LogicNop, inner, nil
			}
		}
		cmd.Signature = p.keyword(syntax.CmdComment)
		return LogicNop, cmd, nil
	}

	logic, rest, diags := p.classify(line, cmd, tokens)
	cmd.body = rest
	switch logic {
	case LogicElse, LogicEnd, LogicBreak, LogicContinue:
		return logic, cmd, diags
	}
	if logic != LogicNone && len(rest) == 0 {
		cmd.Signature = syntax.Unrecognised
		return logic, cmd, append(diags, NewDiagnostic(line, tokens, "missing condition"))
	}

	diags = append(diags, p.resolve(line, logic, cmd, rest)...)
	return logic, cmd, diags
}

// classify consumes the branch keywords at the start of the line.
func (p *Parser) classify(line int, cmd *ResolvedCommand, tokens []lexer.Token) (BranchLogic, []lexer.Token, []Diagnostic) {
	is := func(i int, word string) bool {
		return i < len(tokens) && tokens[i].Is(lexer.TokenKeyword, word)
	}
	// not reports whether tokens[i] is "not" and returns the position after it.
	not := func(i int) (bool, int) {
		if is(i, "not") {
			return true, i + 1
		}
		return false, i
	}
	pick := func(negated bool, plain, inverted Conditional) Conditional {
		if negated {
			return inverted
		}
		return plain
	}

	switch {
	case is(0, "if"):
		neg, n := not(1)
		cmd.Conditional = pick(neg, CondIf, CondIfNot)
		return LogicIf, tokens[n:], nil

	case is(0, "while"):
		neg, n := not(1)
		cmd.Conditional = pick(neg, CondWhile, CondWhileNot)
		return LogicWhile, tokens[n:], nil

	case is(0, "skip") && is(1, "if"):
		neg, n := not(2)
		cmd.Conditional = pick(neg, CondSkipIf, CondSkipIfNot)
		return LogicSkipIf, tokens[n:], nil

	case is(0, "do") && is(1, "if"):
		// "do if X" runs the next command when X holds, i.e. skips it if not X
		neg, n := not(2)
		cmd.Conditional = pick(neg, CondSkipIfNot, CondSkipIf)
		return LogicSkipIf, tokens[n:], nil

	case is(0, "else") && is(1, "if"):
		neg, n := not(2)
		cmd.Conditional = pick(neg, CondElseIf, CondElseIfNot)
		return LogicElseIf, tokens[n:], nil

	case is(0, "else"):
		cmd.Conditional = CondElse
		cmd.Signature = p.keyword(syntax.CmdElse)
		return LogicElse, nil, trailing(line, tokens)

	case is(0, "end"):
		cmd.Signature = p.keyword(syntax.CmdEnd)
		return LogicEnd, nil, trailing(line, tokens)

	case is(0, "break"):
		cmd.Signature = p.keyword(syntax.CmdBreak)
		return LogicBreak, nil, trailing(line, tokens)

	case is(0, "continue"):
		cmd.Signature = p.keyword(syntax.CmdContinue)
		return LogicContinue, nil, trailing(line, tokens)
	}
	return LogicNone, tokens, nil
}

// trailing reports anything after a keyword that stands alone.
func trailing(line int, tokens []lexer.Token) []Diagnostic {
	if len(tokens) < 2 {
		return nil
	}
	return []Diagnostic{NewDiagnostic(line, tokens[1:], "unexpected %q after %q", tokens[1].Text, tokens[0].Text)}
}

// resolve handles the assignment target and identifies the command in rest.
func (p *Parser) resolve(line int, logic BranchLogic, cmd *ResolvedCommand, rest []lexer.Token) []Diagnostic {
	if len(rest) >= 2 && rest[0].Kind == lexer.TokenVariable && rest[1].Is(lexer.TokenOperator, "=") {
		target := rest[0]
		cmd.Assignment = &target
		if len(rest) == 2 {
			cmd.Signature = syntax.Unrecognised
			return []Diagnostic{NewDiagnostic(line, rest, "missing value after '='")}
		}
		rest = rest[2:]
	}
	conditional := logic != LogicNone

	h := lexer.Hash(rest)
	sig := p.catalog.Identify(h, p.version)
	started := false
	if sig.IsUnrecognised() && len(rest) > 1 && rest[0].Is(lexer.TokenText, "start") {
		h2 := lexer.Hash(rest[1:])
		if s := p.catalog.Identify(h2, p.version); !s.IsUnrecognised() {
			sig, h, rest, started = s, h2, rest[1:], true
		}
	}

	if !sig.IsUnrecognised() {
		cmd.Signature = sig
		cmd.Arguments, cmd.Variadic = bindArguments(sig, rest, h, cmd.Assignment)
		return p.validate(line, cmd, rest, conditional, started)
	}

	if cmd.Assignment != nil || conditional {
		expr, err := ParseExpression(rest)
		if err == nil {
			cmd.Signature = p.keyword(syntax.CmdExpression)
			cmd.Expression = expr
			return nil
		}
		if !hasWords(rest) {
			cmd.Signature = p.keyword(syntax.CmdExpression)
			return []Diagnostic{expressionDiagnostic(line, rest, err)}
		}
	}

	cmd.Signature = syntax.Unrecognised
	return []Diagnostic{NewDiagnostic(line, rest, "unknown command")}
}

// validate checks the return value and execution mode against the way the
// line uses the command.
func (p *Parser) validate(line int, cmd *ResolvedCommand, rest []lexer.Token, conditional, started bool) []Diagnostic {
	var diags []Diagnostic
	sig := cmd.Signature
	ret, hasReturn := sig.Return()

	if cmd.Assignment != nil && !hasReturn {
		diags = append(diags, NewDiagnostic(line, []lexer.Token{*cmd.Assignment},
			"command %d does not return a value", sig.ID))
	}
	if conditional && (!hasReturn || !ret.Type.AllowsConditional()) {
		diags = append(diags, NewDiagnostic(line, rest, "command %d cannot be used as a condition", sig.ID))
	}
	if started {
		if sig.Execution == syntax.ExecutionSerial {
			diags = append(diags, NewDiagnostic(line, rest, "command %d cannot be started as a separate task", sig.ID))
		} else {
			cmd.Concurrent = true
		}
	}
	return diags
}

// commented resolves the body of a comment. It returns nil unless the body is
// a valid command without branch keywords.
func (p *Parser) commented(line int, comment lexer.Token) *ResolvedCommand {
	body := Reclassify(lexer.TokenizeAt(comment.Text, comment.Start))
	if len(body) == 0 || body[0].Is(lexer.TokenOperator, "*") {
		return nil
	}
	if logic, _, _ := p.classify(line, &ResolvedCommand{}, body); logic != LogicNone {
		return nil
	}
	cmd := &ResolvedCommand{Tokens: body, body: body}
	if diags := p.resolve(line, LogicNone, cmd, body); len(diags) > 0 {
		return nil
	}
	if cmd.Expression != nil {
		return nil
	}
	cmd.Commented = true
	return cmd
}

// keyword looks up a hard-coded command. A catalog without it is corrupt.
func (p *Parser) keyword(id uint32) *syntax.Signature {
	sig, ok := p.catalog.FindByID(id, p.version)
	if !ok {
		panic(fmt.Sprintf("command catalog integrity: keyword command %d missing for %s", id, p.version))
	}
	return sig
}

func hasWords(tokens []lexer.Token) bool {
	for _, t := range tokens {
		if t.Kind == lexer.TokenText {
			return true
		}
	}
	return false
}

func expressionDiagnostic(line int, tokens []lexer.Token, err error) Diagnostic {
	if exprErr, ok := err.(*ExpressionError); ok && exprErr.Token.End > exprErr.Token.Start {
		return NewDiagnostic(line, []lexer.Token{exprErr.Token}, "invalid expression: %s", exprErr.Message)
	}
	return NewDiagnostic(line, tokens, "invalid expression: %v", err)
}
