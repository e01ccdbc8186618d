package engine

import (
	"fmt"
	"strings"

	"msci/pkg/lexer"
)

// Expression is a node of a parsed MSCI expression. Each node owns its
// children exclusively.
type Expression interface {
	Span() (start, end int)
	String() string
	expressionNode()
}

type Literal struct {
	Token lexer.Token `json:"token"`
}

type Bracketed struct {
	Open  lexer.Token `json:"open"`
	Inner Expression  `json:"inner"`
	Close lexer.Token `json:"close"`
}

type Unary struct {
	Op      lexer.Token `json:"op"`
	Operand Expression  `json:"operand"`
}

// Term is one "operator operand" pair of a Binary node.
type Term struct {
	Op    lexer.Token `json:"op"`
	Right Expression  `json:"right"`
}

// Binary is a left-associative run of operators of one precedence tier:
// Left op1 Right1 op2 Right2 ...
type Binary struct {
	Left  Expression `json:"left"`
	Terms []Term     `json:"terms"`
}

func (*Literal) expressionNode()   {}
func (*Bracketed) expressionNode() {}
func (*Unary) expressionNode()     {}
func (*Binary) expressionNode()    {}

func (e *Literal) Span() (int, int) { return e.Token.Start, e.Token.End }

func (e *Bracketed) Span() (int, int) { return e.Open.Start, e.Close.End }

func (e *Unary) Span() (int, int) {
	_, end := e.Operand.Span()
	return e.Op.Start, end
}

func (e *Binary) Span() (int, int) {
	start, end := e.Left.Span()
	if n := len(e.Terms); n > 0 {
		_, end = e.Terms[n-1].Right.Span()
	}
	return start, end
}

func (e *Literal) String() string { return e.Token.Text }

func (e *Bracketed) String() string { return "(" + e.Inner.String() + ")" }

func (e *Unary) String() string {
	if e.Op.Kind == lexer.TokenKeyword {
		return e.Op.Text + " " + e.Operand.String()
	}
	return e.Op.Text + e.Operand.String()
}

func (e *Binary) String() string {
	var b strings.Builder
	b.WriteString(e.Left.String())
	for _, t := range e.Terms {
		b.WriteString(" ")
		b.WriteString(t.Op.Text)
		b.WriteString(" ")
		b.WriteString(t.Right.String())
	}
	return b.String()
}

// WalkExpression visits e and its descendants in source order. Returning false
// from fn skips the children of that node.
func WalkExpression(e Expression, fn func(Expression) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Bracketed:
		WalkExpression(n.Inner, fn)
	case *Unary:
		WalkExpression(n.Operand, fn)
	case *Binary:
		WalkExpression(n.Left, fn)
		for _, t := range n.Terms {
			WalkExpression(t.Right, fn)
		}
	}
}

// ExpressionError rejects a whole expression. Token is the offending token.
type ExpressionError struct {
	Token   lexer.Token
	Message string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Token.Start)
}

// Operator tiers, lowest precedence first.
var tiers = [][]string{
	{"and", "or", "&&", "||"},
	{"==", "!=", "<", ">", "<=", ">="},
	{"&", "|", "^"},
	{"+", "-"},
	{"*", "/", "%", "mod"},
}

var unaryOperators = []string{"!", "-", "~", "not"}

type exprParser struct {
	tokens []lexer.Token
	pos    int
	depth  int // open brackets
}

// ParseExpression parses tokens as one complete expression.
func ParseExpression(tokens []lexer.Token) (Expression, error) {
	if len(tokens) == 0 {
		return nil, &ExpressionError{Message: "empty expression"}
	}
	p := &exprParser{tokens: tokens}
	expr, err := p.tier(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Is(lexer.TokenOperator, ")") {
			return nil, &ExpressionError{Token: tok, Message: "missing opening bracket"}
		}
		return nil, &ExpressionError{Token: tok, Message: fmt.Sprintf("unexpected %q", tok.Text)}
	}
	return expr, nil
}

func (p *exprParser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

// tier parses a left fold over the operators of tiers[level].
func (p *exprParser) tier(level int) (Expression, error) {
	if level == len(tiers) {
		return p.unary()
	}
	left, err := p.tier(level + 1)
	if err != nil {
		return nil, err
	}
	var terms []Term
	for {
		tok, ok := p.peek()
		if !ok || !isOperator(tok, tiers[level]) {
			break
		}
		p.pos++
		right, err := p.tier(level + 1)
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Op: tok, Right: right})
	}
	if len(terms) == 0 {
		return left, nil
	}
	return &Binary{Left: left, Terms: terms}, nil
}

func (p *exprParser) unary() (Expression, error) {
	tok, ok := p.peek()
	if ok && isOperator(tok, unaryOperators) {
		p.pos++
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok, Operand: operand}, nil
	}
	return p.value()
}

func (p *exprParser) value() (Expression, error) {
	tok, ok := p.peek()
	if !ok {
		last := p.tokens[len(p.tokens)-1]
		return nil, &ExpressionError{Token: last, Message: fmt.Sprintf("missing operand after %q", last.Text)}
	}
	switch {
	case tok.Kind.IsValue():
		p.pos++
		return &Literal{Token: tok}, nil
	case tok.Is(lexer.TokenOperator, "("):
		p.pos++
		p.depth++
		inner, err := p.tier(0)
		if err != nil {
			return nil, err
		}
		p.depth--
		closeTok, ok := p.peek()
		if !ok || !closeTok.Is(lexer.TokenOperator, ")") {
			return nil, &ExpressionError{Token: tok, Message: "missing closing bracket"}
		}
		p.pos++
		return &Bracketed{Open: tok, Inner: inner, Close: closeTok}, nil
	case tok.Is(lexer.TokenOperator, ")"):
		if p.depth > 0 {
			return nil, &ExpressionError{Token: tok, Message: "missing operand before ')'"}
		}
		return nil, &ExpressionError{Token: tok, Message: "missing opening bracket"}
	default:
		return nil, &ExpressionError{Token: tok, Message: fmt.Sprintf("unexpected %q", tok.Text)}
	}
}

// isOperator matches operator glyphs and the word operators (and, or, not, mod).
func isOperator(tok lexer.Token, ops []string) bool {
	switch tok.Kind {
	case lexer.TokenOperator, lexer.TokenKeyword, lexer.TokenText:
	default:
		return false
	}
	for _, op := range ops {
		if strings.EqualFold(tok.Text, op) {
			return tok.Kind == lexer.TokenOperator || isWord(op)
		}
	}
	return false
}

func isWord(op string) bool {
	return op[0] >= 'a' && op[0] <= 'z'
}
