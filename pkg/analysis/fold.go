package analysis

import (
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"msci/pkg/engine"
	"msci/pkg/lexer"
)

// foldExpression evaluates the constant parts of a line's expression with
// expr-lang. Only divisions by a constant zero and constant conditions are
// reported; anything the evaluator cannot express is left alone.
func foldExpression(node *engine.CommandNode) []engine.Diagnostic {
	var diags []engine.Diagnostic
	root := node.Command.Expression

	engine.WalkExpression(root, func(e engine.Expression) bool {
		bin, ok := e.(*engine.Binary)
		if !ok {
			return true
		}
		for _, term := range bin.Terms {
			if !isDivision(term.Op) {
				continue
			}
			if v, ok := constant(term.Right); ok && isZero(v) {
				diags = append(diags, engine.NewDiagnostic(node.Line, []lexer.Token{term.Op}, "division by zero"))
			}
		}
		return true
	})
	if len(diags) > 0 {
		return diags
	}

	switch node.Logic {
	case engine.LogicIf, engine.LogicElseIf, engine.LogicWhile, engine.LogicSkipIf:
	default:
		return nil
	}
	v, ok := constant(root)
	if !ok {
		return nil
	}
	holds := truthy(v)
	if node.Command.Conditional.Negated() {
		holds = !holds
	}
	// "while 1" is the usual endless loop
	if holds && node.Logic == engine.LogicWhile {
		return nil
	}
	start, end := root.Span()
	return []engine.Diagnostic{engine.NewWarning(node.Line,
		[]lexer.Token{{Start: start, End: end}}, "condition is always %t", holds)}
}

// constant evaluates e when it is made of literals only.
func constant(e engine.Expression) (interface{}, bool) {
	src, ok := toExpr(e)
	if !ok {
		return nil, false
	}
	v, err := expr.Eval(src, nil)
	if err != nil {
		return nil, false
	}
	return v, true
}

// toExpr renders e in expr-lang syntax. Runs of one precedence tier are
// evaluated left to right, so every operator pair gets its own brackets.
func toExpr(e engine.Expression) (string, bool) {
	switch e := e.(type) {
	case *engine.Literal:
		return literal(e.Token)

	case *engine.Bracketed:
		inner, ok := toExpr(e.Inner)
		return "(" + inner + ")", ok

	case *engine.Unary:
		operand, ok := toExpr(e.Operand)
		if !ok {
			return "", false
		}
		switch strings.ToLower(e.Op.Text) {
		case "-":
			return "-(" + operand + ")", true
		case "!", "not":
			return "not (" + operand + ")", true
		}
		return "", false

	case *engine.Binary:
		out, ok := toExpr(e.Left)
		if !ok {
			return "", false
		}
		for _, term := range e.Terms {
			op, ok := operator(term.Op)
			if !ok {
				return "", false
			}
			right, ok := toExpr(term.Right)
			if !ok {
				return "", false
			}
			out = "(" + out + " " + op + " " + right + ")"
		}
		return out, true
	}
	return "", false
}

func literal(t lexer.Token) (string, bool) {
	switch t.Kind {
	case lexer.TokenNumber:
		if _, err := strconv.ParseFloat(t.Text, 64); err != nil {
			return "", false
		}
		return t.Text, true
	case lexer.TokenString:
		return strconv.Quote(unquote(t.Text)), true
	case lexer.TokenConstant:
		switch strings.ToUpper(t.Text) {
		case "[TRUE]":
			return "true", true
		case "[FALSE]":
			return "false", true
		}
	}
	return "", false
}

func operator(t lexer.Token) (string, bool) {
	switch op := strings.ToLower(t.Text); op {
	case "and", "&&":
		return "and", true
	case "or", "||":
		return "or", true
	case "mod", "%":
		return "%", true
	case "==", "!=", "<", ">", "<=", ">=", "+", "-", "*", "/":
		return op, true
	}
	// expr-lang has no bitwise operators
	return "", false
}

func isDivision(t lexer.Token) bool {
	switch strings.ToLower(t.Text) {
	case "/", "%", "mod":
		return true
	}
	return false
}

func isZero(v interface{}) bool {
	switch n := v.(type) {
	case int:
		return n == 0
	case float64:
		return n == 0
	}
	return false
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	}
	return v != nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '`') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
