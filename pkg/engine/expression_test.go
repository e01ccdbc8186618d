package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msci/pkg/lexer"
)

func parseExpr(t *testing.T, src string) Expression {
	t.Helper()
	expr, err := ParseExpression(lexer.Tokenize(src))
	require.NoError(t, err, src)
	return expr
}

func literalText(t *testing.T, e Expression) string {
	t.Helper()
	lit, ok := e.(*Literal)
	require.True(t, ok, "expected literal, got %T", e)
	return lit.Token.Text
}

func TestProductBindsTighterThanSum(t *testing.T) {
	expr := parseExpr(t, "4+5*3")

	sum, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "4", literalText(t, sum.Left))
	require.Len(t, sum.Terms, 1)
	assert.Equal(t, "+", sum.Terms[0].Op.Text)

	product, ok := sum.Terms[0].Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "5", literalText(t, product.Left))
	require.Len(t, product.Terms, 1)
	assert.Equal(t, "*", product.Terms[0].Op.Text)
	assert.Equal(t, "3", literalText(t, product.Terms[0].Right))
}

func TestLeadingMinusIsUnary(t *testing.T) {
	expr := parseExpr(t, "-(4+5)")

	unary, ok := expr.(*Unary)
	require.True(t, ok)
	assert.Equal(t, "-", unary.Op.Text)

	br, ok := unary.Operand.(*Bracketed)
	require.True(t, ok)
	inner, ok := br.Inner.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "4", literalText(t, inner.Left))
	assert.Equal(t, "5", literalText(t, inner.Terms[0].Right))

	start, end := expr.Span()
	assert.Equal(t, 0, start)
	assert.Equal(t, 6, end)
}

func TestNegativeNumberLiteral(t *testing.T) {
	expr := parseExpr(t, "-5")
	assert.Equal(t, "-5", literalText(t, expr))

	expr = parseExpr(t, "4 - -5")
	bin := expr.(*Binary)
	assert.Equal(t, "-", bin.Terms[0].Op.Text)
	assert.Equal(t, "-5", literalText(t, bin.Terms[0].Right))
}

func TestTiersAreFlat(t *testing.T) {
	expr := parseExpr(t, "1 + 2 - 3 + 4")
	bin, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "1", literalText(t, bin.Left))
	require.Len(t, bin.Terms, 3)
	for _, term := range bin.Terms {
		_, isLiteral := term.Right.(*Literal)
		assert.True(t, isLiteral)
	}
}

func TestConditionOperators(t *testing.T) {
	expr := parseExpr(t, "$a == 1 and $b < 2 | 4")

	logical, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "and", logical.Terms[0].Op.Text)

	left, ok := logical.Left.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "==", left.Terms[0].Op.Text)

	right, ok := logical.Terms[0].Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "<", right.Terms[0].Op.Text)
	bitwise, ok := right.Terms[0].Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "|", bitwise.Terms[0].Op.Text)

	assert.Equal(t, "$a == 1 and $b < 2 | 4", expr.String())
}

func TestWordOperators(t *testing.T) {
	expr := parseExpr(t, "not $a")
	unary, ok := expr.(*Unary)
	require.True(t, ok)
	assert.Equal(t, "not $a", unary.String())

	expr = parseExpr(t, "10 mod 3")
	bin, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "mod", bin.Terms[0].Op.Text)
}

func TestExpressionValues(t *testing.T) {
	expr := parseExpr(t, "'abc' + {Energy Cells} + $x")
	var kinds []lexer.TokenKind
	WalkExpression(expr, func(e Expression) bool {
		if lit, ok := e.(*Literal); ok {
			kinds = append(kinds, lit.Token.Kind)
		}
		return true
	})
	assert.Equal(t, []lexer.TokenKind{lexer.TokenString, lexer.TokenGameObject, lexer.TokenVariable}, kinds)
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		src    string
		msg    string
		offset int
	}{
		{"(4+5", "missing closing bracket", 0},
		{"4+5)", "missing opening bracket", 3},
		{")", "missing opening bracket", 0},
		{"()", "missing operand before ')'", 1},
		{"4+", "missing operand after \"+\"", 1},
		{"4 5", "unexpected \"5\"", 2},
		{"4 + + 5", "unexpected \"+\"", 4},
		{"-", "missing operand after \"-\"", 0},
		{"$a == fly", "unexpected \"fly\"", 6},
		{"((1)", "missing closing bracket", 0},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := ParseExpression(lexer.Tokenize(tt.src))
			require.Error(t, err)
			assert.Nil(t, expr)

			var exprErr *ExpressionError
			require.ErrorAs(t, err, &exprErr)
			assert.Equal(t, tt.msg, exprErr.Message)
			assert.Equal(t, tt.offset, exprErr.Token.Start)
		})
	}
}

func TestEmptyExpression(t *testing.T) {
	_, err := ParseExpression(nil)
	assert.EqualError(t, err, "empty expression at offset 0")
}

func TestBracketBalance(t *testing.T) {
	inputs := []string{
		"(1)", "((1))", "(1", "1)", "((1)", "(1))", "(1 + (2 * 3))", "(1 + (2 * 3)",
		"-(4+5)", ")(", "(($a == 1) and ($b == 2))", "($a == 1) and ($b == 2))",
	}
	for _, src := range inputs {
		tokens := lexer.Tokenize(src)
		balanced := strings.Count(src, "(") == strings.Count(src, ")")
		expr, err := ParseExpression(tokens)
		if !balanced {
			assert.Error(t, err, src)
			continue
		}
		if err == nil {
			_, end := expr.Span()
			assert.Equal(t, tokens[len(tokens)-1].End, end, src)
		}
	}
}

func BenchmarkParseExpression(b *testing.B) {
	tokens := lexer.Tokenize("($a + 5) * -$b / 3 == 10 and not $c")
	for i := 0; i < b.N; i++ {
		ParseExpression(tokens)
	}
}
