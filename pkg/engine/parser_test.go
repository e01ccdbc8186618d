package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msci/pkg/lexer"
	"msci/pkg/syntax"
)

func parseLine(t *testing.T, line string) (BranchLogic, *ResolvedCommand, []Diagnostic) {
	t.Helper()
	p := NewParser(syntax.Default(), syntax.VersionTerranConflict)
	logic, cmd, diags := p.ClassifyAndParse(1, lexer.Tokenize(line))
	require.NotNil(t, cmd)
	require.NotNil(t, cmd.Signature)
	return logic, cmd, diags
}

func messages(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func TestEmptyLineIsNop(t *testing.T) {
	for _, line := range []string{"", "   ", "\t"} {
		logic, cmd, diags := parseLine(t, line)
		assert.Equal(t, LogicNop, logic)
		assert.Equal(t, syntax.CmdNop, cmd.ID())
		assert.Empty(t, diags)
	}
}

func TestComment(t *testing.T) {
	logic, cmd, diags := parseLine(t, "* just a note")
	assert.Equal(t, LogicNop, logic)
	assert.Equal(t, syntax.CmdComment, cmd.ID())
	assert.False(t, cmd.Commented)
	assert.Empty(t, diags)

	_, cmd, _ = parseLine(t, "*")
	assert.Equal(t, syntax.CmdComment, cmd.ID())
}

func TestCommentedCommand(t *testing.T) {
	logic, cmd, diags := parseLine(t, "* $x = get player money")
	assert.Equal(t, LogicNop, logic)
	assert.Empty(t, diags)
	assert.True(t, cmd.Commented)
	assert.Equal(t, uint32(180), cmd.ID())
	require.NotNil(t, cmd.Assignment)
	assert.Equal(t, 2, cmd.Assignment.Start)
	assert.Equal(t, "* $x = get player money", cmd.DisplayText())

	// branch keywords and expressions stay plain comments
	_, cmd, _ = parseLine(t, "* if $x")
	assert.Equal(t, syntax.CmdComment, cmd.ID())
	_, cmd, _ = parseLine(t, "* $x = 1 + 2")
	assert.Equal(t, syntax.CmdComment, cmd.ID())
}

func TestConditionals(t *testing.T) {
	tests := []struct {
		line  string
		logic BranchLogic
		cond  Conditional
	}{
		{"if $a == 1", LogicIf, CondIf},
		{"if not $a", LogicIf, CondIfNot},
		{"while $i < 10", LogicWhile, CondWhile},
		{"while not $done", LogicWhile, CondWhileNot},
		{"skip if $x", LogicSkipIf, CondSkipIf},
		{"skip if not $x", LogicSkipIf, CondSkipIfNot},
		{"do if $szItemChosen == 'Option.Quit'", LogicSkipIf, CondSkipIfNot},
		{"do if not $x", LogicSkipIf, CondSkipIf},
		{"else if $a", LogicElseIf, CondElseIf},
		{"ELSE IF NOT $a", LogicElseIf, CondElseIfNot},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			logic, cmd, diags := parseLine(t, tt.line)
			assert.Empty(t, diags)
			assert.Equal(t, tt.logic, logic)
			assert.Equal(t, tt.cond, cmd.Conditional)
			assert.Equal(t, syntax.CmdExpression, cmd.ID())
			assert.NotNil(t, cmd.Expression)
		})
	}
}

func TestIfComparisonBecomesExpression(t *testing.T) {
	logic, cmd, diags := parseLine(t, "if $a == 1")
	assert.Equal(t, LogicIf, logic)
	assert.Empty(t, diags)

	bin, ok := cmd.Expression.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "$a", bin.Left.String())
	assert.Equal(t, "==", bin.Terms[0].Op.Text)
	assert.Equal(t, "if $a == 1", cmd.DisplayText())
}

func TestStandaloneKeywords(t *testing.T) {
	tests := []struct {
		line  string
		logic BranchLogic
		id    uint32
	}{
		{"else", LogicElse, syntax.CmdElse},
		{"end", LogicEnd, syntax.CmdEnd},
		{"break", LogicBreak, syntax.CmdBreak},
		{"continue", LogicContinue, syntax.CmdContinue},
	}
	for _, tt := range tests {
		logic, cmd, diags := parseLine(t, "  "+tt.line)
		assert.Equal(t, tt.logic, logic)
		assert.Equal(t, tt.id, cmd.ID())
		assert.Empty(t, diags)
	}

	_, _, diags := parseLine(t, "end now")
	require.Len(t, diags, 1)
	assert.Equal(t, `unexpected "now" after "end"`, diags[0].Message)
	assert.Equal(t, 4, diags[0].Start)
}

func TestAssignmentBindsReturn(t *testing.T) {
	logic, cmd, diags := parseLine(t, "$arr = array alloc: size=10")
	assert.Equal(t, LogicNone, logic)
	assert.Empty(t, diags)
	assert.Equal(t, uint32(128), cmd.ID())
	require.NotNil(t, cmd.Assignment)
	assert.Equal(t, "$arr", cmd.Assignment.Text)

	require.Len(t, cmd.Arguments, 2)
	assert.Equal(t, "$arr", cmd.Arguments[0].Token.Text)
	assert.Equal(t, syntax.ParamReturnValue, cmd.Arguments[0].Param.Type)
	assert.Equal(t, "10", cmd.Arguments[1].Token.Text)
	assert.Equal(t, "$arr = array alloc: size=10", cmd.DisplayText())
}

func TestPermutedArguments(t *testing.T) {
	_, cmd, diags := parseLine(t, "$ship -> add 5 units of {Energy Cells}")
	assert.Empty(t, diags)
	require.Equal(t, uint32(206), cmd.ID())

	arg, ok := cmd.Argument(0)
	require.True(t, ok)
	assert.Equal(t, "5", arg.Token.Text)
	arg, ok = cmd.Argument(1)
	require.True(t, ok)
	assert.Equal(t, "$ship", arg.Token.Text)
	assert.Equal(t, "$ship -> add 5 units of {Energy Cells}", cmd.DisplayText())
}

func TestReturnPrefixDroppedWithoutAssignment(t *testing.T) {
	_, cmd, diags := parseLine(t, "$ship -> get sector")
	assert.Empty(t, diags)
	assert.Equal(t, "$ship -> get sector", cmd.DisplayText())
}

func TestConditionalCommand(t *testing.T) {
	logic, cmd, diags := parseLine(t, "if [THIS] -> is docked")
	assert.Equal(t, LogicIf, logic)
	assert.Empty(t, diags)
	assert.Equal(t, uint32(202), cmd.ID())
	assert.Equal(t, lexer.TokenScriptObject, cmd.Arguments[0].Token.Kind)

	_, _, diags = parseLine(t, "if $v = get script version")
	assert.Equal(t, []string{"command 220 cannot be used as a condition"}, messages(diags))
}

func TestAssignmentWithoutReturn(t *testing.T) {
	_, cmd, diags := parseLine(t, "$x = inc $y")
	assert.Equal(t, uint32(132), cmd.ID())
	require.Len(t, diags, 1)
	assert.Equal(t, "command 132 does not return a value", diags[0].Message)
	assert.Equal(t, 0, diags[0].Start)
	assert.Equal(t, 2, diags[0].End)
}

func TestStartPrefix(t *testing.T) {
	_, cmd, diags := parseLine(t, "start $ship -> dock at $station")
	assert.Empty(t, diags)
	assert.Equal(t, uint32(191), cmd.ID())
	assert.True(t, cmd.Concurrent)
	assert.Equal(t, "start $ship -> dock at $station", cmd.DisplayText())

	_, cmd, diags = parseLine(t, "start $ship -> get sector")
	assert.False(t, cmd.Concurrent)
	assert.Equal(t, []string{"command 201 cannot be started as a separate task"}, messages(diags))

	// a signature that itself begins with "start"
	_, cmd, diags = parseLine(t, "start task 1 with script 'plugin.x' and prio 5")
	assert.Empty(t, diags)
	assert.Equal(t, uint32(240), cmd.ID())
	assert.False(t, cmd.Concurrent)
}

func TestVariadicArguments(t *testing.T) {
	_, cmd, diags := parseLine(t, "$r = $ship -> call script 'plugin.test' : argument1=5 argument2='x'")
	assert.Empty(t, diags)
	assert.Equal(t, uint32(156), cmd.ID())
	assert.Len(t, cmd.Arguments, 3)
	assert.Len(t, cmd.Variadic, 6)
	assert.Equal(t, "$r = $ship -> call script 'plugin.test' : argument1 = 5 argument2 = 'x'", cmd.DisplayText())

	_, cmd, _ = parseLine(t, "$ship -> call script 'plugin.test' :")
	assert.Empty(t, cmd.Variadic)
	assert.Equal(t, "$ship -> call script 'plugin.test' :", cmd.DisplayText())
}

func TestExpressionAssignment(t *testing.T) {
	_, cmd, diags := parseLine(t, "$x = 4 + 5 * 3")
	assert.Empty(t, diags)
	assert.Equal(t, syntax.CmdExpression, cmd.ID())
	assert.Equal(t, "$x", cmd.Assignment.Text)
	assert.Equal(t, "$x = 4 + 5 * 3", cmd.DisplayText())

	_, cmd, diags = parseLine(t, "$x = null")
	assert.Empty(t, diags)
	assert.Equal(t, lexer.TokenNull, cmd.Expression.(*Literal).Token.Kind)
}

func TestInvalidExpression(t *testing.T) {
	_, cmd, diags := parseLine(t, "$x = (4 + 5")
	assert.Equal(t, syntax.CmdExpression, cmd.ID())
	require.Len(t, diags, 1)
	assert.Equal(t, "invalid expression: missing closing bracket", diags[0].Message)
	assert.Equal(t, 5, diags[0].Start)
	assert.Equal(t, 6, diags[0].End)
}

func TestDisplayTextOfBrokenAndKeywordLines(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"if foo bar", "if foo bar"},
		{"if not", "if not"},
		{"while not fly away", "while not fly away"},
		{"else", "else"},
		{"else if $a", "else if $a"},
		{"end", "end"},
		{"break", "break"},
		{"continue", "continue"},
		{"$a = ( 4 + 5", "$a = ( 4 + 5"},
		{"$a =", "$a ="},
		{"fly me", "fly me"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, cmd, _ := parseLine(t, tt.line)
			assert.Equal(t, tt.want, cmd.DisplayText())
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	logic, cmd, diags := parseLine(t, "fly me to the moon")
	assert.Equal(t, LogicNone, logic)
	assert.True(t, cmd.IsUnrecognised())
	require.Len(t, diags, 1)
	assert.Equal(t, Diagnostic{Type: "error", Message: "unknown command", Line: 1, Start: 0, End: 18}, diags[0])

	_, cmd, diags = parseLine(t, "$x = get plyer money")
	assert.True(t, cmd.IsUnrecognised())
	assert.Equal(t, []string{"unknown command"}, messages(diags))
	assert.Equal(t, 5, diags[0].Start)
}

func TestMissingPieces(t *testing.T) {
	_, _, diags := parseLine(t, "if")
	assert.Equal(t, []string{"missing condition"}, messages(diags))

	_, _, diags = parseLine(t, "skip if not")
	assert.Equal(t, []string{"missing condition"}, messages(diags))

	_, _, diags = parseLine(t, "$x =")
	assert.Equal(t, []string{"missing value after '='"}, messages(diags))
}

func TestVersionAwareResolution(t *testing.T) {
	p := NewParser(syntax.Default(), syntax.VersionThreat)
	_, cmd, diags := p.ClassifyAndParse(1, lexer.Tokenize("$v = get game version"))
	assert.Empty(t, diags)
	assert.Equal(t, uint32(221), cmd.ID())

	_, cmd, diags = parseLine(t, "$v = get game version")
	assert.True(t, cmd.IsUnrecognised())
	assert.Equal(t, []string{"unknown command"}, messages(diags))
}

type emptyCatalog struct{}

func (emptyCatalog) FindByID(uint32, syntax.GameVersion) (*syntax.Signature, bool) { return nil, false }

func (emptyCatalog) Identify(lexer.CommandHash, syntax.GameVersion) *syntax.Signature {
	return syntax.Unrecognised
}

func TestMissingKeywordSignaturePanics(t *testing.T) {
	p := NewParser(emptyCatalog{}, syntax.VersionThreat)
	assert.Panics(t, func() { p.ClassifyAndParse(1, nil) })
}

func TestReclassify(t *testing.T) {
	tokens := Reclassify(lexer.Tokenize("[THIS] -> set local variable: name='x' value=[TRUE]"))
	require.NotEmpty(t, tokens)
	assert.Equal(t, lexer.Token{Kind: lexer.TokenScriptObject, Start: 0, End: 6, Text: "[THIS]"}, tokens[0])
	last := tokens[len(tokens)-1]
	assert.Equal(t, lexer.TokenConstant, last.Kind)
	assert.Equal(t, "[TRUE]", last.Text)

	tokens = Reclassify(lexer.Tokenize("$x = NULL"))
	assert.Equal(t, lexer.TokenNull, tokens[2].Kind)

	// a bracket after a value is not a script object
	tokens = Reclassify(lexer.Tokenize("$a [THIS]"))
	assert.Len(t, tokens, 4)
}
