package analysis

import (
	"strings"

	"msci/pkg/engine"
	"msci/pkg/lexer"
)

// Label commands, matched by id.
const (
	cmdGosub       uint32 = 150
	cmdGotoLabel   uint32 = 151
	cmdDefineLabel uint32 = 152
)

type AnalysisResult struct {
	Errors   []engine.Diagnostic `json:"errors"`
	Warnings []engine.Diagnostic `json:"warnings"`
}

func (r *AnalysisResult) add(d engine.Diagnostic) {
	if d.IsWarning() {
		r.Warnings = append(r.Warnings, d)
	} else {
		r.Errors = append(r.Errors, d)
	}
}

// Success reports whether no errors were found. Warnings do not count.
func (r *AnalysisResult) Success() bool {
	return len(r.Errors) == 0
}

// Analyzer runs the static checks that need more than one line or more than
// the catalog shape: argument kinds, labels, constant expressions.
type Analyzer struct {
	labels map[string]bool
	jumps  []labelRef
}

type labelRef struct {
	line  int
	token lexer.Token
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze collects the compile diagnostics of res and the findings of every
// static check. Diagnostics are ordered by tree position, label problems last.
func (a *Analyzer) Analyze(res *engine.Result) AnalysisResult {
	out := AnalysisResult{}
	a.labels = make(map[string]bool)
	a.jumps = nil
	if res == nil || res.Root == nil {
		return out
	}

	res.Root.Walk(func(node *engine.CommandNode) bool {
		for _, d := range node.Errors {
			out.add(d)
		}
		if node.Command != nil {
			a.walk(node, &out)
		}
		return true
	})

	for _, ref := range a.jumps {
		if !a.labels[labelName(ref.token)] {
			out.add(engine.NewDiagnostic(ref.line, []lexer.Token{ref.token}, "undefined label %s", ref.token.Text))
		}
	}

	// carry the file name of the compile over to findings of our own
	filename := ""
	for _, d := range res.Diagnostics {
		if d.Filename != "" {
			filename = d.Filename
			break
		}
	}
	if filename != "" {
		setFilename(out.Errors, filename)
		setFilename(out.Warnings, filename)
	}
	return out
}

func (a *Analyzer) walk(node *engine.CommandNode, res *AnalysisResult) {
	cmd := node.Command
	if len(node.Errors) == 0 {
		for _, arg := range cmd.Arguments {
			if !arg.Param.Type.Accepts(arg.Token.Kind) {
				res.add(engine.NewDiagnostic(node.Line, []lexer.Token{arg.Token},
					"argument %s is a %s, command %d expects %s",
					arg.Token.Text, strings.ToLower(arg.Token.Kind.String()), cmd.ID(), arg.Param.Type))
			}
		}
	}

	// commented-out commands never run
	if !cmd.Commented {
		a.labelUse(node, res)
	}

	if cmd.Expression != nil {
		for _, d := range foldExpression(node) {
			res.add(d)
		}
	}
}

func (a *Analyzer) labelUse(node *engine.CommandNode, res *AnalysisResult) {
	cmd := node.Command
	arg, ok := cmd.Argument(0)
	if !ok || arg.Token.Kind != lexer.TokenString {
		return
	}
	switch cmd.ID() {
	case cmdDefineLabel:
		name := labelName(arg.Token)
		if a.labels[name] {
			res.add(engine.NewDiagnostic(node.Line, []lexer.Token{arg.Token}, "label %s is already defined", arg.Token.Text))
			return
		}
		a.labels[name] = true
	case cmdGosub, cmdGotoLabel:
		a.jumps = append(a.jumps, labelRef{line: node.Line, token: arg.Token})
	}
}

func labelName(t lexer.Token) string {
	return strings.ToLower(unquote(t.Text))
}

func setFilename(diags []engine.Diagnostic, name string) {
	for i := range diags {
		if diags[i].Filename == "" {
			diags[i].Filename = name
		}
	}
}
