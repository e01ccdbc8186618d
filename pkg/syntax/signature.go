package syntax

import (
	"fmt"
	"math"
	"strings"

	"github.com/gosimple/slug"

	"msci/pkg/lexer"
)

// Hard-coded command ids the compiler resolves without hashing.
const (
	CmdComment    uint32 = 1
	CmdNop        uint32 = 2
	CmdContinue   uint32 = 102
	CmdBreak      uint32 = 103
	CmdExpression uint32 = 104
	CmdElse       uint32 = 105
	CmdEnd        uint32 = 106
)

// UnrecognisedID is the id of the Unrecognised sentinel signature.
const UnrecognisedID uint32 = math.MaxUint32

// Signature is one catalog entry: the syntax of a command in some game versions.
type Signature struct {
	ID         uint32            `json:"id"`
	Group      CommandGroup      `json:"group"`
	Execution  Execution         `json:"execution"`
	Template   string            `json:"template"`
	Parameters []ParameterSyntax `json:"parameters"` // physical order
	Versions   GameVersion       `json:"versions"`
	Variadic   bool              `json:"variadic"`
	HelpURL    string            `json:"help_url,omitempty"`

	returnIndex int      // physical index of the return parameter, -1 if none
	slots       []int    // physical indices of hashed parameters, in display order
	segments    []string // template hash segments
}

// Unrecognised is returned by Identify when no catalog entry matches.
var Unrecognised = &Signature{
	ID:          UnrecognisedID,
	Group:       GroupHidden,
	Template:    "unrecognised command",
	Versions:    VersionAll,
	returnIndex: -1,
}

func (s *Signature) IsUnrecognised() bool {
	return s == nil || s.ID == UnrecognisedID
}

// Hash is the command hash of the template with any return prefix removed.
func (s *Signature) Hash() string {
	return strings.Join(s.segments, " ")
}

// Width is the number of hash segments the template matches.
func (s *Signature) Width() int {
	return len(s.segments)
}

// Return returns the parameter receiving the command's result.
func (s *Signature) Return() (ParameterSyntax, bool) {
	if s.returnIndex < 0 || s.returnIndex >= len(s.Parameters) {
		return ParameterSyntax{}, false
	}
	return s.Parameters[s.returnIndex], true
}

// Slots returns the hashed parameters in the order their values appear on a line.
func (s *Signature) Slots() []ParameterSyntax {
	out := make([]ParameterSyntax, len(s.slots))
	for i, phys := range s.slots {
		out[i] = s.Parameters[phys]
	}
	return out
}

// DisplayText renders the template with args substituted by physical index.
// Missing or empty arguments leave the $n marker in place. Footnote glyphs are
// dropped.
func (s *Signature) DisplayText(args []string) string {
	template := stripFootnotes(s.Template)
	runes := []rune(template)
	var b strings.Builder
	last := 0
	for _, tok := range lexer.Tokenize(template) {
		phys, ok := markerIndex(tok)
		if !ok || phys >= len(args) || args[phys] == "" {
			continue
		}
		b.WriteString(string(runes[last:tok.Start]))
		b.WriteString(args[phys])
		last = tok.End
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}

// Anchor is a URL-safe identifier for the command's help entry.
func (s *Signature) Anchor() string {
	var words []string
	for _, seg := range s.segments {
		if seg != lexer.Sentinel {
			words = append(words, seg)
		}
	}
	return slug.Make(fmt.Sprintf("%s %d %s", s.Group, s.ID, strings.Join(words, " ")))
}

func (s *Signature) String() string {
	return fmt.Sprintf("%d:%s", s.ID, s.Template)
}

const footnoteGlyphs = "¹²³⁴⁵⁶⁷⁸⁹⁰"

func stripFootnotes(s string) string {
	if !strings.ContainsAny(s, footnoteGlyphs) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(footnoteGlyphs, r) {
			return -1
		}
		return r
	}, s)
}

// markerIndex returns n for a $n template marker.
func markerIndex(tok lexer.Token) (int, bool) {
	if tok.Kind != lexer.TokenVariable || len(tok.Text) != 2 {
		return 0, false
	}
	d := tok.Text[1]
	if d < '0' || d > '9' {
		return 0, false
	}
	return int(d - '0'), true
}

// newSignature validates a declaration and derives its parameter layout.
func newSignature(d Declaration) (*Signature, error) {
	group, err := ParseGroup(d.Group)
	if err != nil {
		return nil, err
	}
	if d.Versions == VersionNone || d.Versions&^VersionAll != 0 {
		return nil, fmt.Errorf("invalid game versions %d", d.Versions)
	}

	tokens := lexer.Tokenize(stripFootnotes(d.Template))
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty syntax template")
	}

	sig := &Signature{
		ID:          d.ID,
		Group:       group,
		Template:    d.Template,
		Versions:    d.Versions,
		HelpURL:     d.HelpURL,
		returnIndex: -1,
	}

	var order []int // physical indices in order of appearance
	body := tokens
	if len(tokens) >= 2 && tokens[1].Is(lexer.TokenOperator, "=") {
		if phys, ok := markerIndex(tokens[0]); ok {
			sig.returnIndex = phys
			order = append(order, phys)
			body = tokens[2:]
		}
	}
	if n := len(body); n > 0 && body[n-1].Is(lexer.TokenText, "...") {
		sig.Variadic = true
		body = body[:n-1]
	}

	for _, tok := range body {
		if !tok.Kind.IsValue() {
			continue
		}
		phys, ok := markerIndex(tok)
		if !ok {
			return nil, fmt.Errorf("syntax template contains literal value %q", tok.Text)
		}
		order = append(order, phys)
		sig.slots = append(sig.slots, phys)
	}

	if len(order) != len(d.ParamTypes) {
		return nil, fmt.Errorf("syntax template has %d parameters, %d types declared", len(order), len(d.ParamTypes))
	}
	sig.Parameters = make([]ParameterSyntax, len(order))
	seen := make([]bool, len(order))
	for display, phys := range order {
		if phys >= len(order) || seen[phys] {
			return nil, fmt.Errorf("parameter markers must be $0..$%d without repeats", len(order)-1)
		}
		seen[phys] = true
		ptype, usage, err := parseParameterSpec(d.ParamTypes[phys])
		if err != nil {
			return nil, fmt.Errorf("parameter $%d: %w", phys, err)
		}
		sig.Parameters[phys] = ParameterSyntax{Type: ptype, PhysicalIndex: phys, DisplayIndex: display, Usage: usage}
	}

	if ret, ok := sig.Return(); ok && !ret.Type.IsReturn() {
		return nil, fmt.Errorf("return parameter $%d has non-return type %s", ret.PhysicalIndex, ret.Type)
	}

	sig.segments = lexer.Hash(body).Segments
	if len(sig.segments) == 0 {
		return nil, fmt.Errorf("syntax template has no command words")
	}

	switch {
	case len(sig.segments) > 0 && sig.segments[0] == "start":
		sig.Execution = ExecutionConcurrent
	default:
		if ret, ok := sig.Return(); ok && ret.Type.AllowsStart() {
			sig.Execution = ExecutionEither
		}
	}
	return sig, nil
}

// keywordSignatures are always present so that hard-coded lookups succeed.
func keywordSignatures() []*Signature {
	plain := func(id uint32, group CommandGroup, template string) *Signature {
		return &Signature{ID: id, Group: group, Template: template, Versions: VersionAll, returnIndex: -1}
	}
	comment := plain(CmdComment, GroupHidden, "* $0")
	comment.Parameters = []ParameterSyntax{{Type: ParamComment}}

	expression := plain(CmdExpression, GroupMaths, "$0 = $1")
	expression.returnIndex = 0
	expression.Parameters = []ParameterSyntax{
		{Type: ParamReturnValueIf, PhysicalIndex: 0, DisplayIndex: 0},
		{Type: ParamExpression, PhysicalIndex: 1, DisplayIndex: 1},
	}
	expression.slots = []int{1}

	return []*Signature{
		plain(CmdNop, GroupHidden, ""),
		comment,
		expression,
		plain(CmdElse, GroupFlowControl, "else"),
		plain(CmdEnd, GroupFlowControl, "end"),
		plain(CmdBreak, GroupFlowControl, "break"),
		plain(CmdContinue, GroupFlowControl, "continue"),
	}
}
