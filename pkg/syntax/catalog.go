package syntax

import (
	"fmt"
	"sort"
	"strings"

	"msci/pkg/lexer"
)

// Declaration is one command definition as read from a catalog source.
type Declaration struct {
	Group      string      `json:"group"`
	Versions   GameVersion `json:"versions"`
	ID         uint32      `json:"id"`
	HelpURL    string      `json:"help_url,omitempty"`
	Template   string      `json:"template"`
	ParamTypes []string    `json:"params"`
}

// Catalog resolves command hashes and ids to signatures. It is built once by
// Build and never modified afterwards, so concurrent readers need no locking.
type Catalog struct {
	root *trieNode
	byID map[uint32][]*Signature
	size int
}

// Build compiles declarations into a catalog. Keyword signatures the compiler
// depends on are added for every id the declarations leave out.
func Build(decls []Declaration) (*Catalog, error) {
	c := &Catalog{
		root: newTrieNode(),
		byID: make(map[uint32][]*Signature),
	}
	for i, d := range decls {
		if d.ID == UnrecognisedID {
			return nil, fmt.Errorf("declaration %d: id %d is reserved", i+1, d.ID)
		}
		sig, err := newSignature(d)
		if err != nil {
			return nil, fmt.Errorf("declaration %d (id %d, %q): %w", i+1, d.ID, d.Template, err)
		}
		c.root.insert(sig.segments, sig)
		c.byID[sig.ID] = append(c.byID[sig.ID], sig)
		c.size++
	}
	for _, sig := range keywordSignatures() {
		if _, declared := c.byID[sig.ID]; !declared {
			c.byID[sig.ID] = append(c.byID[sig.ID], sig)
			c.size++
		}
	}
	return c, nil
}

// FindByID returns the first signature with the given id available in v.
func (c *Catalog) FindByID(id uint32, v GameVersion) (*Signature, bool) {
	for _, sig := range c.byID[id] {
		if sig.Versions.Includes(v) {
			return sig, true
		}
	}
	return nil, false
}

// Identify resolves a command hash. It never returns nil: lines matching no
// entry get Unrecognised.
func (c *Catalog) Identify(h lexer.CommandHash, v GameVersion) *Signature {
	if h.IsEmpty() {
		return Unrecognised
	}
	segments := h.Segments
	if segments == nil {
		segments = strings.Split(h.Hash, " ")
	}
	if sig := c.root.lookup(segments, v); sig != nil {
		return sig
	}
	return Unrecognised
}

// Len returns the number of signatures, keyword signatures included.
func (c *Catalog) Len() int {
	return c.size
}

// Signatures lists every signature ordered by id, then declaration order.
func (c *Catalog) Signatures() []*Signature {
	out := make([]*Signature, 0, c.size)
	for _, sigs := range c.byID {
		out = append(out, sigs...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
