package syntax

// trieNode is one step of the hash prefix tree. Edges are hash segments: a
// lower-cased structural word or lexer.Sentinel for a parameter slot.
type trieNode struct {
	children   map[string]*trieNode
	signatures []*Signature // signatures whose hash ends here, in declaration order
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

func (n *trieNode) insert(segments []string, sig *Signature) {
	node := n
	for _, seg := range segments {
		child, ok := node.children[seg]
		if !ok {
			child = newTrieNode()
			node.children[seg] = child
		}
		node = child
	}
	node.signatures = append(node.signatures, sig)
}

// lookup walks segments and returns the first signature compatible with v at
// the exact end of the walk. Failing that it falls back to the deepest
// compatible variadic signature passed on the way.
func (n *trieNode) lookup(segments []string, v GameVersion) *Signature {
	var variadic *Signature
	node := n
	for _, seg := range segments {
		child, ok := node.children[seg]
		if !ok {
			return variadic
		}
		node = child
		if sig := node.first(v, true); sig != nil {
			variadic = sig
		}
	}
	if sig := node.first(v, false); sig != nil {
		return sig
	}
	return variadic
}

func (n *trieNode) first(v GameVersion, variadicOnly bool) *Signature {
	for _, sig := range n.signatures {
		if variadicOnly && !sig.Variadic {
			continue
		}
		if sig.Versions.Includes(v) {
			return sig
		}
	}
	return nil
}
