package ir

import (
	"strconv"
	"strings"

	"github.com/signadot/annotate/token"
)

// PathElem is one step from a container to a child: a sequence index or a
// mapping key.
type PathElem struct {
	Index int
	Key   *Node
}

// Path locates a node relative to a root.
type Path []PathElem

// Index returns a copy of p extended by sequence index i.
func (p Path) Index(i int) Path {
	return append(p[:len(p):len(p)], PathElem{Index: i})
}

// Field returns a copy of p extended by mapping key k.
func (p Path) Field(k *Node) Path {
	return append(p[:len(p):len(p)], PathElem{Key: k})
}

// String renders p as "$", "$.a[0]" or `$."b c"` for keys which are not
// identifiers.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, e := range p {
		if e.Key == nil {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(e.Index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		switch e.Key.Type {
		case StringType:
			if token.IsBareKey(e.Key.String) {
				b.WriteString(e.Key.String)
			} else {
				b.WriteString(token.Quote(e.Key.String, '"'))
			}
		case IntType:
			b.WriteString(e.Key.IntString())
		default:
			b.WriteString(e.Key.Type.String())
		}
	}
	return b.String()
}

// Path returns the location of y relative to its root.
func (y *Node) Path() Path {
	var rev Path
	for n := y; n.Parent != nil; n = n.Parent {
		p := n.Parent
		if p.Type == MappingType && n.ParentIndex < len(p.Values) && p.Values[n.ParentIndex] == n {
			rev = append(rev, PathElem{Key: p.Fields[n.ParentIndex]})
		} else {
			rev = append(rev, PathElem{Index: n.ParentIndex})
		}
	}
	res := make(Path, len(rev))
	for i := range rev {
		res[i] = rev[len(rev)-1-i]
	}
	return res
}

// GetPath follows p from y, returning nil if any step is missing.
func (y *Node) GetPath(p Path) *Node {
	n := y
	for _, e := range p {
		if n == nil {
			return nil
		}
		if e.Key != nil {
			if n.Type != MappingType {
				return nil
			}
			n, _ = n.Lookup(e.Key)
			continue
		}
		if n.Type != SequenceType || e.Index < 0 || e.Index >= len(n.Values) {
			return nil
		}
		n = n.Values[e.Index]
	}
	return n
}
