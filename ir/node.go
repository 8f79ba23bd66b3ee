package ir

import (
	"maps"
	"math"
	"slices"
	"strconv"
)

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	Fields      []*Node
	Values      []*Node

	Bool     bool
	Int      int64
	Uint     uint64
	Unsigned bool
	Float    float64
	String   string
	Bytes    []byte

	Ann Annotation
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Int: v}
}

// FromUint returns an integer node. Values fitting in an int64 are stored
// signed so that equal numbers have one representation.
func FromUint(v uint64) *Node {
	if v <= math.MaxInt64 {
		return FromInt(int64(v))
	}
	return &Node{Type: IntType, Uint: v, Unsigned: true}
}

func FromFloat(f float64) *Node {
	return &Node{Type: FloatType, Float: f}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromBytes(v []byte) *Node {
	return &Node{Type: BytesType, Bytes: v}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{Type: SequenceType}
	res.Values = make([]*Node, 0, len(ySlice))
	for _, y := range ySlice {
		res.Append(y)
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals builds a mapping from kvs in order. A key equal to an earlier
// key replaces that entry's value in place: the last write wins and the key
// keeps its first position.
func FromKeyVals(kvs []KeyVal) *Node {
	res := NewMapping()
	for _, kv := range kvs {
		res.Set(kv.Key, kv.Val)
	}
	return res
}

// FromMap builds a mapping with string keys in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	res := NewMapping()
	for _, key := range slices.Sorted(maps.Keys(yMap)) {
		res.Set(FromString(key), yMap[key])
	}
	return res
}

func NewMapping() *Node {
	return &Node{Type: MappingType}
}

func NewSequence() *Node {
	return &Node{Type: SequenceType}
}

// Append adds v to the end of a sequence.
func (y *Node) Append(v *Node) *Node {
	v.Parent = y
	v.ParentIndex = len(y.Values)
	y.Values = append(y.Values, v)
	return y
}

// Set adds or replaces the entry for key in a mapping. Replacing keeps the
// existing position and annotations of the key.
func (y *Node) Set(key, val *Node) *Node {
	if key == nil {
		key = Null()
	}
	val.Parent = y
	if _, i := y.Lookup(key); i >= 0 {
		val.ParentIndex = i
		y.Values[i] = val
		return y
	}
	key.Parent = y
	key.ParentIndex = len(y.Fields)
	val.ParentIndex = len(y.Values)
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, val)
	return y
}

// SetField is Set with a string key.
func (y *Node) SetField(key string, val *Node) *Node {
	return y.Set(FromString(key), val)
}

// Lookup finds the value for key by content equality, returning its index or
// -1.
func (y *Node) Lookup(key *Node) (*Node, int) {
	for i, f := range y.Fields {
		if Equal(f, key) {
			return y.Values[i], i
		}
	}
	return nil, -1
}

// Get returns the value under the string key field, or nil.
func (y *Node) Get(field string) *Node {
	for i, f := range y.Fields {
		if f.Type == StringType && f.String == field {
			return y.Values[i]
		}
	}
	return nil
}

func (y *Node) Len() int {
	return len(y.Values)
}

func (y *Node) IsNull() bool {
	return y == nil || y.Type == NullType
}

// AsInt64 returns an integer node's value if it fits in an int64.
func (y *Node) AsInt64() (int64, bool) {
	if y.Type != IntType || y.Unsigned {
		return 0, false
	}
	return y.Int, true
}

// AsUint64 returns an integer node's value if it is non-negative.
func (y *Node) AsUint64() (uint64, bool) {
	if y.Type != IntType {
		return 0, false
	}
	if y.Unsigned {
		return y.Uint, true
	}
	if y.Int < 0 {
		return 0, false
	}
	return uint64(y.Int), true
}

// AsFloat64 returns the value of any number node as a float64.
func (y *Node) AsFloat64() (float64, bool) {
	switch y.Type {
	case FloatType:
		return y.Float, true
	case IntType:
		if y.Unsigned {
			return float64(y.Uint), true
		}
		return float64(y.Int), true
	}
	return 0, false
}

// IntString formats an integer node in decimal.
func (y *Node) IntString() string {
	if y.Unsigned {
		return strconv.FormatUint(y.Uint, 10)
	}
	return strconv.FormatInt(y.Int, 10)
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.Type = y.Type
	dst.Bool = y.Bool
	dst.Int = y.Int
	dst.Uint = y.Uint
	dst.Unsigned = y.Unsigned
	dst.Float = y.Float
	dst.String = y.String
	dst.Bytes = slices.Clone(y.Bytes)
	dst.Ann = y.Ann.Clone()
	dst.Fields = nil
	dst.Values = nil
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, yf := range y.Fields {
			dst.Fields[i] = yf.CloneTo(&Node{})
			dst.Fields[i].Parent = dst
		}
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			dst.Values[i] = yv.CloneTo(&Node{})
			dst.Values[i].Parent = dst
		}
	}
	return dst
}

// Strip returns a clone of y with every annotation removed.
func (y *Node) Strip() *Node {
	res := y.Clone()
	res.Parent = nil
	_ = res.Visit(func(n *Node, isPost bool) (bool, error) {
		if !isPost {
			n.Ann = Annotation{}
			for _, f := range n.Fields {
				f.Ann = Annotation{}
			}
		}
		return true, nil
	})
	return res
}

// Visit walks y depth first, calling f before (isPost false) and after
// (isPost true) the children of each node. Mapping keys are not visited.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Depth returns the nesting depth of the deepest node under y; leaves have
// depth 0.
func (y *Node) Depth() int {
	d := 0
	for _, v := range y.Values {
		d = max(d, v.Depth()+1)
	}
	return d
}
