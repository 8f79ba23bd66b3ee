package ir

import (
	"bytes"
	"cmp"
	"math"
	"strings"
)

// Compare returns an integer comparing two nodes by content.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// Annotations are ignored. Mappings compare entry by entry in tree order, so
// Compare is a total order suitable for sorting keys but, unlike Equal, is
// sensitive to mapping order.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case IntType, FloatType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BytesType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case SequenceType:
		return compareSequences(a, b)
	case MappingType:
		return compareMappings(a, b)
	}
	return 0
}

// rank returns the sorting rank of a type.
// Order: Null < Bool < Number < String < Bytes < Sequence < Mapping
func rank(t Type) int {
	switch t {
	case NullType:
		return 0
	case BoolType:
		return 1
	case IntType, FloatType:
		return 2
	case StringType:
		return 3
	case BytesType:
		return 4
	case SequenceType:
		return 5
	case MappingType:
		return 6
	}
	return 100
}

// compareNumbers orders numerically; an integer and a float of the same
// value order the integer first.
func compareNumbers(a, b *Node) int {
	if a.Type == IntType && b.Type == IntType {
		return compareInts(a, b)
	}
	fa, _ := a.AsFloat64()
	fb, _ := b.AsFloat64()
	if c := cmp.Compare(fa, fb); c != 0 {
		return c
	}
	if a.Type == b.Type {
		return 0
	}
	if a.Type == IntType {
		return -1
	}
	return 1
}

func compareInts(a, b *Node) int {
	switch {
	case a.Unsigned && b.Unsigned:
		return cmp.Compare(a.Uint, b.Uint)
	case a.Unsigned:
		if b.Int < 0 || a.Uint > math.MaxInt64 {
			return 1
		}
		return cmp.Compare(int64(a.Uint), b.Int)
	case b.Unsigned:
		return -compareInts(b, a)
	}
	return cmp.Compare(a.Int, b.Int)
}

func compareSequences(a, b *Node) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareMappings(a, b *Node) int {
	lenA := len(a.Fields)
	lenB := len(b.Fields)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Fields[i], b.Fields[i]); c != 0 {
			return c
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

// hashIndexMin is the mapping size above which Equal indexes entries by key
// hash rather than scanning.
const hashIndexMin = 8

// Equal reports whether a and b have the same content. Annotations and
// mapping entry order are not considered; sequence order is. Integers and
// floats are distinct even when numerically equal, and NaN equals NaN.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case IntType:
		return compareInts(a, b) == 0
	case FloatType:
		return cmp.Compare(a.Float, b.Float) == 0
	case StringType:
		return a.String == b.String
	case BytesType:
		return bytes.Equal(a.Bytes, b.Bytes)
	case SequenceType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case MappingType:
		return equalMappings(a, b)
	}
	return false
}

func equalMappings(a, b *Node) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	if len(a.Fields) <= hashIndexMin {
		for i, f := range a.Fields {
			v, j := b.Lookup(f)
			if j < 0 || !Equal(a.Values[i], v) {
				return false
			}
		}
		return true
	}
	index := make(map[uint64][]int, len(b.Fields))
	for j, f := range b.Fields {
		h := f.Hash()
		index[h] = append(index[h], j)
	}
outer:
	for i, f := range a.Fields {
		for _, j := range index[f.Hash()] {
			if Equal(f, b.Fields[j]) {
				if !Equal(a.Values[i], b.Values[j]) {
					return false
				}
				continue outer
			}
		}
		return false
	}
	return true
}
