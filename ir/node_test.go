package ir

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/annotate/format"
)

func TestFromKeyValsLastWriteWins(t *testing.T) {
	y := FromKeyVals([]KeyVal{
		{Key: FromString("a").WithComment(" first"), Val: FromInt(1)},
		{Key: FromString("b"), Val: FromInt(2)},
		{Key: FromString("a"), Val: FromInt(3)},
	})
	if got := y.Keys(); !cmp.Equal(got, []string{"a", "b"}) {
		t.Fatalf("keys %v", got)
	}
	if v := y.Get("a"); v.Int != 3 || v.ParentIndex != 0 {
		t.Errorf("a = %d at %d", v.Int, v.ParentIndex)
	}
	if c := y.Fields[0].Ann.Comment; len(c) != 1 || c[0] != " first" {
		t.Errorf("key annotation lost: %q", c)
	}
}

func TestSetKeysByContent(t *testing.T) {
	y := NewMapping()
	y.Set(FromInt(1), FromString("x"))
	y.Set(FromUint(1), FromString("y"))
	y.Set(FromFloat(1), FromString("z"))
	if y.Len() != 2 {
		t.Fatalf("expected int and float keys to differ, got %d entries", y.Len())
	}
	if v, _ := y.Lookup(FromInt(1)); v.String != "y" {
		t.Errorf("got %q", v.String)
	}
}

func TestFromUint(t *testing.T) {
	small := FromUint(7)
	if small.Unsigned || small.Int != 7 {
		t.Errorf("small uint not normalized: %+v", small)
	}
	big := FromUint(math.MaxUint64)
	if !big.Unsigned || big.Uint != math.MaxUint64 {
		t.Errorf("big uint: %+v", big)
	}
	if _, ok := big.AsInt64(); ok {
		t.Error("big uint fits in int64")
	}
	if u, ok := big.AsUint64(); !ok || u != math.MaxUint64 {
		t.Error("big uint as uint64")
	}
	if _, ok := FromInt(-1).AsUint64(); ok {
		t.Error("negative as uint64")
	}
}

func TestEqualIgnoresAnnotationsAndOrder(t *testing.T) {
	a := FromKeyVals([]KeyVal{
		{Key: FromString("a"), Val: FromInt(31).WithBase(format.Hex).WithComment(" hex")},
		{Key: FromString("b"), Val: FromSlice([]*Node{FromBool(true), Null()}).WithLayout(LayoutBlock)},
	})
	b := FromKeyVals([]KeyVal{
		{Key: FromString("b"), Val: FromSlice([]*Node{FromBool(true), Null()})},
		{Key: FromString("a"), Val: FromInt(31)},
	})
	if !Equal(a, b) {
		t.Error("expected equal")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal nodes hash differently")
	}
	b.Get("b").Values[0].Bool = false
	if Equal(a, b) {
		t.Error("expected unequal")
	}
}

func TestEqualLargeMapping(t *testing.T) {
	a, b := NewMapping(), NewMapping()
	for i := range 20 {
		a.Set(FromInt(int64(i)), FromInt(int64(i*i)))
		b.Set(FromInt(int64(19-i)), FromInt(int64((19-i)*(19-i))))
	}
	if !Equal(a, b) {
		t.Error("expected equal")
	}
	b.Values[3].Int++
	if Equal(a, b) {
		t.Error("expected unequal")
	}
}

func TestEqualNumbers(t *testing.T) {
	tests := []struct {
		name string
		a, b *Node
		want bool
	}{
		{"int int", FromInt(3), FromInt(3), true},
		{"int float", FromInt(3), FromFloat(3), false},
		{"signed unsigned", FromInt(3), &Node{Type: IntType, Unsigned: true, Uint: 3}, true},
		{"nan", FromFloat(math.NaN()), FromFloat(math.NaN()), true},
		{"neg zero", FromFloat(math.Copysign(0, -1)), FromFloat(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v", got)
			}
			if tt.want && tt.a.Hash() != tt.b.Hash() {
				t.Error("hash mismatch")
			}
		})
	}
}

func TestCloneAndStrip(t *testing.T) {
	y := FromKeyVals([]KeyVal{
		{Key: FromString("k").WithLineComment(" key"), Val: FromBytes([]byte{1, 2}).WithStr(StrHex)},
	}).WithFooter(" end")
	c := y.Clone()
	c.Values[0].Bytes[0] = 9
	if y.Values[0].Bytes[0] != 1 {
		t.Error("clone shares bytes")
	}
	if c.Values[0].Parent != c {
		t.Error("clone parent not relinked")
	}
	s := y.Strip()
	if !s.Ann.IsZero() || !s.Fields[0].Ann.IsZero() || !s.Values[0].Ann.IsZero() {
		t.Error("strip left annotations")
	}
	if !Equal(s, y) {
		t.Error("strip changed content")
	}
	if y.Ann.Footer[0] != " end" {
		t.Error("strip modified original")
	}
}

func TestPath(t *testing.T) {
	leaf := FromInt(1)
	y := FromKeyVals([]KeyVal{
		{Key: FromString("a"), Val: FromSlice([]*Node{Null(), FromKeyVals([]KeyVal{
			{Key: FromString("b c"), Val: leaf},
		})})},
	})
	p := leaf.Path()
	if got := p.String(); got != `$.a[1]."b c"` {
		t.Errorf("path %s", got)
	}
	if y.GetPath(p) != leaf {
		t.Error("GetPath did not find leaf")
	}
	if got := y.Path().String(); got != "$" {
		t.Errorf("root path %s", got)
	}
}

func TestDepth(t *testing.T) {
	y := FromSlice([]*Node{FromSlice([]*Node{FromSlice(nil)}), FromInt(1)})
	if d := y.Depth(); d != 2 {
		t.Errorf("depth %d", d)
	}
}
