package gomap

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
)

func TestToIRScalars(t *testing.T) {
	type myInt int16
	tests := []struct {
		in   any
		want *ir.Node
	}{
		{nil, ir.Null()},
		{true, ir.FromBool(true)},
		{int8(-3), ir.FromInt(-3)},
		{myInt(7), ir.FromInt(7)},
		{uint64(math.MaxUint64), ir.FromUint(math.MaxUint64)},
		{float32(1.5), ir.FromFloat(1.5)},
		{"hi", ir.FromString("hi")},
		{[]byte{1, 2}, ir.FromBytes([]byte{1, 2})},
		{[2]byte{3, 4}, ir.FromBytes([]byte{3, 4})},
		{struct{}{}, ir.Null()},
		{(*int)(nil), ir.Null()},
		{[]int(nil), ir.Null()},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%T", tc.in), func(t *testing.T) {
			got, err := ToIR(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(got, tc.want) {
				t.Errorf("got %s %v, want %s %v", got.Type, got, tc.want.Type, tc.want)
			}
		})
	}
}

func TestToIRBytesNotSequence(t *testing.T) {
	node, err := ToIR(map[string][]byte{"k": {0xde, 0xad}})
	if err != nil {
		t.Fatal(err)
	}
	if v := node.Get("k"); v.Type != ir.BytesType {
		t.Errorf("got %s, want Bytes", v.Type)
	}
}

func TestToIRFieldOrder(t *testing.T) {
	type base struct {
		ID int `anno:"id"`
	}
	type rec struct {
		Zeta  string `anno:"zeta"`
		Alpha int    `anno:"alpha"`
		base
		Skip  int `anno:"-"`
		Empty int `anno:"empty,omitempty"`
		priv  int
	}
	node, err := ToIR(rec{Zeta: "z", Alpha: 1, base: base{ID: 9}, Skip: 3, priv: 4})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "id"}, node.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestToIRMapKeysSorted(t *testing.T) {
	node, err := ToIR(map[int]string{3: "c", -1: "a", 2: "b"})
	if err != nil {
		t.Fatal(err)
	}
	var got []int64
	for _, f := range node.Fields {
		got = append(got, f.Int)
	}
	if diff := cmp.Diff([]int64{-1, 2, 3}, got); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

type tagged struct {
	Mode int      `anno:"mode,hex,comment='the mode',linecomment='bits'"`
	Name string   `anno:"name,quoted"`
	Key  []byte   `anno:"key,hexbytes"`
	Tags []string `anno:"tags,flow"`
	Doc  string   `anno:"doc,block,comment='line one\nline two'"`
}

func TestToIRAnnotations(t *testing.T) {
	node, err := ToIR(tagged{Mode: 31, Name: "n", Key: []byte{1}, Tags: []string{"a"}, Doc: "x\ny"})
	if err != nil {
		t.Fatal(err)
	}
	mode := node.Get("mode")
	if mode.Ann.Base != format.Hex {
		t.Errorf("mode base %s", mode.Ann.Base)
	}
	if diff := cmp.Diff([]string{"the mode"}, mode.Ann.Comment); diff != "" {
		t.Errorf("mode comment (-want +got):\n%s", diff)
	}
	if mode.Ann.LineComment != "bits" {
		t.Errorf("mode line comment %q", mode.Ann.LineComment)
	}
	if s := node.Get("name").Ann.Str; s != ir.StrQuoted {
		t.Errorf("name str %s", s)
	}
	if s := node.Get("key").Ann.Str; s != ir.StrHex {
		t.Errorf("key str %s", s)
	}
	if l := node.Get("tags").Ann.Layout; l != ir.LayoutFlow {
		t.Errorf("tags layout %s", l)
	}
	doc := node.Get("doc")
	if doc.Ann.Str != ir.StrBlock {
		t.Errorf("doc str %s", doc.Ann.Str)
	}
	if diff := cmp.Diff([]string{"line one", "line two"}, doc.Ann.Comment); diff != "" {
		t.Errorf("doc comment (-want +got):\n%s", diff)
	}

	plain, err := ToIR(tagged{Mode: 31}, Annotate(false))
	if err != nil {
		t.Fatal(err)
	}
	if !plain.Get("mode").Ann.IsZero() {
		t.Errorf("annotations written with Annotate(false)")
	}
}

func TestBadTags(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"hint for wrong kind", struct {
			A int `anno:"a,quoted"`
		}{}},
		{"unknown flag", struct {
			A int `anno:"a,shiny"`
		}{}},
		{"duplicate name", struct {
			A int `anno:"x"`
			B int `anno:"x"`
		}{}},
		{"default of wrong kind", struct {
			A int `anno:"a,default=[1]"`
		}{}},
		{"unterminated quote", struct {
			A int `anno:"a,comment='oops"`
		}{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToIR(tc.v)
			if !errors.Is(err, ErrBadTag) {
				t.Fatalf("got %v, want ErrBadTag", err)
			}
			var se *SerializeError
			if !errors.As(err, &se) {
				t.Fatalf("got %T, want *SerializeError", err)
			}
		})
	}
}

func TestToIRCycle(t *testing.T) {
	type Person struct {
		Name string
		Boss *Person
	}
	p := &Person{Name: "Alice"}
	p.Boss = p
	_, err := ToIR(p)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("got %v, want ErrCycle", err)
	}

	type List struct {
		Next []*List
	}
	l := &List{}
	l.Next = []*List{l}
	if _, err := ToIR(l); !errors.Is(err, ErrCycle) {
		t.Fatalf("got %v, want ErrCycle", err)
	}
}

func TestToIRSharedNotCycle(t *testing.T) {
	shared := &struct{ N int }{N: 1}
	pair := []any{shared, shared}
	if _, err := ToIR(pair); err != nil {
		t.Fatalf("shared pointer reported as cycle: %v", err)
	}
}

func TestToIRDepth(t *testing.T) {
	v := [][][][]int{{{{1}}}}
	if _, err := ToIR(v, MaxDepth(3)); !errors.Is(err, ErrDepth) {
		t.Fatalf("got %v, want ErrDepth", err)
	}
	if _, err := ToIR(v, MaxDepth(4)); err != nil {
		t.Fatal(err)
	}
}

func TestToIRNotRepresentable(t *testing.T) {
	_, err := ToIR(map[string]any{"c": make(chan int)})
	if !errors.Is(err, ErrNotRepresentable) {
		t.Fatalf("got %v, want ErrNotRepresentable", err)
	}
	var se *SerializeError
	if !errors.As(err, &se) || se.Path != "$.c" {
		t.Fatalf("got %#v, want path $.c", err)
	}
}

type celsius float64

func (c celsius) MarshalIR() (*ir.Node, error) {
	return ir.FromFloat(float64(c)).WithLineComment("C"), nil
}

func (c *celsius) UnmarshalIR(n *ir.Node) error {
	f, ok := n.AsFloat64()
	if !ok {
		return mismatch("number", n.Type.String())
	}
	*c = celsius(f)
	return nil
}

type opaque struct{}

func (opaque) MarshalIR() (*ir.Node, error) {
	return nil, fmt.Errorf("%w: opaque handle", ErrNotRepresentable)
}

type level int

func (l level) MarshalText() ([]byte, error) {
	switch l {
	case 0:
		return []byte("low"), nil
	case 1:
		return []byte("high"), nil
	}
	return nil, fmt.Errorf("bad level %d", int(l))
}

func (l *level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = 0
	case "high":
		*l = 1
	default:
		return fmt.Errorf("bad level %q", b)
	}
	return nil
}

func TestToIRExtensions(t *testing.T) {
	node, err := ToIR(celsius(21.5))
	if err != nil {
		t.Fatal(err)
	}
	if node.Float != 21.5 || node.Ann.LineComment != "C" {
		t.Errorf("got %v %q", node.Float, node.Ann.LineComment)
	}

	_, err = ToIR([]opaque{{}})
	if !errors.Is(err, ErrNotRepresentable) {
		t.Fatalf("got %v, want ErrNotRepresentable", err)
	}
	var se *SerializeError
	if !errors.As(err, &se) || se.Path != "$[0]" {
		t.Fatalf("got %v, want a SerializeError at $[0]", err)
	}

	node, err = ToIR(map[level]int{1: 10, 0: 5})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"high", "low"}, node.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}

	if _, err := ToIR(level(7)); err == nil || !strings.Contains(err.Error(), "bad level") {
		t.Errorf("got %v", err)
	}
}

func TestToIRNode(t *testing.T) {
	inner := ir.FromString("x").WithComment(" kept")
	node, err := ToIR(struct {
		Raw *ir.Node `anno:"raw"`
	}{Raw: inner})
	if err != nil {
		t.Fatal(err)
	}
	raw := node.Get("raw")
	if raw == inner || raw.String != "x" || len(raw.Ann.Comment) != 1 {
		t.Errorf("got %+v", raw)
	}
}
