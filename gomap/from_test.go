package gomap

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
)

type pair struct {
	Tuple
	Left  string
	Right int
}

type everything struct {
	B     bool              `anno:"b"`
	I8    int8              `anno:"i8"`
	I64   int64             `anno:"i64"`
	U     uint64            `anno:"u"`
	F32   float32           `anno:"f32"`
	F     float64           `anno:"f"`
	S     string            `anno:"s"`
	Raw   []byte            `anno:"raw"`
	Arr   [4]byte           `anno:"arr"`
	P     *int              `anno:"p"`
	Nil   *int              `anno:"nil"`
	Unit  struct{}          `anno:"unit"`
	Pair  pair              `anno:"pair"`
	List  []string          `anno:"list"`
	Fixed [2]float64        `anno:"fixed"`
	M     map[int]string    `anno:"m"`
	Sets  map[string][]bool `anno:"sets"`
	Any   any               `anno:"any"`
	Temp  celsius           `anno:"temp"`
	Lvl   level             `anno:"lvl"`
}

func sample() everything {
	seven := 7
	return everything{
		B:     true,
		I8:    -128,
		I64:   math.MinInt64,
		U:     math.MaxUint64,
		F32:   1.5,
		F:     -0.25,
		S:     "a\nb",
		Raw:   []byte{0, 1, 2},
		Arr:   [4]byte{9, 8, 7, 6},
		P:     &seven,
		Pair:  pair{Left: "l", Right: 2},
		List:  []string{"x", "y"},
		Fixed: [2]float64{1, 2.5},
		M:     map[int]string{1: "one", -2: "minus two"},
		Sets:  map[string][]bool{"t": {true}, "e": {}},
		Any:   map[string]any{"k": []any{int64(1), "v", nil}},
		Temp:  36.6,
		Lvl:   1,
	}
}

func TestRoundTrip(t *testing.T) {
	want := sample()
	node, err := ToIR(want)
	require.NoError(t, err)

	var got everything
	require.NoError(t, FromIR(node, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestThreePathsAgree(t *testing.T) {
	node, err := ToIR(sample())
	require.NoError(t, err)

	var strict, tolerant, dyn everything
	require.NoError(t, FromIR(node, &strict))
	require.NoError(t, FromIRTolerant(node, &tolerant))
	target, err := ValueTarget(&dyn)
	require.NoError(t, err)
	require.NoError(t, FromIRDyn(node, target))

	if diff := cmp.Diff(strict, tolerant); diff != "" {
		t.Errorf("tolerant differs (-strict +tolerant):\n%s", diff)
	}
	if diff := cmp.Diff(strict, dyn); diff != "" {
		t.Errorf("dyn differs (-strict +dyn):\n%s", diff)
	}
}

type point struct {
	X int `anno:"x"`
	Y int `anno:"y,default=0"`
}

func TestMissingField(t *testing.T) {
	node := ir.FromMap(map[string]*ir.Node{"x": ir.FromInt(5)})

	var p point
	err := FromIR(node, &p)
	require.ErrorIs(t, err, ErrMissingField)
	require.ErrorContains(t, err, `"y"`)

	p = point{Y: 3}
	require.NoError(t, FromIRTolerant(node, &p))
	require.Equal(t, point{X: 5, Y: 0}, p)
}

func TestDefaults(t *testing.T) {
	type server struct {
		Host  string   `anno:"host,optional,default=localhost"`
		Port  int      `anno:"port,optional,default=8080"`
		Tags  []string `anno:"tags,default=['a', 'b']"`
		Ratio float64  `anno:"ratio"`
		Next  *server  `anno:"next"`
	}
	node := ir.FromMap(map[string]*ir.Node{"ratio": ir.FromFloat(0.5)})

	var s server
	err := FromIR(node, &s)
	require.ErrorIs(t, err, ErrMissingField, "tags is neither optional nor a pointer")

	node.SetField("tags", ir.FromSlice([]*ir.Node{ir.FromString("z")}))
	s = server{}
	require.NoError(t, FromIR(node, &s))
	require.Equal(t, server{Host: "localhost", Port: 8080, Tags: []string{"z"}, Ratio: 0.5}, s)

	s = server{}
	require.NoError(t, FromIRTolerant(ir.NewMapping(), &s))
	require.Equal(t, server{Host: "localhost", Port: 8080, Tags: []string{"a", "b"}}, s)
}

func TestTolerantSuperset(t *testing.T) {
	node := ir.FromMap(map[string]*ir.Node{
		"x":     ir.FromInt(1),
		"y":     ir.FromInt(2),
		"extra": ir.FromString("ignored"),
	})
	var p point
	err := FromIR(node, &p)
	require.ErrorIs(t, err, ErrUnknownField)
	var me *MaterializeError
	require.ErrorAs(t, err, &me)
	require.Equal(t, "$.extra", me.Path)

	require.NoError(t, FromIRTolerant(node, &p))
	require.Equal(t, point{X: 1, Y: 2}, p)
}

func TestKindMismatchPath(t *testing.T) {
	type rec struct {
		A []int `anno:"a"`
	}
	node := ir.NewMapping().SetField("a", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromString("x")}))

	var r rec
	err := FromIR(node, &r)
	require.ErrorIs(t, err, ErrKindMismatch)
	var me *MaterializeError
	require.ErrorAs(t, err, &me)
	require.Equal(t, "$.a[1]", me.Path)
	require.Equal(t, "Integer", me.Expected)
	require.Equal(t, "String", me.Actual)
	require.Equal(t, "materialize error at $.a[1]: expected Integer, got String", err.Error())

	err = FromIR(ir.FromSlice(nil), &r)
	require.ErrorAs(t, err, &me)
	require.Equal(t, "$", me.Path)
	require.Equal(t, "Sequence", me.Actual)
}

func TestOverflow(t *testing.T) {
	tests := []struct {
		name string
		node *ir.Node
		ptr  any
	}{
		{"int8", ir.FromInt(300), new(int8)},
		{"uint negative", ir.FromInt(-1), new(uint)},
		{"int64 from big uint", ir.FromUint(math.MaxUint64), new(int64)},
		{"float32", ir.FromFloat(1e300), new(float32)},
		{"int from huge float", ir.FromFloat(1e30), new(int)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, FromIR(tc.node, tc.ptr), ErrOverflow)
		})
	}

	var n int
	require.NoError(t, FromIR(ir.FromFloat(3), &n))
	require.Equal(t, 3, n)
	require.ErrorIs(t, FromIR(ir.FromFloat(3.5), &n), ErrKindMismatch)
}

func TestBytesFromText(t *testing.T) {
	var b []byte
	require.NoError(t, FromIR(ir.FromString("3q0="), &b))
	require.Equal(t, []byte{0xde, 0xad}, b)

	require.NoError(t, FromIR(ir.FromString("beef").WithStr(ir.StrHex), &b))
	require.Equal(t, []byte{0xbe, 0xef}, b)

	var k struct {
		Key []byte `anno:"key,hexbytes"`
	}
	require.NoError(t, FromIR(ir.NewMapping().SetField("key", ir.FromString("0a0b")), &k))
	require.Equal(t, []byte{10, 11}, k.Key)
	require.NoError(t, FromIR(ir.NewMapping().SetField("key", ir.FromString("3q0=")), &k))
	require.Equal(t, []byte{0xde, 0xad}, k.Key)

	require.ErrorIs(t, FromIR(ir.FromString("not base64!"), &b), ErrKindMismatch)

	var arr [3]byte
	require.ErrorIs(t, FromIR(ir.FromBytes([]byte{1}), &arr), ErrKindMismatch)
}

func TestMapKeysFromStrings(t *testing.T) {
	node := ir.NewMapping().
		SetField("10", ir.FromBool(true)).
		SetField("-3", ir.FromBool(false))
	var m map[int]bool
	require.NoError(t, FromIR(node, &m))
	require.Equal(t, map[int]bool{10: true, -3: false}, m)

	var bad map[int]bool
	require.ErrorIs(t, FromIR(ir.NewMapping().SetField("ten", ir.FromBool(true)), &bad), ErrKindMismatch)

	var byLevel map[level]int
	require.NoError(t, FromIR(ir.NewMapping().SetField("high", ir.FromInt(3)), &byLevel))
	require.Equal(t, map[level]int{1: 3}, byLevel)

	var byName map[string]int
	require.NoError(t, FromIR(ir.NewMapping().Set(ir.FromInt(4), ir.FromInt(16)), &byName))
	require.Equal(t, map[string]int{"4": 16}, byName)
}

func TestTuple(t *testing.T) {
	var p pair
	require.NoError(t, FromIR(ir.FromSlice([]*ir.Node{ir.FromString("a"), ir.FromInt(1)}), &p))
	require.Equal(t, pair{Left: "a", Right: 1}, p)

	err := FromIR(ir.FromSlice([]*ir.Node{ir.FromString("a")}), &p)
	require.ErrorIs(t, err, ErrKindMismatch)

	err = FromIR(ir.NewMapping().SetField("Left", ir.FromString("a")), &p)
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestExtensionsFrom(t *testing.T) {
	var c celsius
	require.NoError(t, FromIR(ir.FromInt(20), &c))
	require.Equal(t, celsius(20), c)

	err := FromIR(ir.FromString("warm"), &c)
	require.ErrorIs(t, err, ErrKindMismatch)

	var l level
	require.NoError(t, FromIR(ir.FromString("high"), &l))
	require.Equal(t, level(1), l)
	require.ErrorIs(t, FromIR(ir.FromInt(1), &l), ErrKindMismatch)
	require.ErrorContains(t, FromIR(ir.FromString("mid"), &l), "bad level")
}

func TestNodeField(t *testing.T) {
	var r struct {
		Raw *ir.Node `anno:"raw"`
	}
	in := ir.NewMapping().SetField("raw", ir.FromInt(0x1f).WithBase(format.Bin).WithComment(" c"))
	require.NoError(t, FromIR(in, &r))
	require.NotNil(t, r.Raw)
	require.Nil(t, r.Raw.Parent)
	require.Equal(t, int64(0x1f), r.Raw.Int)
	require.Equal(t, []string{" c"}, r.Raw.Ann.Comment)
}

func TestTarget(t *testing.T) {
	var x int
	require.ErrorIs(t, FromIR(ir.FromInt(1), x), ErrTarget)
	require.ErrorIs(t, FromIR(ir.FromInt(1), (*int)(nil)), ErrTarget)
	require.ErrorIs(t, FromIRDyn(ir.FromInt(1), nil), ErrTarget)
	_, err := ValueTarget(nil)
	require.ErrorIs(t, err, ErrTarget)
}

func nest(n int) *ir.Node {
	node := ir.FromInt(0)
	for range n {
		node = ir.FromSlice([]*ir.Node{node})
	}
	return node
}

func TestFromIRDepth(t *testing.T) {
	var v any
	require.ErrorIs(t, FromIR(nest(5), &v, MaxDepth(4)), ErrDepth)
	require.NoError(t, FromIR(nest(5), &v, MaxDepth(5)))

	var at AnyTarget
	require.ErrorIs(t, FromIRDyn(nest(5), &at, MaxDepth(4)), ErrDepth)
}

func TestAnyTarget(t *testing.T) {
	node := ir.NewMapping().
		SetField("s", ir.FromSlice([]*ir.Node{ir.FromInt(-1), ir.FromUint(math.MaxUint64), ir.Null()})).
		Set(ir.FromInt(2), ir.FromBytes([]byte{1})).
		SetField("f", ir.FromFloat(0.5).WithComment(" dropped"))

	var at AnyTarget
	require.NoError(t, FromIRDyn(node, &at))
	want, err := node.ToAny()
	require.NoError(t, err)
	if diff := cmp.Diff(want, at.Value); diff != "" {
		t.Errorf("(-ToAny +AnyTarget):\n%s", diff)
	}

	var v any
	require.NoError(t, FromIR(node, &v))
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("(-ToAny +FromIR):\n%s", diff)
	}

	bad := ir.NewMapping().Set(ir.FromSlice(nil), ir.Null())
	require.ErrorIs(t, FromIRDyn(bad, &at), ErrKindMismatch)
}

func TestTreeTarget(t *testing.T) {
	node := ir.NewMapping().
		SetField("b", ir.FromSlice([]*ir.Node{ir.FromString("x").WithStr(ir.StrQuoted)}).WithLayout(ir.LayoutBlock)).
		Set(ir.FromInt(1).WithLineComment("k"), ir.FromInt(3).WithBase(format.Hex))
	node.Ann.Footer = []string{" end"}

	var tt TreeTarget
	require.NoError(t, FromIRDyn(node, &tt))
	require.True(t, ir.Equal(node, tt.Node))
	require.Equal(t, node.Strip().Keys(), tt.Node.Keys())
	_ = tt.Node.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		require.True(t, n.Ann.IsZero(), "annotation left on %s", n.Type)
		for _, f := range n.Fields {
			require.True(t, f.Ann.IsZero(), "annotation left on key")
		}
		return true, nil
	})
}

func TestInterfaceWithoutEnum(t *testing.T) {
	var s interface{ Area() float64 }
	err := FromIR(ir.FromString("circle"), &s)
	require.ErrorIs(t, err, ErrEnum)
}

func TestStructInfoConcurrent(t *testing.T) {
	typ := reflect.TypeFor[everything]()
	want, err := getStructInfo(typ, DefaultTagName)
	require.NoError(t, err)
	for i := range 8 {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			t.Parallel()
			for range 100 {
				si, err := getStructInfo(typ, DefaultTagName)
				require.NoError(t, err)
				require.Same(t, want, si)
				node, err := ToIR(sample())
				require.NoError(t, err)
				var got everything
				require.NoError(t, FromIR(node, &got))
			}
		})
	}
}

func TestIntegersFromDecimalStrings(t *testing.T) {
	type big struct {
		U uint64 `anno:"u"`
		I int64  `anno:"i"`
		N int8   `anno:"n"`
	}
	node := ir.NewMapping().
		SetField("u", ir.FromString("18446744073709551615")).
		SetField("i", ir.FromString("-9223372036854775808")).
		SetField("n", ir.FromInt(3))
	var got big
	require.NoError(t, FromIR(node, &got))
	require.Equal(t, big{U: math.MaxUint64, I: math.MinInt64, N: 3}, got)

	node.SetField("n", ir.FromString("300"))
	require.ErrorIs(t, FromIR(node, &got), ErrOverflow)
	node.SetField("n", ir.FromString("three"))
	require.ErrorIs(t, FromIR(node, &got), ErrKindMismatch)
}
