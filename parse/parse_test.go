package parse

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/token"
)

type parseTest struct {
	in      string
	dialect format.Dialect
	want    *ir.Node
	e       error
}

func kv(k string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: ir.FromString(k), Val: v}
}

func TestParseOK(t *testing.T) {
	pts := []parseTest{
		{in: `null`, dialect: format.Strict, want: ir.Null()},
		{in: `true`, dialect: format.Strict, want: ir.FromBool(true)},
		{in: ` 22 `, dialect: format.Strict, want: ir.FromInt(22)},
		{in: `1e14`, dialect: format.Strict, want: ir.FromFloat(1e14)},
		{in: `"x"`, dialect: format.Strict, want: ir.FromString("x")},
		{in: `[]`, dialect: format.Strict, want: ir.NewSequence()},
		{
			in:      `{"a": 1, "b": [true, null]}`,
			dialect: format.Strict,
			want: ir.FromKeyVals([]ir.KeyVal{
				kv("a", ir.FromInt(1)),
				kv("b", ir.FromSlice([]*ir.Node{ir.FromBool(true), ir.Null()})),
			}),
		},
		{
			in:      `{a: 0x10, 'b': [1, 2,], c: +.5, 1: one, true: NaN,}`,
			dialect: format.Relaxed,
			want: ir.FromKeyVals([]ir.KeyVal{
				kv("a", ir.FromInt(16)),
				kv("b", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})),
				kv("c", ir.FromFloat(0.5)),
			}),
			e: token.ErrSyntax,
		},
		{
			in:      `{a: 0x10, 'b': [1, 2,], c: +.5, 1: "one", true: NaN,}`,
			dialect: format.Relaxed,
			want: ir.FromKeyVals([]ir.KeyVal{
				kv("a", ir.FromInt(16)),
				kv("b", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})),
				kv("c", ir.FromFloat(0.5)),
				{Key: ir.FromInt(1), Val: ir.FromString("one")},
				{Key: ir.FromBool(true), Val: ir.FromFloat(math.NaN())},
			}),
		},
		{
			in:      `{null: 1, true: 2, class: 'it\'s'}`,
			dialect: format.JSON5,
			want: ir.FromKeyVals([]ir.KeyVal{
				kv("null", ir.FromInt(1)),
				kv("true", ir.FromInt(2)),
				kv("class", ir.FromString("it's")),
			}),
		},
		{
			in:      "{\n  a: 1\n  b: [\n    2\n    3\n  ]\n  c: '''\n    x\n    y\n    '''\n}",
			dialect: format.Hjson,
			want: ir.FromKeyVals([]ir.KeyVal{
				kv("a", ir.FromInt(1)),
				kv("b", ir.FromSlice([]*ir.Node{ir.FromInt(2), ir.FromInt(3)})),
				kv("c", ir.FromString("x\ny")),
			}),
		},
		{
			in:      `{"a": 1, "a": 2}`,
			dialect: format.Strict,
			want:    ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromInt(2))}),
		},
	}
	for _, pt := range pts {
		t.Run(pt.dialect.String()+" "+pt.in, func(t *testing.T) {
			y, err := Parse([]byte(pt.in), ParseDialect(pt.dialect))
			if pt.e != nil {
				if !errors.Is(err, pt.e) {
					t.Fatalf("got %v want %v", err, pt.e)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(y, pt.want) {
				t.Errorf("got %#v", y)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in       string
		dialect  format.Dialect
		err      error
		line     int
		col      int
		expected []string
	}{
		{"", format.Strict, token.ErrEmptyDoc, 1, 1, []string{"value"}},
		{"// only a comment", format.Relaxed, token.ErrEmptyDoc, 1, 18, []string{"value"}},
		{"1 2", format.Strict, token.ErrTrailing, 1, 3, []string{"end of input"}},
		{`{"a" 1}`, format.Strict, token.ErrSyntax, 1, 6, []string{"':'"}},
		{`{a: 1}`, format.Strict, token.ErrSyntax, 1, 2, []string{"string"}},
		{`[1,]`, format.Strict, token.ErrSyntax, 1, 4, []string{"value"}},
		{`{"a": 1,}`, format.Strict, token.ErrSyntax, 1, 9, []string{"key"}},
		{"[1\n2]", format.Strict, token.ErrSyntax, 2, 1, []string{"','", "']'"}},
		{"[1\n2]", format.JSON5, token.ErrSyntax, 2, 1, []string{"','", "']'"}},
		{"[\n  1,\n  ]x", format.Relaxed, token.ErrTrailing, 3, 4, []string{"end of input"}},
		{`{1: 2}`, format.JSON5, token.ErrSyntax, 1, 2, []string{"string", "identifier"}},
		{`[0b1]`, format.JSON5, token.ErrLiteral, 1, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.String()+" "+tt.in, func(t *testing.T) {
			_, err := Parse([]byte(tt.in), ParseDialect(tt.dialect))
			if !errors.Is(err, tt.err) {
				t.Fatalf("got %v want %v", err, tt.err)
			}
			var pe *token.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("not a ParseError: %T", err)
			}
			if pe.Line != tt.line || pe.Col != tt.col {
				t.Errorf("at %d:%d want %d:%d (%v)", pe.Line, pe.Col, tt.line, tt.col, err)
			}
			if tt.expected != nil && !cmp.Equal(pe.Expected, tt.expected) {
				t.Errorf("expected %q want %q", pe.Expected, tt.expected)
			}
		})
	}
}

func TestParseLeadingCommentOnFirstValue(t *testing.T) {
	y, err := Parse([]byte("// leading\n{a: 1, b: 2,}"), ParseRelaxed())
	if err != nil {
		t.Fatal(err)
	}
	if got := y.Keys(); !cmp.Equal(got, []string{"a", "b"}) {
		t.Fatalf("keys %v", got)
	}
	if got := y.Get("a").Ann.Comment; !cmp.Equal(got, []string{" leading"}) {
		t.Errorf("comment %q", got)
	}
	if y.Ann.HasComments() {
		t.Errorf("root annotated: %+v", y.Ann)
	}
}

func TestParseCommentAttachment(t *testing.T) {
	src := `{
  // about a
  # more about a
  a: 1, // after a
  b: [ /* first */ 2, 3 /* three */ ],
  /*
   * multi
   */
  c: {}, # empty
  // dangling
} // closing
// end
`
	y, err := Parse([]byte(src), ParseRelaxed())
	if err != nil {
		t.Fatal(err)
	}
	a := y.Get("a")
	if !cmp.Equal(a.Ann.Comment, []string{" about a", " more about a"}) {
		t.Errorf("a comment %q", a.Ann.Comment)
	}
	if a.Ann.LineComment != " after a" {
		t.Errorf("a line comment %q", a.Ann.LineComment)
	}
	b := y.Get("b")
	if !cmp.Equal(b.Values[0].Ann.Comment, []string{" first"}) {
		t.Errorf("b[0] comment %q", b.Values[0].Ann.Comment)
	}
	if b.Values[1].Ann.LineComment != " three" {
		t.Errorf("b[1] line comment %q", b.Values[1].Ann.LineComment)
	}
	c := y.Get("c")
	if !cmp.Equal(c.Ann.Comment, []string{" multi"}) || c.Ann.LineComment != " empty" {
		t.Errorf("c annotation %+v", c.Ann)
	}
	if !cmp.Equal(y.Ann.Footer, []string{" dangling", " end"}) {
		t.Errorf("footer %q", y.Ann.Footer)
	}
	if y.Ann.LineComment != " closing" {
		t.Errorf("root line comment %q", y.Ann.LineComment)
	}
}

func TestParseCommentsOff(t *testing.T) {
	y, err := Parse([]byte("// x\n[1, // y\n 2]"), ParseRelaxed(), ParseComments(false))
	if err != nil {
		t.Fatal(err)
	}
	err = y.Visit(func(n *ir.Node, _ bool) (bool, error) {
		if n.Ann.HasComments() {
			t.Errorf("comment at %s", n.Path())
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestParseHints(t *testing.T) {
	y, err := Parse([]byte(`[0x1F, 0o17, 0b101, 12, "s"]`), ParseRelaxed())
	if err != nil {
		t.Fatal(err)
	}
	want := []format.Base{format.Hex, format.Oct, format.Bin, format.Dec}
	for i, b := range want {
		if got := y.Values[i].Ann.Base; got != b {
			t.Errorf("%d: base %v want %v", i, got, b)
		}
	}
	if y.Values[0].Int != 31 {
		t.Errorf("got %d", y.Values[0].Int)
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	for _, d := range []format.Dialect{format.Strict, format.Relaxed} {
		y, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`), ParseDialect(d))
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, y.Keys()); diff != "" {
			t.Errorf("%s: keys (-want +got):\n%s", d, diff)
		}
		if got := y.Get("a").Int; got != 3 {
			t.Errorf("%s: a = %d, want the last value", d, got)
		}
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("[", 10000) + strings.Repeat("]", 10000)
	_, err := Parse([]byte(deep), ParseStrict())
	if !errors.Is(err, token.ErrDepth) {
		t.Fatalf("got %v", err)
	}
	ok := strings.Repeat("[", 5) + strings.Repeat("]", 5)
	if _, err := Parse([]byte(ok), ParseStrict(), ParseMaxDepth(4)); err != nil {
		t.Errorf("depth 4: %v", err)
	}
	if _, err := Parse([]byte(ok), ParseStrict(), ParseMaxDepth(3)); !errors.Is(err, token.ErrDepth) {
		t.Errorf("depth 3: %v", err)
	}
}

func TestParseYAMLDepthLimit(t *testing.T) {
	deep := strings.Repeat("[", 100000) + strings.Repeat("]", 100000)
	_, err := Parse([]byte(deep), ParseYAML())
	var pe *token.ParseError
	if !errors.As(err, &pe) || !errors.Is(err, token.ErrDepth) {
		t.Fatalf("flow: got %v", err)
	}
	if pe.Line != 1 {
		t.Errorf("flow: line %d", pe.Line)
	}

	b := &strings.Builder{}
	for i := 0; i < 300; i++ {
		b.WriteString(strings.Repeat("  ", i) + "k:\n")
	}
	b.WriteString(strings.Repeat("  ", 300) + "k: 1\n")
	if _, err := Parse([]byte(b.String()), ParseYAML()); !errors.Is(err, token.ErrDepth) {
		t.Errorf("block: got %v", err)
	}

	ok := strings.Repeat("[", 5) + strings.Repeat("]", 5)
	if _, err := Parse([]byte(ok), ParseYAML(), ParseMaxDepth(4)); err != nil {
		t.Errorf("depth 4: %v", err)
	}
	if _, err := Parse([]byte(ok), ParseYAML(), ParseMaxDepth(3)); !errors.Is(err, token.ErrDepth) {
		t.Errorf("depth 3: %v", err)
	}
	nested := "a:\n  b:\n    - c: 1\n"
	if _, err := Parse([]byte(nested), ParseYAML(), ParseMaxDepth(4)); err != nil {
		t.Errorf("block depth 4: %v", err)
	}
}

func TestParseHjsonQuoteless(t *testing.T) {
	in := `{
  a: hello world
  b: 3 apples
  c: 3
  d: true,
  e: x, y # z
  f: [
    one two
    2
  ]
  g: ~/path
}`
	y, err := Parse([]byte(in), ParseDialect(format.Hjson))
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromKeyVals([]ir.KeyVal{
		kv("a", ir.FromString("hello world")),
		kv("b", ir.FromString("3 apples")),
		kv("c", ir.FromInt(3)),
		kv("d", ir.FromBool(true)),
		kv("e", ir.FromString("x, y # z")),
		kv("f", ir.FromSlice([]*ir.Node{ir.FromString("one two"), ir.FromInt(2)})),
		kv("g", ir.FromString("~/path")),
	})
	if !ir.Equal(y, want) {
		t.Errorf("got %#v", y)
	}
	if y.Get("a").Ann.Str != ir.StrPlain {
		t.Error("plain hint")
	}
	if _, err := Parse([]byte("{a: hello}"), ParseRelaxed()); !errors.Is(err, token.ErrSyntax) {
		t.Errorf("relaxed: got %v", err)
	}
}

func TestParseDebugUnsupported(t *testing.T) {
	_, err := Parse([]byte("1"), ParseDialect(format.Debug))
	var ue *format.UnsupportedFeatureError
	if !errors.As(err, &ue) {
		t.Fatalf("got %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	src := `# about the doc
name: demo
count: 0x1F
ratio: 1.5
tags: [a, b]
enabled: true
nothing: null
data: !!binary aGVsbG8=
text: |
  line one
  line two
`
	y, err := Parse([]byte(src), ParseYAML())
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromKeyVals([]ir.KeyVal{
		kv("name", ir.FromString("demo")),
		kv("count", ir.FromInt(31)),
		kv("ratio", ir.FromFloat(1.5)),
		kv("tags", ir.FromSlice([]*ir.Node{ir.FromString("a"), ir.FromString("b")})),
		kv("enabled", ir.FromBool(true)),
		kv("nothing", ir.Null()),
		kv("data", ir.FromBytes([]byte("hello"))),
		kv("text", ir.FromString("line one\nline two\n")),
	})
	if !ir.Equal(y, want) {
		t.Errorf("got %#v", y)
	}
	if got := y.Keys(); !cmp.Equal(got, []string{"name", "count", "ratio", "tags", "enabled", "nothing", "data", "text"}) {
		t.Errorf("order %v", got)
	}
	if y.Get("count").Ann.Base != format.Hex {
		t.Error("hex hint")
	}
	if y.Get("tags").Ann.Layout != ir.LayoutFlow {
		t.Error("flow hint")
	}
	if y.Get("text").Ann.Str != ir.StrBlock {
		t.Error("block hint")
	}
}

func TestParseYAMLErrors(t *testing.T) {
	if _, err := Parse([]byte("a: [1, 2"), ParseYAML()); !errors.Is(err, token.ErrSyntax) {
		t.Errorf("unterminated flow: %v", err)
	}
	if _, err := Parse([]byte(""), ParseYAML()); !errors.Is(err, token.ErrEmptyDoc) {
		t.Errorf("empty: %v", err)
	}
	if _, err := Parse([]byte("a: 1\n---\nb: 2\n"), ParseYAML()); !errors.Is(err, token.ErrTrailing) {
		t.Errorf("two documents: %v", err)
	}
}
