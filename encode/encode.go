package encode

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/signadot/annotate/debug"
	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
)

// DefaultMaxDepth bounds the nesting Encode will follow.
const DefaultMaxDepth = 1024

type EncState struct {
	w     io.Writer
	col   int
	depth int
	nest  int
	flow  bool
	// open is set while the output ends in a YAML block scalar.
	open bool

	dialect  format.Dialect
	feat     *format.Features
	style    Style
	fidelity bool
	noLimits bool
	maxDepth int
	colors   *Colors

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w in the dialect selected by opts, strict by
// default. Output carries no trailing newline.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		style:    DefaultStyle(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(es)
	}
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrEncoding)
	}
	if !es.dialect.Valid() {
		return fmt.Errorf("%w: unknown dialect %d", ErrEncoding, int(es.dialect))
	}
	if es.style.Indent < 0 || es.style.MaxWidth < 0 {
		return fmt.Errorf("%w: indent and max width must not be negative", ErrStyle)
	}
	es.feat = es.dialect.Features()
	es.w = w
	if es.style.Color {
		if es.colors == nil {
			es.colors = NewColors()
		}
		es.Color = es.colors.Color
	}
	if debug.Encode() {
		debug.Logf("encode %s root=%s style=%+v fidelity=%t", es.dialect, node.Type, es.style, es.fidelity)
	}
	if es.dialect == format.YAML {
		return es.yamlDocument(node)
	}
	return es.document(node)
}

func (es *EncState) write(t ir.Type, a ColorAttr, s string) error {
	es.open = false
	es.col += utf8.RuneCountInString(s)
	if es.Color != nil {
		s = es.Color(t, a, s)
	}
	_, err := io.WriteString(es.w, s)
	return err
}

// writeNL starts a new line indented to the current depth.
func (es *EncState) writeNL() error {
	ind := strings.Repeat(" ", es.depth*es.style.Indent)
	_, err := io.WriteString(es.w, "\n"+ind)
	es.col = len(ind)
	return err
}

// writeRaw writes s, which may span lines, leaving col at the width of its
// last line.
func (es *EncState) writeRaw(t ir.Type, a ColorAttr, s string) error {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		es.col = utf8.RuneCountInString(s[i+1:])
	} else {
		es.col += utf8.RuneCountInString(s)
	}
	if es.Color != nil {
		s = es.Color(t, a, s)
	}
	_, err := io.WriteString(es.w, s)
	return err
}

func (es *EncState) atLineStart() bool {
	return es.col <= es.depth*es.style.Indent
}

// degrade reports a hint or comment on y that the dialect cannot write. It
// is only an error under fidelity; otherwise the caller falls back.
func (es *EncState) degrade(y *ir.Node, feature string) error {
	if !es.fidelity {
		if debug.Encode() {
			debug.Logf("encode %s: dropping %s at %s", es.dialect, feature, y.Path())
		}
		return nil
	}
	return &UnsupportedFeatureError{
		Dialect: es.dialect,
		Feature: feature,
		Path:    y.Path().String(),
	}
}

// wantComments reports whether y's comments are to be written.
func (es *EncState) wantComments(y *ir.Node) (bool, error) {
	if !es.style.Comments || !y.Ann.HasComments() {
		return false, nil
	}
	if !es.feat.HasComments() {
		return false, es.degrade(y, "comments")
	}
	return true, nil
}

func (es *EncState) commentLead() string {
	if es.feat.StandardComment == format.Hash {
		return "#"
	}
	return "//"
}

func (es *EncState) commentText(line string) string {
	lead := es.commentLead()
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return lead + line
	}
	return lead + " " + line
}

func commentLines(lines []string) []string {
	res := make([]string, 0, len(lines))
	for _, ln := range lines {
		res = append(res, strings.Split(strings.ReplaceAll(ln, "\r", ""), "\n")...)
	}
	return res
}

// leading writes comment lines each followed by a new line. The caller is
// at the start of a line.
func (es *EncState) leading(t ir.Type, lines []string) error {
	for _, ln := range commentLines(lines) {
		if err := es.write(t, CommentColor, es.commentText(ln)); err != nil {
			return err
		}
		if err := es.writeNL(); err != nil {
			return err
		}
	}
	return nil
}

// lineComment writes comments following a value on its line.
func (es *EncState) lineComment(t ir.Type, cs ...string) error {
	parts := []string{}
	for _, c := range cs {
		if c != "" {
			parts = append(parts, strings.Join(commentLines([]string{c}), " "))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return es.write(t, CommentColor, " "+es.commentText(strings.Join(parts, " ")))
}

// footer writes each comment line on a new line.
func (es *EncState) footer(t ir.Type, lines []string) error {
	for _, ln := range commentLines(lines) {
		if err := es.writeNL(); err != nil {
			return err
		}
		if err := es.write(t, CommentColor, es.commentText(ln)); err != nil {
			return err
		}
	}
	return nil
}

func (es *EncState) enter(y *ir.Node) error {
	es.nest++
	if es.nest > es.maxDepth {
		return fmt.Errorf("%w: more than %d levels at %s", ErrDepth, es.maxDepth, y.Path())
	}
	return nil
}

func (es *EncState) leave() { es.nest-- }

// order gives the indices of y's children in output order.
func (es *EncState) order(y *ir.Node) []int {
	idx := make([]int, len(y.Values))
	for i := range idx {
		idx[i] = i
	}
	if es.style.SortKeys && y.Type == ir.MappingType {
		slices.SortStableFunc(idx, func(a, b int) int {
			return ir.Compare(y.Fields[a], y.Fields[b])
		})
	}
	return idx
}

// chooseFlow decides whether container y goes on one line.
func (es *EncState) chooseFlow(y *ir.Node, render func(*EncState, *ir.Node) error) (bool, error) {
	empty := len(y.Values) == 0
	switch {
	case empty:
		return es.tryFlow(y, -1, render)
	case y.Ann.Layout == ir.LayoutBlock:
		return false, nil
	case y.Ann.Layout == ir.LayoutFlow:
		return es.tryFlow(y, -1, render)
	case es.style.MaxWidth <= 0:
		return false, nil
	}
	room := es.style.MaxWidth - es.col
	if room <= 0 {
		return false, nil
	}
	return es.tryFlow(y, room, render)
}

// tryFlow renders y in flow layout into a bounded sink. A negative room is
// unbounded. Anything flow layout cannot carry, such as comments, fails the
// attempt the same way running out of room does.
func (es *EncState) tryFlow(y *ir.Node, room int, render func(*EncState, *ir.Node) error) (bool, error) {
	sub := *es
	sub.w = &boundedWriter{room: room}
	sub.Color = nil
	sub.flow = true
	sub.col = 0
	err := render(&sub, y)
	if errors.Is(err, errTooWide) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// boundedWriter discards its input, failing once more than room runes were
// written.
type boundedWriter struct {
	room int
	n    int
}

func (b *boundedWriter) Write(d []byte) (int, error) {
	if b.room < 0 {
		return len(d), nil
	}
	b.n += utf8.RuneCount(d)
	if b.n > b.room {
		return 0, errTooWide
	}
	return len(d), nil
}
