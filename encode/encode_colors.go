package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/signadot/annotate/ir"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	CommentColor ColorAttr = iota
	TagColor
	FieldColor
	ValueColor
	SepColor
	LiteralMultiColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

// NewColors returns the default palette. Colors are produced whether or not
// the output is a terminal; callers decide whether to ask for them.
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	sprint := func(c *color.Color) func(string, ...any) string {
		c.EnableColor()
		return c.SprintfFunc()
	}
	for _, t := range ir.Types() {
		able := Colorable{
			Type: t,
			Attr: TagColor,
		}
		colors.Map[able] = sprint(color.RGB(74, 92, 138))
		able.Attr = CommentColor
		colors.Map[able] = sprint(color.New(color.FgBlue))
		able.Attr = SepColor
		colors.Map[able] = sprint(color.RGB(255, 0, 196))
		able.Attr = FieldColor
		colors.Map[able] = sprint(color.RGB(128, 168, 196))
	}
	able := Colorable{Attr: ValueColor}

	able.Type = ir.IntType
	colors.Map[able] = sprint(color.RGB(128, 216, 236))
	able.Type = ir.FloatType
	colors.Map[able] = sprint(color.RGB(128, 216, 236))

	able.Type = ir.NullType
	colors.Map[able] = sprint(color.RGB(168, 0, 196))

	able.Type = ir.BoolType
	colors.Map[able] = sprint(color.New(color.FgCyan))

	able.Type = ir.BytesType
	colors.Map[able] = sprint(color.RGB(198, 198, 46))

	able.Type = ir.MappingType
	able.Attr = SepColor
	colors.Map[able] = sprint(color.RGB(196, 128, 128))

	able.Type = ir.StringType
	able.Attr = ValueColor
	colors.Map[able] = sprint(color.RGB(8, 196, 16))
	able.Attr = LiteralMultiColor
	colors.Map[able] = sprint(color.RGB(88, 158, 86))
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	res := c.Get(t, a)(s)
	return res
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
