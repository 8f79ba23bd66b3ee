package ir

import (
	"fmt"
	"slices"

	"github.com/signadot/annotate/format"
)

// StrFormat is a display hint for String and Bytes nodes.
type StrFormat int

const (
	StrDefault StrFormat = iota
	StrPlain
	StrQuoted
	StrBlock
	StrBase64
	StrHex
)

func (s StrFormat) String() string {
	switch s {
	case StrDefault:
		return "default"
	case StrPlain:
		return "plain"
	case StrQuoted:
		return "quoted"
	case StrBlock:
		return "block"
	case StrBase64:
		return "base64"
	case StrHex:
		return "hex"
	}
	return fmt.Sprintf("<strformat %d>", int(s))
}

// Layout is a display hint for Sequence and Mapping nodes.
type Layout int

const (
	LayoutDefault Layout = iota
	LayoutFlow
	LayoutBlock
)

func (l Layout) String() string {
	switch l {
	case LayoutDefault:
		return "default"
	case LayoutFlow:
		return "flow"
	case LayoutBlock:
		return "block"
	}
	return fmt.Sprintf("<layout %d>", int(l))
}

// Annotation holds presentation metadata for a node. It never takes part in
// content equality.
//
// Comment holds the lines of a leading comment, LineComment the comment
// following the value on the same line, and Footer comment lines which
// followed the last child of a container (or the root value) without
// preceding any value. Comment text excludes the comment lead ("//", "#")
// but keeps any whitespace after it.
//
// Base applies only to Int nodes, Str only to String and Bytes nodes and
// Layout only to Sequence and Mapping nodes; a zero value means no hint.
type Annotation struct {
	Comment     []string
	LineComment string
	Footer      []string

	Base   format.Base
	Str    StrFormat
	Layout Layout
}

func (a *Annotation) IsZero() bool {
	return len(a.Comment) == 0 && a.LineComment == "" && len(a.Footer) == 0 &&
		a.Base == 0 && a.Str == StrDefault && a.Layout == LayoutDefault
}

func (a *Annotation) HasComments() bool {
	return len(a.Comment) != 0 || a.LineComment != "" || len(a.Footer) != 0
}

func (a Annotation) Clone() Annotation {
	a.Comment = slices.Clone(a.Comment)
	a.Footer = slices.Clone(a.Footer)
	return a
}

func (y *Node) WithAnnotation(a Annotation) *Node {
	y.Ann = a
	return y
}

// WithComment replaces the leading comment lines.
func (y *Node) WithComment(lines ...string) *Node {
	y.Ann.Comment = lines
	return y
}

func (y *Node) WithLineComment(c string) *Node {
	y.Ann.LineComment = c
	return y
}

func (y *Node) WithFooter(lines ...string) *Node {
	y.Ann.Footer = lines
	return y
}

func (y *Node) WithBase(b format.Base) *Node {
	y.Ann.Base = b
	return y
}

func (y *Node) WithStr(s StrFormat) *Node {
	y.Ann.Str = s
	return y
}

func (y *Node) WithLayout(l Layout) *Node {
	y.Ann.Layout = l
	return y
}
