package token

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSyntax            = errors.New("syntax error")
	ErrDepth             = errors.New("nesting too deep")
	ErrBadUTF8           = errors.New("bad utf8")
	ErrUnterminated      = errors.New("unterminated")
	ErrNumberLeadingZero = errors.New("leading zero")
	ErrNumber            = errors.New("bad number")
	ErrLiteral           = errors.New("literal not allowed")
	ErrBadEscape         = errors.New("bad escape")
	ErrBadUnicode        = errors.New("bad unicode")
	ErrUnicodeControl    = errors.New("unicode control")
	ErrComment           = errors.New("comment not allowed")
	ErrTrailing          = errors.New("trailing content")
	ErrEmptyDoc          = errors.New("empty document")
)

// ParseError reports malformed input. Line and Col are 1-based, Col counting
// bytes; Offset is the 0-based byte offset. Expected, when set, lists the
// alternatives which were tried at that point.
//
// errors.Is(err, ErrSyntax) holds for every ParseError.
type ParseError struct {
	Line     int
	Col      int
	Offset   int
	Msg      string
	Expected []string
	Err      error
}

func (e *ParseError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%d:%d: ", e.Line, e.Col)
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(ErrSyntax.Error())
	}
	if len(e.Expected) != 0 {
		b.WriteString(" (expected ")
		if len(e.Expected) > 1 {
			b.WriteString("one of ")
		}
		b.WriteString(strings.Join(e.Expected, ", "))
		b.WriteByte(')')
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}

// NewParseError locates an error at offset off of doc.
func NewParseError(doc *PosDoc, off int, err error, msg string, expected ...string) *ParseError {
	line, col := doc.LineCol(off)
	return &ParseError{
		Line:     line,
		Col:      col,
		Offset:   off,
		Msg:      msg,
		Expected: expected,
		Err:      err,
	}
}
