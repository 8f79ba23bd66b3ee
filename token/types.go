package token

import (
	"fmt"

	"github.com/signadot/annotate/format"
)

type TokenType int

const (
	TEOF TokenType = iota
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TColon
	TComma
	TString
	TMString
	TLiteral
	TInteger
	TFloat
	TNull
	TTrue
	TFalse
	TComment
	TUnquoted
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TEOF:      "end of input",
		TLCurl:    "'{'",
		TRCurl:    "'}'",
		TLSquare:  "'['",
		TRSquare:  "']'",
		TColon:    "':'",
		TComma:    "','",
		TString:   "string",
		TMString:  "multiline string",
		TLiteral:  "identifier",
		TInteger:  "integer",
		TFloat:    "float",
		TNull:     "null",
		TTrue:     "true",
		TFalse:    "false",
		TComment:  "comment",
		TUnquoted: "quoteless string",
	}[t]
}

// Token is a lexical unit. Bytes is the raw source in [Off, End).
//
// For TString and TMString, Text holds the decoded value; for TLiteral the
// identifier; for TUnquoted the rest of the line without trailing space. For TComment, Lines holds the comment text without its lead
// and Style the lead used. Number tokens carry their value and the radix of
// the literal in Base.
type Token struct {
	Type  TokenType
	Off   int
	End   int
	Bytes []byte

	Text  string
	Lines []string
	Style format.CommentStyle

	Int      int64
	Uint     uint64
	Unsigned bool
	Float    float64
	Base     format.Base

	// NLBefore is set when a line break separates this token from the
	// previous one, or when the token is the first of the document.
	NLBefore bool
}

func (t *Token) String() string {
	switch t.Type {
	case TEOF:
		return t.Type.String()
	case TComment:
		return fmt.Sprintf("comment %q", t.Lines)
	}
	return fmt.Sprintf("%s %q", t.Type, t.Bytes)
}
