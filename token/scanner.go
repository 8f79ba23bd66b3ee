package token

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/annotate/format"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Scanner tokenizes a complete in-memory document.
type Scanner struct {
	d    []byte
	i    int
	doc  *PosDoc
	feat *format.Features
	nl   bool
}

func NewScanner(d []byte, feat *format.Features) *Scanner {
	s := &Scanner{d: d, doc: NewPosDoc(d), feat: feat, nl: true}
	if bytes.HasPrefix(d, bom) {
		s.i = len(bom)
	}
	return s
}

func (s *Scanner) Doc() *PosDoc {
	return s.doc
}

// Errorf returns a located error at offset off.
func (s *Scanner) Errorf(off int, err error, f string, args ...any) *ParseError {
	return NewParseError(s.doc, off, err, fmt.Sprintf(f, args...))
}

// Next returns the next token. At the end of input it returns a TEOF token,
// repeatedly.
func (s *Scanner) Next() (*Token, error) {
	s.skipSpace()
	nl := s.nl
	s.nl = false
	start := s.i
	tok := &Token{Off: start, NLBefore: nl}
	if s.i < len(s.d) {
		if err := s.scan(tok); err != nil {
			return nil, err
		}
	}
	tok.End = s.i
	tok.Bytes = s.d[start:s.i]
	return tok, nil
}

func (s *Scanner) skipSpace() {
	for s.i < len(s.d) {
		switch s.d[s.i] {
		case '\n':
			s.nl = true
		case ' ', '\t', '\r':
		case '\v', '\f':
			if !s.feat.BareKeys {
				return
			}
		default:
			return
		}
		s.i++
	}
}

func (s *Scanner) scan(tok *Token) error {
	c := s.d[s.i]
	switch c {
	case '{':
		tok.Type = TLCurl
	case '}':
		tok.Type = TRCurl
	case '[':
		tok.Type = TLSquare
	case ']':
		tok.Type = TRSquare
	case ':':
		tok.Type = TColon
	case ',':
		tok.Type = TComma
	case '"':
		return s.quoted(tok, '"')
	case '\'':
		if s.feat.TripleQuotes && bytes.HasPrefix(s.d[s.i:], []byte("'''")) {
			return s.multiline(tok)
		}
		if !s.feat.SingleQuotes && !s.feat.TripleQuotes {
			return s.Errorf(s.i, ErrSyntax, "unexpected %q", c)
		}
		return s.quoted(tok, '\'')
	case '/':
		if s.i+1 < len(s.d) {
			switch s.d[s.i+1] {
			case '/':
				return s.lineComment(tok, format.SlashSlash, 2)
			case '*':
				return s.blockComment(tok)
			}
		}
		if s.feat.Quoteless {
			s.unquoted(tok)
			return nil
		}
		return s.Errorf(s.i, ErrSyntax, "unexpected %q", c)
	case '#':
		return s.lineComment(tok, format.Hash, 1)
	default:
		var err error
		switch {
		case c == '-' || c == '+' || c == '.' || asciiDigit(c):
			err = s.number(tok)
		case identStart(c) || c >= utf8.RuneSelf:
			err = s.word(tok)
		default:
			err = s.Errorf(s.i, ErrSyntax, "unexpected %q", c)
		}
		if err != nil && s.feat.Quoteless {
			s.unquoted(tok)
			return nil
		}
		return err
	}
	s.i++
	return nil
}

// unquoted scans the rest of the line as a quoteless string.
func (s *Scanner) unquoted(tok *Token) {
	eol := bytes.IndexByte(s.d[s.i:], '\n')
	if eol < 0 {
		eol = len(s.d)
	} else {
		eol += s.i
	}
	text := strings.TrimRight(string(s.d[s.i:eol]), " \t\r")
	*tok = Token{Type: TUnquoted, Off: tok.Off, NLBefore: tok.NLBefore, Text: text}
	s.i += len(text)
}

// Unquoted rereads tok, the token last returned by Next, as a quoteless
// string when it is a number, a keyword or an identifier which is not
// alone on its line. A separator or a comment may follow a number or a
// keyword, which then keeps its type. Other tokens are returned as is.
func (s *Scanner) Unquoted(tok *Token) *Token {
	switch tok.Type {
	case TLiteral:
	case TInteger, TFloat, TTrue, TFalse, TNull:
		if s.endsValue(tok.End) {
			return tok
		}
	default:
		return tok
	}
	s.i = tok.Off
	res := &Token{Off: tok.Off, NLBefore: tok.NLBefore}
	s.unquoted(res)
	res.End = s.i
	res.Bytes = s.d[res.Off:res.End]
	return res
}

// endsValue reports whether only space, a separator or a comment follows
// offset i on its line.
func (s *Scanner) endsValue(i int) bool {
	for i < len(s.d) && (s.d[i] == ' ' || s.d[i] == '\t' || s.d[i] == '\r') {
		i++
	}
	if i == len(s.d) {
		return true
	}
	switch s.d[i] {
	case '\n', ',', ']', '}', '#':
		return true
	case '/':
		return i+1 < len(s.d) && (s.d[i+1] == '/' || s.d[i+1] == '*')
	}
	return false
}

func (s *Scanner) quoted(tok *Token, q byte) error {
	text, n, err := decodeQuoted(s.d[s.i:], q, s.feat.BareKeys, s.feat.LineContinue)
	if err != nil {
		return s.Errorf(s.i+n, err, "bad string: %s", err)
	}
	tok.Type = TString
	tok.Text = text
	s.i += n
	return nil
}

// multiline scans a triple quoted string. The first line is dropped when it
// is blank, as is the last, and each line loses up to as many leading spaces
// as the column of the opening quotes.
func (s *Scanner) multiline(tok *Token) error {
	start := s.i
	indent := start - (bytes.LastIndexByte(s.d[:start], '\n') + 1)
	body := s.d[start+3:]
	end := bytes.Index(body, []byte("'''"))
	if end < 0 {
		return s.Errorf(start, ErrUnterminated, "unterminated multiline string")
	}
	raw := string(body[:end])
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if i := strings.IndexByte(raw, '\n'); i >= 0 && strings.TrimLeft(raw[:i], " \t") == "" {
		raw = raw[i+1:]
	}
	if i := strings.LastIndexByte(raw, '\n'); i >= 0 && strings.TrimLeft(raw[i+1:], " \t") == "" {
		raw = raw[:i]
	} else if strings.TrimLeft(raw, " \t") == "" {
		raw = ""
	}
	lines := strings.Split(raw, "\n")
	for i, ln := range lines {
		n := 0
		for n < len(ln) && n < indent && ln[n] == ' ' {
			n++
		}
		lines[i] = ln[n:]
	}
	tok.Type = TMString
	tok.Text = strings.Join(lines, "\n")
	s.i = start + 3 + end + 3
	return nil
}

func (s *Scanner) lineComment(tok *Token, style format.CommentStyle, lead int) error {
	if !s.feat.AllowsComment(style) {
		return s.Errorf(s.i, ErrComment, "comments are not allowed here")
	}
	start := s.i + lead
	end := bytes.IndexByte(s.d[start:], '\n')
	if end < 0 {
		end = len(s.d)
	} else {
		end += start
	}
	tok.Type = TComment
	tok.Style = style
	tok.Lines = []string{strings.TrimSuffix(string(s.d[start:end]), "\r")}
	s.i = end
	return nil
}

// blockComment scans /* ... */. Continuation lines lose their indentation
// and a leading '*'; trailing blanks and blank first and last lines are
// dropped.
func (s *Scanner) blockComment(tok *Token) error {
	if !s.feat.AllowsComment(format.Block) {
		return s.Errorf(s.i, ErrComment, "comments are not allowed here")
	}
	start := s.i + 2
	end := bytes.Index(s.d[start:], []byte("*/"))
	if end < 0 {
		return s.Errorf(s.i, ErrUnterminated, "unterminated comment")
	}
	raw := strings.ReplaceAll(string(s.d[start:start+end]), "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	for i := 1; i < len(lines); i++ {
		ln := strings.TrimLeft(lines[i], " \t")
		if strings.HasPrefix(ln, "*") {
			ln = ln[1:]
		}
		lines[i] = ln
	}
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	if len(lines) > 1 {
		if strings.TrimSpace(lines[len(lines)-1]) == "" {
			lines = lines[:len(lines)-1]
		}
		if strings.TrimSpace(lines[0]) == "" {
			lines = lines[1:]
		}
	}
	tok.Type = TComment
	tok.Style = format.Block
	tok.Lines = lines
	s.i = start + end + 2
	return nil
}

func (s *Scanner) number(tok *Token) error {
	n, err := scanNumber(s.d[s.i:], s.feat, tok)
	if err != nil {
		return s.Errorf(s.i+n, err, "bad number: %s", err)
	}
	s.i += n
	return nil
}

func (s *Scanner) word(tok *Token) error {
	j := s.i
	for j < len(s.d) {
		c := s.d[j]
		if identChar(c) {
			j++
			continue
		}
		if c < utf8.RuneSelf {
			break
		}
		r, sz := utf8.DecodeRune(s.d[j:])
		if r == utf8.RuneError && sz == 1 {
			return s.Errorf(j, ErrBadUTF8, "bad utf8")
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		j += sz
	}
	if j == s.i {
		r, _ := utf8.DecodeRune(s.d[j:])
		return s.Errorf(j, ErrSyntax, "unexpected %q", r)
	}
	w := string(s.d[s.i:j])
	switch w {
	case "true":
		tok.Type = TTrue
	case "false":
		tok.Type = TFalse
	case "null":
		tok.Type = TNull
	default:
		if (w == "Infinity" || w == "NaN") && s.feat.NonFinite {
			return s.number(tok)
		}
		tok.Type = TLiteral
		tok.Text = w
	}
	s.i = j
	return nil
}
