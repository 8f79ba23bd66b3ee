package token

import (
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Quote returns v as a string literal delimited by q. Control characters,
// backslash and q are escaped; everything else is written as is.
func Quote(v string, q byte) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = q
	d = AppendQuotedBody(d, v, q)
	d = append(d, q)
	return string(d)
}

// AppendQuotedBody appends the escaped form of v, without delimiters, to d.
func AppendQuotedBody(d []byte, v string, q byte) []byte {
	ucs := []byte{0, 0}
	cps := []byte{0, 0, 0, 0}
	for _, r := range v {
		switch r {
		case rune(q):
			d = append(d, '\\', q)
		case '\\':
			d = append(d, '\\', '\\')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		case '\u2028', '\u2029':
			d = append(d, '\\', 'u', '2', '0', '2', byte('8'+r-'\u2028'))
		default:
			if unicode.IsControl(r) {
				ucs[0] = byte(r >> 8)
				ucs[1] = byte(r)
				cps = hex.AppendEncode(cps[:0], ucs)
				d = append(d, '\\', 'u', cps[0], cps[1], cps[2], cps[3])
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	return d
}

// Unquote decodes a complete string literal in double or single quotes,
// accepting the extended escapes of the relaxed dialects.
func Unquote(v string) (string, error) {
	if len(v) < 2 || (v[0] != '"' && v[0] != '\'') {
		return "", ErrUnterminated
	}
	res, n, err := decodeQuoted([]byte(v), v[0], true, true)
	if err != nil {
		return "", err
	}
	if n != len(v) {
		return "", ErrTrailing
	}
	return res, nil
}

// decodeQuoted decodes the literal starting at d[0] == q. It returns the
// decoded text and the number of bytes consumed, closing quote included.
// On error the count locates the problem.
func decodeQuoted(d []byte, q byte, ext, cont bool) (string, int, error) {
	b := &strings.Builder{}
	i := 1
	n := len(d)
	for i < n {
		c := d[i]
		switch {
		case c == q:
			return b.String(), i + 1, nil
		case c == '\\':
			if i+1 >= n {
				return "", i, ErrUnterminated
			}
			sz, err := decodeEscape(b, d[i+1:], ext, cont)
			if err != nil {
				return "", i, err
			}
			i += 1 + sz
		case c == '\n' || c == '\r':
			return "", i, ErrUnterminated
		case c < 0x20 && !(ext && c == '\t'):
			return "", i, ErrUnicodeControl
		case c < utf8.RuneSelf:
			b.WriteByte(c)
			i++
		default:
			r, sz := utf8.DecodeRune(d[i:])
			if r == utf8.RuneError && sz == 1 {
				return "", i, ErrBadUTF8
			}
			b.WriteRune(r)
			i += sz
		}
	}
	return "", i, ErrUnterminated
}

// decodeEscape decodes the escape following a backslash and returns its
// length.
func decodeEscape(b *strings.Builder, d []byte, ext, cont bool) (int, error) {
	switch d[0] {
	case '"', '\\', '/':
		b.WriteByte(d[0])
		return 1, nil
	case 'b':
		b.WriteByte('\b')
		return 1, nil
	case 'f':
		b.WriteByte('\f')
		return 1, nil
	case 'n':
		b.WriteByte('\n')
		return 1, nil
	case 'r':
		b.WriteByte('\r')
		return 1, nil
	case 't':
		b.WriteByte('\t')
		return 1, nil
	case 'u':
		r, sz, err := decodeU(d)
		if err != nil {
			return sz, err
		}
		b.WriteRune(r)
		return sz, nil
	}
	if cont {
		switch {
		case d[0] == '\n':
			return 1, nil
		case d[0] == '\r' && len(d) > 1 && d[1] == '\n':
			return 2, nil
		}
	}
	if !ext {
		return 0, ErrBadEscape
	}
	switch d[0] {
	case '\'':
		b.WriteByte('\'')
	case 'v':
		b.WriteByte('\v')
	case '0':
		if len(d) > 1 && asciiDigit(d[1]) {
			return 0, ErrBadEscape
		}
		b.WriteByte(0)
	case 'x':
		if len(d) < 3 || !allHex(d[1:3]) {
			return 0, ErrBadEscape
		}
		v, _ := hex.DecodeString(string(d[1:3]))
		b.WriteRune(rune(v[0]))
		return 3, nil
	default:
		return 0, ErrBadEscape
	}
	return 1, nil
}

// decodeU decodes "uXXXX", combining a following "\uXXXX" low surrogate.
func decodeU(d []byte) (rune, int, error) {
	r, ok := hex4(d[1:])
	if !ok {
		return 0, 0, ErrBadUnicode
	}
	if !utf16.IsSurrogate(r) {
		return r, 5, nil
	}
	if len(d) >= 11 && d[5] == '\\' && d[6] == 'u' {
		if r2, ok := hex4(d[7:]); ok {
			if c := utf16.DecodeRune(r, r2); c != utf8.RuneError {
				return c, 11, nil
			}
		}
	}
	return utf8.RuneError, 5, nil
}

func hex4(d []byte) (rune, bool) {
	if len(d) < 4 || !allHex(d[:4]) {
		return 0, false
	}
	dst := []byte{0, 0}
	if _, err := hex.Decode(dst, d[:4]); err != nil {
		return 0, false
	}
	return rune(dst[0])<<8 | rune(dst[1]), true
}

func allHex(d []byte) bool {
	for _, c := range d {
		if c >= '0' && c <= '9' {
			continue
		}
		if c >= 'a' && c <= 'f' {
			continue
		}
		if c >= 'A' && c <= 'F' {
			continue
		}
		return false
	}
	return true
}
