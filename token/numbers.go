package token

import (
	"errors"
	"math"
	"strconv"

	"github.com/signadot/annotate/format"
)

// scanNumber scans the number literal at the start of d into tok and
// returns its length. On error the length locates the problem.
func scanNumber(d []byte, feat *format.Features, tok *Token) (int, error) {
	i := 0
	neg := false
	switch {
	case d[0] == '-':
		neg = true
		i++
	case d[0] == '+' && feat.LenientNumbers:
		i++
	}
	if i < len(d) && feat.NonFinite {
		for _, w := range []string{"Infinity", "NaN"} {
			if hasWord(d[i:], w) {
				tok.Type = TFloat
				tok.Float = math.NaN()
				if w == "Infinity" {
					tok.Float = math.Inf(1)
					if neg {
						tok.Float = math.Inf(-1)
					}
				}
				return i + len(w), nil
			}
		}
	}
	if i+1 < len(d) && d[i] == '0' {
		if base := basePrefix(d[i+1]); base != 0 {
			if !feat.AllowsLiteral(base) {
				return i, ErrLiteral
			}
			return scanBased(d, i+2, neg, base, tok)
		}
	}
	digits := asciiDigits(d[i:])
	j := i + digits
	frac, exp := 0, 0
	if j < len(d) && d[j] == '.' {
		frac = 1 + asciiDigits(d[j+1:])
		if frac == 1 && (!feat.LenientNumbers || digits == 0) {
			return j + 1, ErrNumber
		}
	}
	if digits == 0 && (frac == 0 || !feat.LenientNumbers) {
		return i, ErrNumber
	}
	if digits > 1 && d[i] == '0' {
		return i, ErrNumberLeadingZero
	}
	j += frac
	if j < len(d) && (d[j] == 'e' || d[j] == 'E') {
		exp = 1
		if j+exp < len(d) && (d[j+exp] == '+' || d[j+exp] == '-') {
			exp++
		}
		ed := asciiDigits(d[j+exp:])
		if ed == 0 {
			return j + exp, ErrNumber
		}
		exp += ed
	}
	j += exp
	if j < len(d) && identChar(d[j]) {
		return j, ErrNumber
	}
	lit := string(d[:j])
	if d[0] == '+' {
		lit = lit[1:]
	}
	if frac+exp == 0 {
		tok.Type = TInteger
		tok.Base = format.Dec
		v, err := strconv.ParseInt(lit, 10, 64)
		if err == nil {
			tok.Int = v
			return j, nil
		}
		tok.Base = 0
		if !neg {
			if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
				tok.Base = format.Dec
				tok.Uint = u
				tok.Unsigned = true
				return j, nil
			}
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, numErr(err)
	}
	tok.Type = TFloat
	tok.Float = f
	return j, nil
}

func scanBased(d []byte, i int, neg bool, base format.Base, tok *Token) (int, error) {
	j := i
	for j < len(d) && baseDigit(d[j], base) {
		j++
	}
	if j == i || (j < len(d) && identChar(d[j])) {
		return j, ErrNumber
	}
	u, err := strconv.ParseUint(string(d[i:j]), int(base), 64)
	if err != nil {
		return i, numErr(err)
	}
	tok.Type = TInteger
	tok.Base = base
	switch {
	case neg && u > 1<<63:
		return i, ErrNumber
	case neg:
		tok.Int = int64(-u)
	case u > math.MaxInt64:
		tok.Uint = u
		tok.Unsigned = true
	default:
		tok.Int = int64(u)
	}
	return j, nil
}

func numErr(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return errors.Join(ErrNumber, strconv.ErrRange)
	}
	return ErrNumber
}

func basePrefix(c byte) format.Base {
	switch c {
	case 'x', 'X':
		return format.Hex
	case 'o', 'O':
		return format.Oct
	case 'b', 'B':
		return format.Bin
	}
	return 0
}

func baseDigit(c byte, base format.Base) bool {
	switch base {
	case format.Bin:
		return c == '0' || c == '1'
	case format.Oct:
		return c >= '0' && c <= '7'
	case format.Hex:
		return asciiDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return asciiDigit(c)
}

func hasWord(d []byte, w string) bool {
	if len(d) < len(w) || string(d[:len(w)]) != w {
		return false
	}
	return len(d) == len(w) || !identChar(d[len(w)])
}

func asciiDigits(d []byte) int {
	i := 0
	for i < len(d) {
		if !asciiDigit(d[i]) {
			return i
		}
		i++
	}
	return i
}

func asciiDigit(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}
