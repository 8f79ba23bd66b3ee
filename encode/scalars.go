package encode

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/token"
)

func (es *EncState) scalar(y *ir.Node) error {
	switch y.Type {
	case ir.NullType:
		return es.write(y.Type, ValueColor, "null")
	case ir.BoolType:
		return es.write(y.Type, ValueColor, strconv.FormatBool(y.Bool))
	case ir.IntType:
		s, err := es.intText(y)
		if err != nil {
			return err
		}
		if es.feat.NumericLimits && !es.noLimits && !exactInDouble(y) {
			s = `"` + s + `"`
		}
		return es.write(y.Type, ValueColor, s)
	case ir.FloatType:
		s, err := es.floatText(y)
		if err != nil {
			return err
		}
		return es.write(y.Type, ValueColor, s)
	case ir.StringType:
		return es.str(y)
	case ir.BytesType:
		if es.dialect == format.Debug {
			return es.debugBytes(y)
		}
		s, err := es.bytesText(y)
		if err != nil {
			return err
		}
		return es.write(y.Type, ValueColor, token.Quote(s, '"'))
	}
	return es.degrade(y, "node type "+y.Type.String())
}

// intText renders an integer in its hinted base when the dialect has
// literals for it, in decimal otherwise.
func (es *EncState) intText(y *ir.Node) (string, error) {
	b := y.Ann.Base
	if b == 0 || b == format.Dec {
		return y.IntString(), nil
	}
	if !es.feat.AllowsLiteral(b) {
		return y.IntString(), es.degrade(y, b.String()+" literals")
	}
	var mag uint64
	neg := false
	switch {
	case y.Unsigned:
		mag = y.Uint
	case y.Int < 0:
		neg = true
		mag = uint64(-(y.Int + 1)) + 1
	default:
		mag = uint64(y.Int)
	}
	if neg && es.dialect == format.YAML {
		return y.IntString(), es.degrade(y, "negative "+b.String()+" literals")
	}
	var prefix string
	switch b {
	case format.Hex:
		prefix = "0x"
	case format.Oct:
		prefix = "0o"
	case format.Bin:
		prefix = "0b"
	default:
		return y.IntString(), es.degrade(y, b.String()+" literals")
	}
	digits := strings.ToUpper(strconv.FormatUint(mag, int(b)))
	if neg {
		return "-" + prefix + digits, nil
	}
	return prefix + digits, nil
}

// maxExact is the largest magnitude up to which every integer has an exact
// double.
const maxExact = 1 << 53

func exactInDouble(y *ir.Node) bool {
	if y.Unsigned {
		return y.Uint <= maxExact
	}
	return y.Int <= maxExact && y.Int >= -maxExact
}

func (es *EncState) floatText(y *ir.Node) (string, error) {
	f := y.Float
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		return FormatFloat(f), nil
	}
	if !es.feat.NonFinite {
		return "null", es.degrade(y, "non-finite numbers")
	}
	yaml := es.dialect == format.YAML
	switch {
	case math.IsNaN(f) && yaml:
		return ".nan", nil
	case math.IsNaN(f):
		return "NaN", nil
	case f > 0 && yaml:
		return ".inf", nil
	case f > 0:
		return "Infinity", nil
	case yaml:
		return "-.inf", nil
	}
	return "-Infinity", nil
}

// FormatFloat renders a finite float so that it reads back as a float:
// positional for moderate magnitudes, exponent form otherwise. The mantissa
// always has a decimal point, which YAML needs to type the scalar as a
// float.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		if i := strings.IndexByte(s, 'e'); !strings.Contains(s[:i], ".") {
			s = s[:i] + ".0" + s[i:]
		}
		return s
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// bytesText gives the text form of a Bytes node for dialects which carry
// bytes in strings: base64 unless hex is asked for and the dialect is not
// strict.
func (es *EncState) bytesText(y *ir.Node) (string, error) {
	if y.Ann.Str == ir.StrHex {
		if es.dialect != format.Strict && es.dialect != format.YAML {
			return hex.EncodeToString(y.Bytes), nil
		}
		if err := es.degrade(y, "hex byte strings"); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(y.Bytes), nil
}

func (es *EncState) str(y *ir.Node) error {
	s := y.String
	switch y.Ann.Str {
	case ir.StrBlock:
		if !strings.Contains(s, "\n") {
			break
		}
		if es.triple(y) || es.feat.LineContinue {
			if es.flow {
				return errTooWide
			}
			if es.feat.TripleQuotes {
				return es.tripleQuoted(s)
			}
			return es.continued(s)
		}
		if err := es.degrade(y, "block strings"); err != nil {
			return err
		}
	case ir.StrPlain:
		if err := es.degrade(y, "plain strings"); err != nil {
			return err
		}
	}
	return es.write(y.Type, ValueColor, token.Quote(s, '"'))
}

// triple reports whether y is written as a triple-quoted block.
func (es *EncState) triple(y *ir.Node) bool {
	return es.feat.TripleQuotes && y.Type == ir.StringType && y.Ann.Str == ir.StrBlock &&
		strings.Contains(y.String, "\n") && tripleOK(y.String)
}

// tripleOK reports whether s survives a triple-quoted block unchanged.
func tripleOK(s string) bool {
	if strings.Contains(s, "'''") {
		return false
	}
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

// tripleQuoted writes s as a triple-quoted block whose lines are indented to the
// column of the opening quotes.
func (es *EncState) tripleQuoted(s string) error {
	if !es.atLineStart() {
		es.depth++
		defer func() { es.depth-- }()
		if err := es.writeNL(); err != nil {
			return err
		}
	}
	ind := strings.Repeat(" ", es.col)
	b := &strings.Builder{}
	b.WriteString("'''")
	for _, ln := range strings.Split(s, "\n") {
		b.WriteByte('\n')
		if ln != "" {
			b.WriteString(ind + ln)
		}
	}
	b.WriteString("\n" + ind + "'''")
	return es.writeRaw(ir.StringType, LiteralMultiColor, b.String())
}

// continued writes s as a quoted string broken after each newline with a
// line continuation.
func (es *EncState) continued(s string) error {
	b := []byte{'"'}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		b = token.AppendQuotedBody(b, ln, '"')
		if i < len(lines)-1 {
			b = append(b, "\\n\\\n"...)
		}
	}
	b = append(b, '"')
	return es.writeRaw(ir.StringType, LiteralMultiColor, string(b))
}
