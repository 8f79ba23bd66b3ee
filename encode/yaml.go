package encode

import (
	"encoding/base64"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/token"
)

func (es *EncState) yamlDocument(y *ir.Node) error {
	if es.style.Indent == 0 {
		es.style.Indent = 2
	}
	want, err := es.wantComments(y)
	if err != nil {
		return err
	}
	block := false
	if want {
		if err := es.yamlLeading(y.Type, y.Ann.Comment, 0); err != nil {
			return err
		}
	}
	if err := es.enter(y); err != nil {
		return err
	}
	if !y.Type.IsLeaf() {
		flow, err := es.chooseFlow(y, (*EncState).yamlFlow)
		if err != nil {
			return err
		}
		if !flow {
			block = true
			if want && y.Ann.LineComment != "" {
				if err := es.yamlLeading(y.Type, []string{y.Ann.LineComment}, 0); err != nil {
					return err
				}
			}
			if err := es.yamlBlock(y, 0); err != nil {
				return err
			}
		} else if err := es.yamlFlowRoot(y); err != nil {
			return err
		}
	} else if err := es.yamlScalar(y, 0); err != nil {
		return err
	}
	es.leave()
	if want && !block {
		if err := es.lineComment(y.Type, y.Ann.LineComment); err != nil {
			return err
		}
		if err := es.yamlFooter(y.Type, y.Ann.Footer, 0); err != nil {
			return err
		}
	}
	if es.open {
		_, err := io.WriteString(es.w, "\n")
		return err
	}
	return nil
}

func (es *EncState) yamlFlowRoot(y *ir.Node) error {
	es.flow = true
	defer func() { es.flow = false }()
	return es.yamlFlow(y)
}

func (es *EncState) yamlNL(ind int) error {
	es.open = false
	_, err := io.WriteString(es.w, "\n"+strings.Repeat(" ", ind))
	es.col = ind
	return err
}

func (es *EncState) yamlLeading(t ir.Type, lines []string, ind int) error {
	for _, ln := range commentLines(lines) {
		if err := es.write(t, CommentColor, es.commentText(ln)); err != nil {
			return err
		}
		if err := es.yamlNL(ind); err != nil {
			return err
		}
	}
	return nil
}

func (es *EncState) yamlFooter(t ir.Type, lines []string, ind int) error {
	for _, ln := range commentLines(lines) {
		if err := es.yamlNL(ind); err != nil {
			return err
		}
		if err := es.write(t, CommentColor, es.commentText(ln)); err != nil {
			return err
		}
	}
	return nil
}

// yamlBlock writes a non-empty container in block layout with its entries
// at column ind. The first entry goes where the cursor is.
func (es *EncState) yamlBlock(y *ir.Node, ind int) error {
	order := es.order(y)
	for i, idx := range order {
		if i > 0 {
			if err := es.yamlNL(ind); err != nil {
				return err
			}
		}
		v := y.Values[idx]
		var lead, line []string
		var k *ir.Node
		if y.Type == ir.MappingType {
			k = y.Fields[idx]
			want, err := es.wantComments(k)
			if err != nil {
				return err
			}
			if want {
				lead = append(lead, k.Ann.Comment...)
				line = append(line, k.Ann.LineComment)
			}
		}
		want, err := es.wantComments(v)
		if err != nil {
			return err
		}
		if want {
			lead = append(lead, v.Ann.Comment...)
			line = append(line, v.Ann.LineComment)
		}
		if err := es.yamlLeading(v.Type, lead, ind); err != nil {
			return err
		}
		if k != nil {
			if err := es.yamlKey(k); err != nil {
				return err
			}
			if err := es.write(y.Type, SepColor, ":"); err != nil {
				return err
			}
		} else if err := es.write(y.Type, SepColor, "-"); err != nil {
			return err
		}
		if err := es.yamlChild(v, ind, k == nil, line); err != nil {
			return err
		}
	}
	want, err := es.wantComments(y)
	if err != nil {
		return err
	}
	if want {
		return es.yamlFooter(y.Type, y.Ann.Footer, ind)
	}
	return nil
}

func hasText(cs []string) bool {
	for _, c := range cs {
		if c != "" {
			return true
		}
	}
	return false
}

// yamlChild writes v after a "key:" or "-" indicator of an entry at column
// ind.
func (es *EncState) yamlChild(v *ir.Node, ind int, item bool, line []string) error {
	if err := es.enter(v); err != nil {
		return err
	}
	defer es.leave()
	if !v.Type.IsLeaf() {
		flow, err := es.chooseFlow(v, (*EncState).yamlFlow)
		if err != nil {
			return err
		}
		if !flow {
			sub := ind + es.style.Indent
			if item {
				sub = ind + 2
			}
			if item && !hasText(line) {
				if err := es.write(v.Type, SepColor, " "); err != nil {
					return err
				}
			} else {
				if err := es.lineComment(v.Type, line...); err != nil {
					return err
				}
				if err := es.yamlNL(sub); err != nil {
					return err
				}
			}
			return es.yamlBlock(v, sub)
		}
		if err := es.write(v.Type, SepColor, " "); err != nil {
			return err
		}
		if err := es.yamlFlowRoot(v); err != nil {
			return err
		}
		return es.lineComment(v.Type, line...)
	}
	if err := es.write(v.Type, SepColor, " "); err != nil {
		return err
	}
	if err := es.yamlScalar(v, ind+es.style.Indent); err != nil {
		return err
	}
	return es.lineComment(v.Type, line...)
}

func (es *EncState) yamlFlow(y *ir.Node) error {
	open, end := brackets(y)
	if len(y.Ann.Footer) != 0 {
		if len(y.Values) != 0 {
			if err := es.noFlowComments(y); err != nil {
				return err
			}
		} else if es.style.Comments {
			if err := es.degrade(y, "comments in empty containers"); err != nil {
				return err
			}
		}
	}
	if err := es.write(y.Type, SepColor, open); err != nil {
		return err
	}
	for i, idx := range es.order(y) {
		if i > 0 {
			if err := es.write(y.Type, SepColor, ", "); err != nil {
				return err
			}
		}
		v := y.Values[idx]
		if y.Type == ir.MappingType {
			k := y.Fields[idx]
			if err := es.noFlowComments(k); err != nil {
				return err
			}
			if err := es.yamlKey(k); err != nil {
				return err
			}
			if err := es.write(y.Type, SepColor, ": "); err != nil {
				return err
			}
		}
		if err := es.noFlowComments(v); err != nil {
			return err
		}
		if err := es.enter(v); err != nil {
			return err
		}
		var err error
		if v.Type.IsLeaf() {
			err = es.yamlScalar(v, 0)
		} else {
			err = es.yamlFlow(v)
		}
		es.leave()
		if err != nil {
			return err
		}
	}
	return es.write(y.Type, SepColor, end)
}

func (es *EncState) yamlKey(k *ir.Node) error {
	switch k.Type {
	case ir.StringType:
		if yamlPlainOK(k.String, es.flow) {
			return es.write(ir.MappingType, FieldColor, k.String)
		}
		return es.write(ir.MappingType, FieldColor, token.Quote(k.String, '"'))
	case ir.IntType, ir.FloatType, ir.BoolType:
		return es.yamlScalar(k, 0)
	}
	return es.key(k)
}

// yamlScalar writes a leaf. Block scalar lines are indented to ind.
func (es *EncState) yamlScalar(y *ir.Node, ind int) error {
	switch y.Type {
	case ir.StringType:
		return es.yamlString(y, ind)
	case ir.BytesType:
		if y.Ann.Str == ir.StrHex {
			if err := es.degrade(y, "hex byte strings"); err != nil {
				return err
			}
		}
		s := base64.StdEncoding.EncodeToString(y.Bytes)
		if s == "" {
			s = `""`
		}
		if err := es.write(y.Type, TagColor, "!!binary "); err != nil {
			return err
		}
		return es.write(y.Type, ValueColor, s)
	}
	return es.scalar(y)
}

func (es *EncState) yamlString(y *ir.Node, ind int) error {
	s := y.String
	switch y.Ann.Str {
	case ir.StrBlock:
		if !strings.Contains(s, "\n") {
			break
		}
		if literalOK(s) {
			if es.flow {
				return errTooWide
			}
			return es.literal(s, ind)
		}
		if err := es.degrade(y, "block strings"); err != nil {
			return err
		}
	case ir.StrQuoted:
		return es.write(y.Type, ValueColor, token.Quote(s, '"'))
	case ir.StrPlain:
		if yamlPlainOK(s, es.flow) {
			return es.write(y.Type, ValueColor, s)
		}
		if err := es.degrade(y, "plain strings"); err != nil {
			return err
		}
		return es.write(y.Type, ValueColor, token.Quote(s, '"'))
	}
	if yamlPlainOK(s, es.flow) {
		return es.write(y.Type, ValueColor, s)
	}
	return es.write(y.Type, ValueColor, token.Quote(s, '"'))
}

// literalOK reports whether s reads back unchanged from a "|" or "|-"
// block scalar.
func literalOK(s string) bool {
	body := strings.TrimSuffix(s, "\n")
	if strings.HasSuffix(body, "\n") {
		return false
	}
	first := true
	for _, ln := range strings.Split(body, "\n") {
		if ln == "" {
			continue
		}
		if first && (ln[0] == ' ' || ln[0] == '\t') {
			return false
		}
		first = false
		for _, r := range ln {
			if r != '\t' && !unicode.IsPrint(r) {
				return false
			}
		}
	}
	return !first
}

func (es *EncState) literal(s string, ind int) error {
	ind0 := ind
	if ind0 <= 0 {
		ind0 = es.style.Indent
	}
	pad := strings.Repeat(" ", ind0)
	b := &strings.Builder{}
	body, clip := strings.CutSuffix(s, "\n")
	if clip {
		b.WriteString("|")
	} else {
		b.WriteString("|-")
	}
	for _, ln := range strings.Split(body, "\n") {
		b.WriteByte('\n')
		if ln != "" {
			b.WriteString(pad + ln)
		}
	}
	if err := es.writeRaw(ir.StringType, LiteralMultiColor, b.String()); err != nil {
		return err
	}
	es.open = true
	return nil
}

// yamlPlainOK reports whether s can be written unquoted and read back as
// the same string.
func yamlPlainOK(s string, flow bool) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return false
	}
	if strings.ContainsAny(s[:1], "-?:,[]{}#&*!|>'\"%@`") {
		return false
	}
	if strings.Contains(s, ": ") || strings.Contains(s, " #") || strings.HasSuffix(s, ":") {
		return false
	}
	if flow && strings.ContainsAny(s, ",[]{}") {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	switch strings.ToLower(s) {
	case "null", "~", "true", "false", "yes", "no", "on", "off", "y", "n",
		".inf", "+.inf", ".nan", "<<", "=":
		return false
	}
	c := s[0]
	if c == '+' || c == '.' {
		if len(s) == 1 {
			return true
		}
		c = s[1]
	}
	if '0' <= c && c <= '9' || c == '.' {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	return true
}
