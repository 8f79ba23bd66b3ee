package parse

import (
	"strings"

	"github.com/signadot/annotate/debug"
	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/token"
)

// Parse reads one document. The dialect defaults to relaxed.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{dialect: format.Relaxed, comments: true, maxDepth: DefaultMaxDepth}
	for _, f := range opts {
		f(pOpts)
	}
	if debug.Parse() {
		debug.Logf("parse %d bytes as %s", len(d), pOpts.dialect)
	}
	switch pOpts.dialect {
	case format.YAML:
		return parseYAML(d, pOpts)
	case format.Debug:
		return nil, &format.UnsupportedFeatureError{Dialect: format.Debug, Feature: "parsing"}
	}
	feat := pOpts.dialect.Features()
	p := &parser{
		s:    token.NewScanner(d, feat),
		feat: feat,
		opts: pOpts,
	}
	return p.document()
}

type parser struct {
	s    *token.Scanner
	feat *format.Features
	opts *parseOpts
	tok  *token.Token

	// pending holds comment lines not yet attached to a node.
	pending []string
	// last is the node which ended on the current line, if any; a comment
	// following it on that line trails it.
	last *ir.Node
}

func (p *parser) document() (*ir.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Type == token.TEOF {
		return nil, p.errorf(token.ErrEmptyDoc, "empty document", "value")
	}
	y, err := p.value(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Type != token.TEOF {
		return nil, p.errorf(token.ErrTrailing, "unexpected "+p.tok.String()+" after document", "end of input")
	}
	if footer := p.takePending(); len(footer) != 0 {
		y.Ann.Footer = append(y.Ann.Footer, footer...)
	}
	return y, nil
}

// advance moves to the next non-comment token, attaching the comments it
// passes.
func (p *parser) advance() error {
	for {
		tok, err := p.s.Next()
		if err != nil {
			return err
		}
		if tok.NLBefore {
			p.last = nil
		}
		if tok.Type != token.TComment {
			p.tok = tok
			return nil
		}
		if !p.opts.comments {
			continue
		}
		if p.last != nil {
			lc := strings.Join(tok.Lines, " ")
			if p.last.Ann.LineComment != "" {
				lc = p.last.Ann.LineComment + " " + lc
			}
			p.last.Ann.LineComment = lc
			continue
		}
		p.pending = append(p.pending, tok.Lines...)
	}
}

func (p *parser) takePending() []string {
	res := p.pending
	p.pending = nil
	return res
}

func (p *parser) errorf(err error, msg string, expected ...string) error {
	return token.NewParseError(p.s.Doc(), p.tok.Off, err, msg, expected...)
}

func (p *parser) unexpected(expected ...string) error {
	return p.errorf(token.ErrSyntax, "unexpected "+p.tok.String(), expected...)
}

func (p *parser) value(depth int) (*ir.Node, error) {
	if depth > p.opts.maxDepth {
		return nil, p.errorf(token.ErrDepth, "nesting exceeds depth limit")
	}
	isContainer := p.tok.Type == token.TLCurl || p.tok.Type == token.TLSquare
	if depth == 0 && isContainer {
		// the container's first element takes the document's leading
		// comments
		return p.container(depth, len(p.pending))
	}
	lead := p.takePending()
	var (
		y   *ir.Node
		err error
	)
	if isContainer {
		y, err = p.container(depth, 0)
		if err != nil {
			return nil, err
		}
	} else {
		if p.feat.Quoteless {
			p.tok = p.s.Unquoted(p.tok)
		}
		y, err = p.scalar()
		if err != nil {
			return nil, err
		}
	}
	if len(lead) != 0 {
		y.Ann.Comment = append(lead, y.Ann.Comment...)
	}
	return y, nil
}

func (p *parser) scalar() (*ir.Node, error) {
	var y *ir.Node
	tok := p.tok
	switch tok.Type {
	case token.TString:
		y = ir.FromString(tok.Text)
	case token.TMString:
		y = ir.FromString(tok.Text).WithStr(ir.StrBlock)
	case token.TUnquoted:
		y = ir.FromString(tok.Text).WithStr(ir.StrPlain)
	case token.TInteger:
		y = intNode(tok)
	case token.TFloat:
		y = ir.FromFloat(tok.Float)
	case token.TTrue:
		y = ir.FromBool(true)
	case token.TFalse:
		y = ir.FromBool(false)
	case token.TNull:
		y = ir.Null()
	default:
		return nil, p.unexpected("value")
	}
	p.last = y
	if err := p.advance(); err != nil {
		return nil, err
	}
	return y, nil
}

func intNode(tok *token.Token) *ir.Node {
	var y *ir.Node
	if tok.Unsigned {
		y = ir.FromUint(tok.Uint)
	} else {
		y = ir.FromInt(tok.Int)
	}
	return y.WithBase(tok.Base)
}

// container parses a mapping or sequence. The first nLead pending comment
// lines were seen before the opening bracket; they lead the first element,
// or the container itself when it is empty.
func (p *parser) container(depth, nLead int) (*ir.Node, error) {
	var (
		y   *ir.Node
		end token.TokenType
	)
	if p.tok.Type == token.TLCurl {
		y, end = ir.NewMapping(), token.TRCurl
	} else {
		y, end = ir.NewSequence(), token.TRSquare
	}
	p.last = nil
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.Type != end {
		if y.Type == ir.MappingType {
			if err := p.entry(y, depth); err != nil {
				return nil, err
			}
		} else {
			v, err := p.value(depth + 1)
			if err != nil {
				return nil, err
			}
			y.Append(v)
		}
		switch p.tok.Type {
		case token.TComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type == end && !p.feat.TrailingCommas {
				return nil, p.unexpected(p.elementName(y))
			}
		case end:
		default:
			if p.feat.OptionalCommas && p.tok.NLBefore {
				continue
			}
			return nil, p.unexpected("','", end.String())
		}
	}
	rest := p.takePending()
	if len(y.Values) == 0 && nLead > 0 {
		y.Ann.Comment = rest[:nLead]
		rest = rest[nLead:]
	}
	if len(rest) != 0 {
		y.Ann.Footer = rest
	}
	p.last = y
	if err := p.advance(); err != nil {
		return nil, err
	}
	return y, nil
}

func (p *parser) elementName(y *ir.Node) string {
	if y.Type == ir.MappingType {
		return "key"
	}
	return "value"
}

func (p *parser) entry(y *ir.Node, depth int) error {
	k, err := p.key()
	if err != nil {
		return err
	}
	if p.tok.Type != token.TColon {
		return p.unexpected("':'")
	}
	p.last = nil
	if err := p.advance(); err != nil {
		return err
	}
	v, err := p.value(depth + 1)
	if err != nil {
		return err
	}
	y.Set(k, v)
	return nil
}

func (p *parser) key() (*ir.Node, error) {
	tok := p.tok
	var k *ir.Node
	switch tok.Type {
	case token.TString:
		k = ir.FromString(tok.Text)
	case token.TLiteral:
		if !p.feat.BareKeys {
			return nil, p.unexpected("string")
		}
		k = ir.FromString(tok.Text)
	case token.TNull:
		if !p.feat.BareKeys {
			return nil, p.unexpected("string")
		}
		k = ir.FromString(string(tok.Bytes))
	case token.TTrue, token.TFalse:
		switch {
		case p.feat.ScalarKeys:
			k = ir.FromBool(tok.Type == token.TTrue)
		case p.feat.BareKeys:
			k = ir.FromString(string(tok.Bytes))
		default:
			return nil, p.unexpected("string")
		}
	case token.TInteger:
		if !p.feat.ScalarKeys {
			return nil, p.unexpected(p.keyNames()...)
		}
		k = intNode(tok)
	case token.TFloat:
		if !p.feat.ScalarKeys {
			return nil, p.unexpected(p.keyNames()...)
		}
		k = ir.FromFloat(tok.Float)
	default:
		return nil, p.unexpected(p.keyNames()...)
	}
	p.last = nil
	if err := p.advance(); err != nil {
		return nil, err
	}
	return k, nil
}

func (p *parser) keyNames() []string {
	res := []string{"string"}
	if p.feat.BareKeys {
		res = append(res, "identifier")
	}
	if p.feat.ScalarKeys {
		res = append(res, "number")
	}
	return res
}
