package parse

import (
	"encoding/base64"
	"errors"
	"math"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/lexer"
	yparser "github.com/goccy/go-yaml/parser"
	ytoken "github.com/goccy/go-yaml/token"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/token"
)

type yamlParser struct {
	doc     *token.PosDoc
	opts    *parseOpts
	anchors map[string]*ir.Node
}

func parseYAML(d []byte, opts *parseOpts) (*ir.Node, error) {
	y := &yamlParser{doc: token.NewPosDoc(d), opts: opts, anchors: map[string]*ir.Node{}}
	if err := y.checkDepth(d); err != nil {
		return nil, err
	}
	mode := yparser.Mode(0)
	if opts.comments {
		mode = yparser.ParseComments
	}
	f, err := yparser.ParseBytes(d, mode)
	if err != nil {
		return nil, y.fromYAMLError(err)
	}
	var body ast.Node
	for _, doc := range f.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		if body != nil {
			return nil, y.errAt(doc.Body.GetToken(), token.ErrTrailing, "more than one document")
		}
		body = doc.Body
	}
	if body == nil {
		return nil, token.NewParseError(y.doc, len(d), token.ErrEmptyDoc, "empty document", "value")
	}
	return y.node(body, 0)
}

// checkDepth bounds the nesting of d before the YAML parser, which has no
// limit of its own, builds a tree for it. Flow nesting is counted by open
// brackets and block nesting by the columns of sequence entries and mapping
// keys. The count never exceeds the real depth; node checks it exactly.
func (y *yamlParser) checkDepth(d []byte) error {
	var (
		flow int
		cols []int
	)
	for _, tk := range lexer.Tokenize(string(d)) {
		switch tk.Type {
		case ytoken.DocumentHeaderType:
			flow, cols = 0, cols[:0]
			continue
		case ytoken.SequenceStartType, ytoken.MappingStartType:
			flow++
		case ytoken.SequenceEndType, ytoken.MappingEndType:
			if flow > 0 {
				flow--
			}
			continue
		case ytoken.SequenceEntryType, ytoken.MappingValueType:
			if flow > 0 {
				continue
			}
			col := column(tk)
			if tk.Type == ytoken.MappingValueType && tk.Prev != nil {
				col = column(tk.Prev)
			}
			for len(cols) > 0 && cols[len(cols)-1] > col {
				cols = cols[:len(cols)-1]
			}
			if len(cols) == 0 || cols[len(cols)-1] < col {
				cols = append(cols, col)
			}
		default:
			continue
		}
		if flow+len(cols) > y.opts.maxDepth+1 {
			return y.errAt(tk, token.ErrDepth, "nesting exceeds depth limit")
		}
	}
	return nil
}

type tokenError interface {
	GetToken() *ytoken.Token
}

type messageError interface {
	GetMessage() string
}

func (y *yamlParser) fromYAMLError(err error) error {
	var te tokenError
	if !errors.As(err, &te) || te.GetToken() == nil {
		return &token.ParseError{Line: 1, Col: 1, Msg: err.Error(), Err: err}
	}
	msg := err.Error()
	var me messageError
	if errors.As(err, &me) {
		msg = me.GetMessage()
	}
	return y.errAt(te.GetToken(), err, msg)
}

func (y *yamlParser) errAt(tk *ytoken.Token, err error, msg string) *token.ParseError {
	off := 0
	if tk != nil && tk.Position != nil {
		off = y.doc.Offset(tk.Position.Line, tk.Position.Column)
	}
	return token.NewParseError(y.doc, off, err, msg)
}

func (y *yamlParser) node(n ast.Node, depth int) (*ir.Node, error) {
	if depth > y.opts.maxDepth {
		return nil, y.errAt(n.GetToken(), token.ErrDepth, "nesting exceeds depth limit")
	}
	var (
		res *ir.Node
		err error
	)
	switch n := n.(type) {
	case *ast.NullNode:
		res = ir.Null()
	case *ast.BoolNode:
		res = ir.FromBool(n.Value)
	case *ast.IntegerNode:
		res, err = y.integer(n)
	case *ast.FloatNode:
		res = ir.FromFloat(n.Value)
	case *ast.InfinityNode:
		res = ir.FromFloat(n.Value)
	case *ast.NanNode:
		res = ir.FromFloat(math.NaN())
	case *ast.StringNode:
		res = ir.FromString(n.Value)
		if n.Token != nil && (n.Token.Type == ytoken.DoubleQuoteType || n.Token.Type == ytoken.SingleQuoteType) {
			res.WithStr(ir.StrQuoted)
		}
	case *ast.LiteralNode:
		res = ir.FromString(n.Value.Value).WithStr(ir.StrBlock)
	case *ast.TagNode:
		res, err = y.tagged(n, depth)
	case *ast.AnchorNode:
		res, err = y.node(n.Value, depth)
		if err == nil {
			y.anchors[n.Name.GetToken().Value] = res
		}
	case *ast.AliasNode:
		name := n.Value.GetToken().Value
		target, ok := y.anchors[name]
		if !ok {
			return nil, y.errAt(n.GetToken(), token.ErrSyntax, "unknown alias "+name)
		}
		res = target.Strip()
	case *ast.MappingNode:
		res = ir.NewMapping()
		if n.IsFlowStyle {
			res.WithLayout(ir.LayoutFlow)
		}
		for _, mv := range n.Values {
			if err := y.entry(res, mv, depth); err != nil {
				return nil, err
			}
		}
	case *ast.MappingValueNode:
		res = ir.NewMapping()
		err = y.entry(res, n, depth)
	case *ast.SequenceNode:
		res = ir.NewSequence()
		if n.IsFlowStyle {
			res.WithLayout(ir.LayoutFlow)
		}
		for _, e := range n.Values {
			v, err := y.node(e, depth+1)
			if err != nil {
				return nil, err
			}
			y.comments(v, e.GetComment(), line(e.GetToken()), isCollection(e))
			res.Append(v)
		}
	default:
		return nil, &format.UnsupportedFeatureError{
			Dialect: format.YAML,
			Feature: n.Type().String() + " nodes",
		}
	}
	if err != nil {
		return nil, err
	}
	if depth == 0 {
		y.comments(res, n.GetComment(), line(n.GetToken()), false)
	}
	return res, nil
}

func (y *yamlParser) entry(m *ir.Node, mv *ast.MappingValueNode, depth int) error {
	k, err := y.key(mv.Key)
	if err != nil {
		return err
	}
	v, err := y.node(mv.Value, depth+1)
	if err != nil {
		return err
	}
	kl := line(mv.Key.GetToken())
	y.comments(v, mv.GetComment(), kl, false)
	y.comments(v, mv.Key.GetComment(), kl, false)
	y.comments(v, mv.Value.GetComment(), kl, isCollection(mv.Value))
	m.Set(k, v)
	return nil
}

func (y *yamlParser) key(n ast.Node) (*ir.Node, error) {
	switch n := n.(type) {
	case *ast.StringNode:
		return ir.FromString(n.Value), nil
	case *ast.IntegerNode:
		return y.integer(n)
	case *ast.FloatNode:
		return ir.FromFloat(n.Value), nil
	case *ast.BoolNode:
		return ir.FromBool(n.Value), nil
	case *ast.NullNode:
		return nil, y.errAt(n.GetToken(), ir.ErrBadKey, "null mapping key")
	case *ast.MappingKeyNode, *ast.MappingNode, *ast.SequenceNode:
		return nil, &format.UnsupportedFeatureError{Dialect: format.YAML, Feature: "complex mapping keys"}
	}
	tk := n.GetToken()
	if tk == nil {
		return nil, y.errAt(nil, ir.ErrBadKey, "bad mapping key")
	}
	return ir.FromString(tk.Value), nil
}

func (y *yamlParser) integer(n *ast.IntegerNode) (*ir.Node, error) {
	var res *ir.Node
	switch v := n.Value.(type) {
	case int:
		res = ir.FromInt(int64(v))
	case int64:
		res = ir.FromInt(v)
	case uint64:
		res = ir.FromUint(v)
	default:
		return nil, y.errAt(n.Token, token.ErrNumber, "bad integer")
	}
	if n.Token != nil {
		res.WithBase(literalBase(n.Token.Value))
	}
	return res, nil
}

func literalBase(lit string) format.Base {
	lit = strings.TrimLeft(lit, "+-")
	switch {
	case strings.HasPrefix(lit, "0x"), strings.HasPrefix(lit, "0X"):
		return format.Hex
	case strings.HasPrefix(lit, "0o"), strings.HasPrefix(lit, "0O"):
		return format.Oct
	case strings.HasPrefix(lit, "0b"), strings.HasPrefix(lit, "0B"):
		return format.Bin
	case len(lit) > 1 && lit[0] == '0':
		return format.Oct
	}
	return format.Dec
}

func (y *yamlParser) tagged(n *ast.TagNode, depth int) (*ir.Node, error) {
	if n.Start == nil || n.Start.Value != "!!binary" {
		return y.node(n.Value, depth)
	}
	var text string
	switch v := n.Value.(type) {
	case *ast.StringNode:
		text = v.Value
	case *ast.LiteralNode:
		text = v.Value.Value
	default:
		return nil, y.errAt(n.Start, token.ErrLiteral, "!!binary requires a string")
	}
	text = strings.Join(strings.Fields(text), "")
	b, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, y.errAt(n.Start, err, "bad !!binary value")
	}
	return ir.FromBytes(b), nil
}

// comments attaches the comment group cg to v: comments on line ln are its
// line comment and earlier ones lead it. With trailingOnly, which is used
// for collections whose children carry their own comments, only the line
// comment is taken.
func (y *yamlParser) comments(v *ir.Node, cg *ast.CommentGroupNode, ln int, trailingOnly bool) {
	if cg == nil || !y.opts.comments {
		return
	}
	for _, c := range cg.Comments {
		if c == nil || c.Token == nil {
			continue
		}
		text := strings.TrimPrefix(c.Token.Value, "#")
		if ln != 0 && line(c.Token) == ln {
			if v.Ann.LineComment != "" {
				text = v.Ann.LineComment + " " + text
			}
			v.Ann.LineComment = text
			continue
		}
		if trailingOnly {
			continue
		}
		v.Ann.Comment = append(v.Ann.Comment, text)
	}
}

func isCollection(n ast.Node) bool {
	switch n.(type) {
	case *ast.MappingNode, *ast.SequenceNode, *ast.MappingValueNode:
		return true
	}
	return false
}

func column(tk *ytoken.Token) int {
	if tk == nil || tk.Position == nil {
		return 0
	}
	return tk.Position.Column
}

func line(tk *ytoken.Token) int {
	if tk == nil || tk.Position == nil {
		return 0
	}
	return tk.Position.Line
}
