package annotate

import (
	"bytes"
	"io"

	"github.com/signadot/annotate/encode"
	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/gomap"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/parse"
)

// ToText renders node in dialect d. Extra options apply after the dialect
// and style, so EncodeFidelity and EncodeColors may be passed here.
func ToText(node *ir.Node, d format.Dialect, s encode.Style, opts ...encode.EncodeOption) (string, error) {
	buf := &bytes.Buffer{}
	if err := Write(buf, node, d, s, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write is ToText to a writer.
func Write(w io.Writer, node *ir.Node, d format.Dialect, s encode.Style, opts ...encode.EncodeOption) error {
	eOpts := append([]encode.EncodeOption{encode.EncodeDialect(d), encode.EncodeStyle(s)}, opts...)
	return encode.Encode(node, w, eOpts...)
}

// FromText parses one document of dialect d, keeping its comments.
func FromText(text []byte, d format.Dialect, opts ...parse.ParseOption) (*ir.Node, error) {
	pOpts := append([]parse.ParseOption{parse.ParseDialect(d)}, opts...)
	return parse.Parse(text, pOpts...)
}

// Serialize converts a Go value to a tree; see gomap.ToIR.
func Serialize(v any, opts ...gomap.MapOption) (*ir.Node, error) {
	return gomap.ToIR(v, opts...)
}

// Materialize builds a T from node, failing on unknown keys and missing
// fields; see gomap.FromIR.
func Materialize[T any](node *ir.Node, opts ...gomap.UnmapOption) (T, error) {
	var res T
	if err := gomap.FromIR(node, &res, opts...); err != nil {
		var zero T
		return zero, err
	}
	return res, nil
}

// MaterializeTolerant builds a T from node, skipping unknown keys and
// defaulting missing fields; see gomap.FromIRTolerant.
func MaterializeTolerant[T any](node *ir.Node, opts ...gomap.UnmapOption) (T, error) {
	var res T
	if err := gomap.FromIRTolerant(node, &res, opts...); err != nil {
		var zero T
		return zero, err
	}
	return res, nil
}

// MaterializeDyn drives a target chosen at run time with node; see
// gomap.FromIRDyn.
func MaterializeDyn(node *ir.Node, t gomap.Target, opts ...gomap.UnmapOption) error {
	return gomap.FromIRDyn(node, t, opts...)
}

// Marshal serializes v and renders it in dialect d.
func Marshal(v any, d format.Dialect, s encode.Style) ([]byte, error) {
	node, err := gomap.ToIR(v)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := Write(buf, node, d, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses text of dialect d into the value ptr points to.
func Unmarshal(text []byte, d format.Dialect, ptr any) error {
	node, err := parse.Parse(text, parse.ParseDialect(d), parse.ParseComments(false))
	if err != nil {
		return err
	}
	return gomap.FromIR(node, ptr)
}
