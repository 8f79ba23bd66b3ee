package parse

import (
	"github.com/signadot/annotate/format"
)

// DefaultMaxDepth bounds container nesting unless ParseMaxDepth says
// otherwise.
const DefaultMaxDepth = 128

type parseOpts struct {
	dialect  format.Dialect
	comments bool
	maxDepth int
}

type ParseOption func(*parseOpts)

func ParseDialect(d format.Dialect) ParseOption {
	return func(o *parseOpts) { o.dialect = d }
}

func ParseStrict() ParseOption {
	return ParseDialect(format.Strict)
}

func ParseRelaxed() ParseOption {
	return ParseDialect(format.Relaxed)
}

func ParseYAML() ParseOption {
	return ParseDialect(format.YAML)
}

// ParseComments controls whether comments are attached to the result.
// Comments are always accepted where the dialect allows them.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// ParseMaxDepth sets the deepest container nesting accepted; deeper input
// fails with token.ErrDepth.
func ParseMaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}
