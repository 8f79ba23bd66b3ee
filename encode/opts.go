package encode

import "github.com/signadot/annotate/format"

type EncodeOption func(*EncState)

func EncodeDialect(d format.Dialect) EncodeOption {
	return func(es *EncState) { es.dialect = d }
}

func EncodeStyle(s Style) EncodeOption {
	return func(es *EncState) { es.style = s }
}

func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.style.Indent = n }
}

func EncodeSortKeys(v bool) EncodeOption {
	return func(es *EncState) { es.style.SortKeys = v }
}

func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.style.Comments = v }
}

func EncodeMaxWidth(n int) EncodeOption {
	return func(es *EncState) { es.style.MaxWidth = n }
}

// EncodeColors sets the palette used when the style asks for color. A nil
// palette means NewColors().
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.colors = c }
}

// EncodeFidelity makes hints and comments the dialect cannot represent an
// UnsupportedFeatureError instead of being dropped or degraded.
func EncodeFidelity(v bool) EncodeOption {
	return func(es *EncState) { es.fidelity = v }
}

// EncodeNumericLimits controls whether integers beyond 2^53 in magnitude
// are written as strings in dialects which ask for it. It is on by default.
func EncodeNumericLimits(v bool) EncodeOption {
	return func(es *EncState) { es.noLimits = !v }
}

func EncodeMaxDepth(n int) EncodeOption {
	return func(es *EncState) { es.maxDepth = n }
}

// DialectFromOpts extracts the dialect from encode options.
func DialectFromOpts(opts ...EncodeOption) format.Dialect {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.dialect
}
