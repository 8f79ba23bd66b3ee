package format

// Base is an integer literal radix.
type Base int

const (
	Dec Base = 10
	Hex Base = 16
	Oct Base = 8
	Bin Base = 2
)

// CommentStyle is a comment lead understood by a dialect.
type CommentStyle int

const (
	SlashSlash CommentStyle = iota
	Hash
	Block
)

// Features describes what a dialect's grammar can express. Emitters consult
// it to degrade hints the dialect cannot represent; the parser consults it
// to reject syntax the dialect does not admit.
//
// ScalarKeys admits number and boolean mapping keys as such rather than as
// quoted strings. LenientNumbers admits a leading '+' and a leading or
// trailing decimal point. NumericLimits quotes integers which a double
// cannot hold exactly. Quoteless admits string values written without
// quotes, which run to the end of the line.
type Features struct {
	Comments        []CommentStyle
	StandardComment CommentStyle
	Literals        []Base
	BareKeys        bool
	ScalarKeys      bool
	TrailingCommas  bool
	OptionalCommas  bool
	SingleQuotes    bool
	LineContinue    bool
	TripleQuotes    bool
	NonFinite       bool
	LenientNumbers  bool
	CompactFlow     bool
	NumericLimits   bool
	Quoteless       bool
}

var features = map[Dialect]*Features{
	Strict: {
		Literals:      []Base{Dec},
		CompactFlow:   true,
		NumericLimits: true,
	},
	Relaxed: {
		Comments:        []CommentStyle{SlashSlash, Hash, Block},
		StandardComment: SlashSlash,
		Literals:        []Base{Dec, Hex, Oct, Bin},
		BareKeys:        true,
		ScalarKeys:      true,
		TrailingCommas:  true,
		SingleQuotes:    true,
		NonFinite:       true,
		LenientNumbers:  true,
	},
	JSON5: {
		Comments:        []CommentStyle{SlashSlash, Block},
		StandardComment: SlashSlash,
		Literals:        []Base{Dec, Hex},
		BareKeys:        true,
		TrailingCommas:  true,
		SingleQuotes:    true,
		LineContinue:    true,
		NonFinite:       true,
		LenientNumbers:  true,
	},
	YAML: {
		Comments:        []CommentStyle{Hash},
		StandardComment: Hash,
		Literals:        []Base{Dec, Hex, Oct},
		BareKeys:        true,
		ScalarKeys:      true,
		NonFinite:       true,
	},
	Hjson: {
		Comments:        []CommentStyle{Hash, SlashSlash, Block},
		StandardComment: Hash,
		Literals:        []Base{Dec},
		BareKeys:        true,
		TrailingCommas:  true,
		OptionalCommas:  true,
		TripleQuotes:    true,
		Quoteless:       true,
	},
	Debug: {
		Comments:        []CommentStyle{SlashSlash},
		StandardComment: SlashSlash,
		Literals:        []Base{Dec, Hex, Oct, Bin},
		BareKeys:        true,
		ScalarKeys:      true,
		NonFinite:       true,
	},
}

// Features returns the read-only feature table for d.
func (d Dialect) Features() *Features {
	f, ok := features[d]
	if !ok {
		return features[Strict]
	}
	return f
}

func (f *Features) HasComments() bool { return len(f.Comments) != 0 }

func (f *Features) AllowsComment(c CommentStyle) bool {
	for _, x := range f.Comments {
		if x == c {
			return true
		}
	}
	return false
}

func (f *Features) AllowsLiteral(b Base) bool {
	for _, x := range f.Literals {
		if x == b {
			return true
		}
	}
	return false
}

func (b Base) String() string {
	switch b {
	case Dec:
		return "decimal"
	case Hex:
		return "hexadecimal"
	case Oct:
		return "octal"
	case Bin:
		return "binary"
	}
	return "default"
}
