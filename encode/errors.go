package encode

import (
	"errors"

	"github.com/signadot/annotate/format"
)

var (
	ErrEncoding = errors.New("encoding error")
	ErrDepth    = errors.New("nesting too deep")
	ErrStyle    = errors.New("bad style")

	errTooWide = errors.New("too wide")
)

// UnsupportedFeatureError is returned under EncodeFidelity when a node asks
// for something the dialect cannot write.
type UnsupportedFeatureError = format.UnsupportedFeatureError
