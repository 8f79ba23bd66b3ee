package format

import (
	"errors"
	"fmt"
)

var ErrUnsupported = errors.New("unsupported feature")

// UnsupportedFeatureError reports that a dialect cannot represent something
// it was asked to: a display hint, a comment, a key type, or parsing at all.
// Path locates the node concerned, if any.
type UnsupportedFeatureError struct {
	Dialect Dialect
	Feature string
	Path    string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s does not support %s", ErrUnsupported, e.Dialect, e.Feature)
	}
	return fmt.Sprintf("%s: %s does not support %s at %s", ErrUnsupported, e.Dialect, e.Feature, e.Path)
}

func (e *UnsupportedFeatureError) Unwrap() error {
	return ErrUnsupported
}
