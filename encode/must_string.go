package encode

import (
	"bytes"

	"github.com/signadot/annotate/ir"
)

// MustString renders node in the strict dialect with the default style,
// panicking on error.
func MustString(node *ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return buf.String()
}
