// Package annotate converts between Go values, annotated trees and text.
//
// A tree (ir.Node) carries, besides its content, comments and display
// hints: the base of an integer, the form of a string or byte string and
// the layout of a container. Annotations never take part in equality.
//
// The text side supports six dialects (see format.Dialect): strict JSON, a
// relaxed JSON with comments, bare keys and trailing commas, a JSON5-like
// dialect, a YAML-like dialect, a comment-tolerant Hjson-like dialect, and
// an emit-only debug dialect. Hints a dialect cannot express are degraded
// unless encode.EncodeFidelity asks for an error.
//
// # Usage
//
//	type Limits struct {
//	    Mask  int    `anno:"mask,hex,comment=' permission bits'"`
//	    Label string `anno:"label,optional,default=none"`
//	}
//
//	node, err := annotate.Serialize(Limits{Mask: 0x1ff})
//	text, err := annotate.ToText(node, format.JSON5, encode.DefaultStyle())
//	// {
//	//   // permission bits
//	//   mask: 0x1FF,
//	//   label: ""
//	// }
//
//	node, err = annotate.FromText([]byte(text), format.JSON5)
//	lim, err := annotate.Materialize[Limits](node)
//
// # Related Packages
//
//   - github.com/signadot/annotate/ir - the tree
//   - github.com/signadot/annotate/parse - text to tree
//   - github.com/signadot/annotate/encode - tree to text
//   - github.com/signadot/annotate/gomap - Go values to and from trees
package annotate
