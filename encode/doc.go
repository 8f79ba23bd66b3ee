// Package encode writes annotated trees as text in any of the dialects of
// package format.
//
// # Usage
//
//	node := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: ir.FromString("name"), Val: ir.FromString("alice")},
//	})
//	err := encode.Encode(node, os.Stdout, encode.EncodeDialect(format.Relaxed))
//
// Containers are written on one line when they fit within Style.MaxWidth
// and carry no comments, and one entry per line otherwise. Hints and
// comments a dialect cannot express are dropped, or rejected with an
// UnsupportedFeatureError under EncodeFidelity.
//
// Styles may be loaded from TOML with LoadStyle:
//
//	indent = 4
//	sort_keys = true
//	max_width = 100
package encode
