// Package gomap converts between Go values and annotated trees.
//
// # Usage
//
//	type Server struct {
//	    Host string `anno:"host,comment='where to listen'"`
//	    Port int    `anno:"port,default=8080,optional"`
//	    Mode int    `anno:"mode,hex"`
//	}
//
//	// Go value to tree, with the tag's comments and hints attached
//	node, err := gomap.ToIR(Server{Host: "localhost", Port: 80, Mode: 0x1f})
//
//	// tree to Go value; unknown keys and missing fields are errors
//	var s Server
//	err = gomap.FromIR(node, &s)
//
//	// unknown keys skipped, missing fields defaulted
//	err = gomap.FromIRTolerant(node, &s)
//
//	// the target chosen at run time
//	var at gomap.AnyTarget
//	err = gomap.FromIRDyn(node, &at)
//
// All three materialization entry points run one walk over the tree which
// drives a Target. A mismatch between the tree and the target is reported
// as a *MaterializeError carrying the tree path of the offending node.
//
// Interface types registered with RegisterEnum are sum types: a unit
// variant is its bare name and any other variant a single-entry mapping
// from its name to its payload.
//
// # Related Packages
//
//   - github.com/signadot/annotate/ir - the tree
//   - github.com/signadot/annotate/encode - rendering trees as text
package gomap
