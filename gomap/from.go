package gomap

import (
	"github.com/signadot/annotate/debug"
	"github.com/signadot/annotate/ir"
)

// FromIR stores node into the value ptr points to.
//
// Mapping keys which match no struct field are an error, as is a struct
// field missing from the mapping unless it is a pointer or interface, or is
// tagged omitempty or optional. Optional fields take their default= value.
// A kind mismatch reports the tree path at which it occurred.
func FromIR(node *ir.Node, ptr any, opts ...UnmapOption) error {
	return fromIR(node, ptr, newUnmapConfig(opts))
}

// FromIRTolerant is FromIR which skips unknown mapping keys and fills every
// missing field from its default= tag or the zero value. On trees FromIR
// accepts the two give the same result.
func FromIRTolerant(node *ir.Node, ptr any, opts ...UnmapOption) error {
	cfg := newUnmapConfig(opts)
	cfg.tolerant = true
	return fromIR(node, ptr, cfg)
}

func fromIR(node *ir.Node, ptr any, cfg *unmapConfig) error {
	val, err := targetValue(ptr)
	if err != nil {
		return err
	}
	if debug.Map() {
		debug.Logf("materialize %s into %s (tolerant=%t)", node.Type, val.Type(), cfg.tolerant)
	}
	return walk(node, newValueTarget(val, cfg, nil), nil, 0, cfg.maxDepth)
}

// FromIRDyn drives t with node. It is the same walk FromIR performs, with
// the target supplied at run time: ValueTarget gives FromIR's behavior,
// AnyTarget and TreeTarget build plain values and trees.
func FromIRDyn(node *ir.Node, t Target, opts ...UnmapOption) error {
	if t == nil {
		return &MaterializeError{Msg: "nil target", Err: ErrTarget}
	}
	cfg := newUnmapConfig(opts)
	return walk(node, t, nil, 0, cfg.maxDepth)
}
