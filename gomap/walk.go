package gomap

import (
	"errors"
	"fmt"

	"github.com/signadot/annotate/debug"
	"github.com/signadot/annotate/ir"
)

// Target receives a tree from the walker, one call per node. It is the
// object-safe description of a materialization target: FromIRDyn drives any
// implementation without knowing the Go type being built.
//
// Errors returned by a Target are reported with the tree path of the node
// being delivered. A *MaterializeError without a path gets one.
type Target interface {
	SetNull() error
	SetBool(bool) error
	SetInt(int64) error
	SetUint(uint64) error
	SetFloat(float64) error
	SetString(string) error
	SetBytes([]byte) error
	// BeginSeq starts a sequence of n elements.
	BeginSeq(n int) (SeqTarget, error)
	// BeginMap starts a mapping of n entries.
	BeginMap(n int) (MapTarget, error)
}

type SeqTarget interface {
	// Elem returns the target of element i. A nil Target skips the
	// element.
	Elem(i int) (Target, error)
	End() error
}

type MapTarget interface {
	// Entry returns the target of the value under key. A nil Target skips
	// the entry.
	Entry(key *ir.Node) (Target, error)
	End() error
}

// NodeTarget is implemented by targets which want to see a node before the
// walker descends into it. When handled is true the walker does not call
// any other method for the node.
type NodeTarget interface {
	SetNode(node *ir.Node) (handled bool, err error)
}

// walk drives t with node. All materialization paths go through here.
func walk(node *ir.Node, t Target, path ir.Path, depth, maxDepth int) error {
	if node == nil {
		return &MaterializeError{Path: path.String(), Msg: "nil node", Err: ErrTarget}
	}
	if depth > maxDepth {
		return &MaterializeError{
			Path: path.String(),
			Msg:  fmt.Sprintf("more than %d levels", maxDepth),
			Err:  ErrDepth,
		}
	}
	if nt, ok := t.(NodeTarget); ok {
		handled, err := nt.SetNode(node)
		if err != nil || handled {
			return located(err, path)
		}
	}
	var err error
	switch node.Type {
	case ir.NullType:
		err = t.SetNull()
	case ir.BoolType:
		err = t.SetBool(node.Bool)
	case ir.IntType:
		if node.Unsigned {
			err = t.SetUint(node.Uint)
		} else {
			err = t.SetInt(node.Int)
		}
	case ir.FloatType:
		err = t.SetFloat(node.Float)
	case ir.StringType:
		err = t.SetString(node.String)
	case ir.BytesType:
		err = t.SetBytes(node.Bytes)
	case ir.SequenceType:
		return walkSeq(node, t, path, depth, maxDepth)
	case ir.MappingType:
		return walkMap(node, t, path, depth, maxDepth)
	default:
		err = &MaterializeError{Msg: fmt.Sprintf("unknown node type %s", node.Type), Err: ErrTarget}
	}
	return located(err, path)
}

func walkSeq(node *ir.Node, t Target, path ir.Path, depth, maxDepth int) error {
	st, err := t.BeginSeq(len(node.Values))
	if err != nil {
		return located(err, path)
	}
	for i, v := range node.Values {
		et, err := st.Elem(i)
		if err != nil {
			return located(err, path.Index(i))
		}
		if et == nil {
			continue
		}
		if err := walk(v, et, path.Index(i), depth+1, maxDepth); err != nil {
			return err
		}
	}
	return located(st.End(), path)
}

func walkMap(node *ir.Node, t Target, path ir.Path, depth, maxDepth int) error {
	mt, err := t.BeginMap(len(node.Values))
	if err != nil {
		return located(err, path)
	}
	for i, v := range node.Values {
		k := node.Fields[i]
		et, err := mt.Entry(k)
		if err != nil {
			return located(err, path.Field(k))
		}
		if et == nil {
			if debug.Map() {
				debug.Logf("skipping %s", path.Field(k))
			}
			continue
		}
		if err := walk(v, et, path.Field(k), depth+1, maxDepth); err != nil {
			return err
		}
	}
	return located(mt.End(), path)
}

// located gives err the tree path it occurred at.
func located(err error, path ir.Path) error {
	if err == nil {
		return nil
	}
	var me *MaterializeError
	if errors.As(err, &me) {
		if me.Path == "" {
			me.Path = path.String()
		}
		return err
	}
	return &MaterializeError{Path: path.String(), Err: err}
}
