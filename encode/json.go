package encode

import (
	"encoding/hex"
	"fmt"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/token"
)

// document writes the brace family dialects: strict, relaxed, json5-like,
// comment-tolerant and debug.
func (es *EncState) document(y *ir.Node) error {
	want, err := es.wantComments(y)
	if err != nil {
		return err
	}
	if want {
		if err := es.leading(y.Type, y.Ann.Comment); err != nil {
			return err
		}
	}
	if err := es.value(y); err != nil {
		return err
	}
	if !want {
		return nil
	}
	if err := es.lineComment(y.Type, y.Ann.LineComment); err != nil {
		return err
	}
	if y.Type.IsLeaf() {
		return es.footer(y.Type, y.Ann.Footer)
	}
	return nil
}

func (es *EncState) value(y *ir.Node) error {
	if err := es.enter(y); err != nil {
		return err
	}
	defer es.leave()
	if y.Type.IsLeaf() {
		return es.scalar(y)
	}
	if es.flow {
		return es.flowContainer(y)
	}
	flow, err := es.chooseFlow(y, (*EncState).flowContainer)
	if err != nil {
		return err
	}
	if !flow {
		return es.blockContainer(y)
	}
	es.flow = true
	err = es.flowContainer(y)
	es.flow = false
	return err
}

func brackets(y *ir.Node) (string, string) {
	if y.Type == ir.MappingType {
		return "{", "}"
	}
	return "[", "]"
}

func (es *EncState) flowContainer(y *ir.Node) error {
	open, end := brackets(y)
	sep, colon := ", ", ": "
	if es.feat.CompactFlow {
		sep, colon = ",", ":"
	}
	if len(y.Ann.Footer) != 0 {
		if err := es.noFlowComments(y); err != nil {
			return err
		}
	}
	if err := es.write(y.Type, SepColor, open); err != nil {
		return err
	}
	for i, idx := range es.order(y) {
		if i > 0 {
			if err := es.write(y.Type, SepColor, sep); err != nil {
				return err
			}
		}
		v := y.Values[idx]
		if y.Type == ir.MappingType {
			k := y.Fields[idx]
			if err := es.noFlowComments(k); err != nil {
				return err
			}
			if err := es.key(k); err != nil {
				return err
			}
			if err := es.write(y.Type, SepColor, colon); err != nil {
				return err
			}
		}
		if err := es.noFlowComments(v); err != nil {
			return err
		}
		if err := es.value(v); err != nil {
			return err
		}
	}
	return es.write(y.Type, SepColor, end)
}

// noFlowComments fails the flow attempt when y has comments to write.
func (es *EncState) noFlowComments(y *ir.Node) error {
	want, err := es.wantComments(y)
	if err != nil {
		return err
	}
	if want {
		return errTooWide
	}
	return nil
}

func (es *EncState) blockContainer(y *ir.Node) error {
	open, end := brackets(y)
	commas := !es.feat.OptionalCommas
	if err := es.write(y.Type, SepColor, open); err != nil {
		return err
	}
	es.depth++
	order := es.order(y)
	for i, idx := range order {
		if err := es.writeNL(); err != nil {
			return err
		}
		v := y.Values[idx]
		var k *ir.Node
		var lead []string
		var line []string
		if y.Type == ir.MappingType {
			k = y.Fields[idx]
			want, err := es.wantComments(k)
			if err != nil {
				return err
			}
			if want {
				lead = append(lead, k.Ann.Comment...)
				line = append(line, k.Ann.LineComment)
			}
		}
		want, err := es.wantComments(v)
		if err != nil {
			return err
		}
		if want {
			lead = append(lead, v.Ann.Comment...)
			line = append(line, v.Ann.LineComment)
		}
		if err := es.leading(v.Type, lead); err != nil {
			return err
		}
		if k != nil {
			if err := es.key(k); err != nil {
				return err
			}
			colon := ": "
			if es.triple(v) {
				colon = ":"
			}
			if err := es.write(y.Type, SepColor, colon); err != nil {
				return err
			}
		}
		if err := es.value(v); err != nil {
			return err
		}
		if commas && i < len(order)-1 {
			if err := es.write(y.Type, SepColor, ","); err != nil {
				return err
			}
		}
		if err := es.lineComment(v.Type, line...); err != nil {
			return err
		}
	}
	want, err := es.wantComments(y)
	if err != nil {
		return err
	}
	if want {
		if err := es.footer(y.Type, y.Ann.Footer); err != nil {
			return err
		}
	}
	es.depth--
	if err := es.writeNL(); err != nil {
		return err
	}
	return es.write(y.Type, SepColor, end)
}

// key writes a mapping key. Dialects without scalar keys quote the key's
// text; debug writes any key as a value.
func (es *EncState) key(k *ir.Node) error {
	switch k.Type {
	case ir.StringType:
		if es.feat.BareKeys && token.IsBareKey(k.String) {
			return es.write(ir.MappingType, FieldColor, k.String)
		}
		return es.write(ir.MappingType, FieldColor, token.Quote(k.String, '"'))
	case ir.IntType, ir.FloatType, ir.BoolType:
		if es.feat.ScalarKeys {
			return es.scalar(k)
		}
		if err := es.degrade(k, k.Type.String()+" keys"); err != nil {
			return err
		}
		s, err := ir.KeyString(k)
		if err != nil {
			return err
		}
		return es.write(ir.MappingType, FieldColor, token.Quote(s, '"'))
	}
	if es.dialect != format.Debug {
		return fmt.Errorf("%w: %s key at %s", ir.ErrBadKey, k.Type, k.Path())
	}
	flow, comments := es.flow, es.style.Comments
	es.flow, es.style.Comments = true, false
	err := es.value(k)
	es.flow, es.style.Comments = flow, comments
	return err
}

func (es *EncState) debugBytes(y *ir.Node) error {
	return es.write(ir.BytesType, ValueColor, `b"`+hex.EncodeToString(y.Bytes)+`"`)
}
