package main

import (
	"bytes"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"

	"github.com/signadot/annotate/encode"
	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/parse"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a patch and a file to which to apply it", cli.ErrUsage)
	}
	p, err := cfg.parseArg(cc, args[0])
	if err != nil {
		return err
	}
	target, err := cfg.parseArg(cc, args[1])
	if err != nil {
		return err
	}
	res, err := applyPatch(target, p, cfg.Merge)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", args[1], err)
	}
	return cfg.writeDocs(cc.Out, []*ir.Node{res})
}

// applyPatch applies p to target through their strict renderings. With
// merge p is a JSON merge patch, otherwise a list of RFC 6902 operations.
// Annotations do not survive.
func applyPatch(target, p *ir.Node, merge bool) (*ir.Node, error) {
	doc, err := strictJSON(target)
	if err != nil {
		return nil, err
	}
	pd, err := strictJSON(p)
	if err != nil {
		return nil, err
	}
	var out []byte
	if merge {
		out, err = jsonpatch.MergePatch(doc, pd)
	} else {
		var ops jsonpatch.Patch
		ops, err = jsonpatch.DecodePatch(pd)
		if err == nil {
			out, err = ops.Apply(doc)
		}
	}
	if err != nil {
		return nil, err
	}
	return parse.Parse(out, parse.ParseStrict())
}

func strictJSON(node *ir.Node) ([]byte, error) {
	buf := &bytes.Buffer{}
	// json-patch keeps number text as is, so large integers stay numbers
	err := encode.Encode(node, buf, encode.EncodeDialect(format.Strict),
		encode.EncodeComments(false), encode.EncodeNumericLimits(false))
	return buf.Bytes(), err
}
