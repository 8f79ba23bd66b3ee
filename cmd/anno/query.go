package main

import (
	"fmt"
	"io"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/signadot/annotate/ir"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires an expression", cli.ErrUsage)
	}
	docs, err := cfg.inputs(cc, args[1:])
	if err != nil {
		return err
	}
	return queryDocs(cfg.MainConfig, cc.Out, args[0], docs)
}

// queryDocs evaluates q once per document, with the document's plain value
// bound to doc, and writes the results.
func queryDocs(cfg *MainConfig, w io.Writer, q string, docs []*ir.Node) error {
	program, err := expr.Compile(q, expr.Env(map[string]any{"doc": map[string]any{}}))
	if err != nil {
		return fmt.Errorf("error compiling %q: %w", q, err)
	}
	res := make([]*ir.Node, 0, len(docs))
	for i, doc := range docs {
		v, err := doc.ToAny()
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		out, err := expr.Run(program, map[string]any{"doc": v})
		if err != nil {
			return fmt.Errorf("error evaluating %q on document %d: %w", q, i, err)
		}
		theLog.Debug("query", zap.Int("doc", i), zap.String("result", fmt.Sprintf("%T", out)))
		node, err := ir.FromAny(out)
		if err != nil {
			return fmt.Errorf("could not translate result of %q: %w", q, err)
		}
		res = append(res, node)
	}
	return cfg.writeDocs(w, res)
}
