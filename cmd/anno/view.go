package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/annotate/ir"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	docs, err := cfg.inputs(cc, args)
	if err != nil {
		return err
	}
	if !cfg.Paths {
		return cfg.writeDocs(cc.Out, docs)
	}
	for i, doc := range docs {
		if i > 0 {
			fmt.Fprintln(cc.Out, "---")
		}
		if err := viewPaths(cc.Out, doc); err != nil {
			return err
		}
	}
	return nil
}

// viewPaths lists each node's path and type with its annotations.
func viewPaths(w io.Writer, doc *ir.Node) error {
	return doc.Visit(func(y *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s: %s", y.Path(), y.Type)
		if s := describeAnn(&y.Ann); s != "" {
			b.WriteString(" " + s)
		}
		_, err := fmt.Fprintln(w, b.String())
		return true, err
	})
}

func describeAnn(a *ir.Annotation) string {
	var parts []string
	if a.Base != 0 {
		parts = append(parts, "base="+a.Base.String())
	}
	if a.Str != 0 {
		parts = append(parts, "str="+a.Str.String())
	}
	if a.Layout != 0 {
		parts = append(parts, "layout="+a.Layout.String())
	}
	for _, c := range a.Comment {
		parts = append(parts, fmt.Sprintf("comment=%q", c))
	}
	if a.LineComment != "" {
		parts = append(parts, fmt.Sprintf("line=%q", a.LineComment))
	}
	for _, c := range a.Footer {
		parts = append(parts, fmt.Sprintf("footer=%q", c))
	}
	return strings.Join(parts, " ")
}
