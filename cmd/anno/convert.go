package main

import (
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/annotate/ir"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	docs, err := cfg.inputs(cc, args)
	if err != nil {
		return err
	}
	return convertDocs(cfg.MainConfig, cc.Out, docs)
}

func convertDocs(cfg *MainConfig, w io.Writer, docs []*ir.Node) error {
	return cfg.writeDocs(w, docs)
}
