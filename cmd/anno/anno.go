package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/signadot/annotate/encode"
	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/parse"
)

func annoMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	setupLog(cfg.Verbose)
	defer theLog.Sync()
	if cfg.inDialect() == format.Debug {
		return fmt.Errorf("%w: the debug dialect is output only", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	theLog.Debug("run",
		zap.String("command", args[0]),
		zap.Stringer("in", cfg.inDialect()),
		zap.Stringer("out", cfg.outDialect()))
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

var docSep = []byte("\n---\n")

// readArg reads a file argument, "-" meaning stdin.
func readArg(cc *cli.Context, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", arg, err)
	}
	return d, nil
}

// parseDocs parses every document in d, documents being separated by a
// "---" line.
func (cfg *MainConfig) parseDocs(d []byte) ([]*ir.Node, error) {
	var res []*ir.Node
	for i, doc := range bytes.Split(d, docSep) {
		if len(bytes.TrimSpace(doc)) == 0 && i != 0 {
			continue
		}
		node, err := parse.Parse(doc, cfg.parseOpts()...)
		if err != nil {
			return nil, fmt.Errorf("error decoding document %d: %w", i, err)
		}
		theLog.Debug("parsed", zap.Int("doc", i), zap.Stringer("type", node.Type), zap.Int("bytes", len(doc)))
		res = append(res, node)
	}
	return res, nil
}

// parseArg reads and parses a single-document file argument.
func (cfg *MainConfig) parseArg(cc *cli.Context, arg string) (*ir.Node, error) {
	d, err := readArg(cc, arg)
	if err != nil {
		return nil, err
	}
	node, err := parse.Parse(d, cfg.parseOpts()...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return node, nil
}

// writeDocs encodes nodes to w separated by "---" lines.
func (cfg *MainConfig) writeDocs(w io.Writer, nodes []*ir.Node) error {
	opts, err := cfg.encOpts(w)
	if err != nil {
		return err
	}
	for i, node := range nodes {
		if i > 0 {
			if _, err := w.Write(docSep[1:]); err != nil {
				return err
			}
		}
		if err := encode.Encode(node, w, opts...); err != nil {
			return fmt.Errorf("error encoding result %d: %w", i, err)
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}

// inputs returns the documents named by args, or those on stdin.
func (cfg *MainConfig) inputs(cc *cli.Context, args []string) ([]*ir.Node, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	var res []*ir.Node
	for _, arg := range args {
		d, err := readArg(cc, arg)
		if err != nil {
			return nil, err
		}
		docs, err := cfg.parseDocs(d)
		if err != nil {
			return nil, fmt.Errorf("error processing %s: %w", arg, err)
		}
		res = append(res, docs...)
	}
	return res, nil
}
