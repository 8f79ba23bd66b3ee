package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"github.com/signadot/annotate/encode"
	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	y1, err := cfg.parseArg(cc, args[0])
	if err != nil {
		return err
	}
	y2, err := cfg.parseArg(cc, args[1])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		y1, y2 = y2, y1
	}
	differs, err := diffInputs(cfg.MainConfig, cc.Out, y1, y2)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffInputs writes a line diff of the canonical renderings of a and b.
// Only content counts; documents differing in comments or hints are equal.
func diffInputs(cfg *MainConfig, w io.Writer, a, b *ir.Node) (bool, error) {
	if ir.Equal(a, b) {
		return false, nil
	}
	ta, err := canonical(cfg, a)
	if err != nil {
		return false, err
	}
	tb, err := canonical(cfg, b)
	if err != nil {
		return false, err
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(ta, tb)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	theLog.Debug("diff", zap.Int("hunks", len(diffs)))

	del, ins := fmt.Sprint, fmt.Sprint
	if cfg.Color || cfg.autoColor(w) {
		dc, ic := color.New(color.FgRed), color.New(color.FgGreen)
		dc.EnableColor()
		ic.EnableColor()
		del, ins = dc.Sprint, ic.Sprint
	}
	for _, d := range diffs {
		for _, ln := range strings.SplitAfter(strings.TrimSuffix(d.Text, "\n"), "\n") {
			ln = strings.TrimSuffix(ln, "\n")
			var out string
			switch d.Type {
			case diffpatch.DiffDelete:
				out = del("-" + ln)
			case diffpatch.DiffInsert:
				out = ins("+" + ln)
			default:
				out = " " + ln
			}
			if _, err := fmt.Fprintln(w, out); err != nil {
				return true, err
			}
		}
	}
	return true, nil
}

// canonical renders node one value per line with sorted keys and no
// comments, so that line diffs follow structure. Strict output is compact,
// so relaxed stands in for it.
func canonical(cfg *MainConfig, node *ir.Node) (string, error) {
	d := cfg.outDialect()
	if d == format.Strict {
		d = format.Relaxed
	}
	s := encode.DefaultStyle()
	s.SortKeys = true
	s.Comments = false
	s.MaxWidth = 0
	var b strings.Builder
	if err := encode.Encode(node, &b, encode.EncodeDialect(d), encode.EncodeStyle(s)); err != nil {
		return "", err
	}
	b.WriteByte('\n')
	return b.String(), nil
}
