package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/annotate/encode"
	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/parse"
)

type MainConfig struct {
	Color      bool   `cli:"name=color desc='encode with color'"`
	Sort       bool   `cli:"name=sort desc='sort mapping keys'"`
	NoComments bool   `cli:"name=nc aliases=no-comments desc='drop comments'"`
	Indent     int    `cli:"name=indent desc='spaces per nesting level'"`
	Width      int    `cli:"name=width desc='widest container kept on one line'"`
	StyleFile  string `cli:"name=style desc='TOML style file'"`
	Fidelity   bool   `cli:"name=fidelity desc='fail on hints the output dialect cannot write'"`
	Verbose    bool   `cli:"name=v aliases=verbose desc='log diagnostics to stderr'"`

	InDialect, OutDialect *format.Dialect

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) dialectFunc(dps ...**format.Dialect) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		d, err := format.ParseDialect(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, dp := range dps {
			*dp = &d
		}
		return d, nil
	})
}

func (cfg *MainConfig) inDialect() format.Dialect {
	if cfg.InDialect != nil {
		return *cfg.InDialect
	}
	return format.Relaxed
}

// outDialect defaults to the input dialect.
func (cfg *MainConfig) outDialect() format.Dialect {
	if cfg.OutDialect != nil {
		return *cfg.OutDialect
	}
	return cfg.inDialect()
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{
		parse.ParseDialect(cfg.inDialect()),
		parse.ParseComments(!cfg.NoComments),
	}
}

func (cfg *MainConfig) style() (encode.Style, error) {
	s := encode.DefaultStyle()
	if cfg.StyleFile != "" {
		var err error
		s, err = encode.LoadStyle(cfg.StyleFile)
		if err != nil {
			return s, err
		}
	}
	if cfg.Sort {
		s.SortKeys = true
	}
	if cfg.NoComments {
		s.Comments = false
	}
	if cfg.Indent > 0 {
		s.Indent = cfg.Indent
	}
	if cfg.Width > 0 {
		s.MaxWidth = cfg.Width
	}
	return s, nil
}

func (cfg *MainConfig) encOpts(w io.Writer) ([]encode.EncodeOption, error) {
	s, err := cfg.style()
	if err != nil {
		return nil, err
	}
	s.Color = s.Color || cfg.Color || cfg.autoColor(w)
	return []encode.EncodeOption{
		encode.EncodeDialect(cfg.outDialect()),
		encode.EncodeStyle(s),
		encode.EncodeFidelity(cfg.Fidelity),
	}, nil
}

// autoColor reports whether w is a terminal and -color was not given.
func (cfg *MainConfig) autoColor(w io.Writer) bool {
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return false
			}
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}

type ViewConfig struct {
	*MainConfig

	Paths bool `cli:"name=paths desc='list the path and type of every node'"`
	View  *cli.Command
}

type SampleConfig struct {
	*MainConfig

	All    bool `cli:"name=all desc='write the sample in every dialect'"`
	Sample *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Diff    *cli.Command
}

type QueryConfig struct {
	*MainConfig

	Query *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Merge bool `cli:"name=m aliases=merge desc='patch is a JSON merge patch'"`
	Patch *cli.Command
}
