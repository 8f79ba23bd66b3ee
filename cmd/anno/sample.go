package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/gomap"
	"github.com/signadot/annotate/ir"
)

type sampleListener struct {
	Host string `anno:"host,quoted"`
	Port int    `anno:"port,linecomment='tcp'"`
}

type sampleDoc struct {
	Name      string            `anno:"name,comment=' sample service\n written by anno sample'"`
	Mode      uint32            `anno:"mode,oct,linecomment='file mode'"`
	Flags     int               `anno:"flags,hex"`
	Ratio     float64           `anno:"ratio"`
	Key       []byte            `anno:"key,hexbytes"`
	Motd      string            `anno:"motd,block"`
	Tags      []string          `anno:"tags,flow"`
	Listeners []sampleListener  `anno:"listeners,comment=' where to listen'"`
	Labels    map[string]string `anno:"labels,omitempty"`
	Limit     *int              `anno:"limit"`
}

func sampleNode() (*ir.Node, error) {
	return gomap.ToIR(sampleValue())
}

func sampleValue() sampleDoc {
	return sampleDoc{
		Name:  "web",
		Mode:  0o644,
		Flags: 0x1f,
		Ratio: 0.25,
		Key:   []byte{0xde, 0xad, 0xbe, 0xef},
		Motd:  "welcome\nto the sample",
		Tags:  []string{"edge", "public"},
		Listeners: []sampleListener{
			{Host: "0.0.0.0", Port: 8080},
			{Host: "::1", Port: 8443},
		},
		Labels: map[string]string{"tier": "front", "zone": "a"},
	}
}

func sample(cfg *SampleConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sample.Parse(cc, args)
	if err != nil {
		cfg.Sample.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: sample takes no arguments", cli.ErrUsage)
	}
	return writeSample(cfg.MainConfig, cc.Out, cfg.All)
}

// writeSample renders the sample document in the output dialect, or in each
// dialect when all is set.
func writeSample(cfg *MainConfig, w io.Writer, all bool) error {
	node, err := sampleNode()
	if err != nil {
		return err
	}
	if !all {
		return cfg.writeDocs(w, []*ir.Node{node})
	}
	for _, d := range format.All() {
		dCfg := *cfg
		dCfg.OutDialect = &d
		if _, err := fmt.Fprintf(w, "==> %s <==\n", d); err != nil {
			return err
		}
		if err := dCfg.writeDocs(w, []*ir.Node{node}); err != nil {
			return fmt.Errorf("error writing %s: %w", d, err)
		}
	}
	return nil
}
