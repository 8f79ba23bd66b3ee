package main

import (
	"go.uber.org/zap"
)

var theLog = zap.NewNop()

// setupLog turns on diagnostics on stderr.
func setupLog(verbose bool) {
	if !verbose {
		return
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return
	}
	theLog = l.Named("anno")
}
