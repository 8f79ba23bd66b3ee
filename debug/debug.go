// Package debug provides environment controlled tracing for the parser,
// the emitters and the Go value bridges.
//
// Tracing is enabled per area by setting ANNO_DEBUG_PARSE, ANNO_DEBUG_ENCODE
// or ANNO_DEBUG_MAP to a true value. Trace output goes to stderr through a
// zap development logger.
package debug

import (
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

type debug struct {
	Parse  bool
	Encode bool
	Map    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("ANNO_DEBUG_PARSE")
	d.Encode = boolEnv("ANNO_DEBUG_ENCODE")
	d.Map = boolEnv("ANNO_DEBUG_MAP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}

func Encode() bool {
	return d.Encode
}

func Map() bool {
	return d.Map
}

var logger = sync.OnceValue(func() *zap.SugaredLogger {
	if !d.Parse && !d.Encode && !d.Map {
		return zap.NewNop().Sugar()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Named("anno").Sugar()
})

// Logf writes a trace line. Callers check the area flag first.
func Logf(f string, args ...any) {
	logger().Debugf(f, args...)
}

// LogAny writes v as a structured field.
func LogAny(msg string, v any) {
	logger().Debugw(msg, zap.Any("value", v))
}
