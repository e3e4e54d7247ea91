// Package charm adapts a charmbracelet/log Logger to objcache.Logger.
package charm

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/unkn0wn-root/objcache"
)

var _ objcache.Logger = Logger{}

type Logger struct{ L *log.Logger }

// New builds a prefixed logger on w at the given level name
// ("debug", "info", "warn", "error"). An unknown level selects info.
func New(w io.Writer, level string) Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return Logger{L: log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "objcache",
		ReportTimestamp: true,
	})}
}

func (c Logger) Debug(msg string, f objcache.Fields) { c.L.Debug(msg, kv(f)...) }
func (c Logger) Info(msg string, f objcache.Fields)  { c.L.Info(msg, kv(f)...) }
func (c Logger) Warn(msg string, f objcache.Fields)  { c.L.Warn(msg, kv(f)...) }
func (c Logger) Error(msg string, f objcache.Fields) { c.L.Error(msg, kv(f)...) }

func kv(f objcache.Fields) []any {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, 2*len(f))
	for _, k := range keys {
		out = append(out, k, f[k])
	}
	return out
}
