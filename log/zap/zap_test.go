package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/objcache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Debug("d", nil)
	l.Info("i", objcache.Fields{"b": 2, "a": 1})
	l.Warn("w", objcache.Fields{"err": errors.New("boom")})
	l.Error("e", objcache.Fields{})

	entries := logs.AllUntimed()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Fatalf("entry %d level = %v, want %v", i, e.Level, wantLevels[i])
		}
	}

	info := entries[1].Context
	if len(info) != 2 || info[0].Key != "a" || info[1].Key != "b" {
		t.Fatalf("fields not sorted: %+v", info)
	}
	if m := entries[2].ContextMap(); m["err"] != "boom" {
		t.Fatalf("error field = %v", m["err"])
	}
}
