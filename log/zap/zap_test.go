package zap

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/nscache"
)

func TestZapLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	boom := errors.New("boom")
	l.Debug("d", nil)
	l.Info("i", nscache.Fields{"b": 2, "a": 1})
	l.Warn("w", nscache.Fields{"err": boom})
	l.Error("e", nscache.Fields{"took": time.Second})

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("entries=%d", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Fatalf("entry %d level=%v", i, e.Level)
		}
		if e.LoggerName != "nscache" {
			t.Fatalf("logger name=%q", e.LoggerName)
		}
	}
	if f := entries[1].Context; len(f) != 2 || f[0].Key != "a" || f[1].Key != "b" {
		t.Fatalf("fields not sorted: %+v", f)
	}
	if got := entries[2].ContextMap()["err"]; got != "boom" {
		t.Fatalf("err field=%v", got)
	}
	if f := entries[3].Context[0]; f.Type != zapcore.DurationType {
		t.Fatalf("took encoded as %v", f.Type)
	}
}

func TestNewNil(t *testing.T) {
	New(nil).Info("dropped", nscache.Fields{"k": "v"})
}
