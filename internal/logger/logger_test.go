package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	quiet := New("imgshrink", false)
	if quiet.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled without verbose")
	}
	if !quiet.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info disabled")
	}

	loud := New("imgshrink", true)
	if !loud.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug disabled with verbose")
	}
}
