package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValuesAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("quiz_id", "bio-1").Info("quiz generated", "questions", 5)
	l.Debug("assembled context", "snippets", 12)

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	fields := entries[0].ContextMap()
	if entries[0].Message != "quiz generated" || fields["quiz_id"] != "bio-1" || fields["questions"] != int64(5) {
		t.Fatalf("entry = %+v", entries[0])
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Fatalf("level = %s", entries[1].Level)
	}
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "Production", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Sync()
	}
}

func TestOrNop(t *testing.T) {
	OrNop(nil).Warn("discarded", "k", "v")
	l := Nop()
	if OrNop(l) != l {
		t.Fatal("OrNop replaced a non-nil logger")
	}
}
