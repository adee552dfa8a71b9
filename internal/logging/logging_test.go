package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/hazz-dev/svcboard/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		env     string
		debugOn bool
		infoOn  bool
	}{
		{"production", false, true},
		{"development", true, true},
		{"", true, true},
	}
	for _, tt := range tests {
		l, err := logging.New(tt.env)
		if err != nil {
			t.Fatalf("env %q: unexpected error: %v", tt.env, err)
		}
		core := l.Desugar().Core()
		if got := core.Enabled(zapcore.DebugLevel); got != tt.debugOn {
			t.Errorf("env %q: debug enabled = %v, want %v", tt.env, got, tt.debugOn)
		}
		if got := core.Enabled(zapcore.InfoLevel); got != tt.infoOn {
			t.Errorf("env %q: info enabled = %v, want %v", tt.env, got, tt.infoOn)
		}
	}
}

func TestOrNop(t *testing.T) {
	l := logging.OrNop(nil)
	if l == nil {
		t.Fatal("expected a logger")
	}
	l.Infow("discarded", "key", "value")

	dev, _ := logging.New("development")
	if logging.OrNop(dev) != dev {
		t.Error("expected non-nil logger to be returned unchanged")
	}
}
