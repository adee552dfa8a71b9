package version_test

import (
	"testing"

	"github.com/hazz-dev/svcboard/internal/version"
)

func TestString(t *testing.T) {
	old := version.Version
	version.Version = "1.2.3"
	defer func() { version.Version = old }()

	want := "svcboard 1.2.3 (commit none, built unknown)"
	if got := version.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
