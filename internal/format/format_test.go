package format_test

import (
	"strings"
	"testing"
	"time"

	"github.com/hazz-dev/svcboard/internal/format"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status string
		want   format.Severity
	}{
		{"OK", format.SeveritySuccess},
		{"FAIL", format.SeverityDanger},
		{"UNKNOWN", format.SeverityNeutral},
		{"", format.SeverityNeutral},
		{"ok", format.SeverityNeutral},
		{"fail", format.SeverityNeutral},
		{" OK", format.SeverityNeutral},
		{"DEGRADED", format.SeverityNeutral},
	}
	for _, tt := range tests {
		if got := format.ClassifyStatus(tt.status); got != tt.want {
			t.Errorf("ClassifyStatus(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestFormatTimestamp_UTC(t *testing.T) {
	f := format.New("2006-01-02 15:04:05", time.UTC)
	got := f.FormatTimestamp("2020-03-01T10:15:30.123Z")
	if got != "2020-03-01 10:15:30" {
		t.Errorf("expected '2020-03-01 10:15:30', got %q", got)
	}
}

func TestFormatTimestamp_ConvertsZone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	f := format.New("2006-01-02 15:04", loc)
	got := f.FormatTimestamp("2020-03-01T10:15:30Z")
	if got != "2020-03-01 12:15" {
		t.Errorf("expected '2020-03-01 12:15', got %q", got)
	}
}

func TestFormatTimestamp_Invalid(t *testing.T) {
	f := format.New("", time.UTC)
	for _, in := range []string{"", "yesterday", "2020-13-45T99:00:00Z"} {
		if got := f.FormatTimestamp(in); got != format.InvalidDate {
			t.Errorf("FormatTimestamp(%q) = %q, want %q", in, got, format.InvalidDate)
		}
	}
}

func TestFormatTimestamp_Idempotent(t *testing.T) {
	in := "2021-06-01T08:00:00.5+01:00"
	first := format.FormatTimestamp(in)
	second := format.FormatTimestamp(in)
	if first != second {
		t.Errorf("expected identical output, got %q and %q", first, second)
	}
	if first == format.InvalidDate {
		t.Errorf("expected %q to parse", in)
	}
}

func TestRelative(t *testing.T) {
	f := format.New("", time.UTC)
	now := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)

	got := f.Relative("2020-03-01T09:57:00Z", now)
	if !strings.HasSuffix(got, "ago") {
		t.Errorf("expected a past relative time, got %q", got)
	}
	if got := f.Relative("garbage", now); got != "" {
		t.Errorf("expected empty string for unparseable input, got %q", got)
	}
}
