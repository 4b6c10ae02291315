package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, json := range []bool{true, false} {
		for _, debug := range []bool{true, false} {
			logger, err := New(json, debug)
			if err != nil {
				t.Fatalf("unexpected error (json=%v debug=%v): %v", json, debug, err)
			}
			if logger == nil {
				t.Fatalf("expected a logger")
			}
		}
	}
}

func TestNopIfNil(t *testing.T) {
	if NopIfNil(nil) == nil {
		t.Fatalf("expected a no-op logger for nil input")
	}

	real := zap.NewNop()
	if NopIfNil(real) != real {
		t.Fatalf("expected the provided logger back")
	}
}

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly limit", "hello", 5, "hello"},
		{"truncated", "hello world", 5, "hello..."},
		{"zero limit", "hello", 0, ""},
		{"trims whitespace", "  hello  ", 10, "hello"},
		{"multibyte", strings.Repeat("ქ", 10), 3, "ქქქ..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateForLog(tc.in, tc.limit); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
