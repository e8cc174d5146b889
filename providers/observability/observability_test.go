package observability

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestAttributeConstructors(t *testing.T) {
	cases := []struct {
		attr Attribute
		key  string
		want any
	}{
		{String("k", "v"), "k", "v"},
		{Int("n", 42), "n", 42},
		{Float64("f", 1.5), "f", 1.5},
		{Bool("b", true), "b", true},
		{Duration("d", time.Second), "d", time.Second},
	}
	for _, tc := range cases {
		if tc.attr.Key != tc.key || tc.attr.Value != tc.want {
			t.Errorf("got %+v, want {%s %v}", tc.attr, tc.key, tc.want)
		}
	}
}

func TestErrorAttribute_NilError(t *testing.T) {
	attr := Error(nil)
	if attr.Key != "error" || attr.Value != "" {
		t.Errorf("unexpected attribute: %+v", attr)
	}
}

func TestNop_DiscardsWithoutPanic(t *testing.T) {
	logger := Nop()
	ctx := context.Background()
	logger.Trace(ctx, "t")
	logger.Debug(ctx, "d", String("k", "v"))
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e")
}

func TestContextRoundTrip(t *testing.T) {
	logger := Nop()
	ctx := ContextWithLogger(context.Background(), logger)
	if got := LoggerFromContext(ctx); got != logger {
		t.Error("logger not recovered from context")
	}
	if got := LoggerFromContext(context.Background()); got != nil {
		t.Errorf("expected nil for bare context, got %v", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
	long := strings.Repeat("a", 600)
	got := TruncateString(long, 500)
	if !strings.HasPrefix(got, strings.Repeat("a", 500)) {
		t.Error("truncated prefix wrong")
	}
	if !strings.Contains(got, "600") {
		t.Errorf("original length missing from suffix: %q", got[490:])
	}
}
