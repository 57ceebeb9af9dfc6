package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelsFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)
	l.Errorf("boom %d", 1)
	l.Warnf("careful")
	l.Infof("hidden")
	l.Debugf("hidden too")

	out := buf.String()
	if !strings.Contains(out, "ERROR\tboom 1") || !strings.Contains(out, "WARN\tcareful") {
		t.Fatalf("missing expected lines:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("info/debug should be filtered:\n%s", out)
	}
}

func TestSetLevelAppliesToChildren(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)
	child := l.Named("server")
	child.Debugf("quiet")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %s", buf.String())
	}
	l.SetLevel(LevelDebug)
	if !child.Enabled(LevelDebug) {
		t.Fatalf("child did not follow parent level")
	}
	child.Debugw("request", "path", "/healthz")
	out := buf.String()
	if !strings.Contains(out, "server\trequest") || !strings.Contains(out, `"path": "/healthz"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"error": LevelError, "WARN": LevelWarn, " debug ": LevelDebug, "trace": LevelDebug, "": LevelInfo, "loud": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Errorf("dropped")
	if l.Enabled(LevelInfo) {
		t.Fatalf("discard logger should only enable errors")
	}
}
