package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.md")
	if err := SafeWriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("content = %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\n  \"a\": 1") {
		t.Fatalf("not indented: %s", b)
	}
	if _, err := PrettyJSON(func() {}); err == nil {
		t.Fatal("expected marshal error for func value")
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := UniquePath(dir, "sales", ".profile.md")
	if filepath.Base(first) != "sales.profile.md" {
		t.Fatalf("first = %s", first)
	}
	if err := SafeWriteFile(first, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := UniquePath(dir, "sales", ".profile.md")
	if filepath.Base(second) != "sales__2.profile.md" {
		t.Fatalf("second = %s", second)
	}
	if err := SafeWriteFile(second, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := filepath.Base(UniquePath(dir, "sales", ".profile.md")); got != "sales__3.profile.md" {
		t.Fatalf("third = %s", got)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Q1 Sales":   "q1-sales",
		" by_region": "by-region",
		"Ünïcode!":   "ncode",
		"***":        "sheet",
	}
	for in, want := range cases {
		if got := Slug(in, "sheet"); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
