package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "figures", "a.json")
	if err := SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	if err := SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "two" {
		t.Fatalf("content = %q, want %q", b, "two")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"rows": 2})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"rows\": 2\n}" {
		t.Fatalf("got %q", b)
	}
	if _, err := PrettyJSON(func() {}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestSafeFileName(t *testing.T) {
	cases := map[string]string{
		"pressure-sbp-strip": "pressure-sbp-strip",
		"SGOT AST / age":     "sgot-ast---age",
		"  ":                 "unnamed",
		"Домашняя":           "unnamed",
	}
	for in, want := range cases {
		if got := SafeFileName(in); got != want {
			t.Fatalf("SafeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
