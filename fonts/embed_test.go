package fonts

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/techttk77-droid/baixadoc-alvara/layout"
)

func TestBuiltin(t *testing.T) {
	regular, bold := Builtin(layout.Regular), Builtin(layout.Bold)
	if len(regular) == 0 || len(bold) == 0 {
		t.Fatal("bundled fonts are empty")
	}
	if bytes.Equal(regular, bold) {
		t.Fatal("regular and bold must differ")
	}
}

func TestLoad(t *testing.T) {
	data, err := Load(layout.Bold, "")
	if err != nil || !bytes.Equal(data, Builtin(layout.Bold)) {
		t.Fatalf("empty path should return the bundled face: %v", err)
	}
	if _, err := Load(layout.Regular, filepath.Join(t.TempDir(), "nope.ttf")); err == nil {
		t.Fatal("expected error for missing font file")
	}
}
