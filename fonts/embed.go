// Package fonts supplies the font programs notices are set in.
package fonts

import (
	"fmt"
	"os"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/techttk77-droid/baixadoc-alvara/layout"
)

// Builtin returns the bundled TrueType program for weight.
func Builtin(weight layout.Weight) []byte {
	if weight == layout.Bold {
		return gobold.TTF
	}
	return goregular.TTF
}

// Load returns the font at path, or the bundled font for weight when path is
// empty.
func Load(weight layout.Weight, path string) ([]byte, error) {
	if path == "" {
		return Builtin(weight), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fonts: ler fonte %s (%s): %w", path, weight, err)
	}
	return data, nil
}
