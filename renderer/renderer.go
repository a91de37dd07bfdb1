// Package renderer defines the output backends for resolved layouts.
package renderer

import "github.com/techttk77-droid/baixadoc-alvara/layout"

// Renderer turns a resolved layout into a file, such as a PDF.
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// MeasuringRenderer also measures text with the faces it draws with, so a
// layout resolved against it lines up exactly in the output.
type MeasuringRenderer interface {
	Renderer
	layout.Measurer
}
