// Package assets loads the images a notice template declares.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"sync"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/techttk77-droid/baixadoc-alvara/layout"
)

// ErrMissing reports an image source that does not exist.
var ErrMissing = errors.New("assets: imagem não encontrada")

// Error describes a resource that could not be loaded.
type Error struct {
	Name string
	Src  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("assets: imagem %q (%s): %v", e.Name, e.Src, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Image is a decoded resource. Width and Height are its intrinsic size in
// points, one point per pixel.
type Image struct {
	Img    image.Image
	Width  float64
	Height float64
}

// Bundle holds every decoded image of a template by resource name. It is
// read-only after Load and safe for concurrent use.
type Bundle struct {
	images map[string]Image

	mu    sync.Mutex
	faded map[fadeKey]image.Image
}

type fadeKey struct {
	name    string
	opacity float64
}

var _ layout.ImageSizer = (*Bundle)(nil)

// Load decodes every resource in refs from fsys. Loading stops at the first
// failure; ctx is checked between files.
func Load(ctx context.Context, fsys fs.FS, refs []layout.ImageResource) (*Bundle, error) {
	b := &Bundle{images: make(map[string]Image, len(refs)), faded: map[fadeKey]image.Image{}}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := decode(fsys, ref.Src)
		if err != nil {
			return nil, &Error{Name: ref.Name, Src: ref.Src, Err: err}
		}
		bounds := img.Bounds()
		b.images[ref.Name] = Image{Img: img, Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}
	}
	return b, nil
}

func decode(fsys fs.FS, src string) (image.Image, error) {
	if fsys == nil {
		return nil, ErrMissing
	}
	f, err := fsys.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrMissing, err)
		}
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decodificar: %w", err)
	}
	return img, nil
}

// ImageSize implements layout.ImageSizer.
func (b *Bundle) ImageSize(name string) (float64, float64, bool) {
	img, ok := b.images[name]
	return img.Width, img.Height, ok
}

// Image returns the decoded resource called name.
func (b *Bundle) Image(name string) (Image, bool) {
	img, ok := b.images[name]
	return img, ok
}

// Names lists the loaded resources.
func (b *Bundle) Names() []string {
	out := make([]string, 0, len(b.images))
	for name := range b.images {
		out = append(out, name)
	}
	return out
}

// Faded returns the resource with its alpha scaled by opacity. Opacity 0 and
// 1 both return the image unchanged.
func (b *Bundle) Faded(name string, opacity float64) (image.Image, bool) {
	img, ok := b.images[name]
	if !ok {
		return nil, false
	}
	if opacity <= 0 || opacity >= 1 {
		return img.Img, true
	}
	key := fadeKey{name, opacity}
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.faded[key]; ok {
		return f, true
	}
	f := Fade(img.Img, opacity)
	b.faded[key] = f
	return f, true
}

// Fade draws src over a transparent canvas through a uniform alpha mask.
func Fade(src image.Image, opacity float64) image.Image {
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
	xdraw.DrawMask(dst, dst.Bounds(), src, bounds.Min, mask, image.Point{}, xdraw.Over)
	return dst
}
