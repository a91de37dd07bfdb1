package assets_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/techttk77-droid/baixadoc-alvara/assets"
	"github.com/techttk77-droid/baixadoc-alvara/layout"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"STJ.png":      {Data: pngBytes(t, 120, 80)},
		"CodBarra.png": {Data: pngBytes(t, 300, 40)},
	}
	refs := []layout.ImageResource{{Name: "seal", Src: "STJ.png"}, {Name: "barcode", Src: "CodBarra.png"}}
	b, err := assets.Load(context.Background(), fsys, refs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w, h, ok := b.ImageSize("seal")
	if !ok || w != 120 || h != 80 {
		t.Fatalf("seal size = %g x %g (%v)", w, h, ok)
	}
	if _, _, ok := b.ImageSize("missing"); ok {
		t.Fatalf("unknown resource reported as loaded")
	}
	if len(b.Names()) != 2 {
		t.Fatalf("names = %v", b.Names())
	}
}

func TestLoadMissing(t *testing.T) {
	refs := []layout.ImageResource{{Name: "signature", Src: "Ass.png"}}
	_, err := assets.Load(context.Background(), fstest.MapFS{}, refs)
	var ae *assets.Error
	if !errors.As(err, &ae) || ae.Name != "signature" {
		t.Fatalf("expected assets.Error for signature, got %v", err)
	}
	if !errors.Is(err, assets.ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestLoadUndecodable(t *testing.T) {
	fsys := fstest.MapFS{"Logo.png": {Data: []byte("not an image")}}
	_, err := assets.Load(context.Background(), fsys, []layout.ImageResource{{Name: "watermark", Src: "Logo.png"}})
	if err == nil || errors.Is(err, assets.ErrMissing) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fsys := fstest.MapFS{"a.png": {Data: pngBytes(t, 1, 1)}}
	if _, err := assets.Load(ctx, fsys, []layout.ImageResource{{Name: "a", Src: "a.png"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFaded(t *testing.T) {
	fsys := fstest.MapFS{"Logo.png": {Data: pngBytes(t, 4, 4)}}
	b, err := assets.Load(context.Background(), fsys, []layout.ImageResource{{Name: "watermark", Src: "Logo.png"}})
	if err != nil {
		t.Fatal(err)
	}
	orig, _ := b.Image("watermark")
	same, _ := b.Faded("watermark", 0)
	if same != orig.Img {
		t.Fatalf("opacity 0 should keep the original image")
	}
	faded, ok := b.Faded("watermark", 0.5)
	if !ok {
		t.Fatal("faded image missing")
	}
	_, _, _, a := faded.At(1, 1).RGBA()
	if a < 0x7000 || a > 0x9000 {
		t.Fatalf("alpha after fading = %#x, want about half", a)
	}
	again, _ := b.Faded("watermark", 0.5)
	if again != faded {
		t.Fatalf("faded image not cached")
	}
}
