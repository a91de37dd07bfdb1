package canvasrenderer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"testing/fstest"

	"github.com/techttk77-droid/baixadoc-alvara/assets"
	"github.com/techttk77-droid/baixadoc-alvara/layout"
)

func newRenderer(t *testing.T, images *assets.Bundle) *Renderer {
	t.Helper()
	r, err := New(Options{Images: images})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTextWidthScalesWithSize(t *testing.T) {
	r := newRenderer(t, nil)
	w10 := r.TextWidth("TRIBUNAL DE JUSTIÇA", 10, layout.Regular)
	w20 := r.TextWidth("TRIBUNAL DE JUSTIÇA", 20, layout.Regular)
	if w10 <= 0 {
		t.Fatalf("expected positive width, got %g", w10)
	}
	if math.Abs(w20-2*w10) > 0.01*w20 {
		t.Fatalf("width not proportional to size: %g vs %g", w10, w20)
	}
	if r.TextWidth("", 10, layout.Regular) != 0 {
		t.Fatalf("empty text must have zero width")
	}
}

func TestTextWidthBoldIsWider(t *testing.T) {
	r := newRenderer(t, nil)
	regular := r.TextWidth("PROCESSO JUDICIAL ELETRÔNICO", 12, layout.Regular)
	bold := r.TextWidth("PROCESSO JUDICIAL ELETRÔNICO", 12, layout.Bold)
	if bold <= regular {
		t.Fatalf("bold %g should be wider than regular %g", bold, regular)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	fsys := fstest.MapFS{"seal.png": {Data: pngBytes(t, 40, 20)}}
	bundle, err := assets.Load(context.Background(), fsys, []layout.ImageResource{{Name: "seal", Src: "seal.png"}})
	if err != nil {
		t.Fatal(err)
	}
	r := newRenderer(t, bundle)
	res := &layout.Result{
		Width:  595.5,
		Height: 842,
		Meta:   layout.DocumentMeta{Title: "Alvará", Keywords: []string{"a", "b"}},
		Instructions: []layout.Instruction{
			{Kind: layout.KindRect, X: 55, Y: 500, Width: 485, Height: 22, Color: layout.DefaultFill},
			{Kind: layout.KindText, Text: "Credor: Maria", X: 60, Y: 505, Size: 10, Weight: layout.Bold},
			{Kind: layout.KindLine, X: 60, Y: 503, X2: 120, Y2: 503, Thickness: 1},
			{Kind: layout.KindImage, Resource: "seal", X: 25, Y: 700, Width: 20, Height: 10},
			{Kind: layout.KindImage, Resource: "seal", X: 200, Y: 400, Width: 40, Height: 20, Opacity: 0.04},
		},
	}
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestRenderUnknownImage(t *testing.T) {
	r := newRenderer(t, nil)
	res := &layout.Result{
		Width: 100, Height: 100,
		Instructions: []layout.Instruction{{Kind: layout.KindImage, Resource: "ghost", Width: 10, Height: 10}},
	}
	if _, err := r.Render(res); err == nil {
		t.Fatalf("expected error for image without bundle")
	}
}

func TestRenderRejectsEmptyPage(t *testing.T) {
	r := newRenderer(t, nil)
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for zero-sized page")
	}
}
