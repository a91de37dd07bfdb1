package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/techttk77-droid/baixadoc-alvara/assets"
	"github.com/techttk77-droid/baixadoc-alvara/fonts"
	"github.com/techttk77-droid/baixadoc-alvara/layout"
	"github.com/techttk77-droid/baixadoc-alvara/renderer"
)

// Renderer draws layout results via github.com/tdewolff/canvas. Layouts are
// in points; canvas works in millimetres, so every coordinate is converted on
// the way out.
type Renderer struct {
	images *assets.Bundle
	family *canvas.FontFamily

	faceMu sync.Mutex
	faces  map[faceKey]*canvas.FontFace
}

var _ renderer.MeasuringRenderer = (*Renderer)(nil)

type faceKey struct {
	size   float64
	weight layout.Weight
	color  layout.Color
}

// Options configures the canvas renderer.
type Options struct {
	// Images backs every image instruction. It may be nil for text-only
	// layouts.
	Images *assets.Bundle
	// Fonts overrides the bundled faces per weight.
	Fonts map[layout.Weight]Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// New loads both faces up front so a bad font fails here rather than halfway
// through a page.
func New(opts Options) (*Renderer, error) {
	family := canvas.NewFontFamily("notice")
	for _, w := range []layout.Weight{layout.Regular, layout.Bold} {
		data, err := fontBytes(w, opts.Fonts[w])
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, fontStyle(w)); err != nil {
			return nil, fmt.Errorf("canvas: carregar fonte %s: %w", w, err)
		}
	}
	return &Renderer{
		images: opts.Images,
		family: family,
		faces:  map[faceKey]*canvas.FontFace{},
	}, nil
}

func fontBytes(w layout.Weight, res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	return fonts.Load(w, res.Path)
}

// TextWidth implements layout.Measurer with the faces used for drawing.
func (r *Renderer) TextWidth(text string, size float64, weight layout.Weight) float64 {
	if text == "" {
		return 0
	}
	return r.face(size, weight, layout.Black).TextWidth(text) * layout.MmToPt
}

// Render renders the result into a single-page PDF.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("canvas: resultado vazio")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return nil, fmt.Errorf("canvas: página sem dimensões")
	}
	w, h := toMm(result.Width), toMm(result.Height)

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	applyMeta(writer, result.Meta)

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	for i, ins := range result.Instructions {
		if err := r.draw(ctx, ins); err != nil {
			return nil, fmt.Errorf("canvas: instrução %d (%s): %w", i, ins.Kind, err)
		}
	}
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("canvas: gravar PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) draw(ctx *canvas.Context, ins layout.Instruction) error {
	switch ins.Kind {
	case layout.KindText:
		face := r.face(ins.Size, ins.Weight, ins.Color)
		ctx.DrawText(toMm(ins.X), toMm(ins.Y), canvas.NewTextLine(face, ins.Text, canvas.Left))
	case layout.KindImage:
		return r.drawImage(ctx, ins)
	case layout.KindRect:
		ctx.SetFillColor(colorFromLayout(ins.Color))
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.DrawPath(toMm(ins.X), toMm(ins.Y), canvas.Rectangle(toMm(ins.Width), toMm(ins.Height)))
	case layout.KindLine:
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(ins.Color))
		ctx.SetStrokeWidth(toMm(ins.Thickness))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(toMm(ins.X2-ins.X), toMm(ins.Y2-ins.Y))
		ctx.DrawPath(toMm(ins.X), toMm(ins.Y), p)
	default:
		return fmt.Errorf("tipo desconhecido")
	}
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, ins layout.Instruction) error {
	if r.images == nil {
		return fmt.Errorf("imagem %q sem pacote de imagens", ins.Resource)
	}
	img, ok := r.images.Faded(ins.Resource, ins.Opacity)
	if !ok {
		return fmt.Errorf("imagem %q não carregada", ins.Resource)
	}
	if ins.Width <= 0 {
		return fmt.Errorf("imagem %q com largura nula", ins.Resource)
	}
	dpmm := float64(img.Bounds().Dx()) / toMm(ins.Width)
	ctx.DrawImage(toMm(ins.X), toMm(ins.Y), img, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) face(size float64, weight layout.Weight, col layout.Color) *canvas.FontFace {
	key := faceKey{size, weight, col}
	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f
	}
	f := r.family.Face(size, colorFromLayout(col), fontStyle(weight), canvas.FontNormal)
	r.faces[key] = f
	return f
}

func fontStyle(w layout.Weight) canvas.FontStyle {
	if w == layout.Bold {
		return canvas.FontBold
	}
	return canvas.FontRegular
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func toMm(pt float64) float64 { return pt * layout.PtToMm }
