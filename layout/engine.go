package layout

import "fmt"

// Resolve turns the ordered blocks of page into ordered draw instructions
// with absolute coordinates. It performs no I/O and keeps no state: equal
// inputs give equal output.
func Resolve(page Page, env Env) ([]Instruction, error) {
	if env.Measurer == nil {
		return nil, fmt.Errorf("layout: Measurer ausente")
	}
	out := make([]Instruction, 0, len(page.Blocks))
	for i, b := range page.Blocks {
		switch blk := b.(type) {
		case FixedText:
			out = append(out, textInstruction(blk.Text, blk.X, blk.Y, blk.Size, blk.Weight))
		case CenteredText:
			w := env.Measurer.TextWidth(blk.Text, blk.Size, blk.Weight)
			out = append(out, textInstruction(blk.Text, CenterX(page.Width, w), blk.Y, blk.Size, blk.Weight))
		case FlowParagraph:
			out = append(out, paragraphInstructions(blk, env.Measurer)...)
		case Image:
			ins, err := imageInstruction(blk, env.Images)
			if err != nil {
				return nil, fmt.Errorf("layout: bloco %d: %w", i, err)
			}
			out = append(out, ins)
		case Rect:
			out = append(out, Instruction{Kind: KindRect, X: blk.X, Y: blk.Y, Width: blk.Width, Height: blk.Height, Color: blk.Fill})
		case Rule:
			out = append(out, Instruction{Kind: KindLine, X: blk.X1, Y: blk.Y1, X2: blk.X2, Y2: blk.Y2, Thickness: blk.Thickness, Color: blk.Color})
		default:
			return nil, fmt.Errorf("layout: bloco %d de tipo desconhecido %T", i, b)
		}
	}
	return out, nil
}

// CenterX is the x at which content of the given width is centred.
func CenterX(pageWidth, width float64) float64 { return (pageWidth - width) / 2 }

// ParagraphLines wraps p with the measurer it will be drawn with.
func ParagraphLines(p FlowParagraph, m Measurer) []string {
	return Wrap(p.Text, p.MaxWidth, func(s string) float64 {
		return m.TextWidth(s, p.Size, p.Weight)
	})
}

func paragraphInstructions(p FlowParagraph, m Measurer) []Instruction {
	lines := ParagraphLines(p, m)
	out := make([]Instruction, len(lines))
	for i, line := range lines {
		out[i] = textInstruction(line, p.X, p.YStart-float64(i)*p.LineHeight, p.Size, p.Weight)
	}
	return out
}

func imageInstruction(img Image, sizer ImageSizer) (Instruction, error) {
	if sizer == nil {
		return Instruction{}, fmt.Errorf("imagem %q sem dimensões disponíveis", img.Resource)
	}
	w, h, ok := sizer.ImageSize(img.Resource)
	if !ok {
		return Instruction{}, fmt.Errorf("imagem %q não carregada", img.Resource)
	}
	return Instruction{
		Kind:     KindImage,
		Resource: img.Resource,
		X:        img.X,
		Y:        img.Y,
		Width:    w * img.Scale,
		Height:   h * img.Scale,
		Opacity:  img.Opacity,
	}, nil
}

func textInstruction(text string, x, y, size float64, weight Weight) Instruction {
	return Instruction{Kind: KindText, Text: text, X: x, Y: y, Size: size, Weight: weight, Color: Black}
}
