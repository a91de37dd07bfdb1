package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/techttk77-droid/baixadoc-alvara/binding"
	"github.com/techttk77-droid/baixadoc-alvara/dsl"
)

const (
	defaultTextSize   = 10.0
	defaultRuleWeight = 1.0
)

// DefaultFill is the rectangle colour when a template gives none.
var DefaultFill = Color{R: 230, G: 230, B: 230}

// Page presets in points, portrait.
var pagePresets = map[string][2]float64{
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
}

// Build composes the page of doc with values and resolves it.
func Build(doc *dsl.Document, values map[string]string, env Env) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: documento vazio")
	}
	meta, err := CollectMeta(doc, values)
	if err != nil {
		return nil, err
	}
	page, err := Compose(doc, values, env)
	if err != nil {
		return nil, err
	}
	ins, err := Resolve(page, env)
	if err != nil {
		return nil, err
	}
	return &Result{Width: page.Width, Height: page.Height, Meta: meta, Instructions: ins}, nil
}

// CollectResources returns the images declared by doc in declaration order.
func CollectResources(doc *dsl.Document) ([]ImageResource, error) {
	var out []ImageResource
	seen := map[string]bool{}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil || cmd.Name != "image" {
				continue
			}
			img := parseImageResource(cmd)
			switch {
			case img.Name == "":
				return nil, fmt.Errorf("layout: %s: imagem sem nome", cmd.Pos)
			case img.Src == "":
				return nil, fmt.Errorf("layout: %s: imagem %q sem src", cmd.Pos, img.Name)
			case seen[img.Name]:
				return nil, fmt.Errorf("layout: %s: imagem %q declarada duas vezes", cmd.Pos, img.Name)
			}
			seen[img.Name] = true
			out = append(out, img)
		}
	}
	return out, nil
}

func parseImageResource(cmd *dsl.Command) ImageResource {
	if len(cmd.Args) == 0 {
		return ImageResource{}
	}
	image := ImageResource{Name: cmd.Args[0].Value}
	if cmd.Block == nil {
		return image
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment != nil && stmt.Assignment.Key == "src" {
			image.Src = valueToString(stmt.Assignment.Value)
		}
	}
	return image
}

// CollectMeta reads the meta section, interpolating values into each entry.
func CollectMeta(doc *dsl.Document, values map[string]string) (DocumentMeta, error) {
	meta := DocumentMeta{Creator: "baixadoc-alvara"}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			var target *string
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				target = &meta.Title
			case "author":
				target = &meta.Author
			case "subject":
				target = &meta.Subject
			case "creator":
				target = &meta.Creator
			case "keywords":
				for _, kw := range valueToStringSlice(stmt.Assignment.Value) {
					s, err := binding.Interpolate(kw, values)
					if err != nil {
						return meta, err
					}
					meta.Keywords = append(meta.Keywords, s)
				}
				continue
			default:
				continue
			}
			s, err := binding.Interpolate(valueToString(stmt.Assignment.Value), values)
			if err != nil {
				return meta, err
			}
			*target = s
		}
	}
	return meta, nil
}

// composer walks page statements with a vertical cursor. The cursor is a
// baseline y in points and starts at the top edge of the page.
type composer struct {
	page     Page
	env      Env
	values   map[string]string
	cursor   float64
	textEnd  float64
	imageTop map[string]float64
}

// Compose turns the first page section of doc into blocks, binding values
// into every text literal. env is needed for commands that position content
// relative to measured text or image sizes.
func Compose(doc *dsl.Document, values map[string]string, env Env) (Page, error) {
	section := firstPage(doc)
	if section == nil {
		return Page{}, fmt.Errorf("layout: documento sem seção page")
	}
	w, h, err := resolvePageSize(section.Size)
	if err != nil {
		return Page{}, err
	}
	c := &composer{
		page:     Page{Width: w, Height: h},
		env:      env,
		values:   values,
		cursor:   h,
		imageTop: map[string]float64{},
	}
	if section.Block == nil {
		return c.page, nil
	}
	for _, stmt := range section.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		if err := c.command(stmt.Command); err != nil {
			return Page{}, fmt.Errorf("layout: %s: %s: %w", stmt.Command.Pos, stmt.Command.Name, err)
		}
	}
	return c.page, nil
}

func (c *composer) command(cmd *dsl.Command) error {
	switch cmd.Name {
	case "image":
		return c.image(cmd)
	case "text":
		return c.text(cmd)
	case "center":
		return c.center(cmd)
	case "paragraph":
		return c.paragraph(cmd)
	case "rect":
		return c.rect(cmd)
	case "line":
		return c.line(cmd)
	case "cursor":
		attrs := parseArgs(cmd.Args)
		y, ok, err := c.vertical(attrs)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("posição ausente")
		}
		c.cursor = y
		return nil
	case "down":
		if len(cmd.Args) != 1 {
			return fmt.Errorf("esperado um deslocamento")
		}
		d, err := points(cmd.Args[0].Value)
		if err != nil {
			return err
		}
		c.cursor -= d
		return nil
	default:
		return fmt.Errorf("comando desconhecido")
	}
}

func (c *composer) add(b Block) { c.page.Blocks = append(c.page.Blocks, b) }

// vertical resolves the y-selecting attributes shared by all commands: y
// (from the page bottom), top (from the page top), dy (from the cursor) and
// above/gap (over the top edge of a placed image). The result is the anchor
// of the content: a baseline for text, the bottom edge for boxes.
func (c *composer) vertical(attrs map[string]string) (float64, bool, error) {
	if v, ok := attrs["y"]; ok {
		y, err := points(v)
		return y, true, err
	}
	if v, ok := attrs["top"]; ok {
		t, err := points(v)
		return c.page.Height - t, true, err
	}
	if v, ok := attrs["dy"]; ok {
		d, err := points(v)
		return c.cursor + d, true, err
	}
	if name, ok := attrs["above"]; ok {
		top, placed := c.imageTop[name]
		if !placed {
			return 0, false, fmt.Errorf("imagem %q ainda não posicionada", name)
		}
		gap, err := optionalPoints(attrs, "gap", 0)
		return top + gap, true, err
	}
	return 0, false, nil
}

func (c *composer) text(cmd *dsl.Command) error {
	attrs := parseArgs(cmd.Args)
	content, err := c.content(cmd)
	if err != nil {
		return err
	}
	size, weight, err := textStyle(attrs)
	if err != nil {
		return err
	}
	y, ok, err := c.vertical(attrs)
	if err != nil {
		return err
	}
	if !ok {
		y = c.cursor
	}
	var x float64
	switch v := attrs["x"]; v {
	case "after":
		x = c.textEnd
	case "":
		x = 0
	default:
		if x, err = points(v); err != nil {
			return err
		}
	}
	width := c.measure(content, size, weight)
	c.add(FixedText{Text: content, X: x, Y: y, Size: size, Weight: weight})
	c.textEnd = x + width
	if v, ok := attrs["underline"]; ok {
		off, err := points(v)
		if err != nil {
			return err
		}
		c.add(Rule{X1: x, Y1: y - off, X2: x + width, Y2: y - off, Thickness: defaultRuleWeight, Color: Black})
	}
	return nil
}

func (c *composer) center(cmd *dsl.Command) error {
	attrs := parseArgs(cmd.Args)
	content, err := c.content(cmd)
	if err != nil {
		return err
	}
	size, weight, err := textStyle(attrs)
	if err != nil {
		return err
	}
	y, ok, err := c.vertical(attrs)
	if err != nil {
		return err
	}
	if !ok {
		y = c.cursor
	}
	c.add(CenteredText{Text: content, Y: y, Size: size, Weight: weight})
	return nil
}

func (c *composer) paragraph(cmd *dsl.Command) error {
	attrs := parseArgs(cmd.Args)
	content, err := c.content(cmd)
	if err != nil {
		return err
	}
	size, weight, err := textStyle(attrs)
	if err != nil {
		return err
	}
	x, err := optionalPoints(attrs, "x", 0)
	if err != nil {
		return err
	}
	width, err := optionalPoints(attrs, "width", c.page.Width-2*x)
	if err != nil {
		return err
	}
	lh := LineHeightSpec{Kind: LineHeightFactor, Factor: 1.5}
	if v, ok := attrs["line"]; ok {
		if lh, err = ParseLineHeight(v); err != nil {
			return err
		}
	}
	y, ok, err := c.vertical(attrs)
	if err != nil {
		return err
	}
	if !ok {
		y = c.cursor
	}
	p := FlowParagraph{Text: content, X: x, YStart: y, MaxWidth: width, Size: size, Weight: weight, LineHeight: lh.Resolve(size)}
	c.add(p)
	if c.env.Measurer != nil {
		c.cursor = y - float64(len(ParagraphLines(p, c.env.Measurer)))*p.LineHeight
	}
	return nil
}

func (c *composer) image(cmd *dsl.Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("imagem sem nome")
	}
	name := cmd.Args[0].Value
	attrs := parseArgs(cmd.Args[1:])
	scale := 1.0
	if v, ok := attrs["scale"]; ok {
		var err error
		if scale, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("escala inválida %q", v)
		}
	}
	var opacity float64
	if v, ok := attrs["opacity"]; ok {
		var err error
		if opacity, err = strconv.ParseFloat(v, 64); err != nil || opacity < 0 || opacity > 1 {
			return fmt.Errorf("opacidade inválida %q", v)
		}
	}
	if c.env.Images == nil {
		return fmt.Errorf("dimensões de imagens indisponíveis")
	}
	iw, ih, ok := c.env.Images.ImageSize(name)
	if !ok {
		return fmt.Errorf("imagem %q não carregada", name)
	}
	w, h := iw*scale, ih*scale

	var x float64
	switch v := attrs["x"]; v {
	case "center":
		x = CenterX(c.page.Width, w)
	case "":
	default:
		var err error
		if x, err = points(v); err != nil {
			return err
		}
	}

	var y float64
	switch {
	case attrs["y"] == "below":
		y = c.cursor - h
		c.cursor = y
	case attrs["middle"] != "":
		off, err := points(attrs["middle"])
		if err != nil {
			return err
		}
		y = (c.page.Height-h)/2 + off
	default:
		var set bool
		var err error
		y, set, err = c.vertical(attrs)
		if err != nil {
			return err
		}
		if !set {
			y = c.cursor - h
		}
	}
	c.imageTop[name] = y + h
	c.add(Image{Resource: name, X: x, Y: y, Scale: scale, Opacity: opacity})
	return nil
}

func (c *composer) rect(cmd *dsl.Command) error {
	attrs := parseArgs(cmd.Args)
	x, err := optionalPoints(attrs, "x", 0)
	if err != nil {
		return err
	}
	w, err := optionalPoints(attrs, "width", c.page.Width-2*x)
	if err != nil {
		return err
	}
	h, err := optionalPoints(attrs, "height", 0)
	if err != nil {
		return err
	}
	y, ok, err := c.vertical(attrs)
	if err != nil {
		return err
	}
	if !ok {
		y = c.cursor
	}
	fill := DefaultFill
	if v, ok := attrs["fill"]; ok {
		if fill, err = parseColor(v); err != nil {
			return err
		}
	}
	c.add(Rect{X: x, Y: y, Width: w, Height: h, Fill: fill})
	return nil
}

func (c *composer) line(cmd *dsl.Command) error {
	attrs := parseArgs(cmd.Args)
	x, err := optionalPoints(attrs, "x", 0)
	if err != nil {
		return err
	}
	w, err := optionalPoints(attrs, "width", c.page.Width-2*x)
	if err != nil {
		return err
	}
	thickness, err := optionalPoints(attrs, "thickness", defaultRuleWeight)
	if err != nil {
		return err
	}
	y, ok, err := c.vertical(attrs)
	if err != nil {
		return err
	}
	if !ok {
		y = c.cursor
	}
	col := Black
	if v, ok := attrs["color"]; ok {
		if col, err = parseColor(v); err != nil {
			return err
		}
	}
	c.add(Rule{X1: x, Y1: y, X2: x + w, Y2: y, Thickness: thickness, Color: col})
	return nil
}

func (c *composer) content(cmd *dsl.Command) (string, error) {
	return binding.Interpolate(extractText(cmd.Block), c.values)
}

func (c *composer) measure(text string, size float64, weight Weight) float64 {
	if c.env.Measurer == nil {
		return 0
	}
	return c.env.Measurer.TextWidth(text, size, weight)
}

func textStyle(attrs map[string]string) (float64, Weight, error) {
	size, err := optionalPoints(attrs, "size", defaultTextSize)
	if err != nil {
		return 0, Regular, err
	}
	switch attrs["weight"] {
	case "", "regular", "normal":
		return size, Regular, nil
	case "bold":
		return size, Bold, nil
	default:
		return 0, Regular, fmt.Errorf("peso de fonte desconhecido %q", attrs["weight"])
	}
}

func optionalPoints(attrs map[string]string, key string, def float64) (float64, error) {
	v, ok := attrs[key]
	if !ok {
		return def, nil
	}
	return points(v)
}

func points(v string) (float64, error) {
	l, err := ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.Points(), nil
}

func firstPage(doc *dsl.Document) *dsl.PageSection {
	if doc == nil {
		return nil
	}
	for _, section := range doc.Sections {
		if section.Page != nil {
			return section.Page
		}
	}
	return nil
}

func resolvePageSize(size []*dsl.Lexeme) (float64, float64, error) {
	if len(size) == 0 {
		p := pagePresets["A4"]
		return p[0], p[1], nil
	}
	var w, h float64
	rest := size
	if base, ok := pagePresets[strings.ToUpper(size[0].Value)]; ok {
		w, h = base[0], base[1]
		rest = size[1:]
	} else {
		if len(size) < 2 {
			return 0, 0, fmt.Errorf("layout: tamanho de página incompleto")
		}
		var err error
		if w, err = points(size[0].Value); err != nil {
			return 0, 0, err
		}
		if h, err = points(size[1].Value); err != nil {
			return 0, 0, err
		}
		rest = size[2:]
	}
	for _, tok := range rest {
		if tok.Value == "landscape" {
			w, h = h, w
		}
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("layout: tamanho de página inválido %gx%g", w, h)
	}
	return w, h, nil
}

// parseArgs pairs command arguments as key/value attributes.
func parseArgs(args []*dsl.Lexeme) map[string]string {
	result := map[string]string{}
	for i := 0; i+1 < len(args); i += 2 {
		result[args[i].Value] = args[i+1].Value
	}
	return result
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("cor inválida %q", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("cor inválida %q", value)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Ident != nil:
		return *val.Ident
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
