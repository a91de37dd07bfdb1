package layout

// This file defines content blocks, resolved draw instructions and the
// result handed to renderers. Coordinates are PDF points with the origin at
// the bottom-left corner of the page; y grows upwards.

// Weight selects the regular or bold face. Every text block carries one.
type Weight int

const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// MarshalText implements encoding.TextMarshaler for the debug JSON.
func (w Weight) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Color uses 0-255 RGB channels.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black is the default ink.
var Black = Color{}

// Block is one unit of page content awaiting resolution.
type Block interface {
	block()
}

// FixedText is drawn with its baseline starting at (X, Y).
type FixedText struct {
	Text   string
	X, Y   float64
	Size   float64
	Weight Weight
}

// CenteredText is centred horizontally on the page from its measured width.
type CenteredText struct {
	Text   string
	Y      float64
	Size   float64
	Weight Weight
}

// Image places a named resource at (X, Y), its bottom-left corner, sized by
// Scale times its intrinsic dimensions.
type Image struct {
	Resource string
	X, Y     float64
	Scale    float64
	Opacity  float64 // 0 means fully opaque
}

// FlowParagraph is word-wrapped to MaxWidth; the first baseline is YStart and
// each further line sits LineHeight lower.
type FlowParagraph struct {
	Text       string
	X, YStart  float64
	MaxWidth   float64
	Size       float64
	Weight     Weight
	LineHeight float64
}

// Rect is a filled rectangle anchored at its bottom-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
	Fill          Color
}

// Rule is a straight stroked line.
type Rule struct {
	X1, Y1, X2, Y2 float64
	Thickness      float64
	Color          Color
}

func (FixedText) block()     {}
func (CenteredText) block()  {}
func (Image) block()         {}
func (FlowParagraph) block() {}
func (Rect) block()          {}
func (Rule) block()          {}

// Page is a fixed-size page; Blocks are painted in order, back to front.
type Page struct {
	Width  float64
	Height float64
	Blocks []Block
}

// Kind tags a resolved instruction.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindRect  Kind = "rect"
	KindLine  Kind = "line"
)

// Instruction is a fully positioned draw operation.
type Instruction struct {
	Kind      Kind    `json:"kind"`
	Text      string  `json:"text,omitempty"`
	Resource  string  `json:"resource,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	X2        float64 `json:"x2,omitempty"`
	Y2        float64 `json:"y2,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Weight    Weight  `json:"weight"`
	Opacity   float64 `json:"opacity,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
	Color     Color   `json:"color"`
}

// Result is what renderers consume: page size, metadata and instructions.
type Result struct {
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	Meta         DocumentMeta  `json:"meta"`
	Instructions []Instruction `json:"instructions"`
}

// ImageResource is an image declared by a template.
type ImageResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// DocumentMeta holds the PDF info dictionary.
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
