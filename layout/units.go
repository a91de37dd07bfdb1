package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file converts template lengths to points, the unit of every block.

// Unit is the unit a template length was written in.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, read as points
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

// UnitToString returns the suffix of u.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length keeps a value with the unit it was written in.
type Length struct {
	Value float64
	Unit  Unit
}

// Points converts l to PDF points. Bare numbers already are points.
func (l Length) Points() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength reads "12", "12pt", "4.5mm", "-50", ...
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("comprimento vazio")
	}
	unit := UnitNone
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSuffix(v, suf.s)
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("comprimento inválido %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind distinguishes a factor of the font size from a length.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec is either "1.5x" (factor) or an absolute length ("15").
type LineHeightSpec struct {
	Kind   LineHeightKind
	Factor float64
	Len    Length
}

// ParseLineHeight reads a line-height attribute.
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.TrimSpace(value)
	if f, ok := strings.CutSuffix(v, "x"); ok {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return LineHeightSpec{}, fmt.Errorf("altura de linha inválida %q", value)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: n}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Resolve returns the line height in points for text of fontSize points.
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	if s.Kind == LineHeightAbsolute {
		return s.Len.Points()
	}
	return fontSize * s.Factor
}
