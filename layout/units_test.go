package layout

import (
	"math"
	"testing"
)

func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 595.5, 842}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"12pt", 12},
		{"-50", -50},
		{"1in", 72},
		{"25.4mm", 72},
		{"2.54cm", 72},
	}
	for _, tc := range cases {
		l, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q): %v", tc.in, err)
		}
		if got := l.Points(); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseLength(%q).Points() = %g, want %g", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "abc", "12px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) should fail", bad)
		}
	}
}

func TestLineHeightResolve(t *testing.T) {
	factor, err := ParseLineHeight("1.5x")
	if err != nil {
		t.Fatal(err)
	}
	if got := factor.Resolve(10); math.Abs(got-15) > 1e-9 {
		t.Fatalf("1.5x at 10pt = %g, want 15", got)
	}
	abs, err := ParseLineHeight("15")
	if err != nil {
		t.Fatal(err)
	}
	if got := abs.Resolve(9); got != 15 {
		t.Fatalf("absolute line height = %g, want 15", got)
	}
	mm, err := ParseLineHeight("6mm")
	if err != nil {
		t.Fatal(err)
	}
	if got := mm.Resolve(9); math.Abs(got-6*MmToPt) > 1e-9 {
		t.Fatalf("6mm line height = %g", got)
	}
}
