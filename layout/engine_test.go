package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// charMeasurer gives every rune perChar points at size 10, scaled linearly.
type charMeasurer struct{ perChar float64 }

func (m charMeasurer) TextWidth(text string, size float64, _ Weight) float64 {
	return float64(len([]rune(text))) * m.perChar * size / 10
}

type sizes map[string][2]float64

func (s sizes) ImageSize(name string) (float64, float64, bool) {
	v, ok := s[name]
	return v[0], v[1], ok
}

func perChar(w float64) func(string) float64 {
	return func(s string) float64 { return float64(len([]rune(s))) * w }
}

func TestWrapGreedy(t *testing.T) {
	got := Wrap("aa bb cc dddddddddd", 100, perChar(10))
	want := []string{"aa bb cc", "dddddddddd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
}

func TestWrapOverflowWordAlone(t *testing.T) {
	got := Wrap("aa dddddddddddd bb", 100, perChar(10))
	want := []string{"aa", "dddddddddddd", "bb"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
}

func TestWrapEmpty(t *testing.T) {
	if got := Wrap("   \n\t ", 100, perChar(10)); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
}

func TestWrapPreservesWords(t *testing.T) {
	text := "Os Autos Foram Encaminhados Pelo Tj À Vara da Fazenda para a Execução do Processo"
	for _, max := range []float64{30, 80, 200, 10000} {
		lines := Wrap(text, max, perChar(5))
		if got := strings.Join(lines, " "); got != strings.Join(strings.Fields(text), " ") {
			t.Fatalf("max=%g: words changed: %q", max, got)
		}
		for _, l := range lines {
			if perChar(5)(l) > max && strings.Contains(l, " ") {
				t.Fatalf("max=%g: line %q overflows", max, l)
			}
		}
	}
}

func TestCenterX(t *testing.T) {
	if got := CenterX(595.5, 100); got != 247.75 {
		t.Fatalf("CenterX = %g, want 247.75", got)
	}
}

func TestResolve(t *testing.T) {
	page := Page{
		Width:  595.5,
		Height: 842,
		Blocks: []Block{
			Image{Resource: "seal", X: 25, Y: 700, Scale: 0.5},
			CenteredText{Text: "TRIBUNAL", Y: 682, Size: 10, Weight: Bold},
			FixedText{Text: "Credor:", X: 60, Y: 542, Size: 10},
			FlowParagraph{Text: "aa bb cc dddddddddd", X: 60, YStart: 400, MaxWidth: 100, Size: 10, LineHeight: 15},
			Rect{X: 55, Y: 300, Width: 485, Height: 22, Fill: DefaultFill},
			Rule{X1: 60, Y1: 298, X2: 160, Y2: 298, Thickness: 1},
		},
	}
	env := Env{Measurer: charMeasurer{perChar: 10}, Images: sizes{"seal": {200, 100}}}
	got, err := Resolve(page, env)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []Instruction{
		{Kind: KindImage, Resource: "seal", X: 25, Y: 700, Width: 100, Height: 50},
		{Kind: KindText, Text: "TRIBUNAL", X: 257.75, Y: 682, Size: 10, Weight: Bold},
		{Kind: KindText, Text: "Credor:", X: 60, Y: 542, Size: 10},
		{Kind: KindText, Text: "aa bb cc", X: 60, Y: 400, Size: 10},
		{Kind: KindText, Text: "dddddddddd", X: 60, Y: 385, Size: 10},
		{Kind: KindRect, X: 55, Y: 300, Width: 485, Height: 22, Color: DefaultFill},
		{Kind: KindLine, X: 60, Y: 298, X2: 160, Y2: 298, Thickness: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("instructions (-want +got):\n%s", diff)
	}

	again, _ := Resolve(page, env)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("resolution is not deterministic:\n%s", diff)
	}
}

func TestResolveMissingImage(t *testing.T) {
	page := Page{Width: 100, Height: 100, Blocks: []Block{Image{Resource: "ghost", Scale: 1}}}
	if _, err := Resolve(page, Env{Measurer: charMeasurer{1}, Images: sizes{}}); err == nil {
		t.Fatalf("expected error for an unloaded image")
	}
}

func TestResolveEmptyParagraph(t *testing.T) {
	page := Page{Blocks: []Block{FlowParagraph{Text: " ", MaxWidth: 10, Size: 9, LineHeight: 15}}}
	got, err := Resolve(page, Env{Measurer: charMeasurer{1}})
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}
