package layout

import "strings"

// wrapState is the accumulator of the greedy line-breaking fold.
type wrapState struct {
	lines   []string
	pending string
}

// step feeds one word: if appending it would overflow maxWidth and the
// pending line is not empty, the pending line is completed first.
func (s wrapState) step(word string, maxWidth float64, width func(string) float64) wrapState {
	candidate := word
	if s.pending != "" {
		candidate = s.pending + " " + word
	}
	if width(candidate) > maxWidth && s.pending != "" {
		s.lines = append(s.lines, s.pending)
		s.pending = word
		return s
	}
	s.pending = candidate
	return s
}

// Wrap breaks text into lines no wider than maxWidth, splitting only on
// whitespace. A word wider than maxWidth is never split; it gets a line of
// its own. Text without words yields no lines.
func Wrap(text string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var s wrapState
	for _, w := range words {
		s = s.step(w, maxWidth, width)
	}
	return append(s.lines, s.pending)
}
