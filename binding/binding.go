// Package binding substitutes ${name} placeholders in template text.
package binding

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// MissingError lists placeholders without a value.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("binding: valores ausentes para %s", strings.Join(e.Names, ", "))
}

// Interpolate replaces each ${name} in text with values[name]. Unlike a
// lenient template, an unknown name is an error so a notice is never issued
// with a raw placeholder in it. An empty value is a valid substitution.
func Interpolate(text string, values map[string]string) (string, error) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		val, ok := values[name]
		if !ok {
			if !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
			return match
		}
		return val
	})
	if len(missing) > 0 {
		return "", &MissingError{Names: missing}
	}
	return out, nil
}

// Names returns the distinct placeholder names in text, in order of first use.
func Names(text string) []string {
	var names []string
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}
