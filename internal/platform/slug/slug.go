package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make folds accents away and collapses everything else into dashes.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(fold(input)))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// Navbar mirrors the navbar slug rule: lowercase, spaces become dashes, nothing else changes.
func Navbar(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

func fold(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}
