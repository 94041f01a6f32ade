// Package naming turns user-entered labels into file-system safe names.
package naming

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultName is used when the user leaves the name field empty.
const DefaultName = "One Happy Orange"

// TimestampLayout renders as YYYYMMDDHHMMSS.
const TimestampLayout = "20060102150405"

// Extension of every captured file.
const Extension = ".png"

// Sanitize replaces spaces with underscores, decomposes the result (NFD) and
// keeps only letters, numbers, connector punctuation and dashes. Combining
// marks left over from decomposition are dropped, so "José" becomes "Jose".
func Sanitize(name string) string {
	decomposed := norm.NFD.String(strings.ReplaceAll(name, " ", "_"))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keep(r rune) bool {
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.Is(unicode.Pc, r) ||
		unicode.Is(unicode.Pd, r)
}

// DisplayName returns text, or DefaultName when text is empty.
func DisplayName(text string) string {
	if text == "" {
		return DefaultName
	}
	return text
}

// FileName builds "{sanitized}_{timestamp}.png" for a capture taken at t.
func FileName(displayName string, t time.Time) string {
	return Sanitize(displayName) + "_" + t.Format(TimestampLayout) + Extension
}
