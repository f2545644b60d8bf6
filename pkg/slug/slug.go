// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns movie titles into URL path segments,
// e.g. "Amélie" becomes "amelie" and "2001: A Space Odyssey" becomes
// "2001-a-space-odyssey".
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var separators = regexp.MustCompile(`[^a-z0-9]+`)

// stripAccents decomposes letters and drops the combining marks.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From returns the ASCII slug for title. Titles without any ASCII letter or
// digit yield "".
func From(title string) string {
	plain, _, err := transform.String(stripAccents, title)
	if err != nil {
		plain = title
	}

	return strings.Trim(separators.ReplaceAllString(strings.ToLower(plain), "-"), "-")
}
