package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// This file contains helper functions for string manipulation.

// slugTransform strips diacritical marks so that names like "Eta Aquariids"
// or accented site names produce stable ASCII identifiers.
var slugTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeSlug turns an arbitrary display name into a lowercase
// hyphen-separated identifier. Event and site ids must be deterministic
// for the same input, so this does no randomization of any kind.
func normalizeSlug(s string) string {
	folded, _, err := transform.String(slugTransform, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
