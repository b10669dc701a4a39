package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Facet marks a link inside post text. Offsets address the UTF-8 bytes of
// the full text, end exclusive.
type Facet struct {
	ByteStart int
	ByteEnd   int
	URI       string
}

var urlSchemes = []string{"https://", "http://"}

// BuildFacets returns one link facet per http(s) URL in text, left to right.
// A URL runs from its scheme to the next whitespace rune or the end of text,
// so trailing punctuation stays part of the link. Repeated URLs produce
// separate facets.
func BuildFacets(text string) []Facet {
	facets := []Facet{}

	pos := 0
	for pos < len(text) {
		start, scheme := nextScheme(text, pos)
		if start < 0 {
			break
		}

		end := tokenEnd(text, start+len(scheme))
		if end == start+len(scheme) {
			pos = end
			continue
		}

		facets = append(facets, Facet{ByteStart: start, ByteEnd: end, URI: text[start:end]})
		pos = end
	}

	return facets
}

func nextScheme(text string, from int) (int, string) {
	best, bestScheme := -1, ""
	for _, scheme := range urlSchemes {
		idx := strings.Index(text[from:], scheme)
		if idx < 0 {
			continue
		}
		idx += from
		if best < 0 || idx < best {
			best, bestScheme = idx, scheme
		}
	}

	return best, bestScheme
}

func tokenEnd(text string, from int) int {
	i := from
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += size
	}

	return i
}
