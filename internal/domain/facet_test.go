package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFacets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Facet
	}{
		{name: "empty text", text: "", want: []Facet{}},
		{name: "no urls", text: "just words here", want: []Facet{}},
		{
			name: "single url",
			text: "Hello https://example.com",
			want: []Facet{{ByteStart: 6, ByteEnd: 25, URI: "https://example.com"}},
		},
		{
			name: "multibyte prefix uses byte offsets",
			text: "café https://x.example",
			want: []Facet{{ByteStart: 6, ByteEnd: 23, URI: "https://x.example"}},
		},
		{
			name: "trailing punctuation is kept",
			text: "see http://a.example/path.",
			want: []Facet{{ByteStart: 4, ByteEnd: 26, URI: "http://a.example/path."}},
		},
		{
			name: "bare scheme is ignored",
			text: "https:// nothing",
			want: []Facet{},
		},
		{
			name: "url inside a token starts at the scheme",
			text: "(https://a.example)",
			want: []Facet{{ByteStart: 1, ByteEnd: 19, URI: "https://a.example)"}},
		},
		{
			name: "newline ends the url",
			text: "https://a.example\nnext",
			want: []Facet{{ByteStart: 0, ByteEnd: 17, URI: "https://a.example"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, BuildFacets(tc.text))
		})
	}
}

func TestBuildFacetsKeepsDuplicateURLsAsDisjointSpans(t *testing.T) {
	t.Parallel()

	text := "🚀 https://dup.example and again https://dup.example"
	facets := BuildFacets(text)

	require.Len(t, facets, 2)
	raw := []byte(text)
	for _, facet := range facets {
		assert.Less(t, facet.ByteStart, facet.ByteEnd)
		assert.LessOrEqual(t, facet.ByteEnd, len(raw))
		assert.Equal(t, "https://dup.example", string(raw[facet.ByteStart:facet.ByteEnd]))
	}
	assert.LessOrEqual(t, facets[0].ByteEnd, facets[1].ByteStart)
	assert.Equal(t, 5, facets[0].ByteStart)
}

func TestBuildFacetsMixedSchemesInOrder(t *testing.T) {
	t.Parallel()

	facets := BuildFacets("https://b.example then http://a.example")

	require.Len(t, facets, 2)
	assert.Equal(t, "https://b.example", facets[0].URI)
	assert.Equal(t, "http://a.example", facets[1].URI)
}
