package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer

	err := Render("I agree to the terms of this consent.\n\nSigned electronically.", &buf)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output should start with a PDF header")
	assert.Greater(t, buf.Len(), 500)
}

func TestRender_LongContentPaginates(t *testing.T) {
	var short, long bytes.Buffer

	require.NoError(t, Render("one line", &short))

	// Enough lines to force several page breaks at 14pt leading on A4.
	content := strings.Repeat("This consent clause restates the same obligation in slightly different words.\n", 400)
	require.NoError(t, Render(content, &long))

	assert.Greater(t, long.Len(), short.Len())
}

func TestRender_EmptyContent(t *testing.T) {
	var buf bytes.Buffer

	err := Render("", &buf)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		limit   int
		want    []string
	}{
		{
			name:    "short line unchanged",
			content: "hello world",
			limit:   100,
			want:    []string{"hello world"},
		},
		{
			name:    "wraps at word boundary",
			content: "alpha beta gamma",
			limit:   10,
			want:    []string{"alpha beta", "gamma"},
		},
		{
			name:    "blank paragraph preserved",
			content: "first\n\nsecond",
			limit:   100,
			want:    []string{"first", "", "second"},
		},
		{
			name:    "whitespace-only paragraph becomes empty line",
			content: "first\n   \nsecond",
			limit:   100,
			want:    []string{"first", "", "second"},
		},
		{
			name:    "long word hard-split",
			content: "abcdefghij",
			limit:   4,
			want:    []string{"abcd", "efgh", "ij"},
		},
		{
			name:    "long word after text flushes current line",
			content: "ok abcdefghij",
			limit:   4,
			want:    []string{"ok", "abcd", "efgh", "ij"},
		},
		{
			name:    "empty content yields one empty line",
			content: "",
			limit:   100,
			want:    []string{""},
		},
		{
			name:    "multibyte runes counted per rune",
			content: "ééééé ééééé",
			limit:   5,
			want:    []string{"ééééé", "ééééé"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.content, tt.limit))
		})
	}
}
