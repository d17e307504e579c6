package pdf

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// Package pdf renders consent term text into simple PDF documents.
// Layout is deliberately plain: portrait A4, Helvetica, fixed line height.

const (
	pageMargin = 50  // points
	lineHeight = 14  // points
	fontSize   = 11  // points
	wrapWidth  = 100 // characters per line before wrapping
)

// Render writes a PDF of the given consent text to w.
// Paragraphs are split on newlines and greedily wrapped; blank lines are
// preserved as vertical space. Page breaks are automatic.
func Render(content string, w io.Writer) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.AddPage()
	doc.SetFont("Helvetica", "", fontSize)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, line := range wrapText(content, wrapWidth) {
		doc.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// wrapText splits content into lines at most limit characters wide.
// Each input paragraph wraps independently; empty paragraphs yield one
// empty line so blank lines survive rendering.
func wrapText(content string, limit int) []string {
	var out []string
	for _, paragraph := range strings.Split(content, "\n") {
		out = append(out, wrapParagraph(paragraph, limit)...)
	}
	return out
}

func wrapParagraph(paragraph string, limit int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		// Words longer than the limit are hard-split.
		for utf8.RuneCountInString(word) > limit {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(word)
			lines = append(lines, string(r[:limit]))
			word = string(r[limit:])
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= limit:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
