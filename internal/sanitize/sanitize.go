// Package sanitize turns notebook memo markup into plain text.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	controlRunes = strings.NewReplacer("\u007f", "", "\u00ef\u00bb\u00bf", "", "\ufeff", "")
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// Memo strips control characters, byte order mark remnants and HTML markup
// from a memo, keeping line breaks between block elements.
func Memo(raw string) string {
	cleaned := controlRunes.Replace(raw)
	if !strings.ContainsAny(cleaned, "<&") {
		return strings.TrimSpace(cleaned)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err != nil {
		return strings.TrimSpace(cleaned)
	}
	doc.Find("script, style, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	text := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
