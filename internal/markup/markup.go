package markup

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

var (
	notesPolicy = newNotesPolicy()
	htmlRe      = regexp.MustCompile(`(?i)<\s*(p|div|br|li|ul|ol|h[1-6]|span|strong|b|em|a|table|section)\b`)
)

const blockSelector = "p, div, h1, h2, h3, h4, h5, h6, ul, ol, table, tr, section, article, header, footer, blockquote, pre"

func newNotesPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// MarkdownToHTML renders free text notes as sanitized HTML
func MarkdownToHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	unsafe := blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer))
	return string(notesPolicy.SanitizeBytes(unsafe))
}

// LooksLikeHTML is a cheap check for markup pasted from a job board page
func LooksLikeHTML(s string) bool {
	return htmlRe.MatchString(s)
}

// HTMLToText reduces an HTML fragment to text, keeping block boundaries as
// line breaks and list items as "- " bullets.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, iframe, svg").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(i int, s *goquery.Selection) {
		s.PrependHtml("- ")
		s.AppendHtml("\n")
	})
	doc.Find(blockSelector).Each(func(i int, s *goquery.Selection) {
		s.PrependHtml("\n")
		s.AppendHtml("\n\n")
	})
	return strings.TrimSpace(doc.Text()), nil
}
