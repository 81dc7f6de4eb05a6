// Package prettify cleans up job postings pasted as plain text.
//
// Every pass only removes or inserts whitespace, so the non-whitespace
// content of the input is preserved exactly, and Text is idempotent.
package prettify

import (
	"regexp"
	"strings"
)

type pass struct {
	re   *regexp.Regexp
	repl string
}

var passes = []pass{
	{regexp.MustCompile(`\r\n?`), "\n"},
	{regexp.MustCompile(`[\t\f\v \x{00A0}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]+`), " "},
	{regexp.MustCompile(` +([.,!?;:])`), "$1"},
	// "a,b" becomes "a, b" but "3.14", "10:30" and "example.com" stay intact
	{regexp.MustCompile(`([,;!?])(\pL)`), "$1 $2"},
	{regexp.MustCompile(`([.:])(\p{Lu})`), "$1 $2"},
	{regexp.MustCompile(` *\n *`), "\n"},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Text normalizes whitespace and punctuation spacing while keeping
// paragraph breaks.
func Text(s string) string {
	for _, p := range passes {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return strings.TrimSpace(s)
}
