package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	out := MarkdownToHTML("Met with **Dana** about the [role](https://example.com/jobs/1)\n\n<script>alert(1)</script>")
	assert.Contains(t, out, "<strong>Dana</strong>")
	assert.Contains(t, out, `href="https://example.com/jobs/1"`)
	assert.Contains(t, out, "nofollow")
	assert.NotContains(t, out, "<script")
}

func TestMarkdownToHTMLBlank(t *testing.T) {
	assert.Equal(t, "", MarkdownToHTML("  \n "))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<p>About us</p>"))
	assert.True(t, LooksLikeHTML("Requirements<BR/>Go"))
	assert.False(t, LooksLikeHTML("Salary < 100k and > 80k"))
	assert.False(t, LooksLikeHTML("plain text posting"))
}

func TestHTMLToText(t *testing.T) {
	text, err := HTMLToText(`<h1>Backend Engineer</h1><p>Join <b>Acme</b>.</p><ul><li>Go</li><li>Postgres</li></ul><script>track()</script><style>p{}</style>`)
	require.NoError(t, err)
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Join Acme.")
	assert.Contains(t, text, "- Go")
	assert.Contains(t, text, "- Postgres")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "p{}")
}
