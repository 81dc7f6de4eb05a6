package company

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeHomepage = `<html><head>
<title>Acme | Home</title>
<meta name="viewport" content="width=device-width">
<meta name="Description" content="  Acme builds rockets.  ">
</head><body>
<a href="https://twitter.com/acme">twitter</a>
<a href="https://www.linkedin.com/company/acme/">linkedin</a>
<a href="https://www.linkedin.com/company/other/">other</a>
</body></html>`

func TestScrapeProfile(t *testing.T) {
	p, err := ScrapeProfile(strings.NewReader(acmeHomepage))
	require.NoError(t, err)
	assert.Equal(t, "Acme builds rockets.", p.Description)
	assert.Equal(t, "https://www.linkedin.com/company/acme/", p.LinkedinURL)
}

func TestScrapeProfileFallsBackToTitle(t *testing.T) {
	p, err := ScrapeProfile(strings.NewReader(`<html><head><title> Globex </title></head><body><a href="https://linkedin.com/in/someone">me</a></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Globex", p.Description)
	assert.Empty(t, p.LinkedinURL)
}

func TestProfileFillKeepsExistingValues(t *testing.T) {
	existing := "hand written"
	p := Profile{Description: "scraped", LinkedinURL: "https://linkedin.com/company/acme"}

	patch, ok := p.Fill(Company{Description: &existing})
	require.True(t, ok)
	assert.Nil(t, patch.Description)
	assert.Equal(t, "https://linkedin.com/company/acme", *patch.LinkedinURL)

	link := "https://linkedin.com/company/acme"
	_, ok = p.Fill(Company{Description: &existing, LinkedinURL: &link})
	assert.False(t, ok)
}
