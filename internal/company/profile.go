package company

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Profile holds what can be read off a company's public website
type Profile struct {
	Description string
	LinkedinURL string
}

// ScrapeProfile reads the meta description (falling back to the page title)
// and the first linkedin company link from an html page
func ScrapeProfile(r io.Reader) (Profile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Profile{}, err
	}
	p := Profile{Description: strings.TrimSpace(doc.Find("title").First().Text())}
	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "description") {
			if prop, _ := s.Attr("property"); !strings.EqualFold(prop, "og:description") {
				return true
			}
		}
		if desc := strings.TrimSpace(s.AttrOr("content", "")); desc != "" {
			p.Description = desc
			return false
		}
		return true
	})
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if strings.Contains(href, "linkedin.com/company/") {
			p.LinkedinURL = href
			return false
		}
		return true
	})
	return p, nil
}

// Fill returns a patch setting only the fields c is missing, and false when
// there is nothing to set
func (p Profile) Fill(c Company) (Patch, bool) {
	var patch Patch
	changed := false
	if p.Description != "" && (c.Description == nil || *c.Description == "") {
		d := p.Description
		patch.Description = &d
		changed = true
	}
	if p.LinkedinURL != "" && (c.LinkedinURL == nil || *c.LinkedinURL == "") {
		l := p.LinkedinURL
		patch.LinkedinURL = &l
		changed = true
	}
	return patch, changed
}
