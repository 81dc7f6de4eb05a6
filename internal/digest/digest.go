// Package digest renders the follow-up reminder email.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/resume-runner/resume-runner/internal/application"
	"github.com/resume-runner/resume-runner/internal/markup"
)

// Subject is the email subject for n follow-ups due within days
func Subject(n, days int) string {
	if n == 0 {
		return "No follow-ups due"
	}
	return fmt.Sprintf("%s due in the next %s", english.Plural(n, "follow-up", ""), english.Plural(days, "day", ""))
}

// Body renders the follow-ups as a markdown list and converts it to sanitized HTML
func Body(items []application.FollowUp, now time.Time) string {
	if len(items) == 0 {
		return markup.MarkdownToHTML("Nothing to chase up. Enjoy the quiet.")
	}
	var b strings.Builder
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, f := range items {
		fmt.Fprintf(&b, "- **%s** (%s)", f.Title, strings.ReplaceAll(f.EventType, "_", " "))
		if about := subjectOf(f); about != "" {
			fmt.Fprintf(&b, " for %s", about)
		}
		fmt.Fprintf(&b, ", due %s\n", due(f.FollowUpDate.Time, today))
	}
	return markup.MarkdownToHTML(b.String())
}

func subjectOf(f application.FollowUp) string {
	parts := make([]string, 0, 3)
	if f.PositionTitle != nil && *f.PositionTitle != "" {
		parts = append(parts, *f.PositionTitle)
	}
	if f.RecruiterName != nil && *f.RecruiterName != "" {
		parts = append(parts, *f.RecruiterName)
	}
	if f.CompanyName != nil && *f.CompanyName != "" {
		parts = append(parts, "at "+*f.CompanyName)
	}
	return strings.Join(parts, " ")
}

func due(date, today time.Time) string {
	if !date.After(today) {
		return "today"
	}
	return humanize.RelTime(date, today, "ago", "from now")
}
