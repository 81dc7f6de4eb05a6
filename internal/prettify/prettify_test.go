package prettify

import (
	"strings"
	"testing"
	"testing/quick"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\n\n ", ""},
		{"collapse spaces", "Senior   Go\tEngineer", "Senior Go Engineer"},
		{"space before punctuation", "Great team , remote friendly !", "Great team, remote friendly!"},
		{"missing space after comma", "Go,Postgres,Kubernetes", "Go, Postgres, Kubernetes"},
		{"missing space after sentence", "We ship daily.You will own services.", "We ship daily. You will own services."},
		{"urls are kept", "Apply at https://example.com/jobs.html today", "Apply at https://example.com/jobs.html today"},
		{"decimals and times are kept", "Salary 120.5k, standup at 10:30", "Salary 120.5k, standup at 10:30"},
		{"windows line endings", "Line one\r\nLine two\rLine three", "Line one\nLine two\nLine three"},
		{"spaces around newlines", "Title  \n   Body", "Title\nBody"},
		{"paragraphs survive", "About us\n\nThe role", "About us\n\nThe role"},
		{"blank line runs collapse", "About us\n\n\n\n\nThe role", "About us\n\nThe role"},
		{"blank lines with spaces collapse", "About us\n \n\t\n  \nThe role", "About us\n\nThe role"},
		{"non breaking spaces", "Remote\u00a0\u00a0first", "Remote first"},
		{"trim", "\n\n  Hello  \n\n", "Hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func nonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

var samples = []string{
	"Senior   Go Engineer\r\n\r\n\r\nWe are hiring , apply now!Salary:120k . Remote:Yes",
	"  a ,b ;c !d ?e .F :G  ",
	"x !  ?y",
	"a ,  ,b",
	"U.S.A based.\n\n\n\n\tTeam",
	"   , x\u0085\n\n\n y",
	strings.Repeat("word , ", 20),
}

func TestTextIsIdempotent(t *testing.T) {
	for _, s := range samples {
		once := Text(s)
		assert.Equal(t, once, Text(once), "input %q", s)
	}
	f := func(s string) bool {
		once := Text(s)
		return Text(once) == once
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 2000}))
}

func TestTextNeverAddsContent(t *testing.T) {
	for _, s := range samples {
		assert.LessOrEqual(t, nonSpace(Text(s)), nonSpace(s), "input %q", s)
	}
	f := func(s string) bool {
		return nonSpace(Text(s)) <= nonSpace(s)
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 2000}))
}
