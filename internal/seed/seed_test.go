package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = `
tags:
  - name: golang
    color: "#00ADD8"
companies:
  - name: Acme
    website: https://acme.test
    starred: true
recruiters:
  - name: Jane Doe
    status: warm
    companies: [acme]
resumes:
  - name: Backend v2
    tags: [GoLang]
applications:
  - company: ACME
    position: Go Developer
    recruiter: jane doe
    resume: backend v2
    date: 2024-03-01
    remote: "yes"
`

func TestParseResolvesNamesCaseInsensitively(t *testing.T) {
	f, err := Parse(strings.NewReader(fixtures))
	require.NoError(t, err)
	assert.Len(t, f.Tags, 1)
	assert.Len(t, f.Applications, 1)
	assert.Equal(t, "2024-03-01", f.Applications[0].Date)
}

func TestParseRejectsBadFixtures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  string
	}{
		{"unknown field", "companies:\n  - name: Acme\n    size: big\n", "unable to decode fixtures"},
		{"duplicate", "tags:\n  - name: go\n  - name: Go\n", `duplicate tag "Go"`},
		{"missing name", "companies:\n  - website: x\n", "company #1 has no name"},
		{"unknown company", "applications:\n  - company: Nope\n    position: Dev\n", `unknown company "Nope"`},
		{"unknown tag", "resumes:\n  - name: r\n    tags: [x]\n", `unknown tag "x"`},
		{"bad status", "companies:\n  - name: A\napplications:\n  - company: A\n    position: Dev\n    status: ghosted\n", `unknown status "ghosted"`},
		{"bad recruiter status", "recruiters:\n  - name: R\n    status: best\n", `unknown status "best"`},
		{"bad date", "companies:\n  - name: A\napplications:\n  - company: A\n    position: Dev\n    date: 03/01/2024\n", "application \"Dev\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Companies)
}

func TestLoadTagsAndCompanies(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f, err := Parse(strings.NewReader("tags:\n  - name: golang\ncompanies:\n  - name: Acme\n    remote: true\n"))
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO tags`).WithArgs("golang", nil, "#3B82F6").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
	mock.ExpectQuery(`INSERT INTO companies`).
		WithArgs("Acme", nil, nil, nil, nil, nil, nil, true, false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	n, err := Load(context.Background(), db, f)
	require.NoError(t, err)
	assert.Equal(t, Counts{Tags: 1, Companies: 1}, n)
	assert.Equal(t, "1 tags, 1 companies, 0 recruiters, 0 resumes, 0 applications", n.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
