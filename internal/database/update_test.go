package database

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companyPatch struct {
	Name             *string
	LinkedinURL      *string `db:"linkedin_url"`
	IsRemoteFriendly *bool
	Skills           *[]string `db:"skills_emphasized"`
	Internal         *string   `db:"-"`
	ignored          *string
}

func strPtr(s string) *string { return &s }

func TestBuildUpdate(t *testing.T) {
	remote := true
	skills := []string{"go", "sql"}
	stmt, args, err := BuildUpdate("companies", 42, companyPatch{
		Name:             strPtr("Acme"),
		IsRemoteFriendly: &remote,
		Skills:           &skills,
		Internal:         strPtr("skip me"),
		ignored:          strPtr("skip me too"),
	}, "updated_at = NOW()")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE companies SET name = $1, is_remote_friendly = $2, skills_emphasized = $3, updated_at = NOW() WHERE id = $4", stmt)
	require.Len(t, args, 4)
	assert.Equal(t, "Acme", args[0])
	assert.Equal(t, true, args[1])
	assert.Equal(t, pq.Array(skills), args[2])
	assert.Equal(t, int64(42), args[3])
}

func TestBuildUpdateUsesTagOverSnakeCase(t *testing.T) {
	stmt, _, err := BuildUpdate("companies", 1, &companyPatch{LinkedinURL: strPtr("https://linkedin.com/company/acme")})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE companies SET linkedin_url = $1 WHERE id = $2", stmt)
}

func TestBuildUpdateEmptyPatch(t *testing.T) {
	_, _, err := BuildUpdate("companies", 1, companyPatch{}, "updated_at = NOW()")
	assert.Equal(t, ErrEmptyPatch, err)
}

func TestBuildUpdateRejectsNonStruct(t *testing.T) {
	_, _, err := BuildUpdate("companies", 1, "name")
	assert.Error(t, err)
}

func TestBuildKeyedUpdate(t *testing.T) {
	stmt, args, err := BuildKeyedUpdate(
		"company_recruiters",
		companyPatch{Name: strPtr("contract")},
		[]string{"company_id", "recruiter_id"},
		[]interface{}{int64(3), int64(8)},
	)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE company_recruiters SET name = $1 WHERE company_id = $2 AND recruiter_id = $3", stmt)
	assert.Equal(t, []interface{}{"contract", int64(3), int64(8)}, args)

	_, _, err = BuildKeyedUpdate("company_recruiters", companyPatch{Name: strPtr("x")}, []string{"company_id"}, nil)
	assert.Error(t, err)
}
