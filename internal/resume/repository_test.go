package resume

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var versionColumns = []string{
	"id", "version_name", "filename", "description", "content_text", "word_count", "target_roles", "skills_emphasized",
	"is_master", "s3_key", "editable_s3_key", "editable_filename", "created_at", "updated_at",
}

var tagColumns = []string{"resume_version_id", "id", "name", "description", "color", "created_at"}

func versionRow(id int64, name string, master bool) []driver.Value {
	now := time.Now()
	return []driver.Value{id, name, nil, nil, "go sql kafka", 3, "{backend,platform}", nil, master, nil, nil, nil, now, now}
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestListAttachesTags(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`FROM resume_versions rv ORDER BY rv.is_master DESC`).
		WillReturnRows(sqlmock.NewRows(versionColumns).
			AddRow(versionRow(1, "Master", true)...).
			AddRow(versionRow(2, "Frontend", false)...))
	mock.ExpectQuery(`WHERE rt.resume_version_id = ANY\(\$1\)`).
		WithArgs(pq.Array([]int64{1, 2})).
		WillReturnRows(sqlmock.NewRows(tagColumns).
			AddRow(2, 10, "react", nil, "#3B82F6", now).
			AddRow(1, 11, "go", nil, "#000000", now).
			AddRow(2, 11, "go", nil, "#000000", now))

	res, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []string{"backend", "platform"}, res[0].TargetRoles)
	assert.Equal(t, []string{}, res[0].SkillsEmphasized)
	require.Len(t, res[0].Tags, 1)
	assert.Equal(t, "go", res[0].Tags[0].Name)
	assert.Len(t, res[1].Tags, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTags(t *testing.T) {
	names := []string{"go", "backend"}

	t.Run("any", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`WHERE LOWER\(t.name\) = ANY\(\$1\)\s+GROUP BY rt.resume_version_id\s+\)`).
			WithArgs(pq.Array(names)).
			WillReturnRows(sqlmock.NewRows(versionColumns))
		res, err := repo.ListByTags(context.Background(), names, false)
		require.NoError(t, err)
		assert.Empty(t, res)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`HAVING COUNT\(DISTINCT t.id\) = \$2`).
			WithArgs(pq.Array(names), 2).
			WillReturnRows(sqlmock.NewRows(versionColumns).AddRow(versionRow(4, "Platform", false)...))
		mock.ExpectQuery(`FROM resume_tags rt`).
			WithArgs(pq.Array([]int64{4})).
			WillReturnRows(sqlmock.NewRows(tagColumns))
		res, err := repo.ListByTags(context.Background(), names, true)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, int64(4), res[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateMasterClearsOthers(t *testing.T) {
	repo, mock := newRepo(t)
	text := "Senior Go engineer  with ten years"
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE resume_versions SET is_master = FALSE, updated_at = NOW\(\) WHERE is_master AND id <> \$1`).
		WithArgs(0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO resume_versions`).
		WithArgs("Master", nil, nil, text, 6, pq.Array([]string{}), pq.Array([]string{}), true, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
	mock.ExpectCommit()

	v, err := repo.Create(context.Background(), Version{VersionName: "Master", ContentText: &text, IsMaster: true})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.ID)
	assert.Equal(t, 6, v.WordCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateNameRollsBack(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO resume_versions`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), Version{VersionName: "Master"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRecountsWords(t *testing.T) {
	repo, mock := newRepo(t)
	text := "one two three"
	master := true
	mock.ExpectBegin()
	mock.ExpectExec(`WHERE is_master AND id <> \$1`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE resume_versions SET content_text = \$1, word_count = \$2, is_master = \$3, updated_at = NOW\(\) WHERE id = \$4`).
		WithArgs(text, 3, true, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`WHERE rv.id = \$1`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(versionColumns).AddRow(versionRow(3, "Backend", true)...))
	mock.ExpectQuery(`FROM resume_tags rt`).WillReturnRows(sqlmock.NewRows(tagColumns))

	v, err := repo.Update(context.Background(), 3, Patch{ContentText: &text, IsMaster: &master})
	require.NoError(t, err)
	assert.True(t, v.IsMaster)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissing(t *testing.T) {
	repo, mock := newRepo(t)
	name := "x"
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE resume_versions SET version_name = \$1`).WithArgs(name, 99).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 99, Patch{VersionName: &name})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTags(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM resume_tags WHERE resume_version_id = \$1`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO resume_tags \(resume_version_id, tag_id\) SELECT \$1, UNNEST\(\$2::BIGINT\[\]\)`).
		WithArgs(5, pq.Array([]int64{1, 2})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`WHERE rt.resume_version_id = \$1`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "color", "created_at"}).
			AddRow(1, "go", nil, "#3B82F6", now).
			AddRow(2, "remote", nil, "#3B82F6", now))

	tags, err := repo.SetTags(context.Background(), 5, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTagsMissingVersion(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.SetTags(context.Background(), 5, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveTagNotTagged(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`DELETE FROM resume_tags`).WithArgs(1, 2).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.RemoveTag(context.Background(), 1, 2), sql.ErrNoRows)
}

func TestSuccessMetrics(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM resume_success_metrics`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version_name", "is_master", "total_applications", "responses", "interviews", "offers"}).
			AddRow(1, "Master", true, 8, 4, 2, 1).
			AddRow(2, "Unused", false, 0, 0, 0, 0))

	res, err := repo.SuccessMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 50.0, res[0].ResponseRate)
	assert.Equal(t, 25.0, res[0].InterviewRate)
	assert.Equal(t, 12.5, res[0].OfferRate)
	assert.Equal(t, 0.0, res[1].ResponseRate)
}

func TestWordCount(t *testing.T) {
	s := "  hello\tworld\n again "
	assert.Equal(t, 3, WordCount(&s))
	assert.Equal(t, 0, WordCount(nil))
}

func TestParseTagNames(t *testing.T) {
	assert.Equal(t, []string{"go", "remote"}, ParseTagNames(" Go, remote,,go "))
	assert.Equal(t, []string{}, ParseTagNames(""))
}
