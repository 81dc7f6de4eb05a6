package jobposting

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/remote"
)

var postingColumns = []string{
	"id", "company_id", "name", "title", "description", "salary_min", "salary_max", "is_remote",
	"location", "job_board_url", "s3_screenshot_key", "date_posted", "created_at",
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestListFiltersByCompany(t *testing.T) {
	repo, mock := newRepo(t)
	posted := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE jp.company_id = \$1 ORDER BY jp.date_posted DESC`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(postingColumns).
			AddRow(1, 3, "Acme", "Go Developer", nil, 100000, nil, true, "Berlin", nil, nil, posted, posted).
			AddRow(2, 3, "Acme", "SRE", nil, nil, nil, nil, nil, nil, nil, posted, posted))

	res, err := repo.List(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Acme", res[0].CompanyName)
	assert.Equal(t, remote.Remote, res[0].IsRemote)
	assert.Equal(t, remote.Unknown, res[1].IsRemote)
	assert.Equal(t, "2024-03-01", res[0].DatePosted.String())
	assert.Nil(t, res[0].ApplicationCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`JOIN companies c ON c.id = jp.company_id ORDER BY`).WithArgs().
		WillReturnRows(sqlmock.NewRows(postingColumns))
	res, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCompanyCountsApplications(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications a WHERE a.job_posting_id = jp.id`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(append(postingColumns, "count")).
			AddRow(1, 3, "Acme", "Go Developer", nil, nil, nil, false, nil, nil, nil, now, now, 4))

	res, err := repo.ListByCompany(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NotNil(t, res[0].ApplicationCount)
	assert.Equal(t, 4, *res[0].ApplicationCount)
	assert.Equal(t, remote.Onsite, res[0].IsRemote)
}

func TestCreateDefaultsDatePosted(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO job_postings`).
		WithArgs(3, "Go Developer", nil, nil, nil, true, nil, nil, nil, calendar.Today().String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(8, now))
	mock.ExpectQuery(`WHERE jp.id = \$1`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(postingColumns).
			AddRow(8, 3, "Acme", "Go Developer", nil, nil, nil, true, nil, nil, nil, now, now))

	p, err := repo.Create(context.Background(), Posting{CompanyID: 3, Title: "Go Developer", IsRemote: remote.Remote})
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.ID)
	assert.Equal(t, "Acme", p.CompanyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissing(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`WHERE jp.id = \$1`).WithArgs(9).WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
