package application

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

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/remote"
)

var applicationColumns = []string{
	"id", "company_id", "company_name", "job_posting_id", "job_posting_title", "recruiter_id", "recruiter_name",
	"resume_version_id", "resume_version", "position_title", "application_date", "application_source", "status",
	"response_date", "cover_letter_s3_key", "job_posting_text", "job_location", "job_url", "salary_min", "salary_max",
	"is_remote", "notes", "outcome_notes", "created_at", "updated_at",
}

var detailColumns = append(append([]string{}, applicationColumns...),
	"company_website", "resume_content", "resume_skills", "job_description", "recruiter_email")

func applicationRow(id int64, status string) []driver.Value {
	now := time.Now()
	applied := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, 3, "Acme", nil, nil, nil, nil,
		9, "Backend v2", "Go Developer", applied, "linkedin", status,
		nil, nil, nil, "Berlin", nil, 100000, nil,
		true, nil, nil, now, now,
	}
}

func detailRow(id int64, status string) []driver.Value {
	return append(applicationRow(id, status), "https://acme.test", "resume text", "{go,postgres}", nil, nil)
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestListByStatus(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`LEFT JOIN resume_versions rv ON rv.id = a.resume_version_id WHERE a.status = \$1`).
		WithArgs(StatusInterview).
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(applicationRow(1, StatusInterview)...))

	res, err := repo.List(context.Background(), StatusInterview)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Acme", res[0].CompanyName)
	assert.Equal(t, "Backend v2", *res[0].ResumeVersion)
	assert.Equal(t, remote.Remote, res[0].IsRemote)
	assert.Equal(t, "2024-04-02", res[0].ApplicationDate.String())
	assert.True(t, res[0].ResponseDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchByCompanyEscapesPattern(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`WHERE c.name ILIKE \$1`).
		WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	res, err := repo.SearchByCompany(context.Background(), " 100% ")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFallsBackToPosting(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`COALESCE\(a.salary_min, jp.salary_min\), COALESCE\(a.salary_max, jp.salary_max\),\s+COALESCE\(a.is_remote, jp.is_remote\)`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(detailColumns).AddRow(detailRow(1, StatusApplied)...))

	d, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "postgres"}, d.ResumeSkills)
	assert.Equal(t, "https://acme.test", *d.CompanyWebsite)
	assert.Equal(t, 100000, *d.SalaryMin)
}

func TestGetMissing(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`WHERE a.id = \$1`).WithArgs(404).WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateRecordsSubmission(t *testing.T) {
	repo, mock := newRepo(t)
	applied := calendar.New(time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC))
	salary := 100000
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(3, nil, nil, nil, "Go Developer", "2024-04-02", nil, StatusApplied, nil, nil, nil, nil, salary, nil, true, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO application_events \(application_id, event_type, event_date, title, description, outcome\)`).
		WithArgs(1, EventTypeSubmitted, "2024-04-02", "Application Submitted", sqlmock.AnyArg(), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`WHERE a.id = \$1`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(detailColumns).AddRow(detailRow(1, StatusApplied)...))

	d, err := repo.Create(context.Background(), Application{
		CompanyID:       3,
		PositionTitle:   "Go Developer",
		ApplicationDate: applied,
		SalaryMin:       &salary,
		IsRemote:        remote.Remote,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackWhenEventFails(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO applications`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO application_events`).WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), Application{CompanyID: 3, PositionTitle: "Go Developer"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSkipsInvalidNumbers(t *testing.T) {
	repo, mock := newRepo(t)
	p, err := ParsePatch([]byte(`{"salary_min": "120000", "salary_max": "abc", "is_remote": "yes"}`))
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE applications SET salary_min = \$1, is_remote = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(120000, true, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE a.id = \$1`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows(detailColumns).AddRow(detailRow(4, StatusApplied)...))

	_, err = repo.Update(context.Background(), 4, p)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClearsSalary(t *testing.T) {
	repo, mock := newRepo(t)
	p, err := ParsePatch([]byte(`{"salary_max": ""}`))
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE applications SET salary_max = \$1`).
		WithArgs(nil, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE a.id = \$1`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows(detailColumns).AddRow(detailRow(4, StatusApplied)...))

	_, err = repo.Update(context.Background(), 4, p)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusDefaultsResponseDate(t *testing.T) {
	tests := []struct {
		status string
		date   driver.Value
	}{
		{StatusInterview, calendar.Today().String()},
		{StatusApplied, nil},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			repo, mock := newRepo(t)
			mock.ExpectExec(`UPDATE applications SET status = \$1, response_date = \$2, outcome_notes = COALESCE\(\$3, outcome_notes\)`).
				WithArgs(tt.status, tt.date, nil, 5).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectQuery(`WHERE a.id = \$1`).WithArgs(5).
				WillReturnRows(sqlmock.NewRows(detailColumns).AddRow(detailRow(5, tt.status)...))

			d, err := repo.UpdateStatus(context.Background(), 5, tt.status, calendar.Date{}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.status, d.Status)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.UpdateStatus(context.Background(), 5, "ghosted", calendar.Date{}, nil)
	assert.Error(t, err)
}

func TestUpdateResumeClears(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`UPDATE applications SET resume_version_id = \$1`).
		WithArgs(nil, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateResume(context.Background(), 5, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteRemovesTimeline(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM application_events WHERE application_id = \$1`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM applications WHERE id = \$1`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRollsBack(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM application_events`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM applications`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
