package jobposting

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/calendar"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const selectPosting = `SELECT jp.id, jp.company_id, c.name, jp.title, jp.description, jp.salary_min, jp.salary_max, jp.is_remote,
	jp.location, jp.job_board_url, jp.s3_screenshot_key, jp.date_posted, jp.created_at
FROM job_postings jp
JOIN companies c ON c.id = jp.company_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPosting(row scanner, extra ...interface{}) (Posting, error) {
	var p Posting
	dest := []interface{}{
		&p.ID,
		&p.CompanyID,
		&p.CompanyName,
		&p.Title,
		&p.Description,
		&p.SalaryMin,
		&p.SalaryMax,
		&p.IsRemote,
		&p.Location,
		&p.JobBoardURL,
		&p.S3ScreenshotKey,
		&p.DatePosted,
		&p.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

// List returns postings newest first. A companyID of 0 lists every company.
func (r *Repository) List(ctx context.Context, companyID int64) ([]Posting, error) {
	res := make([]Posting, 0)
	var (
		rows *sql.Rows
		err  error
	)
	if companyID > 0 {
		rows, err = r.db.QueryContext(ctx, selectPosting+` WHERE jp.company_id = $1 ORDER BY jp.date_posted DESC, jp.id DESC`, companyID)
	} else {
		rows, err = r.db.QueryContext(ctx, selectPosting+` ORDER BY jp.date_posted DESC, jp.id DESC`)
	}
	if err != nil {
		return res, errors.Wrap(err, "unable to list job postings")
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return res, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// ListByCompany is List for one company with the number of applications per posting
func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]Posting, error) {
	res := make([]Posting, 0)
	stmt := `SELECT jp.id, jp.company_id, c.name, jp.title, jp.description, jp.salary_min, jp.salary_max, jp.is_remote,
	jp.location, jp.job_board_url, jp.s3_screenshot_key, jp.date_posted, jp.created_at,
	(SELECT COUNT(*) FROM applications a WHERE a.job_posting_id = jp.id)
	FROM job_postings jp
	JOIN companies c ON c.id = jp.company_id
	WHERE jp.company_id = $1
	ORDER BY jp.date_posted DESC, jp.id DESC`
	rows, err := r.db.QueryContext(ctx, stmt, companyID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to list job postings for company %d", companyID)
	}
	defer rows.Close()
	for rows.Next() {
		var count int
		p, err := scanPosting(rows, &count)
		if err != nil {
			return res, err
		}
		p.ApplicationCount = &count
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Posting, error) {
	p, err := scanPosting(r.db.QueryRowContext(ctx, selectPosting+` WHERE jp.id = $1`, id))
	return p, errors.Wrapf(err, "unable to get job posting %d", id)
}

// Create stores p, date_posted defaults to today
func (r *Repository) Create(ctx context.Context, p Posting) (Posting, error) {
	if p.DatePosted.IsZero() {
		p.DatePosted = calendar.Today()
	}
	stmt := `INSERT INTO job_postings (company_id, title, description, salary_min, salary_max, is_remote, location,
	job_board_url, s3_screenshot_key, date_posted)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at`
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		p.CompanyID,
		p.Title,
		p.Description,
		p.SalaryMin,
		p.SalaryMax,
		p.IsRemote,
		p.Location,
		p.JobBoardURL,
		p.S3ScreenshotKey,
		p.DatePosted,
	).Scan(&id, &p.CreatedAt)
	if err != nil {
		return p, errors.Wrapf(err, "unable to create job posting %q", p.Title)
	}
	return r.Get(ctx, id)
}
