package application

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/database"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const applicationJoins = `FROM applications a
JOIN companies c ON c.id = a.company_id
LEFT JOIN job_postings jp ON jp.id = a.job_posting_id
LEFT JOIN recruiters r ON r.id = a.recruiter_id
LEFT JOIN resume_versions rv ON rv.id = a.resume_version_id`

const selectApplication = `SELECT a.id, a.company_id, c.name, a.job_posting_id, jp.title, a.recruiter_id, r.name, a.resume_version_id,
	rv.version_name, a.position_title, a.application_date, a.application_source, a.status, a.response_date, a.cover_letter_s3_key,
	a.job_posting_text, a.job_location, a.job_url, a.salary_min, a.salary_max, a.is_remote, a.notes, a.outcome_notes,
	a.created_at, a.updated_at
` + applicationJoins

const selectDetails = `SELECT a.id, a.company_id, c.name, a.job_posting_id, jp.title, a.recruiter_id, r.name, a.resume_version_id,
	rv.version_name, a.position_title, a.application_date, a.application_source, a.status, a.response_date, a.cover_letter_s3_key,
	a.job_posting_text, a.job_location, a.job_url, COALESCE(a.salary_min, jp.salary_min), COALESCE(a.salary_max, jp.salary_max),
	COALESCE(a.is_remote, jp.is_remote), a.notes, a.outcome_notes, a.created_at, a.updated_at,
	c.website, rv.content_text, rv.skills_emphasized, jp.description, r.email
` + applicationJoins

type scanner interface {
	Scan(dest ...interface{}) error
}

func (a *Application) columns() []interface{} {
	return []interface{}{
		&a.ID,
		&a.CompanyID,
		&a.CompanyName,
		&a.JobPostingID,
		&a.JobPostingTitle,
		&a.RecruiterID,
		&a.RecruiterName,
		&a.ResumeVersionID,
		&a.ResumeVersion,
		&a.PositionTitle,
		&a.ApplicationDate,
		&a.ApplicationSource,
		&a.Status,
		&a.ResponseDate,
		&a.CoverLetterS3Key,
		&a.JobPostingText,
		&a.JobLocation,
		&a.JobURL,
		&a.SalaryMin,
		&a.SalaryMax,
		&a.IsRemote,
		&a.Notes,
		&a.OutcomeNotes,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}

func (r *Repository) queryApplications(ctx context.Context, stmt string, args ...interface{}) ([]Application, error) {
	res := make([]Application, 0)
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return res, err
	}
	defer rows.Close()
	for rows.Next() {
		var a Application
		if err := rows.Scan(a.columns()...); err != nil {
			return res, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// List returns applications most recently applied first. An empty status
// lists every status.
func (r *Repository) List(ctx context.Context, status string) ([]Application, error) {
	var (
		res []Application
		err error
	)
	if status != "" {
		res, err = r.queryApplications(ctx, selectApplication+` WHERE a.status = $1 ORDER BY a.application_date DESC, a.id DESC`, status)
	} else {
		res, err = r.queryApplications(ctx, selectApplication+` ORDER BY a.application_date DESC, a.id DESC`)
	}
	return res, errors.Wrap(err, "unable to list applications")
}

func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]Application, error) {
	res, err := r.queryApplications(ctx, selectApplication+` WHERE a.company_id = $1 ORDER BY a.application_date DESC, a.id DESC`, companyID)
	return res, errors.Wrapf(err, "unable to list applications for company %d", companyID)
}

// SearchByCompany matches company names case-insensitively anywhere in the name
func (r *Repository) SearchByCompany(ctx context.Context, name string) ([]Application, error) {
	res, err := r.queryApplications(
		ctx,
		selectApplication+` WHERE c.name ILIKE $1 ORDER BY a.application_date DESC, a.id DESC`,
		database.ContainsPattern(name),
	)
	return res, errors.Wrapf(err, "unable to search applications for %q", name)
}

// Recent returns the most recently updated applications
func (r *Repository) Recent(ctx context.Context, limit int) ([]Application, error) {
	res, err := r.queryApplications(ctx, selectApplication+` ORDER BY a.updated_at DESC LIMIT $1`, limit)
	return res, errors.Wrap(err, "unable to list recent applications")
}

func (r *Repository) Get(ctx context.Context, id int64) (Details, error) {
	var d Details
	dest := append(
		d.Application.columns(),
		&d.CompanyWebsite,
		&d.ResumeContent,
		pq.Array(&d.ResumeSkills),
		&d.JobDescription,
		&d.RecruiterEmail,
	)
	err := r.db.QueryRowContext(ctx, selectDetails+` WHERE a.id = $1`, id).Scan(dest...)
	if err != nil {
		return d, errors.Wrapf(err, "unable to get application %d", id)
	}
	if d.ResumeSkills == nil {
		d.ResumeSkills = []string{}
	}
	return d, nil
}

// Create stores the application and its application_submitted timeline entry together
func (r *Repository) Create(ctx context.Context, a Application) (Details, error) {
	if a.ApplicationDate.IsZero() {
		a.ApplicationDate = calendar.Today()
	}
	if a.Status == "" {
		a.Status = StatusApplied
	}
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt := `INSERT INTO applications (company_id, job_posting_id, recruiter_id, resume_version_id, position_title,
		application_date, application_source, status, cover_letter_s3_key, job_posting_text, job_location, job_url,
		salary_min, salary_max, is_remote, notes, outcome_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`
		err := tx.QueryRowContext(
			ctx,
			stmt,
			a.CompanyID,
			a.JobPostingID,
			a.RecruiterID,
			a.ResumeVersionID,
			a.PositionTitle,
			a.ApplicationDate,
			a.ApplicationSource,
			a.Status,
			a.CoverLetterS3Key,
			a.JobPostingText,
			a.JobLocation,
			a.JobURL,
			a.SalaryMin,
			a.SalaryMax,
			a.IsRemote,
			a.Notes,
			a.OutcomeNotes,
		).Scan(&a.ID)
		if err != nil {
			return errors.Wrapf(err, "unable to create application for %q", a.PositionTitle)
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO application_events (application_id, event_type, event_date, title, description, outcome)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID,
			EventTypeSubmitted,
			a.ApplicationDate,
			"Application Submitted",
			"Initial application submitted to the company",
			"pending",
		)
		return errors.Wrapf(err, "unable to record submission of application %d", a.ID)
	})
	if err != nil {
		return Details{}, err
	}
	return r.Get(ctx, a.ID)
}

func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Details, error) {
	stmt, args, err := database.BuildUpdate("applications", id, p, "updated_at = NOW()")
	if err != nil {
		return Details{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Details{}, errors.Wrapf(err, "unable to update application %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Details{}, err
	}
	return r.Get(ctx, id)
}

// UpdateStatus moves the application to status. Unless the status is applied
// a missing responseDate means today. Notes, when given, replace outcome_notes.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string, responseDate calendar.Date, notes *string) (Details, error) {
	if !ValidStatus(status) {
		return Details{}, errors.Errorf("unknown status %q", status)
	}
	if responseDate.IsZero() && status != StatusApplied {
		responseDate = calendar.Today()
	}
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE applications SET status = $1, response_date = $2, outcome_notes = COALESCE($3, outcome_notes), updated_at = NOW() WHERE id = $4`,
		status,
		responseDate,
		notes,
		id,
	)
	if err != nil {
		return Details{}, errors.Wrapf(err, "unable to update status of application %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Details{}, err
	}
	return r.Get(ctx, id)
}

// UpdateResume sets the resume version used, nil clears it
func (r *Repository) UpdateResume(ctx context.Context, id int64, resumeID *int64) (Details, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET resume_version_id = $1, updated_at = NOW() WHERE id = $2`, resumeID, id)
	if err != nil {
		return Details{}, errors.Wrapf(err, "unable to update resume of application %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Details{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM application_events WHERE application_id = $1`, id); err != nil {
			return errors.Wrapf(err, "unable to delete timeline of application %d", id)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
		if err != nil {
			return errors.Wrapf(err, "unable to delete application %d", id)
		}
		return database.RequireAffected(res)
	})
}

func (r *Repository) exists(ctx context.Context, id int64) error {
	var found bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&found); err != nil {
		return errors.Wrapf(err, "unable to look up application %d", id)
	}
	if !found {
		return sql.ErrNoRows
	}
	return nil
}
