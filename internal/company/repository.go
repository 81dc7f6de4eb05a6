package company

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/analytics"
	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/database"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const selectCompany = `SELECT c.id, c.name, c.website, c.linkedin_url, c.industry, c.company_size, c.headquarters, c.description,
	c.is_remote_friendly, c.is_starred, c.notes, c.created_at, c.updated_at,
	COALESCE(ca.total_jobs_posted, 0), COALESCE(ca.applications_sent, 0), ca.last_job_posted,
	ca.avg_salary_min, ca.avg_salary_max, COALESCE(ca.remote_jobs, 0)
FROM companies c
LEFT JOIN company_activity ca ON ca.id = c.id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row scanner) (Company, error) {
	var c Company
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Website,
		&c.LinkedinURL,
		&c.Industry,
		&c.CompanySize,
		&c.Headquarters,
		&c.Description,
		&c.IsRemoteFriendly,
		&c.IsStarred,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.TotalJobsPosted,
		&c.ApplicationsSent,
		&c.LastJobPosted,
		&c.AvgSalaryMin,
		&c.AvgSalaryMax,
		&c.RemoteJobs,
	)
	if err != nil {
		return c, err
	}
	c.renderNotes()
	return c, nil
}

func (r *Repository) queryCompanies(ctx context.Context, stmt string, args ...interface{}) ([]Company, error) {
	res := make([]Company, 0)
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return res, err
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return res, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *Repository) List(ctx context.Context) ([]Company, error) {
	res, err := r.queryCompanies(ctx, selectCompany+` ORDER BY c.is_starred DESC, LOWER(c.name)`)
	return res, errors.Wrap(err, "unable to list companies")
}

// Get returns a company with its activity columns, sql.ErrNoRows when missing
func (r *Repository) Get(ctx context.Context, id int64) (Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, selectCompany+` WHERE c.id = $1`, id))
	return c, errors.Wrapf(err, "unable to get company %d", id)
}

// SearchByName matches name case-insensitively anywhere, exact matches first
func (r *Repository) SearchByName(ctx context.Context, name string) ([]Company, error) {
	res, err := r.queryCompanies(
		ctx,
		selectCompany+` WHERE c.name ILIKE $1 ORDER BY (LOWER(c.name) = LOWER($2)) DESC, LOWER(c.name)`,
		database.ContainsPattern(name),
		name,
	)
	return res, errors.Wrapf(err, "unable to search companies by %q", name)
}

func (r *Repository) Create(ctx context.Context, c Company) (Company, error) {
	stmt := `INSERT INTO companies (name, website, linkedin_url, industry, company_size, headquarters, description, is_remote_friendly, is_starred, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		c.Name,
		c.Website,
		c.LinkedinURL,
		c.Industry,
		c.CompanySize,
		c.Headquarters,
		c.Description,
		c.IsRemoteFriendly,
		c.IsStarred,
		c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, errors.Wrapf(err, "unable to create company %q", c.Name)
	}
	c.renderNotes()
	return c, nil
}

func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Company, error) {
	stmt, args, err := database.BuildUpdate("companies", id, p, "updated_at = NOW()")
	if err != nil {
		return Company{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Company{}, errors.Wrapf(err, "unable to update company %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Company{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete company %d", id)
	}
	return database.RequireAffected(res)
}

func (r *Repository) exists(ctx context.Context, id int64) error {
	var found bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, id).Scan(&found); err != nil {
		return errors.Wrapf(err, "unable to look up company %d", id)
	}
	if !found {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context, id int64) (Stats, error) {
	var s Stats
	if err := r.exists(ctx, id); err != nil {
		return s, err
	}
	stmt := `SELECT (SELECT COUNT(*) FROM job_postings WHERE company_id = $1),
	COUNT(a.id),
	COUNT(CASE WHEN a.status IN ('phone_screen', 'interview', 'offer') THEN 1 END),
	COUNT(CASE WHEN a.status = 'offer' THEN 1 END),
	COUNT(CASE WHEN a.status = 'rejected' THEN 1 END),
	MIN(a.application_date),
	MAX(a.application_date)
FROM applications a
WHERE a.company_id = $1`
	err := r.db.QueryRowContext(ctx, stmt, id).Scan(
		&s.TotalJobs,
		&s.TotalApplications,
		&s.InterviewsPlus,
		&s.Offers,
		&s.Rejections,
		&s.FirstApplication,
		&s.LastApplication,
	)
	if err != nil {
		return s, errors.Wrapf(err, "unable to compute stats for company %d", id)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT salary_min, salary_max FROM job_postings WHERE company_id = $1`, id)
	if err != nil {
		return s, errors.Wrapf(err, "unable to load salaries for company %d", id)
	}
	defer rows.Close()
	var mins, maxes []*int
	for rows.Next() {
		var lo, hi *int
		if err := rows.Scan(&lo, &hi); err != nil {
			return s, err
		}
		mins = append(mins, lo)
		maxes = append(maxes, hi)
	}
	if err := rows.Err(); err != nil {
		return s, err
	}
	s.Salaries = analytics.SummariseSalaries(mins, maxes)
	s.AvgSalaryMin = s.Salaries.MeanMin
	s.AvgSalaryMax = s.Salaries.MeanMax
	s.SuccessRate = analytics.Rate(s.InterviewsPlus, s.TotalApplications)
	return s, nil
}

const selectEvent = `SELECT id, company_id, title, event_type, event_date, description, follow_up_required, follow_up_date, created_at, updated_at FROM company_events`

func scanEvent(row scanner) (Event, error) {
	var e Event
	err := row.Scan(
		&e.ID,
		&e.CompanyID,
		&e.Title,
		&e.EventType,
		&e.EventDate,
		&e.Description,
		&e.FollowUpRequired,
		&e.FollowUpDate,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func (r *Repository) ListEvents(ctx context.Context, companyID int64) ([]Event, error) {
	res := make([]Event, 0)
	if err := r.exists(ctx, companyID); err != nil {
		return res, err
	}
	rows, err := r.db.QueryContext(ctx, selectEvent+` WHERE company_id = $1 ORDER BY event_date DESC, created_at DESC`, companyID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to list events for company %d", companyID)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return res, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// AddEvent defaults the type to note and the date to today
func (r *Repository) AddEvent(ctx context.Context, e Event) (Event, error) {
	if e.EventType == "" {
		e.EventType = EventTypeNote
	}
	if e.EventDate.IsZero() {
		e.EventDate = calendar.Today()
	}
	stmt := `INSERT INTO company_events (company_id, title, event_type, event_date, description, follow_up_required, follow_up_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		e.CompanyID,
		e.Title,
		e.EventType,
		e.EventDate,
		e.Description,
		e.FollowUpRequired,
		e.FollowUpDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return e, errors.Wrapf(err, "unable to add event to company %d", e.CompanyID)
}

func (r *Repository) UpdateEvent(ctx context.Context, id int64, p EventPatch) (Event, error) {
	stmt, args, err := database.BuildUpdate("company_events", id, p, "updated_at = NOW()")
	if err != nil {
		return Event{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Event{}, errors.Wrapf(err, "unable to update company event %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Event{}, err
	}
	e, err := scanEvent(r.db.QueryRowContext(ctx, selectEvent+` WHERE id = $1`, id))
	return e, errors.Wrapf(err, "unable to get company event %d", id)
}

func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM company_events WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete company event %d", id)
	}
	return database.RequireAffected(res)
}
