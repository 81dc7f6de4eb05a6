// Package dashboard computes the overview numbers shown on the home screen.
package dashboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/analytics"
	"github.com/resume-runner/resume-runner/internal/calendar"
)

const RecentActivityLimit = 10

type Stats struct {
	TotalApplications int                `json:"total_applications"`
	Interviews        int                `json:"interviews"`
	Offers            int                `json:"offers"`
	Rejections        int                `json:"rejections"`
	CompaniesTracked  int                `json:"companies_tracked"`
	ResumeVersions    int                `json:"resume_versions"`
	InterviewRate     float64            `json:"interview_rate"`
	OfferRate         float64            `json:"offer_rate"`
	SalaryMinP50      *float64           `json:"salary_min_p50"`
	SalaryMaxP50      *float64           `json:"salary_max_p50"`
	Salaries          analytics.Salaries `json:"salaries"`
}

type Activity struct {
	ID              int64         `json:"id"`
	PositionTitle   string        `json:"position_title"`
	ApplicationDate calendar.Date `json:"application_date"`
	Status          string        `json:"status"`
	UpdatedAt       time.Time     `json:"updated_at"`
	UpdatedAgo      string        `json:"updated_ago"`
	CompanyName     string        `json:"company_name"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	stmt := `SELECT
	(SELECT COUNT(*) FROM applications),
	(SELECT COUNT(*) FROM applications WHERE status IN ('phone_screen', 'interview', 'offer')),
	(SELECT COUNT(*) FROM applications WHERE status = 'offer'),
	(SELECT COUNT(*) FROM applications WHERE status = 'rejected'),
	(SELECT COUNT(*) FROM companies),
	(SELECT COUNT(*) FROM resume_versions)`
	err := r.db.QueryRowContext(ctx, stmt).Scan(
		&s.TotalApplications,
		&s.Interviews,
		&s.Offers,
		&s.Rejections,
		&s.CompaniesTracked,
		&s.ResumeVersions,
	)
	if err != nil {
		return s, errors.Wrap(err, "unable to count dashboard stats")
	}
	s.InterviewRate = analytics.Rate(s.Interviews, s.TotalApplications)
	s.OfferRate = analytics.Rate(s.Offers, s.TotalApplications)

	rows, err := r.db.QueryContext(ctx, `SELECT salary_min, salary_max FROM applications WHERE salary_min IS NOT NULL OR salary_max IS NOT NULL`)
	if err != nil {
		return s, errors.Wrap(err, "unable to load application salaries")
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
	s.SalaryMinP50 = s.Salaries.MedianMin
	s.SalaryMaxP50 = s.Salaries.MedianMax
	return s, nil
}

// RecentActivity lists the latest updated applications, updated_ago is relative to now
func (r *Repository) RecentActivity(ctx context.Context, now time.Time) ([]Activity, error) {
	res := make([]Activity, 0)
	stmt := `SELECT a.id, a.position_title, a.application_date, a.status, a.updated_at, c.name
	FROM applications a
	JOIN companies c ON c.id = a.company_id
	ORDER BY a.updated_at DESC
	LIMIT $1`
	rows, err := r.db.QueryContext(ctx, stmt, RecentActivityLimit)
	if err != nil {
		return res, errors.Wrap(err, "unable to load recent activity")
	}
	defer rows.Close()
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.PositionTitle, &a.ApplicationDate, &a.Status, &a.UpdatedAt, &a.CompanyName); err != nil {
			return res, err
		}
		res = append(res, a)
	}
	Humanize(res, now)
	return res, rows.Err()
}

// Humanize sets updated_ago relative to now on every row
func Humanize(activity []Activity, now time.Time) {
	for i := range activity {
		activity[i].UpdatedAgo = humanize.RelTime(activity[i].UpdatedAt, now, "ago", "from now")
	}
}
