package company

import (
	"time"

	"github.com/resume-runner/resume-runner/internal/analytics"
	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/markup"
)

type Company struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Website          *string   `json:"website"`
	LinkedinURL      *string   `json:"linkedin_url"`
	Industry         *string   `json:"industry"`
	CompanySize      *string   `json:"company_size"`
	Headquarters     *string   `json:"headquarters"`
	Description      *string   `json:"description"`
	IsRemoteFriendly bool      `json:"is_remote_friendly"`
	IsStarred        bool      `json:"is_starred"`
	Notes            *string   `json:"notes"`
	NotesHTML        string    `json:"notes_html,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// activity, read from the company_activity view
	TotalJobsPosted  int           `json:"total_jobs_posted"`
	ApplicationsSent int           `json:"applications_sent"`
	LastJobPosted    calendar.Date `json:"last_job_posted"`
	AvgSalaryMin     *float64      `json:"avg_salary_min"`
	AvgSalaryMax     *float64      `json:"avg_salary_max"`
	RemoteJobs       int           `json:"remote_jobs"`
}

func (c *Company) renderNotes() {
	c.NotesHTML = ""
	if c.Notes != nil && *c.Notes != "" {
		c.NotesHTML = markup.MarkdownToHTML(*c.Notes)
	}
}

// Patch lists the fields a company update may touch
type Patch struct {
	Name             *string `json:"name"`
	Website          *string `json:"website"`
	LinkedinURL      *string `json:"linkedin_url" db:"linkedin_url"`
	Industry         *string `json:"industry"`
	CompanySize      *string `json:"company_size"`
	Headquarters     *string `json:"headquarters"`
	IsRemoteFriendly *bool   `json:"is_remote_friendly"`
	Notes            *string `json:"notes"`
	IsStarred        *bool   `json:"is_starred"`
	Description      *string `json:"description"`
}

type Stats struct {
	TotalJobs         int                `json:"total_jobs"`
	TotalApplications int                `json:"total_applications"`
	InterviewsPlus    int                `json:"interviews_plus"`
	Offers            int                `json:"offers"`
	Rejections        int                `json:"rejections"`
	FirstApplication  calendar.Date      `json:"first_application"`
	LastApplication   calendar.Date      `json:"last_application"`
	AvgSalaryMin      *float64           `json:"avg_salary_min"`
	AvgSalaryMax      *float64           `json:"avg_salary_max"`
	Salaries          analytics.Salaries `json:"salaries"`
	SuccessRate       float64            `json:"success_rate"`
}

const EventTypeNote = "note"

type Event struct {
	ID               int64         `json:"id"`
	CompanyID        int64         `json:"company_id"`
	Title            string        `json:"title"`
	EventType        string        `json:"event_type"`
	EventDate        calendar.Date `json:"event_date"`
	Description      *string       `json:"description"`
	FollowUpRequired bool          `json:"follow_up_required"`
	FollowUpDate     calendar.Date `json:"follow_up_date"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type EventPatch struct {
	Title            *string        `json:"title"`
	EventType        *string        `json:"event_type"`
	EventDate        *calendar.Date `json:"event_date"`
	Description      *string        `json:"description"`
	FollowUpRequired *bool          `json:"follow_up_required"`
	FollowUpDate     *calendar.Date `json:"follow_up_date"`
}
