package jobposting

import (
	"time"

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/remote"
)

type Posting struct {
	ID              int64         `json:"id"`
	CompanyID       int64         `json:"company_id"`
	CompanyName     string        `json:"company_name"`
	Title           string        `json:"title"`
	Description     *string       `json:"description"`
	SalaryMin       *int          `json:"salary_min"`
	SalaryMax       *int          `json:"salary_max"`
	IsRemote        remote.Option `json:"is_remote"`
	Location        *string       `json:"location"`
	JobBoardURL     *string       `json:"job_board_url"`
	S3ScreenshotKey *string       `json:"s3_screenshot_key"`
	DatePosted      calendar.Date `json:"date_posted"`
	CreatedAt       time.Time     `json:"created_at"`

	// only set by ListByCompany
	ApplicationCount *int `json:"application_count,omitempty"`
}
