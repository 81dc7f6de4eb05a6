package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/remote"
)

const (
	StatusApplied     = "applied"
	StatusPhoneScreen = "phone_screen"
	StatusInterview   = "interview"
	StatusOffer       = "offer"
	StatusRejected    = "rejected"

	EventTypeSubmitted = "application_submitted"
)

var Statuses = []string{StatusApplied, StatusPhoneScreen, StatusInterview, StatusOffer, StatusRejected}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Sources are the suggested values for application_source. Anything else is
// stored as given.
var Sources = []string{
	"indeed",
	"linkedin",
	"company_website",
	"glassdoor",
	"recruiter",
	"referral",
	"job_board",
	"direct_application",
	"networking",
	"headhunter",
}

type Application struct {
	ID                int64         `json:"id"`
	CompanyID         int64         `json:"company_id"`
	CompanyName       string        `json:"company_name"`
	JobPostingID      *int64        `json:"job_posting_id"`
	JobPostingTitle   *string       `json:"job_posting_title"`
	RecruiterID       *int64        `json:"recruiter_id"`
	RecruiterName     *string       `json:"recruiter_name"`
	ResumeVersionID   *int64        `json:"resume_version_id"`
	ResumeVersion     *string       `json:"resume_version"`
	PositionTitle     string        `json:"position_title"`
	ApplicationDate   calendar.Date `json:"application_date"`
	ApplicationSource *string       `json:"application_source"`
	Status            string        `json:"status"`
	ResponseDate      calendar.Date `json:"response_date"`
	CoverLetterS3Key  *string       `json:"cover_letter_s3_key"`
	JobPostingText    *string       `json:"job_posting_text"`
	JobLocation       *string       `json:"job_location"`
	JobURL            *string       `json:"job_url"`
	SalaryMin         *int          `json:"salary_min"`
	SalaryMax         *int          `json:"salary_max"`
	IsRemote          remote.Option `json:"is_remote"`
	Notes             *string       `json:"notes"`
	OutcomeNotes      *string       `json:"outcome_notes"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Details is an application with what is needed to prepare an interview.
// Salary and remote fall back to the linked job posting.
type Details struct {
	Application
	CompanyWebsite *string  `json:"company_website"`
	ResumeContent  *string  `json:"resume_content"`
	ResumeSkills   []string `json:"resume_skills"`
	JobDescription *string  `json:"job_description"`
	RecruiterEmail *string  `json:"recruiter_email"`
}

// Patch holds the fields a partial update may touch. For the double pointers
// a nil inner value clears the column.
type Patch struct {
	PositionTitle     *string        `json:"position_title"`
	JobPostingText    *string        `json:"job_posting_text"`
	JobLocation       *string        `json:"job_location"`
	JobURL            *string        `json:"job_url" db:"job_url"`
	Notes             *string        `json:"notes"`
	OutcomeNotes      *string        `json:"outcome_notes"`
	Status            *string        `json:"status"`
	ApplicationSource *string        `json:"application_source"`
	JobPostingID      **int64        `json:"job_posting_id" db:"job_posting_id"`
	SalaryMin         **int          `json:"salary_min"`
	SalaryMax         **int          `json:"salary_max"`
	IsRemote          *remote.Option `json:"is_remote"`
}

type Event struct {
	ID               int64         `json:"id"`
	ApplicationID    int64         `json:"application_id"`
	EventType        string        `json:"event_type"`
	EventDate        calendar.Date `json:"event_date"`
	EventTime        *string       `json:"event_time"`
	Title            string        `json:"title"`
	Description      *string       `json:"description"`
	Outcome          *string       `json:"outcome"`
	NextSteps        *string       `json:"next_steps"`
	Attendees        []string      `json:"attendees"`
	Location         *string       `json:"location"`
	MeetingLink      *string       `json:"meeting_link"`
	DocumentsShared  []string      `json:"documents_shared"`
	DurationMinutes  *int          `json:"duration_minutes"`
	FollowUpRequired bool          `json:"follow_up_required"`
	FollowUpDate     calendar.Date `json:"follow_up_date"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type EventPatch struct {
	EventType        *string        `json:"event_type"`
	EventDate        *calendar.Date `json:"event_date"`
	EventTime        *string        `json:"event_time"`
	Title            *string        `json:"title"`
	Description      *string        `json:"description"`
	Outcome          *string        `json:"outcome"`
	NextSteps        *string        `json:"next_steps"`
	Attendees        *[]string      `json:"attendees"`
	Location         *string        `json:"location"`
	MeetingLink      *string        `json:"meeting_link"`
	DocumentsShared  *[]string      `json:"documents_shared"`
	DurationMinutes  *int           `json:"duration_minutes"`
	FollowUpRequired *bool          `json:"follow_up_required"`
	FollowUpDate     *calendar.Date `json:"follow_up_date"`
}

// FollowUp is a pending follow-up from any of the event logs
type FollowUp struct {
	Source        string        `json:"source"`
	EventID       int64         `json:"event_id"`
	ParentID      int64         `json:"parent_id"`
	Title         string        `json:"title"`
	EventType     string        `json:"event_type"`
	FollowUpDate  calendar.Date `json:"follow_up_date"`
	PositionTitle *string       `json:"position_title"`
	CompanyName   *string       `json:"company_name"`
	RecruiterName *string       `json:"recruiter_name"`
}

// ParseInt reads a JSON number or numeric string. Empty strings and null are
// nil. ok is false when the value is present but not an integer that fits an
// INTEGER column.
func ParseInt(raw json.RawMessage) (v *int, ok bool) {
	n, ok := parseInteger(raw, math.MinInt32, math.MaxInt32)
	if !ok || n == nil {
		return nil, ok
	}
	i := int(*n)
	return &i, true
}

func parseID(raw json.RawMessage) (*int64, bool) {
	return parseInteger(raw, 1, math.MaxInt64)
}

func parseInteger(raw json.RawMessage, min, max int64) (*int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
	} else {
		s = string(raw)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		// float64 cannot hold MaxInt64 exactly, so compare below 2^63
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, false
		}
		n = int64(f)
	}
	if n < min || n > max {
		return nil, false
	}
	return &n, true
}

func parseString(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseNew validates a create request body
func ParseNew(body []byte) (Application, error) {
	var in map[string]json.RawMessage
	var a Application
	if err := json.Unmarshal(body, &in); err != nil {
		return a, errors.New("invalid JSON body")
	}
	companyID, ok := parseID(in["company_id"])
	if !ok || companyID == nil {
		return a, errors.New("company_id is required")
	}
	a.CompanyID = *companyID
	title, err := parseString(in["position_title"])
	if err != nil || title == nil || strings.TrimSpace(*title) == "" {
		return a, errors.New("position_title is required")
	}
	a.PositionTitle = strings.TrimSpace(*title)

	ids := map[string]**int64{
		"job_posting_id":    &a.JobPostingID,
		"recruiter_id":      &a.RecruiterID,
		"resume_version_id": &a.ResumeVersionID,
	}
	for field, dst := range ids {
		v, ok := parseID(in[field])
		if !ok {
			return a, fmt.Errorf("%s must be a number", field)
		}
		*dst = v
	}
	for field, dst := range map[string]**int{"salary_min": &a.SalaryMin, "salary_max": &a.SalaryMax} {
		v, ok := ParseInt(in[field])
		if !ok {
			return a, fmt.Errorf("%s must be a number", field)
		}
		*dst = v
	}
	texts := map[string]**string{
		"application_source":  &a.ApplicationSource,
		"cover_letter_s3_key": &a.CoverLetterS3Key,
		"job_posting_text":    &a.JobPostingText,
		"job_location":        &a.JobLocation,
		"job_url":             &a.JobURL,
		"notes":               &a.Notes,
		"outcome_notes":       &a.OutcomeNotes,
	}
	for field, dst := range texts {
		v, err := parseString(in[field])
		if err != nil {
			return a, fmt.Errorf("%s must be a string", field)
		}
		*dst = v
	}
	if raw, ok := in["application_date"]; ok {
		if err := json.Unmarshal(raw, &a.ApplicationDate); err != nil {
			return a, errors.Wrap(err, "application_date")
		}
	}
	if a.ApplicationDate.IsZero() {
		a.ApplicationDate = calendar.Today()
	}
	a.IsRemote = remote.ParseJSON(in["is_remote"])
	if a.OutcomeNotes == nil && a.Notes != nil {
		a.OutcomeNotes = a.Notes
	}
	a.Status = StatusApplied
	return a, nil
}

// ParsePatch keeps the allowed fields of an update body. Numeric fields that
// do not parse are skipped rather than rejected.
func ParsePatch(body []byte) (Patch, error) {
	var in map[string]json.RawMessage
	var p Patch
	if err := json.Unmarshal(body, &in); err != nil {
		return p, errors.New("invalid JSON body")
	}
	texts := map[string]**string{
		"position_title":     &p.PositionTitle,
		"job_posting_text":   &p.JobPostingText,
		"job_location":       &p.JobLocation,
		"job_url":            &p.JobURL,
		"notes":              &p.Notes,
		"outcome_notes":      &p.OutcomeNotes,
		"status":             &p.Status,
		"application_source": &p.ApplicationSource,
	}
	for field, dst := range texts {
		raw, present := in[field]
		if !present {
			continue
		}
		v, err := parseString(raw)
		if err != nil || v == nil {
			continue
		}
		*dst = v
	}
	if p.Status != nil && !ValidStatus(*p.Status) {
		return p, fmt.Errorf("status must be one of %s", strings.Join(Statuses, ", "))
	}
	if p.PositionTitle != nil && strings.TrimSpace(*p.PositionTitle) == "" {
		p.PositionTitle = nil
	}
	if raw, present := in["salary_min"]; present {
		if v, ok := ParseInt(raw); ok {
			p.SalaryMin = &v
		}
	}
	if raw, present := in["salary_max"]; present {
		if v, ok := ParseInt(raw); ok {
			p.SalaryMax = &v
		}
	}
	if raw, present := in["job_posting_id"]; present {
		if v, ok := parseID(raw); ok {
			p.JobPostingID = &v
		}
	}
	if raw, present := in["is_remote"]; present {
		o := remote.ParseJSON(raw)
		p.IsRemote = &o
	}
	return p, nil
}
