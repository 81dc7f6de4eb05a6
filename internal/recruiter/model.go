package recruiter

import (
	"time"

	"github.com/resume-runner/resume-runner/internal/calendar"
)

const (
	StatusNew      = "new"
	StatusActive   = "active"
	StatusWarm     = "warm"
	StatusCold     = "cold"
	StatusInactive = "inactive"

	EventTypeNote           = "note"
	RelationshipReportsTo   = "reports_to"
	AssociationTypeExternal = "external"
)

var relationshipStatuses = map[string]struct{}{
	StatusNew:      {},
	StatusActive:   {},
	StatusWarm:     {},
	StatusCold:     {},
	StatusInactive: {},
}

// ValidStatus reports whether s is a known relationship status
func ValidStatus(s string) bool {
	_, ok := relationshipStatuses[s]
	return ok
}

type Recruiter struct {
	ID                     int64         `json:"id"`
	Name                   string        `json:"name"`
	PrimaryContactName     *string       `json:"primary_contact_name"`
	Email                  *string       `json:"email"`
	Phone                  *string       `json:"phone"`
	PhoneSecondary         *string       `json:"phone_secondary"`
	Company                *string       `json:"company"`
	LinkedinURL            *string       `json:"linkedin_url"`
	Specialties            *string       `json:"specialties"`
	PositionTitle          *string       `json:"position_title"`
	Department             *string       `json:"department"`
	AccountName            *string       `json:"account_name"`
	AccountType            *string       `json:"account_type"`
	OfficeLocation         *string       `json:"office_location"`
	Timezone               *string       `json:"timezone"`
	PreferredContactMethod *string       `json:"preferred_contact_method"`
	IsManager              bool          `json:"is_manager"`
	TeamSize               *int          `json:"team_size"`
	DecisionAuthority      *string       `json:"decision_authority"`
	RelationshipStatus     string        `json:"relationship_status"`
	IsStarred              bool          `json:"is_starred"`
	Notes                  *string       `json:"notes"`
	CurrentResumeVersionID *int64        `json:"current_resume_version_id"`
	CurrentResumeVersion   *string       `json:"current_resume_version"`
	LastContactDate        calendar.Date `json:"last_contact_date"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

type Patch struct {
	Name                   *string        `json:"name"`
	PrimaryContactName     *string        `json:"primary_contact_name"`
	Email                  *string        `json:"email"`
	Phone                  *string        `json:"phone"`
	PhoneSecondary         *string        `json:"phone_secondary"`
	Company                *string        `json:"company"`
	LinkedinURL            *string        `json:"linkedin_url" db:"linkedin_url"`
	Specialties            *string        `json:"specialties"`
	PositionTitle          *string        `json:"position_title"`
	Department             *string        `json:"department"`
	AccountName            *string        `json:"account_name"`
	AccountType            *string        `json:"account_type"`
	OfficeLocation         *string        `json:"office_location"`
	Timezone               *string        `json:"timezone"`
	PreferredContactMethod *string        `json:"preferred_contact_method"`
	IsManager              *bool          `json:"is_manager"`
	TeamSize               *int           `json:"team_size"`
	DecisionAuthority      *string        `json:"decision_authority"`
	RelationshipStatus     *string        `json:"relationship_status"`
	IsStarred              *bool          `json:"is_starred"`
	Notes                  *string        `json:"notes"`
	LastContactDate        *calendar.Date `json:"last_contact_date"`
}

// ResumeShare records a resume version sent to a recruiter
type ResumeShare struct {
	ID              int64         `json:"id"`
	RecruiterID     int64         `json:"recruiter_id"`
	ResumeVersionID int64         `json:"resume_version_id"`
	VersionName     string        `json:"version_name"`
	SharedDate      calendar.Date `json:"shared_date"`
	Notes           *string       `json:"notes"`
	CreatedAt       time.Time     `json:"created_at"`
}

type Communication struct {
	ID                int64         `json:"id"`
	RecruiterID       int64         `json:"recruiter_id"`
	ApplicationID     *int64        `json:"application_id"`
	CommunicationType string        `json:"communication_type"`
	Direction         *string       `json:"direction"`
	Subject           *string       `json:"subject"`
	Content           *string       `json:"content"`
	CommunicationDate time.Time     `json:"communication_date"`
	Outcome           *string       `json:"outcome"`
	FollowUpRequired  bool          `json:"follow_up_required"`
	FollowUpDate      calendar.Date `json:"follow_up_date"`
	Notes             *string       `json:"notes"`
	CreatedAt         time.Time     `json:"created_at"`
}

type Event struct {
	ID               int64         `json:"id"`
	RecruiterID      int64         `json:"recruiter_id"`
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

// DashboardRow is one line of the recruiter_dashboard view
type DashboardRow struct {
	ID                   int64      `json:"id"`
	Name                 string     `json:"name"`
	Company              *string    `json:"company"`
	RelationshipStatus   string     `json:"relationship_status"`
	IsStarred            bool       `json:"is_starred"`
	CurrentResumeVersion *string    `json:"current_resume_version"`
	TotalCommunications  int        `json:"total_communications"`
	LastCommunication    *time.Time `json:"last_communication"`
	ApplicationsCount    int        `json:"applications_count"`
	ResumesShared        int        `json:"resumes_shared"`
}

// ManagerLink is a recruiter_managers row with the manager's details
type ManagerLink struct {
	RecruiterID       int64         `json:"recruiter_id"`
	ManagerID         int64         `json:"manager_id"`
	RelationshipType  string        `json:"relationship_type"`
	RelationshipNotes *string       `json:"relationship_notes"`
	IntroductionDate  calendar.Date `json:"introduction_date"`
	IsPrimaryContact  bool          `json:"is_primary_contact"`
	CreatedAt         time.Time     `json:"created_at"`

	ManagerName       string  `json:"manager_name"`
	ManagerEmail      *string `json:"manager_email"`
	ManagerPhone      *string `json:"manager_phone"`
	ManagerPosition   *string `json:"manager_position"`
	ManagerDepartment *string `json:"manager_department"`
	DecisionAuthority *string `json:"decision_authority"`
	IsHiringManager   bool    `json:"is_hiring_manager"`
	TeamSize          *int    `json:"team_size"`
	ManagerNotes      *string `json:"manager_notes"`
	CompanyName       *string `json:"company_name"`
}

type ManagerLinkPatch struct {
	RelationshipType  *string        `json:"relationship_type"`
	RelationshipNotes *string        `json:"relationship_notes"`
	IntroductionDate  *calendar.Date `json:"introduction_date"`
	IsPrimaryContact  *bool          `json:"is_primary_contact"`
}

// ManagedBy is a recruiter as seen from one of their managers
type ManagedBy struct {
	RecruiterID      int64   `json:"recruiter_id"`
	ManagerID        int64   `json:"manager_id"`
	RelationshipType string  `json:"relationship_type"`
	IsPrimaryContact bool    `json:"is_primary_contact"`
	RecruiterName    string  `json:"recruiter_name"`
	RecruiterEmail   *string `json:"recruiter_email"`
	RecruiterPhone   *string `json:"recruiter_phone"`
	RecruiterCompany *string `json:"recruiter_company"`
}

// Association links a recruiter to a company they hire for
type Association struct {
	CompanyID       int64         `json:"company_id"`
	RecruiterID     int64         `json:"recruiter_id"`
	AssociationType string        `json:"association_type"`
	StartDate       calendar.Date `json:"start_date"`
	EndDate         calendar.Date `json:"end_date"`
	Specialization  *string       `json:"specialization"`
	Notes           *string       `json:"notes"`
	IsActive        bool          `json:"is_active"`
	CreatedAt       time.Time     `json:"created_at"`

	// set when listing a company's recruiters
	RecruiterName        string  `json:"recruiter_name,omitempty"`
	RecruiterEmail       *string `json:"recruiter_email,omitempty"`
	RecruiterPhone       *string `json:"recruiter_phone,omitempty"`
	RecruiterLinkedin    *string `json:"recruiter_linkedin,omitempty"`
	RecruiterSpecialties *string `json:"recruiter_specialties,omitempty"`
	RelationshipStatus   string  `json:"relationship_status,omitempty"`

	// set when listing a recruiter's companies
	CompanyName string  `json:"company_name,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	Website     *string `json:"website,omitempty"`
}

type AssociationPatch struct {
	AssociationType *string        `json:"association_type"`
	StartDate       *calendar.Date `json:"start_date"`
	EndDate         *calendar.Date `json:"end_date"`
	Specialization  *string        `json:"specialization"`
	Notes           *string        `json:"notes"`
	IsActive        *bool          `json:"is_active"`
}
