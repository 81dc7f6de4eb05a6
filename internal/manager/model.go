package manager

import "time"

const ContactByEmail = "email"

type Manager struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	Email                  *string   `json:"email"`
	Phone                  *string   `json:"phone"`
	PhoneSecondary         *string   `json:"phone_secondary"`
	LinkedinURL            *string   `json:"linkedin_url"`
	PositionTitle          *string   `json:"position_title"`
	Department             *string   `json:"department"`
	CompanyID              *int64    `json:"company_id"`
	CompanyName            *string   `json:"company_name"`
	OfficeLocation         *string   `json:"office_location"`
	Timezone               *string   `json:"timezone"`
	PreferredContactMethod string    `json:"preferred_contact_method"`
	DecisionAuthority      *string   `json:"decision_authority"`
	IsHiringManager        bool      `json:"is_hiring_manager"`
	TeamSize               *int      `json:"team_size"`
	Notes                  *string   `json:"notes"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type Patch struct {
	Name                   *string `json:"name"`
	Email                  *string `json:"email"`
	Phone                  *string `json:"phone"`
	PhoneSecondary         *string `json:"phone_secondary"`
	LinkedinURL            *string `json:"linkedin_url" db:"linkedin_url"`
	PositionTitle          *string `json:"position_title"`
	Department             *string `json:"department"`
	CompanyID              *int64  `json:"company_id" db:"company_id"`
	OfficeLocation         *string `json:"office_location"`
	Timezone               *string `json:"timezone"`
	PreferredContactMethod *string `json:"preferred_contact_method"`
	DecisionAuthority      *string `json:"decision_authority"`
	IsHiringManager        *bool   `json:"is_hiring_manager"`
	TeamSize               *int    `json:"team_size"`
	Notes                  *string `json:"notes"`
}
