package resume

import (
	"strings"
	"time"

	"github.com/resume-runner/resume-runner/internal/tag"
)

type Version struct {
	ID               int64     `json:"id"`
	VersionName      string    `json:"version_name"`
	Filename         *string   `json:"filename"`
	Description      *string   `json:"description"`
	ContentText      *string   `json:"content_text"`
	WordCount        int       `json:"word_count"`
	TargetRoles      []string  `json:"target_roles"`
	SkillsEmphasized []string  `json:"skills_emphasized"`
	IsMaster         bool      `json:"is_master"`
	S3Key            *string   `json:"s3_key"`
	EditableS3Key    *string   `json:"editable_s3_key"`
	EditableFilename *string   `json:"editable_filename"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Tags             []tag.Tag `json:"tags"`
}

type Patch struct {
	VersionName      *string   `json:"version_name"`
	Filename         *string   `json:"filename"`
	Description      *string   `json:"description"`
	ContentText      *string   `json:"content_text"`
	WordCount        *int      `json:"-"`
	TargetRoles      *[]string `json:"target_roles"`
	SkillsEmphasized *[]string `json:"skills_emphasized"`
	IsMaster         *bool     `json:"is_master"`
	S3Key            *string   `json:"s3_key" db:"s3_key"`
	EditableS3Key    *string   `json:"editable_s3_key" db:"editable_s3_key"`
	EditableFilename *string   `json:"editable_filename"`
}

// Metrics is how a resume version has performed across applications
type Metrics struct {
	ID                int64   `json:"id"`
	VersionName       string  `json:"version_name"`
	IsMaster          bool    `json:"is_master"`
	TotalApplications int     `json:"total_applications"`
	Responses         int     `json:"responses"`
	Interviews        int     `json:"interviews"`
	Offers            int     `json:"offers"`
	ResponseRate      float64 `json:"response_rate"`
	InterviewRate     float64 `json:"interview_rate"`
	OfferRate         float64 `json:"offer_rate"`
}

// WordCount counts whitespace separated words
func WordCount(s *string) int {
	if s == nil {
		return 0
	}
	return len(strings.Fields(*s))
}

// ParseTagNames splits a comma separated ?tags= value, dropping blanks and duplicates
func ParseTagNames(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
