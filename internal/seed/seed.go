// Package seed loads a yaml fixture file into an empty database. Records
// refer to each other by name so fixtures stay readable.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/resume-runner/resume-runner/internal/application"
	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/company"
	"github.com/resume-runner/resume-runner/internal/recruiter"
	"github.com/resume-runner/resume-runner/internal/remote"
	"github.com/resume-runner/resume-runner/internal/resume"
	"github.com/resume-runner/resume-runner/internal/tag"
)

type Fixtures struct {
	Tags         []Tag         `yaml:"tags"`
	Companies    []Company     `yaml:"companies"`
	Recruiters   []Recruiter   `yaml:"recruiters"`
	Resumes      []Resume      `yaml:"resumes"`
	Applications []Application `yaml:"applications"`
}

type Tag struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Color       string  `yaml:"color"`
}

type Company struct {
	Name         string  `yaml:"name"`
	Website      *string `yaml:"website"`
	Industry     *string `yaml:"industry"`
	Headquarters *string `yaml:"headquarters"`
	Remote       bool    `yaml:"remote"`
	Starred      bool    `yaml:"starred"`
	Notes        *string `yaml:"notes"`
}

type Recruiter struct {
	Name      string   `yaml:"name"`
	Email     *string  `yaml:"email"`
	Phone     *string  `yaml:"phone"`
	Agency    *string  `yaml:"agency"`
	Status    string   `yaml:"status"`
	Companies []string `yaml:"companies"`
}

type Resume struct {
	Name        string   `yaml:"name"`
	Description *string  `yaml:"description"`
	Content     *string  `yaml:"content"`
	TargetRoles []string `yaml:"target_roles"`
	Skills      []string `yaml:"skills"`
	Master      bool     `yaml:"master"`
	Tags        []string `yaml:"tags"`
}

type Application struct {
	Company   string  `yaml:"company"`
	Position  string  `yaml:"position"`
	Recruiter string  `yaml:"recruiter"`
	Resume    string  `yaml:"resume"`
	Date      string  `yaml:"date"`
	Source    *string `yaml:"source"`
	Status    string  `yaml:"status"`
	Location  *string `yaml:"location"`
	URL       *string `yaml:"url"`
	SalaryMin *int    `yaml:"salary_min"`
	SalaryMax *int    `yaml:"salary_max"`
	Remote    string  `yaml:"remote"`
	Notes     *string `yaml:"notes"`
}

// Counts reports how many records of each kind were created
type Counts struct {
	Tags         int
	Companies    int
	Recruiters   int
	Resumes      int
	Applications int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d tags, %d companies, %d recruiters, %d resumes, %d applications", c.Tags, c.Companies, c.Recruiters, c.Resumes, c.Applications)
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Parse decodes fixtures and checks that every name reference resolves
// within the file
func Parse(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return f, errors.Wrap(err, "unable to decode fixtures")
	}
	names := func(kind string, n int, name func(i int) string) (map[string]bool, error) {
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			k := key(name(i))
			if k == "" {
				return nil, fmt.Errorf("%s #%d has no name", kind, i+1)
			}
			if seen[k] {
				return nil, fmt.Errorf("duplicate %s %q", kind, name(i))
			}
			seen[k] = true
		}
		return seen, nil
	}
	tags, err := names("tag", len(f.Tags), func(i int) string { return f.Tags[i].Name })
	if err != nil {
		return f, err
	}
	companies, err := names("company", len(f.Companies), func(i int) string { return f.Companies[i].Name })
	if err != nil {
		return f, err
	}
	recruiters, err := names("recruiter", len(f.Recruiters), func(i int) string { return f.Recruiters[i].Name })
	if err != nil {
		return f, err
	}
	resumes, err := names("resume", len(f.Resumes), func(i int) string { return f.Resumes[i].Name })
	if err != nil {
		return f, err
	}
	for _, rec := range f.Recruiters {
		if rec.Status != "" && !recruiter.ValidStatus(rec.Status) {
			return f, fmt.Errorf("recruiter %q has unknown status %q", rec.Name, rec.Status)
		}
		for _, c := range rec.Companies {
			if !companies[key(c)] {
				return f, fmt.Errorf("recruiter %q refers to unknown company %q", rec.Name, c)
			}
		}
	}
	for _, v := range f.Resumes {
		for _, t := range v.Tags {
			if !tags[key(t)] {
				return f, fmt.Errorf("resume %q refers to unknown tag %q", v.Name, t)
			}
		}
	}
	for i, a := range f.Applications {
		if strings.TrimSpace(a.Position) == "" {
			return f, fmt.Errorf("application #%d has no position", i+1)
		}
		if !companies[key(a.Company)] {
			return f, fmt.Errorf("application %q refers to unknown company %q", a.Position, a.Company)
		}
		if a.Recruiter != "" && !recruiters[key(a.Recruiter)] {
			return f, fmt.Errorf("application %q refers to unknown recruiter %q", a.Position, a.Recruiter)
		}
		if a.Resume != "" && !resumes[key(a.Resume)] {
			return f, fmt.Errorf("application %q refers to unknown resume %q", a.Position, a.Resume)
		}
		if a.Status != "" && !application.ValidStatus(a.Status) {
			return f, fmt.Errorf("application %q has unknown status %q", a.Position, a.Status)
		}
		if a.Date != "" {
			if _, err := calendar.Parse(a.Date); err != nil {
				return f, errors.Wrapf(err, "application %q", a.Position)
			}
		}
	}
	return f, nil
}

// Load creates every record in dependency order, stopping at the first error
func Load(ctx context.Context, db *sql.DB, f Fixtures) (Counts, error) {
	var n Counts
	tagRepo := tag.NewRepository(db)
	companyRepo := company.NewRepository(db)
	recruiterRepo := recruiter.NewRepository(db)
	resumeRepo := resume.NewRepository(db)
	appRepo := application.NewRepository(db)

	tagIDs := make(map[string]int64)
	for _, t := range f.Tags {
		created, err := tagRepo.Create(ctx, tag.Tag{Name: strings.TrimSpace(t.Name), Description: t.Description, Color: t.Color})
		if err != nil {
			return n, err
		}
		tagIDs[key(t.Name)] = created.ID
		n.Tags++
	}
	companyIDs := make(map[string]int64)
	for _, c := range f.Companies {
		created, err := companyRepo.Create(ctx, company.Company{
			Name:             strings.TrimSpace(c.Name),
			Website:          c.Website,
			Industry:         c.Industry,
			Headquarters:     c.Headquarters,
			IsRemoteFriendly: c.Remote,
			IsStarred:        c.Starred,
			Notes:            c.Notes,
		})
		if err != nil {
			return n, err
		}
		companyIDs[key(c.Name)] = created.ID
		n.Companies++
	}
	recruiterIDs := make(map[string]int64)
	for _, rec := range f.Recruiters {
		created, err := recruiterRepo.Create(ctx, recruiter.Recruiter{
			Name:               strings.TrimSpace(rec.Name),
			Email:              rec.Email,
			Phone:              rec.Phone,
			Company:            rec.Agency,
			RelationshipStatus: rec.Status,
		})
		if err != nil {
			return n, err
		}
		recruiterIDs[key(rec.Name)] = created.ID
		for _, c := range rec.Companies {
			_, err := recruiterRepo.Associate(ctx, recruiter.Association{CompanyID: companyIDs[key(c)], RecruiterID: created.ID})
			if err != nil {
				return n, err
			}
		}
		n.Recruiters++
	}
	resumeIDs := make(map[string]int64)
	for _, v := range f.Resumes {
		created, err := resumeRepo.Create(ctx, resume.Version{
			VersionName:      strings.TrimSpace(v.Name),
			Description:      v.Description,
			ContentText:      v.Content,
			TargetRoles:      v.TargetRoles,
			SkillsEmphasized: v.Skills,
			IsMaster:         v.Master,
		})
		if err != nil {
			return n, err
		}
		resumeIDs[key(v.Name)] = created.ID
		if len(v.Tags) > 0 {
			ids := make([]int64, 0, len(v.Tags))
			for _, t := range v.Tags {
				ids = append(ids, tagIDs[key(t)])
			}
			if _, err := resumeRepo.SetTags(ctx, created.ID, ids); err != nil {
				return n, err
			}
		}
		n.Resumes++
	}
	for _, a := range f.Applications {
		app := application.Application{
			CompanyID:         companyIDs[key(a.Company)],
			PositionTitle:     strings.TrimSpace(a.Position),
			ApplicationSource: a.Source,
			Status:            a.Status,
			JobLocation:       a.Location,
			JobURL:            a.URL,
			SalaryMin:         a.SalaryMin,
			SalaryMax:         a.SalaryMax,
			IsRemote:          remote.Parse(a.Remote),
			Notes:             a.Notes,
		}
		if a.Date != "" {
			// validated by Parse
			app.ApplicationDate, _ = calendar.Parse(a.Date)
		}
		if id, ok := recruiterIDs[key(a.Recruiter)]; ok {
			app.RecruiterID = &id
		}
		if id, ok := resumeIDs[key(a.Resume)]; ok {
			app.ResumeVersionID = &id
		}
		if _, err := appRepo.Create(ctx, app); err != nil {
			return n, err
		}
		n.Applications++
	}
	return n, nil
}
