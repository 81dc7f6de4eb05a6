package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/resume-runner/resume-runner/internal/application"
	"github.com/resume-runner/resume-runner/internal/company"
	"github.com/resume-runner/resume-runner/internal/jobposting"
	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/recruiter"
	"github.com/resume-runner/resume-runner/internal/server"
)

var companyAccessors = listing.Accessors[company.Company]{
	Fields: func(c company.Company) []string {
		fields := []string{c.Name}
		if c.Industry != nil {
			fields = append(fields, *c.Industry)
		}
		if c.Headquarters != nil {
			fields = append(fields, *c.Headquarters)
		}
		return fields
	},
	Starred: func(c company.Company) bool { return c.IsStarred },
	Name:    func(c company.Company) string { return c.Name },
	Updated: func(c company.Company) time.Time { return c.UpdatedAt },
}

func ListCompaniesHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companies, err := repo.List(r.Context())
		if err != nil {
			svr.Fail(w, err, "unable to list companies")
			return
		}
		q := listing.QueryFromURL(r.URL.Query(), listing.SortByName)
		svr.JSON(w, http.StatusOK, envelope{"companies": listing.Apply(companies, q, companyAccessors)})
	}
}

func SearchCompaniesHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			svr.Error(w, http.StatusBadRequest, "name required")
			return
		}
		companies, err := repo.SearchByName(r.Context(), name)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to search companies by %q", name))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"companies": companies})
	}
}

func CreateCompanyHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c company.Company
		if !decode(svr, w, r, &c) {
			return
		}
		if !required(&c.Name) {
			svr.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		c, err := repo.Create(r.Context(), c)
		if err != nil {
			svr.Fail(w, err, "unable to create company")
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusCreated, envelope{"company": c})
	}
}

func GetCompanyHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		c, err := repo.Get(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get company %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"company": c})
	}
}

func UpdateCompanyHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p company.Patch
		if !decode(svr, w, r, &p) {
			return
		}
		if p.Name != nil && !required(p.Name) {
			svr.Error(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		c, err := repo.Update(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update company %d", id))
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusOK, envelope{"company": c})
	}
}

func DeleteCompanyHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete company %d", id))
			return
		}
		svr.InvalidateAggregates()
		deleted(svr, w)
	}
}

func CompanyStatsHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		stats, err := repo.Stats(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get stats of company %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"stats": stats})
	}
}

func CompanyJobPostingsHandler(svr server.Server, repo *jobposting.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		postings, err := repo.ListByCompany(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list job postings of company %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"job_postings": postings})
	}
}

func CompanyApplicationsHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		apps, err := repo.ListByCompany(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list applications of company %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"applications": apps})
	}
}

func ListCompanyEventsHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		events, err := repo.ListEvents(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list events of company %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"events": events})
	}
}

func AddCompanyEventHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var e company.Event
		if !decode(svr, w, r, &e) {
			return
		}
		if !required(&e.Title) {
			svr.Error(w, http.StatusBadRequest, "title is required")
			return
		}
		e.CompanyID = id
		e, err := repo.AddEvent(r.Context(), e)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to add event to company %d", id))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"event": e})
	}
}

func UpdateCompanyEventHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p company.EventPatch
		if !decode(svr, w, r, &p) {
			return
		}
		e, err := repo.UpdateEvent(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update company event %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"event": e})
	}
}

func DeleteCompanyEventHandler(svr server.Server, repo *company.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.DeleteEvent(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete company event %d", id))
			return
		}
		deleted(svr, w)
	}
}

// CompanyRecruitersHandler lists active associations, ?all=1 includes removed ones
func CompanyRecruitersHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		recruiters, err := repo.CompanyRecruiters(r.Context(), id, !queryBool(r, "all"))
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list recruiters of company %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"recruiters": recruiters})
	}
}

func AssociateRecruiterHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var a recruiter.Association
		if !decode(svr, w, r, &a) {
			return
		}
		if a.RecruiterID <= 0 {
			svr.Error(w, http.StatusBadRequest, "recruiter_id is required")
			return
		}
		a.CompanyID = id
		a, err := repo.Associate(r.Context(), a)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to associate recruiter %d with company %d", a.RecruiterID, id))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"association": a})
	}
}

func UpdateAssociationHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		recruiterID, ok := pathID(svr, w, r, "recruiter_id")
		if !ok {
			return
		}
		var p recruiter.AssociationPatch
		if !decode(svr, w, r, &p) {
			return
		}
		if err := repo.UpdateAssociation(r.Context(), id, recruiterID, p); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update association of recruiter %d with company %d", recruiterID, id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"updated": true})
	}
}

// RemoveAssociationHandler ends the association, the row is kept as history
func RemoveAssociationHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		recruiterID, ok := pathID(svr, w, r, "recruiter_id")
		if !ok {
			return
		}
		if err := repo.RemoveAssociation(r.Context(), id, recruiterID); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to remove recruiter %d from company %d", recruiterID, id))
			return
		}
		deleted(svr, w)
	}
}
