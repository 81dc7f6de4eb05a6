package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/resume-runner/resume-runner/internal/jobposting"
	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/server"
)

var jobPostingAccessors = listing.Accessors[jobposting.Posting]{
	Fields: func(p jobposting.Posting) []string {
		fields := []string{p.Title, p.CompanyName}
		if p.Location != nil {
			fields = append(fields, *p.Location)
		}
		return fields
	},
	Name:    func(p jobposting.Posting) string { return p.Title },
	Updated: func(p jobposting.Posting) time.Time { return p.CreatedAt },
}

func ListJobPostingsHandler(svr server.Server, repo *jobposting.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postings, err := repo.List(r.Context(), int64(queryInt(r, "company_id", 0)))
		if err != nil {
			svr.Fail(w, err, "unable to list job postings")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"job_postings": applyQuery(r, postings, jobPostingAccessors)})
	}
}

func CreateJobPostingHandler(svr server.Server, repo *jobposting.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p jobposting.Posting
		if !decode(svr, w, r, &p) {
			return
		}
		if p.CompanyID <= 0 {
			svr.Error(w, http.StatusBadRequest, "company_id is required")
			return
		}
		if !required(&p.Title) {
			svr.Error(w, http.StatusBadRequest, "title is required")
			return
		}
		p, err := repo.Create(r.Context(), p)
		if err != nil {
			svr.Fail(w, err, "unable to create job posting")
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"job_posting": p})
	}
}

func GetJobPostingHandler(svr server.Server, repo *jobposting.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		p, err := repo.Get(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get job posting %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"job_posting": p})
	}
}
