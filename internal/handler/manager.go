package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/manager"
	"github.com/resume-runner/resume-runner/internal/recruiter"
	"github.com/resume-runner/resume-runner/internal/server"
)

var managerAccessors = listing.Accessors[manager.Manager]{
	Fields: func(m manager.Manager) []string {
		fields := []string{m.Name}
		if m.Email != nil {
			fields = append(fields, *m.Email)
		}
		if m.CompanyName != nil {
			fields = append(fields, *m.CompanyName)
		}
		return fields
	},
	Name:    func(m manager.Manager) string { return m.Name },
	Updated: func(m manager.Manager) time.Time { return m.UpdatedAt },
}

// ListManagersHandler lists every manager, or those of ?company_id=
func ListManagersHandler(svr server.Server, repo *manager.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		managers, err := repo.List(r.Context(), int64(queryInt(r, "company_id", 0)))
		if err != nil {
			svr.Fail(w, err, "unable to list managers")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"managers": applyQuery(r, managers, managerAccessors)})
	}
}

func CreateManagerHandler(svr server.Server, repo *manager.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m manager.Manager
		if !decode(svr, w, r, &m) {
			return
		}
		if !required(&m.Name) {
			svr.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		m, err := repo.Create(r.Context(), m)
		if err != nil {
			svr.Fail(w, err, "unable to create manager")
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"manager": m})
	}
}

func GetManagerHandler(svr server.Server, repo *manager.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		m, err := repo.Get(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get manager %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"manager": m})
	}
}

func UpdateManagerHandler(svr server.Server, repo *manager.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p manager.Patch
		if !decode(svr, w, r, &p) {
			return
		}
		if p.Name != nil && !required(p.Name) {
			svr.Error(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		m, err := repo.Update(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update manager %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"manager": m})
	}
}

func DeleteManagerHandler(svr server.Server, repo *manager.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete manager %d", id))
			return
		}
		deleted(svr, w)
	}
}

func ManagerRecruitersHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		recruiters, err := repo.RecruitersOf(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list recruiters of manager %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"recruiters": recruiters})
	}
}
