package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/recruiter"
	"github.com/resume-runner/resume-runner/internal/server"
)

var recruiterAccessors = listing.Accessors[recruiter.Recruiter]{
	Fields: func(rec recruiter.Recruiter) []string {
		fields := []string{rec.Name}
		if rec.Company != nil {
			fields = append(fields, *rec.Company)
		}
		if rec.Email != nil {
			fields = append(fields, *rec.Email)
		}
		return fields
	},
	Starred: func(rec recruiter.Recruiter) bool { return rec.IsStarred },
	Name:    func(rec recruiter.Recruiter) string { return rec.Name },
	Updated: func(rec recruiter.Recruiter) time.Time { return rec.UpdatedAt },
}

func ListRecruitersHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recruiters, err := repo.List(r.Context())
		if err != nil {
			svr.Fail(w, err, "unable to list recruiters")
			return
		}
		q := listing.QueryFromURL(r.URL.Query(), listing.SortByName)
		svr.JSON(w, http.StatusOK, envelope{"recruiters": listing.Apply(recruiters, q, recruiterAccessors)})
	}
}

func CreateRecruiterHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec recruiter.Recruiter
		if !decode(svr, w, r, &rec) {
			return
		}
		if !required(&rec.Name) {
			svr.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		if rec.RelationshipStatus != "" && !recruiter.ValidStatus(rec.RelationshipStatus) {
			svr.Error(w, http.StatusBadRequest, "invalid relationship_status")
			return
		}
		rec, err := repo.Create(r.Context(), rec)
		if err != nil {
			svr.Fail(w, err, "unable to create recruiter")
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"recruiter": rec})
	}
}

func GetRecruiterHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		rec, err := repo.Get(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"recruiter": rec})
	}
}

func UpdateRecruiterHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p recruiter.Patch
		if !decode(svr, w, r, &p) {
			return
		}
		if p.Name != nil && !required(p.Name) {
			svr.Error(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		if p.RelationshipStatus != nil && !recruiter.ValidStatus(*p.RelationshipStatus) {
			svr.Error(w, http.StatusBadRequest, "invalid relationship_status")
			return
		}
		rec, err := repo.Update(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"recruiter": rec})
	}
}

func DeleteRecruiterHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete recruiter %d", id))
			return
		}
		deleted(svr, w)
	}
}

func RecruiterDashboardHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.Dashboard(r.Context())
		if err != nil {
			svr.Fail(w, err, "unable to get recruiter dashboard")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"recruiters": rows})
	}
}

// AssignResumeHandler records which resume version the recruiter now holds
func AssignResumeHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		req := struct {
			ResumeVersionID int64   `json:"resume_version_id"`
			Notes           *string `json:"notes"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		if req.ResumeVersionID <= 0 {
			svr.Error(w, http.StatusBadRequest, "resume_version_id is required")
			return
		}
		share, err := repo.AssignResume(r.Context(), id, req.ResumeVersionID, req.Notes)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to assign resume %d to recruiter %d", req.ResumeVersionID, id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"resume_share": share})
	}
}

func ResumeHistoryHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		history, err := repo.ResumeHistory(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get resume history of recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"resume_history": history})
	}
}

func ListCommunicationsHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		comms, err := repo.Communications(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list communications of recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"communications": comms})
	}
}

func AddCommunicationHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var c recruiter.Communication
		if !decode(svr, w, r, &c) {
			return
		}
		if !required(&c.CommunicationType) {
			svr.Error(w, http.StatusBadRequest, "communication_type is required")
			return
		}
		c.RecruiterID = id
		c, err := repo.AddCommunication(r.Context(), c)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to add communication to recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"communication": c})
	}
}

func ListRecruiterEventsHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		events, err := repo.Events(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list events of recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"events": events})
	}
}

func AddRecruiterEventHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var e recruiter.Event
		if !decode(svr, w, r, &e) {
			return
		}
		if !required(&e.Title) {
			svr.Error(w, http.StatusBadRequest, "title is required")
			return
		}
		e.RecruiterID = id
		e, err := repo.AddEvent(r.Context(), e)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to add event to recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"event": e})
	}
}

func UpdateRecruiterEventHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p recruiter.EventPatch
		if !decode(svr, w, r, &p) {
			return
		}
		e, err := repo.UpdateEvent(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update recruiter event %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"event": e})
	}
}

func DeleteRecruiterEventHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.DeleteEvent(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete recruiter event %d", id))
			return
		}
		deleted(svr, w)
	}
}

func RecruiterManagersHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		managers, err := repo.Managers(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list managers of recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"managers": managers})
	}
}

func LinkManagerHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var l recruiter.ManagerLink
		if !decode(svr, w, r, &l) {
			return
		}
		if l.ManagerID <= 0 {
			svr.Error(w, http.StatusBadRequest, "manager_id is required")
			return
		}
		l.RecruiterID = id
		l, err := repo.LinkManager(r.Context(), l)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to link manager %d to recruiter %d", l.ManagerID, id))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"relationship": l})
	}
}

func UpdateManagerLinkHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		managerID, ok := pathID(svr, w, r, "manager_id")
		if !ok {
			return
		}
		var p recruiter.ManagerLinkPatch
		if !decode(svr, w, r, &p) {
			return
		}
		if err := repo.UpdateManagerLink(r.Context(), id, managerID, p); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update link between recruiter %d and manager %d", id, managerID))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"updated": true})
	}
}

func UnlinkManagerHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		managerID, ok := pathID(svr, w, r, "manager_id")
		if !ok {
			return
		}
		if err := repo.UnlinkManager(r.Context(), id, managerID); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to unlink manager %d from recruiter %d", managerID, id))
			return
		}
		deleted(svr, w)
	}
}

func RecruiterCompaniesHandler(svr server.Server, repo *recruiter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		companies, err := repo.RecruiterCompanies(r.Context(), id, !queryBool(r, "all"))
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list companies of recruiter %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"companies": companies})
	}
}
