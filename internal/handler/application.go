package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/resume-runner/resume-runner/internal/application"
	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/exporter"
	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/server"
)

const defaultFollowUpDays = 7

var applicationAccessors = listing.Accessors[application.Application]{
	Fields: func(a application.Application) []string {
		fields := []string{a.PositionTitle, a.CompanyName}
		if a.JobLocation != nil {
			fields = append(fields, *a.JobLocation)
		}
		return fields
	},
	Name:    func(a application.Application) string { return a.PositionTitle },
	Updated: func(a application.Application) time.Time { return a.UpdatedAt },
}

// ListApplicationsHandler keeps the newest applications first unless ?sort= asks otherwise
func ListApplicationsHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if status != "" && !application.ValidStatus(status) {
			svr.Error(w, http.StatusBadRequest, "invalid status")
			return
		}
		apps, err := repo.List(r.Context(), status)
		if err != nil {
			svr.Fail(w, err, "unable to list applications")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"applications": applyQuery(r, apps, applicationAccessors)})
	}
}

func SearchApplicationsHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("company"))
		if name == "" {
			svr.Error(w, http.StatusBadRequest, "company required")
			return
		}
		apps, err := repo.SearchByCompany(r.Context(), name)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to search applications by company %q", name))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"applications": apps})
	}
}

func CreateApplicationHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(r)
		if err != nil {
			svr.Error(w, http.StatusBadRequest, "unable to read body")
			return
		}
		a, err := application.ParseNew(body)
		if err != nil {
			svr.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		d, err := repo.Create(r.Context(), a)
		if err != nil {
			svr.Fail(w, err, "unable to create application")
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusCreated, envelope{"application": d})
	}
}

func GetApplicationHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		d, err := repo.Get(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get application %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"application": d})
	}
}

func UpdateApplicationHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		body, err := readBody(r)
		if err != nil {
			svr.Error(w, http.StatusBadRequest, "unable to read body")
			return
		}
		p, err := application.ParsePatch(body)
		if err != nil {
			svr.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		d, err := repo.Update(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update application %d", id))
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusOK, envelope{"application": d})
	}
}

func UpdateApplicationStatusHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		req := struct {
			Status       string        `json:"status"`
			ResponseDate calendar.Date `json:"response_date"`
			Notes        *string       `json:"notes"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		if !application.ValidStatus(req.Status) {
			svr.Error(w, http.StatusBadRequest, fmt.Sprintf("status must be one of %s", strings.Join(application.Statuses, ", ")))
			return
		}
		d, err := repo.UpdateStatus(r.Context(), id, req.Status, req.ResponseDate, req.Notes)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update status of application %d", id))
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusOK, envelope{"application": d})
	}
}

// UpdateApplicationResumeHandler sets resume_version_id, null clears it
func UpdateApplicationResumeHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		req := struct {
			ResumeVersionID *int64 `json:"resume_version_id"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		d, err := repo.UpdateResume(r.Context(), id, req.ResumeVersionID)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update resume of application %d", id))
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusOK, envelope{"application": d})
	}
}

func DeleteApplicationHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete application %d", id))
			return
		}
		svr.InvalidateAggregates()
		deleted(svr, w)
	}
}

func ExportApplicationsHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := repo.List(r.Context(), "")
		if err != nil {
			svr.Fail(w, err, "unable to list applications for export")
			return
		}
		var buf bytes.Buffer
		if err := exporter.WriteApplications(&buf, apps); err != nil {
			svr.Fail(w, err, "unable to write applications csv")
			return
		}
		svr.MEDIA(w, http.StatusOK, buf.Bytes(), "text/csv", "applications.csv")
	}
}

// FollowUpsHandler lists follow-ups due within ?days=, defaulting to the configured window
func FollowUpsHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := svr.GetConfig().FollowUpDaysAhead
		if days <= 0 {
			days = defaultFollowUpDays
		}
		days = queryInt(r, "days", days)
		followUps, err := repo.FollowUps(r.Context(), days)
		if err != nil {
			svr.Fail(w, err, "unable to list follow ups")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"follow_ups": followUps})
	}
}

func ApplicationSourcesHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.JSON(w, http.StatusOK, envelope{"sources": application.Sources})
	}
}

func TimelineHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		events, err := repo.Timeline(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get timeline of application %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"timeline": events})
	}
}

func AddTimelineEventHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var e application.Event
		if !decode(svr, w, r, &e) {
			return
		}
		if !required(&e.EventType) {
			svr.Error(w, http.StatusBadRequest, "event_type is required")
			return
		}
		if !required(&e.Title) {
			svr.Error(w, http.StatusBadRequest, "title is required")
			return
		}
		e.ApplicationID = id
		e, err := repo.AddEvent(r.Context(), e)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to add event to application %d", id))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"event": e})
	}
}

func UpdateTimelineEventHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p application.EventPatch
		if !decode(svr, w, r, &p) {
			return
		}
		e, err := repo.UpdateEvent(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update application event %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"event": e})
	}
}

func DeleteTimelineEventHandler(svr server.Server, repo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.DeleteEvent(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete application event %d", id))
			return
		}
		deleted(svr, w)
	}
}
