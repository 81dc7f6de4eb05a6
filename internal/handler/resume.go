package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/resume"
	"github.com/resume-runner/resume-runner/internal/server"
	"github.com/resume-runner/resume-runner/internal/tag"
)

var resumeAccessors = listing.Accessors[resume.Version]{
	Fields: func(v resume.Version) []string {
		fields := append([]string{v.VersionName}, v.TargetRoles...)
		if v.Description != nil {
			fields = append(fields, *v.Description)
		}
		return fields
	},
	Starred: func(v resume.Version) bool { return v.IsMaster },
	Name:    func(v resume.Version) string { return v.VersionName },
	Updated: func(v resume.Version) time.Time { return v.UpdatedAt },
}

// ListResumeVersionsHandler filters by ?tags=a,b, matching any tag unless ?match=all
func ListResumeVersionsHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			versions []resume.Version
			err      error
		)
		names := resume.ParseTagNames(r.URL.Query().Get("tags"))
		if len(names) > 0 {
			matchAll := strings.EqualFold(r.URL.Query().Get("match"), "all")
			versions, err = repo.ListByTags(r.Context(), names, matchAll)
		} else {
			versions, err = repo.List(r.Context())
		}
		if err != nil {
			svr.Fail(w, err, "unable to list resume versions")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"resume_versions": applyQuery(r, versions, resumeAccessors)})
	}
}

func CreateResumeVersionHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v resume.Version
		if !decode(svr, w, r, &v) {
			return
		}
		if !required(&v.VersionName) {
			svr.Error(w, http.StatusBadRequest, "version_name is required")
			return
		}
		v.Tags = nil
		v, err := repo.Create(r.Context(), v)
		if err != nil {
			svr.Fail(w, err, "unable to create resume version")
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusCreated, envelope{"resume_version": v})
	}
}

func GetResumeVersionHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		v, err := repo.Get(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get resume version %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"resume_version": v})
	}
}

func UpdateResumeVersionHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p resume.Patch
		if !decode(svr, w, r, &p) {
			return
		}
		if p.VersionName != nil && !required(p.VersionName) {
			svr.Error(w, http.StatusBadRequest, "version_name cannot be empty")
			return
		}
		v, err := repo.Update(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update resume version %d", id))
			return
		}
		svr.InvalidateAggregates()
		svr.JSON(w, http.StatusOK, envelope{"resume_version": v})
	}
}

func DeleteResumeVersionHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete resume version %d", id))
			return
		}
		svr.InvalidateAggregates()
		deleted(svr, w)
	}
}

func ResumeMetricsHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics, err := repo.SuccessMetrics(r.Context())
		if err != nil {
			svr.Fail(w, err, "unable to get resume success metrics")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"metrics": metrics})
	}
}

func ResumeTagsHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		tags, err := repo.Tags(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list tags of resume version %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"tags": tags})
	}
}

// AddResumeTagHandler takes either a tag_id or a tag_name of an existing tag
func AddResumeTagHandler(svr server.Server, repo *resume.Repository, tagRepo *tag.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		req := struct {
			TagID   int64  `json:"tag_id"`
			TagName string `json:"tag_name"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		if req.TagID <= 0 && required(&req.TagName) {
			t, err := tagRepo.FindByName(r.Context(), req.TagName)
			if err != nil {
				svr.Fail(w, err, fmt.Sprintf("unable to find tag %q", req.TagName))
				return
			}
			req.TagID = t.ID
		}
		if req.TagID <= 0 {
			svr.Error(w, http.StatusBadRequest, "tag_id is required")
			return
		}
		if err := repo.AddTag(r.Context(), id, req.TagID); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to tag resume version %d with %d", id, req.TagID))
			return
		}
		tags, err := repo.Tags(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list tags of resume version %d", id))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"tags": tags})
	}
}

func SetResumeTagsHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		req := struct {
			TagIDs *[]int64 `json:"tag_ids"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		if req.TagIDs == nil {
			svr.Error(w, http.StatusBadRequest, "tag_ids is required")
			return
		}
		tags, err := repo.SetTags(r.Context(), id, *req.TagIDs)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to set tags of resume version %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"tags": tags})
	}
}

func RemoveResumeTagHandler(svr server.Server, repo *resume.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		tagID, ok := pathID(svr, w, r, "tag_id")
		if !ok {
			return
		}
		if err := repo.RemoveTag(r.Context(), id, tagID); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to remove tag %d from resume version %d", tagID, id))
			return
		}
		deleted(svr, w)
	}
}
