package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/server"
	"github.com/resume-runner/resume-runner/internal/tag"
)

// tags have no updated_at, sort=updated falls back to newest first
var tagAccessors = listing.Accessors[tag.Tag]{
	Fields: func(t tag.Tag) []string {
		if t.Description != nil {
			return []string{t.Name, *t.Description}
		}
		return []string{t.Name}
	},
	Name:    func(t tag.Tag) string { return t.Name },
	Updated: func(t tag.Tag) time.Time { return t.CreatedAt },
}

func ListTagsHandler(svr server.Server, repo *tag.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := repo.List(r.Context())
		if err != nil {
			svr.Fail(w, err, "unable to list tags")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"tags": applyQuery(r, tags, tagAccessors)})
	}
}

func CreateTagHandler(svr server.Server, repo *tag.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t tag.Tag
		if !decode(svr, w, r, &t) {
			return
		}
		if !required(&t.Name) {
			svr.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		t, err := repo.Create(r.Context(), t)
		if err != nil {
			svr.Fail(w, err, "unable to create tag")
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"tag": t})
	}
}

func GetTagHandler(svr server.Server, repo *tag.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		t, err := repo.Get(r.Context(), id)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to get tag %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"tag": t})
	}
}

func UpdateTagHandler(svr server.Server, repo *tag.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		var p tag.Patch
		if !decode(svr, w, r, &p) {
			return
		}
		if p.Name != nil && !required(p.Name) {
			svr.Error(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		t, err := repo.Update(r.Context(), id, p)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to update tag %d", id))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"tag": t})
	}
}

func DeleteTagHandler(svr server.Server, repo *tag.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(svr, w, r, "id")
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to delete tag %d", id))
			return
		}
		deleted(svr, w)
	}
}
