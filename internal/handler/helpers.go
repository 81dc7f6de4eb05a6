package handler

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/listing"
	"github.com/resume-runner/resume-runner/internal/server"
)

const maxBodyBytes = 2 << 20

// envelope wraps a payload under the entity name, e.g. {"company": {...}}
type envelope map[string]interface{}

func idVar(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, errors.Errorf("missing %s", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s", name)
	}
	return id, nil
}

// pathID reads the {id} route variable, writing a 400 when it is unusable
func pathID(svr server.Server, w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := idVar(r, name)
	if err != nil {
		svr.Error(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := ioutil.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read body")
	}
	return body, nil
}

// decode reads a JSON body into v, writing a 400 on failure
func decode(svr server.Server, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := readBody(r)
	if err != nil {
		svr.Error(w, http.StatusBadRequest, "unable to read body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		svr.Error(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// required trims s and reports whether anything is left
func required(s *string) bool {
	if s == nil {
		return false
	}
	*s = strings.TrimSpace(*s)
	return *s != ""
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func queryBool(r *http.Request, name string) bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func deleted(svr server.Server, w http.ResponseWriter) {
	svr.JSON(w, http.StatusOK, envelope{"deleted": true})
}

// applyQuery filters by ?q= and sorts only when ?sort= is given, otherwise
// the repository order stands
func applyQuery[T any](r *http.Request, items []T, acc listing.Accessors[T]) []T {
	q := listing.QueryFromURL(r.URL.Query(), listing.SortByName)
	items = listing.Filter(items, q.Term, acc.Fields)
	if r.URL.Query().Get("sort") != "" {
		listing.Sort(items, q.Sort, acc)
	}
	return items
}
