package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/resume-runner/resume-runner/internal/dashboard"
	"github.com/resume-runner/resume-runner/internal/server"
)

// cached serves key from the cache, falling back to compute and storing the result
func cached(svr server.Server, w http.ResponseWriter, key string, compute func() (interface{}, error)) {
	if buf, ok := svr.CacheGet(key); ok {
		svr.JSON(w, http.StatusOK, json.RawMessage(buf))
		return
	}
	data, err := compute()
	if err != nil {
		svr.Fail(w, err, fmt.Sprintf("unable to compute %s", key))
		return
	}
	buf, err := json.Marshal(data)
	if err != nil {
		svr.Log(err, fmt.Sprintf("unable to marshal %s", key))
		svr.JSON(w, http.StatusOK, data)
		return
	}
	if err := svr.CacheSet(key, buf); err != nil {
		svr.Log(err, fmt.Sprintf("unable to cache %s", key))
	}
	svr.JSON(w, http.StatusOK, json.RawMessage(buf))
}

func DashboardStatsHandler(svr server.Server, repo *dashboard.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cached(svr, w, server.CacheKeyDashboardStats, func() (interface{}, error) {
			stats, err := repo.Stats(r.Context())
			if err != nil {
				return nil, err
			}
			return envelope{"stats": stats}, nil
		})
	}
}

// RecentActivityHandler caches the rows only, updated_ago is computed per request
func RecentActivityHandler(svr server.Server, repo *dashboard.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		var activity []dashboard.Activity
		if buf, ok := svr.CacheGet(server.CacheKeyRecentActivity); ok {
			if err := json.Unmarshal(buf, &activity); err != nil {
				svr.Log(err, "unable to decode cached recent activity")
				activity = nil
			}
		}
		if activity == nil {
			var err error
			activity, err = repo.RecentActivity(r.Context(), now)
			if err != nil {
				svr.Fail(w, err, "unable to load recent activity")
				return
			}
			buf, err := json.Marshal(activity)
			if err != nil {
				svr.Log(err, "unable to marshal recent activity")
			} else if err := svr.CacheSet(server.CacheKeyRecentActivity, buf); err != nil {
				svr.Log(err, "unable to cache recent activity")
			}
		}
		dashboard.Humanize(activity, now)
		svr.JSON(w, http.StatusOK, envelope{"recent_activity": activity})
	}
}
