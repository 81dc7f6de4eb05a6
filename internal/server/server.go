package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/resume-runner/resume-runner/internal/config"
	"github.com/resume-runner/resume-runner/internal/database"
	"github.com/resume-runner/resume-runner/internal/email"
	"github.com/resume-runner/resume-runner/internal/middleware"
	"github.com/resume-runner/resume-runner/internal/storage"
)

const (
	CacheKeyDashboardStats = "dashboardStats"
	CacheKeyRecentActivity = "recentActivity"
)

type Server struct {
	cfg          config.Config
	Conn         *sql.DB
	router       *mux.Router
	api          *mux.Router
	emailClient  email.Sender
	store        storage.ObjectStore
	SessionStore sessions.Store
	bigCache     *bigcache.BigCache
	logger       zerolog.Logger
}

func NewLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

func NewServer(
	cfg config.Config,
	conn *sql.DB,
	r *mux.Router,
	emailClient email.Sender,
	store storage.ObjectStore,
	sessionStore sessions.Store,
	logger zerolog.Logger,
) Server {
	raven.SetDSN(cfg.SentryDSN)

	ttl := cfg.DashboardCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cacheCfg := bigcache.DefaultConfig(ttl)
	cacheCfg.CleanWindow = ttl
	cacheCfg.Verbose = false
	bigCache, err := bigcache.NewBigCache(cacheCfg)
	svr := Server{
		cfg:          cfg,
		Conn:         conn,
		router:       r,
		emailClient:  emailClient,
		store:        store,
		SessionStore: sessionStore,
		bigCache:     bigCache,
		logger:       logger,
	}
	svr.api = r.PathPrefix("/api").Subrouter()
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}

	return svr
}

// RegisterRoute mounts handler at path on the root router
func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

// RegisterAPIRoute mounts handler under /api, behind owner auth when it is enabled
func (s Server) RegisterAPIRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.api.Handle(
		path,
		middleware.OwnerAuthenticatedMiddleware(s.cfg.AuthEnabled(), s.SessionStore, s.cfg.JwtSigningKey, http.HandlerFunc(handler)),
	).Methods(methods...)
}

// RegisterPublicAPIRoute mounts handler under /api without auth
func (s Server) RegisterPublicAPIRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.api.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) GetEmail() email.Sender {
	return s.emailClient
}

func (s Server) GetStore() storage.ObjectStore {
	return s.store
}

func (s Server) Logger() zerolog.Logger {
	return s.logger
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func (s Server) MEDIA(w http.ResponseWriter, status int, media []byte, mediaType, filename string) {
	w.Header().Set("Content-Type", mediaType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(status)
	w.Write(media)
}

// Error writes the standard {"error": msg} body
func (s Server) Error(w http.ResponseWriter, status int, msg string) {
	s.JSON(w, status, map[string]string{"error": msg})
}

// Fail maps repository errors onto status codes. Anything unrecognised is
// logged and reported as a 500.
func (s Server) Fail(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrEmptyPatch):
		s.Error(w, http.StatusBadRequest, "no valid fields to update")
	case database.IsUniqueViolation(err):
		s.Error(w, http.StatusConflict, "already exists")
	case database.IsForeignKeyViolation(err):
		s.Error(w, http.StatusBadRequest, "referenced record does not exist")
	case database.IsCheckViolation(err):
		s.Error(w, http.StatusBadRequest, "invalid value")
	default:
		s.Log(err, msg)
		s.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s Server) Log(err error, msg string) {
	raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	s.logger.Error().Err(err).Msg(msg)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	return http.ListenAndServe(addr, s.Handler())
}

// Handler is the router wrapped in the middleware chain
func (s Server) Handler() http.Handler {
	return middleware.HTTPSMiddleware(
		middleware.LoggingMiddleware(
			s.logger,
			middleware.HeadersMiddleware(
				middleware.CORSMiddleware(s.router, s.cfg.CORSAllowedOrigin),
				s.cfg.Env,
			),
		),
		s.cfg.Env,
	)
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

func (s Server) CacheGet(key string) ([]byte, bool) {
	if s.bigCache == nil {
		return nil, false
	}
	out, err := s.bigCache.Get(key)
	if err != nil {
		return []byte{}, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) error {
	if s.bigCache == nil {
		return nil
	}
	return s.bigCache.Set(key, val)
}

func (s Server) CacheDelete(key string) error {
	if s.bigCache == nil {
		return nil
	}
	err := s.bigCache.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

// InvalidateAggregates drops every cached aggregate, called after mutations
func (s Server) InvalidateAggregates() {
	for _, key := range []string{CacheKeyDashboardStats, CacheKeyRecentActivity} {
		if err := s.CacheDelete(key); err != nil {
			s.Log(err, fmt.Sprintf("unable to delete cache key %s", key))
		}
	}
}

// IsEmail is a loose check, the sign on link is the real verification
func (s Server) IsEmail(val string) bool {
	at := strings.LastIndex(val, "@")
	return at > 0 && at < len(val)-1 && !strings.ContainsAny(val, " \t\n") && strings.Contains(val[at:], ".")
}
