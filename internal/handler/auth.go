package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"github.com/resume-runner/resume-runner/internal/email"
	"github.com/resume-runner/resume-runner/internal/middleware"
	"github.com/resume-runner/resume-runner/internal/server"
	"github.com/resume-runner/resume-runner/internal/user"
)

const sessionTTL = 30 * 24 * time.Hour

// RequestTokenSignOn mails a one time sign on link. Addresses other than the
// owner get the same response but no email.
func RequestTokenSignOn(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := svr.GetConfig()
		if !cfg.AuthEnabled() {
			svr.Error(w, http.StatusNotFound, "sign on is disabled")
			return
		}
		req := struct {
			Email string `json:"email"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		addr := strings.ToLower(strings.TrimSpace(req.Email))
		if !svr.IsEmail(addr) {
			svr.Error(w, http.StatusBadRequest, "invalid email")
			return
		}
		if addr != cfg.OwnerEmail {
			logger := svr.Logger()
			logger.Info().Str("email", addr).Msg("sign on requested for unknown address")
			svr.JSON(w, http.StatusOK, envelope{"sent": true})
			return
		}
		k, err := ksuid.NewRandom()
		if err != nil {
			svr.Log(err, "unable to generate token")
			svr.Error(w, http.StatusInternalServerError, "unable to generate token")
			return
		}
		if err := userRepo.SaveTokenSignOn(r.Context(), addr, k.String()); err != nil {
			svr.Fail(w, err, "unable to save sign on token")
			return
		}
		link := fmt.Sprintf("%s://%s/api/auth/verify/%s", cfg.URLProtocol, cfg.SiteHost, k.String())
		err = svr.GetEmail().SendHTMLEmail(
			svr.GetEmail().DefaultSender(),
			email.Address{Email: addr},
			svr.GetEmail().DefaultSender(),
			fmt.Sprintf("Sign on to %s", cfg.SiteName),
			fmt.Sprintf(`Sign on to %s <a href="%s">%s</a>. The link works once and expires in 24 hours.`, cfg.SiteName, link, link),
		)
		if err != nil {
			svr.Log(err, "unable to send sign on email")
			svr.Error(w, http.StatusInternalServerError, "unable to send email")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"sent": true})
	}
}

func VerifyTokenSignOn(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]
		u, _, err := userRepo.GetOrCreateUserFromToken(r.Context(), token)
		if err != nil {
			if !errors.Is(err, user.ErrTokenNotFound) {
				svr.Log(err, fmt.Sprintf("unable to validate signon token %s", token))
			}
			svr.Error(w, http.StatusBadRequest, "invalid or expired token")
			return
		}
		if u.Email != svr.GetConfig().OwnerEmail {
			svr.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		sess, err := svr.SessionStore.Get(r, middleware.SessionName)
		if err != nil {
			svr.Log(err, "unable to read session")
		}
		tkn, err := middleware.SignJWT(svr.GetJWTSigningKey(), u.ID, u.Email, u.CreatedAt, sessionTTL)
		if err != nil {
			svr.Log(err, "unable to sign jwt")
			svr.Error(w, http.StatusInternalServerError, "unable to sign on")
			return
		}
		sess.Values["jwt"] = tkn
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to save jwt into session cookie")
			svr.Error(w, http.StatusInternalServerError, "unable to sign on")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"user": u})
	}
}

// CurrentUser reports who the session cookie belongs to. A missing or invalid
// cookie is not an error, the response just says signed_on false.
func CurrentUser(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authEnabled := svr.GetConfig().AuthEnabled()
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusOK, envelope{"signed_on": false, "auth_enabled": authEnabled})
			return
		}
		u, err := userRepo.GetUser(r.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				svr.JSON(w, http.StatusOK, envelope{"signed_on": false, "auth_enabled": authEnabled})
				return
			}
			svr.Fail(w, err, "unable to load signed on user")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"signed_on": true, "auth_enabled": authEnabled, "user": u})
	}
}

func Logout(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svr.SessionStore.Get(r, middleware.SessionName)
		if err != nil {
			svr.Log(err, "unable to read session")
		}
		delete(sess.Values, "jwt")
		sess.Options.MaxAge = -1
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to clear session cookie")
			svr.Error(w, http.StatusInternalServerError, "unable to sign out")
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"signed_out": true})
	}
}
