package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/resume-runner/resume-runner/internal/application"
	"github.com/resume-runner/resume-runner/internal/digest"
	"github.com/resume-runner/resume-runner/internal/email"
	"github.com/resume-runner/resume-runner/internal/meta"
	"github.com/resume-runner/resume-runner/internal/middleware"
	"github.com/resume-runner/resume-runner/internal/server"
	"github.com/resume-runner/resume-runner/internal/user"
)

const taskTimeout = 2 * time.Minute

// SendFollowUpDigest emails the owner the follow-ups due within the configured
// window and records when it went out
func SendFollowUpDigest(ctx context.Context, svr server.Server, appRepo *application.Repository, metaRepo *meta.Repository, now time.Time) error {
	cfg := svr.GetConfig()
	days := cfg.FollowUpDaysAhead
	if days <= 0 {
		days = defaultFollowUpDays
	}
	items, err := appRepo.FollowUps(ctx, days)
	if err != nil {
		return err
	}
	last, err := metaRepo.GetTime(ctx, meta.KeyLastFollowUpDigest)
	if err != nil {
		return err
	}
	logger := svr.Logger()
	logger.Info().Int("follow_ups", len(items)).Time("last_sent", last).Msg("sending follow up digest")
	err = svr.GetEmail().SendHTMLEmail(
		svr.GetEmail().DefaultSender(),
		email.Address{Email: cfg.OwnerEmail},
		svr.GetEmail().DefaultSender(),
		digest.Subject(len(items), days),
		digest.Body(items, now),
	)
	if err != nil {
		return err
	}
	return metaRepo.SetTime(ctx, meta.KeyLastFollowUpDigest, now)
}

func TriggerFollowUpDigest(svr server.Server, appRepo *application.Repository, metaRepo *meta.Repository) http.HandlerFunc {
	return middleware.MachineAuthenticatedMiddleware(
		svr.GetConfig().MachineToken,
		func(w http.ResponseWriter, r *http.Request) {
			if svr.GetConfig().OwnerEmail == "" {
				svr.Error(w, http.StatusBadRequest, "OWNER_EMAIL is not set")
				return
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
				defer cancel()
				if err := SendFollowUpDigest(ctx, svr, appRepo, metaRepo, time.Now()); err != nil {
					svr.Log(err, "unable to send follow up digest")
				}
			}()
			svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	)
}

func TriggerExpiredUserSignOnTokensTask(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return middleware.MachineAuthenticatedMiddleware(
		svr.GetConfig().MachineToken,
		func(w http.ResponseWriter, r *http.Request) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
				defer cancel()
				n, err := userRepo.DeleteExpiredUserSignOnTokens(ctx)
				if err != nil {
					svr.Log(err, "unable to delete expired sign on tokens")
					return
				}
				logger := svr.Logger()
				logger.Info().Int64("deleted", n).Msg("deleted expired sign on tokens")
			}()
			svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	)
}
