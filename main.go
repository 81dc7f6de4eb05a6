package main

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/resume-runner/resume-runner/internal/config"
	"github.com/resume-runner/resume-runner/internal/database"
	"github.com/resume-runner/resume-runner/internal/email"
	"github.com/resume-runner/resume-runner/internal/handler"
	"github.com/resume-runner/resume-runner/internal/server"
	"github.com/resume-runner/resume-runner/internal/storage"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	logger := server.NewLogger()
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	migrator, err := database.NewMigrator(conn)
	if err != nil {
		log.Fatalf("unable to load migrations: %v", err)
	}
	applied, err := migrator.Up(ctx)
	cancel()
	if err != nil {
		log.Fatalf("unable to apply migrations: %v", err)
	}
	for _, m := range applied {
		logger.Info().Int("version", m.Version).Str("file", m.Filename).Msg("applied migration")
	}

	store := storage.New(context.Background(), cfg.S3BucketName, cfg.AWSRegion, cfg.StorageStubbed(), logger)
	emailClient := email.NewClient(cfg.EmailAPIKey, cfg.EmailSender, cfg.SiteName)
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		emailClient,
		store,
		sessionStore,
		logger,
	)
	handler.RegisterRoutes(svr)

	log.Fatal(svr.Run())
}
