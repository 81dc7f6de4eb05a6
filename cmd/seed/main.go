package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/resume-runner/resume-runner/internal/config"
	"github.com/resume-runner/resume-runner/internal/database"
	"github.com/resume-runner/resume-runner/internal/seed"
)

func main() {
	file := flag.String("f", "seed.example.yaml", "fixture file to load")
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config %v", err)
	}
	fh, err := os.Open(*file)
	if err != nil {
		log.Fatalf("unable to open fixtures: %v", err)
	}
	defer fh.Close()
	fixtures, err := seed.Parse(fh)
	if err != nil {
		log.Fatalf("invalid fixtures in %s: %v", *file, err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	n, err := seed.Load(context.Background(), conn, fixtures)
	if err != nil {
		log.Fatalf("seeding stopped after %s: %v", n, err)
	}
	log.Printf("seeded %s", n)
}
