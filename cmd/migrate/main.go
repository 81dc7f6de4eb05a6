package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/resume-runner/resume-runner/internal/config"
	"github.com/resume-runner/resume-runner/internal/database"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up|down|status")
	os.Exit(2)
}

func main() {
	if len(os.Args) != 2 {
		usage()
	}
	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config %v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	m, err := database.NewMigrator(conn)
	if err != nil {
		log.Fatalf("unable to load migrations: %v", err)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "up":
		applied, err := m.Up(ctx)
		for _, mig := range applied {
			log.Printf("applied %s", mig.Filename)
		}
		if err != nil {
			log.Fatal(err)
		}
		if len(applied) == 0 {
			log.Println("schema is up to date")
		}
	case "down":
		mig, err := m.Down(ctx)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("rolled back %s", mig.Filename)
	case "status":
		status, err := m.Status(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("current version: %d\n", status.Current)
		for _, a := range status.Applied {
			fmt.Printf("  applied  %04d %s (%s) %s\n", a.Version, a.Filename, a.AppliedAt.Format("2006-01-02 15:04"), a.Description)
		}
		for _, p := range status.Pending {
			fmt.Printf("  pending  %04d %s %s\n", p.Version, p.Filename, p.Description)
		}
	default:
		usage()
	}
}
