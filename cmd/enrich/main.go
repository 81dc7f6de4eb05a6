package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/resume-runner/resume-runner/internal/company"
	"github.com/resume-runner/resume-runner/internal/config"
	"github.com/resume-runner/resume-runner/internal/database"
)

func main() {
	_ = godotenv.Load()
	log.Println("enriching companies from their websites")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config %v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	companyRepo := company.NewRepository(conn)
	client := &http.Client{Timeout: 15 * time.Second}

	ctx := context.Background()
	cs, err := companyRepo.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	updated := 0
	for _, c := range cs {
		if c.Website == nil || *c.Website == "" {
			continue
		}
		p, err := fetchProfile(ctx, client, *c.Website)
		if err != nil {
			log.Printf("%s: %v", c.Name, err)
			continue
		}
		patch, ok := p.Fill(c)
		if !ok {
			continue
		}
		if _, err := companyRepo.Update(ctx, c.ID, patch); err != nil {
			log.Printf("%s: %v", c.Name, err)
			continue
		}
		updated++
		log.Println(c.Name)
	}
	log.Printf("enriched %d of %d companies", updated, len(cs))
}

func fetchProfile(ctx context.Context, client *http.Client, url string) (company.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return company.Profile{}, err
	}
	req.Header.Set("User-Agent", "resume-runner-enrich/1.0")
	res, err := client.Do(req)
	if err != nil {
		return company.Profile{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return company.Profile{}, fmt.Errorf("GET %s: status code error: %d %s", url, res.StatusCode, res.Status)
	}
	return company.ScrapeProfile(res.Body)
}
