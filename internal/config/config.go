package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultS3Bucket = "your-resume-runner-bucket"
	DefaultRegion   = "us-east-1"
)

type Config struct {
	Port              string
	DatabaseURL       string
	SessionKey        []byte
	JwtSigningKey     []byte
	Env               string // either prod or dev, dev disables https redirects and security headers
	SentryDSN         string
	MachineToken      string // shared secret for /x/task endpoints
	OwnerEmail        string // when set, every /api route requires a signed-on owner session
	EmailAPIKey       string
	EmailSender       string
	SiteName          string
	SiteHost          string
	URLProtocol       string
	CORSAllowedOrigin string
	S3BucketName      string
	AWSRegion         string
	DashboardCacheTTL time.Duration
	FollowUpDaysAhead int // default window for upcoming follow-ups
}

// AuthEnabled reports whether the API is locked to the owner account
func (c Config) AuthEnabled() bool {
	return c.OwnerEmail != ""
}

// StorageStubbed reports whether object storage should run without a real bucket
func (c Config) StorageStubbed() bool {
	return c.S3BucketName == "" || c.S3BucketName == DefaultS3Bucket
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}
	ownerEmail := strings.ToLower(strings.TrimSpace(os.Getenv("OWNER_EMAIL")))
	emailAPIKey := os.Getenv("EMAIL_API_KEY")
	if ownerEmail != "" && emailAPIKey == "" {
		return Config{}, fmt.Errorf("EMAIL_API_KEY cannot be empty when OWNER_EMAIL is set")
	}
	emailSender := os.Getenv("EMAIL_SENDER_ADDRESS")
	if emailSender == "" {
		emailSender = "no-reply@resume-runner.local"
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		siteName = "Resume Runner"
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		siteHost = "localhost:" + port
	}
	urlProtocol := "http"
	if !strings.EqualFold(env, "dev") {
		urlProtocol = "https"
	}
	awsRegion := os.Getenv("AWS_REGION")
	if awsRegion == "" {
		awsRegion = DefaultRegion
	}
	cacheTTL := 300
	if cacheTTLStr := os.Getenv("DASHBOARD_CACHE_TTL_SECONDS"); cacheTTLStr != "" {
		cacheTTL, err = strconv.Atoi(cacheTTLStr)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert DASHBOARD_CACHE_TTL_SECONDS to int")
		}
	}
	followUpDaysAhead := 7
	if followUpDaysAheadStr := os.Getenv("FOLLOW_UP_DAYS_AHEAD"); followUpDaysAheadStr != "" {
		followUpDaysAhead, err = strconv.Atoi(followUpDaysAheadStr)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert FOLLOW_UP_DAYS_AHEAD to int")
		}
	}

	return Config{
		Port:              port,
		DatabaseURL:       databaseURL,
		SessionKey:        sessionKeyBytes,
		JwtSigningKey:     jwtSigningKeyBytes,
		Env:               env,
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		MachineToken:      os.Getenv("MACHINE_TOKEN"),
		OwnerEmail:        ownerEmail,
		EmailAPIKey:       emailAPIKey,
		EmailSender:       emailSender,
		SiteName:          siteName,
		SiteHost:          siteHost,
		URLProtocol:       urlProtocol,
		CORSAllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),
		S3BucketName:      os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:         awsRegion,
		DashboardCacheTTL: time.Duration(cacheTTL) * time.Second,
		FollowUpDaysAhead: followUpDaysAhead,
	}, nil
}
