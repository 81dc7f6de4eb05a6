// Package storage keeps resume PDFs, cover letters and job posting
// screenshots in object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
)

const (
	KeyPrefix         = "resume-runner"
	DefaultURLExpiry  = 3600 * time.Second
	MaxURLExpiry      = 7 * 24 * time.Hour
	keyTimestampStyle = "20060102_150405"

	StatusActive = "active"
	StatusStub   = "stub"
)

type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "cover_letter"
	KindScreenshot  Kind = "screenshot"
)

var kindDirs = map[Kind]string{
	KindResume:      "resumes",
	KindCoverLetter: "cover_letters",
	KindScreenshot:  "job_screenshots",
}

var ErrUnknownKind = errors.New("unknown file kind")

// ObjectStore is the subset of object storage the API relies on
type ObjectStore interface {
	DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error
	Delete(ctx context.Context, key string) error
	Status() string
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kindDirs[k]; !ok {
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
	return k, nil
}

// Key builds resume-runner/<dir>/<part>_<part>_<timestamp><ext>, each part slugged
func Key(kind Kind, filename string, now time.Time, parts ...string) (string, error) {
	dir, ok := kindDirs[kind]
	if !ok {
		return "", errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	segments := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if s := slug.Make(p); s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		segments = append(segments, string(kind))
	}
	segments = append(segments, now.UTC().Format(keyTimestampStyle))
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", KeyPrefix, dir, strings.Join(segments, "_"), ext), nil
}

// ClampExpiry maps 0 to the default expiry and keeps anything else within
// [1s, MaxURLExpiry]
func ClampExpiry(seconds int) time.Duration {
	if seconds == 0 {
		return DefaultURLExpiry
	}
	if seconds < 1 {
		return time.Second
	}
	d := time.Duration(seconds) * time.Second
	if d > MaxURLExpiry {
		return MaxURLExpiry
	}
	return d
}
