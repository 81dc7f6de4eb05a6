package storage

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const stubBaseURL = "https://stub-bucket.s3.amazonaws.com/"

// StubStore stands in for a bucket during local development. Uploaded keys
// are remembered in memory, file contents are discarded.
type StubStore struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

func NewStubStore() *StubStore {
	return &StubStore{keys: map[string]struct{}{
		KeyPrefix + "/resumes/master-resume_20240101_120000.pdf":               {},
		KeyPrefix + "/cover_letters/acme_backend-engineer_20240102_090000.pdf": {},
		KeyPrefix + "/job_screenshots/acme_backend-engineer_20240102_090500.png": {},
	}}
}

func (s *StubStore) Status() string {
	return StatusStub
}

func (s *StubStore) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("%s%s?expires_in=%d", stubBaseURL, (&url.URL{Path: key}).EscapedPath(), int(expires.Seconds())), nil
}

func (s *StubStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *StubStore) Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error {
	if _, err := io.Copy(ioutil.Discard, body); err != nil {
		return err
	}
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *StubStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}
