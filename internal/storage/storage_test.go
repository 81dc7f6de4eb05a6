package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	key, err := Key(KindResume, "Resume FINAL.PDF", now, "Backend Focus v2")
	require.NoError(t, err)
	assert.Equal(t, "resume-runner/resumes/backend-focus-v2_20240309_140507.pdf", key)

	key, err = Key(KindScreenshot, "shot.png", now, "Acme Inc.", "Senior Go Engineer")
	require.NoError(t, err)
	assert.Equal(t, "resume-runner/job_screenshots/acme-inc_senior-go-engineer_20240309_140507.png", key)

	key, err = Key(KindCoverLetter, "letter", now)
	require.NoError(t, err)
	assert.Equal(t, "resume-runner/cover_letters/cover_letter_20240309_140507", key)

	_, err = Key(Kind("avatar"), "a.png", now)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Cover_Letter ")
	require.NoError(t, err)
	assert.Equal(t, KindCoverLetter, k)

	_, err = ParseKind("video")
	assert.Error(t, err)
}

func TestClampExpiry(t *testing.T) {
	assert.Equal(t, DefaultURLExpiry, ClampExpiry(0))
	assert.Equal(t, time.Second, ClampExpiry(-5))
	assert.Equal(t, time.Second, ClampExpiry(1))
	assert.Equal(t, 90*time.Second, ClampExpiry(90))
	assert.Equal(t, MaxURLExpiry, ClampExpiry(10_000_000))
}

func TestStubStore(t *testing.T) {
	ctx := context.Background()
	s := NewStubStore()
	assert.Equal(t, StatusStub, s.Status())

	u, err := s.DownloadURL(ctx, "resume-runner/resumes/a.pdf", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://stub-bucket.s3.amazonaws.com/resume-runner/resumes/a.pdf?expires_in=3600", u)

	require.NoError(t, s.Upload(ctx, "resume-runner/resumes/new.pdf", strings.NewReader("%PDF"), "application/pdf", nil))
	keys, err := s.List(ctx, "resume-runner/resumes/")
	require.NoError(t, err)
	assert.Contains(t, keys, "resume-runner/resumes/new.pdf")
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "resume-runner/resumes/"))
	}

	require.NoError(t, s.Delete(ctx, "resume-runner/resumes/new.pdf"))
	keys, err = s.List(ctx, "resume-runner/resumes/")
	require.NoError(t, err)
	assert.NotContains(t, keys, "resume-runner/resumes/new.pdf")
}
