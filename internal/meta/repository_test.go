package meta

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	sent := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO meta \(key, value\) VALUES \(\$1, \$2\) ON CONFLICT \(key\) DO UPDATE`).
		WithArgs(KeyLastFollowUpDigest, "2024-05-01T08:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetTime(context.Background(), KeyLastFollowUpDigest, sent))

	mock.ExpectQuery(`SELECT value FROM meta WHERE key = \$1`).WithArgs(KeyLastFollowUpDigest).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2024-05-01T08:00:00Z"))
	got, err := repo.GetTime(context.Background(), KeyLastFollowUpDigest)
	require.NoError(t, err)
	assert.True(t, sent.Equal(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTimeMissingKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`SELECT value FROM meta`).WillReturnRows(sqlmock.NewRows([]string{"value"}))

	got, err := NewRepository(db).GetTime(context.Background(), KeyLastFollowUpDigest)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
