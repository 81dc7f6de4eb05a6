// Package meta is a small key value store for bookkeeping such as the last
// time a digest went out.
package meta

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const KeyLastFollowUpDigest = "last_follow_up_digest"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) GetValue(ctx context.Context, key string) (string, error) {
	var val string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = $1`, key).Scan(&val)
	return val, errors.Wrapf(err, "unable to get meta %s", key)
}

func (r *Repository) SetValue(ctx context.Context, key, val string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, val)
	return errors.Wrapf(err, "unable to set meta %s", key)
}

// GetTime reads a value stored with SetTime, a missing key is the zero time
func (r *Repository) GetTime(ctx context.Context, key string) (time.Time, error) {
	val, err := r.GetValue(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, val)
	return t, errors.Wrapf(err, "meta %s is not a timestamp", key)
}

func (r *Repository) SetTime(ctx context.Context, key string, t time.Time) error {
	return r.SetValue(ctx, key, t.UTC().Format(time.RFC3339))
}
