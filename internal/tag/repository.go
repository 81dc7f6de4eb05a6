package tag

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/database"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const selectTag = `SELECT id, name, description, color, created_at FROM tags`

type scanner interface {
	Scan(dest ...interface{}) error
}

func Scan(row scanner) (Tag, error) {
	var t Tag
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Color, &t.CreatedAt)
	return t, err
}

func (r *Repository) List(ctx context.Context) ([]Tag, error) {
	res := make([]Tag, 0)
	rows, err := r.db.QueryContext(ctx, selectTag+` ORDER BY LOWER(name)`)
	if err != nil {
		return res, errors.Wrap(err, "unable to list tags")
	}
	defer rows.Close()
	for rows.Next() {
		t, err := Scan(rows)
		if err != nil {
			return res, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Tag, error) {
	t, err := Scan(r.db.QueryRowContext(ctx, selectTag+` WHERE id = $1`, id))
	return t, errors.Wrapf(err, "unable to get tag %d", id)
}

// FindByName matches case-insensitively
func (r *Repository) FindByName(ctx context.Context, name string) (Tag, error) {
	t, err := Scan(r.db.QueryRowContext(ctx, selectTag+` WHERE LOWER(name) = LOWER($1)`, strings.TrimSpace(name)))
	return t, errors.Wrapf(err, "unable to find tag %q", name)
}

func (r *Repository) Create(ctx context.Context, t Tag) (Tag, error) {
	if t.Color == "" {
		t.Color = DefaultColor
	}
	err := r.db.QueryRowContext(
		ctx,
		`INSERT INTO tags (name, description, color) VALUES ($1, $2, $3) RETURNING id, created_at`,
		t.Name,
		t.Description,
		t.Color,
	).Scan(&t.ID, &t.CreatedAt)
	return t, errors.Wrapf(err, "unable to create tag %q", t.Name)
}

func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Tag, error) {
	stmt, args, err := database.BuildUpdate("tags", id, p)
	if err != nil {
		return Tag{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Tag{}, errors.Wrapf(err, "unable to update tag %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Tag{}, err
	}
	return r.Get(ctx, id)
}

// Delete removes the tag, resume_tags rows go with it through the cascade
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete tag %d", id)
	}
	return database.RequireAffected(res)
}
