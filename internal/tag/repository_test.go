package tag

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resume-runner/resume-runner/internal/database"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestCreateDefaultsColor(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`INSERT INTO tags \(name, description, color\)`).
		WithArgs("backend", nil, DefaultColor).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	tg, err := repo.Create(context.Background(), Tag{Name: "backend"})
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, tg.Color)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicate(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`INSERT INTO tags`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), Tag{Name: "backend", Color: "#000000"})
	assert.True(t, database.IsUniqueViolation(err))
}

func TestListOrdersByName(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, description, color, created_at FROM tags ORDER BY LOWER\(name\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "color", "created_at"}).
			AddRow(2, "AI", "machine learning roles", "#10B981", now).
			AddRow(1, "backend", nil, DefaultColor, now))

	tags, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "AI", tags[0].Name)
	assert.Equal(t, "machine learning roles", *tags[0].Description)
	assert.Nil(t, tags[1].Description)
}

func TestFindByNameIsCaseInsensitive(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`WHERE LOWER\(name\) = LOWER\(\$1\)`).WithArgs("Backend").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), " Backend ")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateWithoutUpdatedAt(t *testing.T) {
	repo, mock := newRepo(t)
	color := "#EF4444"
	mock.ExpectExec(`UPDATE tags SET color = \$1 WHERE id = \$2`).WithArgs(color, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM tags WHERE id = \$1`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "color", "created_at"}).AddRow(3, "go", nil, color, time.Now()))

	tg, err := repo.Update(context.Background(), 3, Patch{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, color, tg.Color)
	assert.NoError(t, mock.ExpectationsWereMet())
}
