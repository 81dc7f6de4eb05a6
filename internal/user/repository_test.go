package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestSaveTokenSignOnLowercases(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`INSERT INTO user_sign_on_token`).
		WithArgs("tok", "me@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveTokenSignOn(context.Background(), "Me@Example.com", "tok"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateUserFromTokenCreates(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM user_sign_on_token t\s+LEFT JOIN users u`).WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"email", "id", "email", "created_at"}).AddRow("me@example.com", nil, nil, nil))
	mock.ExpectExec(`DELETE FROM user_sign_on_token WHERE token = \$1`).WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO users`).WithArgs(sqlmock.AnyArg(), "me@example.com", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, existed, err := repo.GetOrCreateUserFromToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "me@example.com", u.Email)
	assert.Len(t, u.ID, 27)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateUserFromTokenExisting(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Now().Add(-48 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM user_sign_on_token`).WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"email", "id", "email", "created_at"}).AddRow("me@example.com", "2abc", "me@example.com", created))
	mock.ExpectExec(`DELETE FROM user_sign_on_token`).WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, existed, err := repo.GetOrCreateUserFromToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "2abc", u.ID)
	assert.Equal(t, "2 days ago", u.CreatedAtHumanised)
}

func TestGetOrCreateUserFromUnknownToken(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM user_sign_on_token`).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"email", "id", "email", "created_at"}))
	mock.ExpectRollback()

	_, _, err := repo.GetOrCreateUserFromToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredUserSignOnTokens(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`DELETE FROM user_sign_on_token WHERE created_at < NOW\(\) - INTERVAL '7 DAYS'`).WillReturnResult(sqlmock.NewResult(0, 4))
	n, err := repo.DeleteExpiredUserSignOnTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
