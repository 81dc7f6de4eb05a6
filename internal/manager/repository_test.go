package manager

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managerColumns = []string{
	"id", "name", "email", "phone", "phone_secondary", "linkedin_url", "position_title", "department",
	"company_id", "company_name", "office_location", "timezone", "preferred_contact_method", "decision_authority",
	"is_hiring_manager", "team_size", "notes", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestListFiltersByCompany(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`WHERE m.company_id = \$1 ORDER BY LOWER\(m.name\)`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(managerColumns).
			AddRow(1, "Alex", nil, nil, nil, nil, "VP Eng", nil, 3, "Acme", nil, nil, "email", "final say", true, 40, nil, now, now))

	managers, err := repo.List(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "Acme", *managers[0].CompanyName)
	assert.Equal(t, 40, *managers[0].TeamSize)
	assert.True(t, managers[0].IsHiringManager)

	mock.ExpectQuery(`LEFT JOIN companies c ON c.id = m.company_id ORDER BY LOWER\(m.name\)`).
		WillReturnRows(sqlmock.NewRows(managerColumns))
	managers, err = repo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, managers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDefaultsContactMethod(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO managers`).
		WithArgs("Alex", nil, nil, nil, nil, nil, nil, nil, nil, nil, ContactByEmail, nil, false, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectQuery(`WHERE m.id = \$1`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(managerColumns).
			AddRow(8, "Alex", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, "email", nil, false, nil, nil, now, now))

	m, err := repo.Create(context.Background(), Manager{Name: "Alex"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), m.ID)
	assert.Nil(t, m.CompanyID)
	assert.Equal(t, ContactByEmail, m.PreferredContactMethod)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMovesCompany(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	company := int64(5)
	mock.ExpectExec(`UPDATE managers SET company_id = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(5, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE m.id = \$1`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(managerColumns).
			AddRow(8, "Alex", nil, nil, nil, nil, nil, nil, 5, "Globex", nil, nil, "email", nil, false, nil, nil, now, now))

	m, err := repo.Update(context.Background(), 8, Patch{CompanyID: &company})
	require.NoError(t, err)
	assert.Equal(t, "Globex", *m.CompanyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissing(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`DELETE FROM managers WHERE id = \$1`).WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 8), sql.ErrNoRows)
}
