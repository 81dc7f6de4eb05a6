package manager

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/database"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const selectManager = `SELECT m.id, m.name, m.email, m.phone, m.phone_secondary, m.linkedin_url, m.position_title, m.department,
	m.company_id, c.name, m.office_location, m.timezone, m.preferred_contact_method, m.decision_authority,
	m.is_hiring_manager, m.team_size, m.notes, m.created_at, m.updated_at
FROM managers m
LEFT JOIN companies c ON c.id = m.company_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanManager(row scanner) (Manager, error) {
	var m Manager
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.PhoneSecondary,
		&m.LinkedinURL,
		&m.PositionTitle,
		&m.Department,
		&m.CompanyID,
		&m.CompanyName,
		&m.OfficeLocation,
		&m.Timezone,
		&m.PreferredContactMethod,
		&m.DecisionAuthority,
		&m.IsHiringManager,
		&m.TeamSize,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// List returns every manager, or only those at companyID when it is non-zero
func (r *Repository) List(ctx context.Context, companyID int64) ([]Manager, error) {
	res := make([]Manager, 0)
	var (
		rows *sql.Rows
		err  error
	)
	if companyID != 0 {
		rows, err = r.db.QueryContext(ctx, selectManager+` WHERE m.company_id = $1 ORDER BY LOWER(m.name)`, companyID)
	} else {
		rows, err = r.db.QueryContext(ctx, selectManager+` ORDER BY LOWER(m.name)`)
	}
	if err != nil {
		return res, errors.Wrap(err, "unable to list managers")
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return res, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Manager, error) {
	m, err := scanManager(r.db.QueryRowContext(ctx, selectManager+` WHERE m.id = $1`, id))
	return m, errors.Wrapf(err, "unable to get manager %d", id)
}

func (r *Repository) Create(ctx context.Context, m Manager) (Manager, error) {
	if m.PreferredContactMethod == "" {
		m.PreferredContactMethod = ContactByEmail
	}
	stmt := `INSERT INTO managers (name, email, phone, phone_secondary, linkedin_url, position_title, department, company_id,
	office_location, timezone, preferred_contact_method, decision_authority, is_hiring_manager, team_size, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING id`
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		m.Name,
		m.Email,
		m.Phone,
		m.PhoneSecondary,
		m.LinkedinURL,
		m.PositionTitle,
		m.Department,
		m.CompanyID,
		m.OfficeLocation,
		m.Timezone,
		m.PreferredContactMethod,
		m.DecisionAuthority,
		m.IsHiringManager,
		m.TeamSize,
		m.Notes,
	).Scan(&id)
	if err != nil {
		return m, errors.Wrapf(err, "unable to create manager %q", m.Name)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Manager, error) {
	stmt, args, err := database.BuildUpdate("managers", id, p, "updated_at = NOW()")
	if err != nil {
		return Manager{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Manager{}, errors.Wrapf(err, "unable to update manager %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Manager{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM managers WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete manager %d", id)
	}
	return database.RequireAffected(res)
}
