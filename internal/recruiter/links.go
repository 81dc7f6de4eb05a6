package recruiter

import (
	"context"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/database"
)

func (r *Repository) Managers(ctx context.Context, recruiterID int64) ([]ManagerLink, error) {
	res := make([]ManagerLink, 0)
	if err := r.exists(ctx, recruiterID); err != nil {
		return res, err
	}
	stmt := `SELECT rm.recruiter_id, rm.manager_id, rm.relationship_type, rm.relationship_notes, rm.introduction_date,
	rm.is_primary_contact, rm.created_at, m.name, m.email, m.phone, m.position_title, m.department, m.decision_authority,
	m.is_hiring_manager, m.team_size, m.notes, c.name
	FROM recruiter_managers rm
	JOIN managers m ON m.id = rm.manager_id
	LEFT JOIN companies c ON c.id = m.company_id
	WHERE rm.recruiter_id = $1
	ORDER BY rm.is_primary_contact DESC, LOWER(m.name)`
	rows, err := r.db.QueryContext(ctx, stmt, recruiterID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to list managers for recruiter %d", recruiterID)
	}
	defer rows.Close()
	for rows.Next() {
		var l ManagerLink
		err := rows.Scan(
			&l.RecruiterID,
			&l.ManagerID,
			&l.RelationshipType,
			&l.RelationshipNotes,
			&l.IntroductionDate,
			&l.IsPrimaryContact,
			&l.CreatedAt,
			&l.ManagerName,
			&l.ManagerEmail,
			&l.ManagerPhone,
			&l.ManagerPosition,
			&l.ManagerDepartment,
			&l.DecisionAuthority,
			&l.IsHiringManager,
			&l.TeamSize,
			&l.ManagerNotes,
			&l.CompanyName,
		)
		if err != nil {
			return res, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

// RecruitersOf lists the recruiters linked to a manager, primary contacts first
func (r *Repository) RecruitersOf(ctx context.Context, managerID int64) ([]ManagedBy, error) {
	res := make([]ManagedBy, 0)
	stmt := `SELECT rm.recruiter_id, rm.manager_id, rm.relationship_type, rm.is_primary_contact, r.name, r.email, r.phone, r.company
	FROM recruiter_managers rm
	JOIN recruiters r ON r.id = rm.recruiter_id
	WHERE rm.manager_id = $1
	ORDER BY rm.is_primary_contact DESC, LOWER(r.name)`
	rows, err := r.db.QueryContext(ctx, stmt, managerID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to list recruiters for manager %d", managerID)
	}
	defer rows.Close()
	for rows.Next() {
		var m ManagedBy
		if err := rows.Scan(&m.RecruiterID, &m.ManagerID, &m.RelationshipType, &m.IsPrimaryContact, &m.RecruiterName, &m.RecruiterEmail, &m.RecruiterPhone, &m.RecruiterCompany); err != nil {
			return res, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// LinkManager relates a recruiter to a manager, the type defaults to reports_to
func (r *Repository) LinkManager(ctx context.Context, l ManagerLink) (ManagerLink, error) {
	if l.RelationshipType == "" {
		l.RelationshipType = RelationshipReportsTo
	}
	stmt := `INSERT INTO recruiter_managers (recruiter_id, manager_id, relationship_type, relationship_notes, introduction_date, is_primary_contact)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at`
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		l.RecruiterID,
		l.ManagerID,
		l.RelationshipType,
		l.RelationshipNotes,
		l.IntroductionDate,
		l.IsPrimaryContact,
	).Scan(&l.CreatedAt)
	return l, errors.Wrapf(err, "unable to link recruiter %d to manager %d", l.RecruiterID, l.ManagerID)
}

func (r *Repository) UpdateManagerLink(ctx context.Context, recruiterID, managerID int64, p ManagerLinkPatch) error {
	stmt, args, err := database.BuildKeyedUpdate(
		"recruiter_managers",
		p,
		[]string{"recruiter_id", "manager_id"},
		[]interface{}{recruiterID, managerID},
	)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrapf(err, "unable to update link between recruiter %d and manager %d", recruiterID, managerID)
	}
	return database.RequireAffected(res)
}

func (r *Repository) UnlinkManager(ctx context.Context, recruiterID, managerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recruiter_managers WHERE recruiter_id = $1 AND manager_id = $2`, recruiterID, managerID)
	if err != nil {
		return errors.Wrapf(err, "unable to unlink recruiter %d from manager %d", recruiterID, managerID)
	}
	return database.RequireAffected(res)
}

// Associate links a recruiter to a company. Re-associating a previously
// removed recruiter reactivates the row.
func (r *Repository) Associate(ctx context.Context, a Association) (Association, error) {
	if a.AssociationType == "" {
		a.AssociationType = AssociationTypeExternal
	}
	if a.StartDate.IsZero() {
		a.StartDate = calendar.Today()
	}
	stmt := `INSERT INTO company_recruiters (company_id, recruiter_id, association_type, start_date, specialization, notes, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, TRUE)
	ON CONFLICT (company_id, recruiter_id)
	DO UPDATE SET association_type = $3, start_date = $4, specialization = $5, notes = $6, is_active = TRUE, end_date = NULL
	RETURNING is_active, created_at`
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		a.CompanyID,
		a.RecruiterID,
		a.AssociationType,
		a.StartDate,
		a.Specialization,
		a.Notes,
	).Scan(&a.IsActive, &a.CreatedAt)
	return a, errors.Wrapf(err, "unable to associate recruiter %d with company %d", a.RecruiterID, a.CompanyID)
}

func (r *Repository) UpdateAssociation(ctx context.Context, companyID, recruiterID int64, p AssociationPatch) error {
	stmt, args, err := database.BuildKeyedUpdate(
		"company_recruiters",
		p,
		[]string{"company_id", "recruiter_id"},
		[]interface{}{companyID, recruiterID},
	)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrapf(err, "unable to update association of recruiter %d with company %d", recruiterID, companyID)
	}
	return database.RequireAffected(res)
}

// RemoveAssociation deactivates the link and closes it today, the row is kept
func (r *Repository) RemoveAssociation(ctx context.Context, companyID, recruiterID int64) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE company_recruiters SET is_active = FALSE, end_date = CURRENT_DATE WHERE company_id = $1 AND recruiter_id = $2`,
		companyID,
		recruiterID,
	)
	if err != nil {
		return errors.Wrapf(err, "unable to remove association of recruiter %d with company %d", recruiterID, companyID)
	}
	return database.RequireAffected(res)
}

const associationColumns = `cr.company_id, cr.recruiter_id, cr.association_type, cr.start_date, cr.end_date, cr.specialization, cr.notes, cr.is_active, cr.created_at`

func activeClause(activeOnly bool) string {
	if activeOnly {
		return ` AND cr.is_active`
	}
	return ``
}

func (r *Repository) CompanyRecruiters(ctx context.Context, companyID int64, activeOnly bool) ([]Association, error) {
	res := make([]Association, 0)
	stmt := `SELECT ` + associationColumns + `, r.name, r.email, r.phone, r.linkedin_url, r.specialties, r.relationship_status
	FROM company_recruiters cr
	JOIN recruiters r ON r.id = cr.recruiter_id
	WHERE cr.company_id = $1` + activeClause(activeOnly) + `
	ORDER BY cr.start_date DESC NULLS LAST, LOWER(r.name)`
	rows, err := r.db.QueryContext(ctx, stmt, companyID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to list recruiters for company %d", companyID)
	}
	defer rows.Close()
	for rows.Next() {
		var a Association
		err := rows.Scan(
			&a.CompanyID, &a.RecruiterID, &a.AssociationType, &a.StartDate, &a.EndDate, &a.Specialization, &a.Notes, &a.IsActive, &a.CreatedAt,
			&a.RecruiterName, &a.RecruiterEmail, &a.RecruiterPhone, &a.RecruiterLinkedin, &a.RecruiterSpecialties, &a.RelationshipStatus,
		)
		if err != nil {
			return res, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *Repository) RecruiterCompanies(ctx context.Context, recruiterID int64, activeOnly bool) ([]Association, error) {
	res := make([]Association, 0)
	if err := r.exists(ctx, recruiterID); err != nil {
		return res, err
	}
	stmt := `SELECT ` + associationColumns + `, c.name, c.industry, c.website
	FROM company_recruiters cr
	JOIN companies c ON c.id = cr.company_id
	WHERE cr.recruiter_id = $1` + activeClause(activeOnly) + `
	ORDER BY cr.start_date DESC NULLS LAST, LOWER(c.name)`
	rows, err := r.db.QueryContext(ctx, stmt, recruiterID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to list companies for recruiter %d", recruiterID)
	}
	defer rows.Close()
	for rows.Next() {
		var a Association
		err := rows.Scan(
			&a.CompanyID, &a.RecruiterID, &a.AssociationType, &a.StartDate, &a.EndDate, &a.Specialization, &a.Notes, &a.IsActive, &a.CreatedAt,
			&a.CompanyName, &a.Industry, &a.Website,
		)
		if err != nil {
			return res, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}
