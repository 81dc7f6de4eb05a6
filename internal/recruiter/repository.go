package recruiter

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/database"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const selectRecruiter = `SELECT r.id, r.name, r.primary_contact_name, r.email, r.phone, r.phone_secondary, r.company, r.linkedin_url,
	r.specialties, r.position_title, r.department, r.account_name, r.account_type, r.office_location, r.timezone,
	r.preferred_contact_method, r.is_manager, r.team_size, r.decision_authority, r.relationship_status, r.is_starred,
	r.notes, r.current_resume_version_id, rv.version_name, r.last_contact_date, r.created_at, r.updated_at
FROM recruiters r
LEFT JOIN resume_versions rv ON rv.id = r.current_resume_version_id`

func scanRecruiter(row scanner) (Recruiter, error) {
	var rec Recruiter
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.PrimaryContactName,
		&rec.Email,
		&rec.Phone,
		&rec.PhoneSecondary,
		&rec.Company,
		&rec.LinkedinURL,
		&rec.Specialties,
		&rec.PositionTitle,
		&rec.Department,
		&rec.AccountName,
		&rec.AccountType,
		&rec.OfficeLocation,
		&rec.Timezone,
		&rec.PreferredContactMethod,
		&rec.IsManager,
		&rec.TeamSize,
		&rec.DecisionAuthority,
		&rec.RelationshipStatus,
		&rec.IsStarred,
		&rec.Notes,
		&rec.CurrentResumeVersionID,
		&rec.CurrentResumeVersion,
		&rec.LastContactDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func (r *Repository) List(ctx context.Context) ([]Recruiter, error) {
	res := make([]Recruiter, 0)
	rows, err := r.db.QueryContext(ctx, selectRecruiter+` ORDER BY r.is_starred DESC, LOWER(r.name)`)
	if err != nil {
		return res, errors.Wrap(err, "unable to list recruiters")
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanRecruiter(rows)
		if err != nil {
			return res, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Recruiter, error) {
	rec, err := scanRecruiter(r.db.QueryRowContext(ctx, selectRecruiter+` WHERE r.id = $1`, id))
	return rec, errors.Wrapf(err, "unable to get recruiter %d", id)
}

// Create inserts a recruiter, the relationship status defaults to new
func (r *Repository) Create(ctx context.Context, rec Recruiter) (Recruiter, error) {
	if rec.RelationshipStatus == "" {
		rec.RelationshipStatus = StatusNew
	}
	stmt := `INSERT INTO recruiters (name, primary_contact_name, email, phone, phone_secondary, company, linkedin_url, specialties,
	position_title, department, account_name, account_type, office_location, timezone, preferred_contact_method,
	is_manager, team_size, decision_authority, relationship_status, is_starred, notes, current_resume_version_id, last_contact_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	RETURNING id`
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		rec.Name,
		rec.PrimaryContactName,
		rec.Email,
		rec.Phone,
		rec.PhoneSecondary,
		rec.Company,
		rec.LinkedinURL,
		rec.Specialties,
		rec.PositionTitle,
		rec.Department,
		rec.AccountName,
		rec.AccountType,
		rec.OfficeLocation,
		rec.Timezone,
		rec.PreferredContactMethod,
		rec.IsManager,
		rec.TeamSize,
		rec.DecisionAuthority,
		rec.RelationshipStatus,
		rec.IsStarred,
		rec.Notes,
		rec.CurrentResumeVersionID,
		rec.LastContactDate,
	).Scan(&id)
	if err != nil {
		return rec, errors.Wrapf(err, "unable to create recruiter %q", rec.Name)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Recruiter, error) {
	stmt, args, err := database.BuildUpdate("recruiters", id, p, "updated_at = NOW()")
	if err != nil {
		return Recruiter{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Recruiter{}, errors.Wrapf(err, "unable to update recruiter %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Recruiter{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recruiters WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete recruiter %d", id)
	}
	return database.RequireAffected(res)
}

// AssignResume makes resumeID the recruiter's current resume and records the share
func (r *Repository) AssignResume(ctx context.Context, recruiterID, resumeID int64, notes *string) (ResumeShare, error) {
	share := ResumeShare{RecruiterID: recruiterID, ResumeVersionID: resumeID, Notes: notes}
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE recruiters SET current_resume_version_id = $1, last_contact_date = CURRENT_DATE, updated_at = NOW() WHERE id = $2`,
			resumeID,
			recruiterID,
		)
		if err != nil {
			return errors.Wrapf(err, "unable to set resume for recruiter %d", recruiterID)
		}
		if err := database.RequireAffected(res); err != nil {
			return err
		}
		return tx.QueryRowContext(
			ctx,
			`INSERT INTO recruiter_resume_history (recruiter_id, resume_version_id, shared_date, notes)
			VALUES ($1, $2, CURRENT_DATE, $3)
			RETURNING id, shared_date, created_at, (SELECT version_name FROM resume_versions WHERE id = $2)`,
			recruiterID,
			resumeID,
			notes,
		).Scan(&share.ID, &share.SharedDate, &share.CreatedAt, &share.VersionName)
	})
	return share, err
}

func (r *Repository) exists(ctx context.Context, id int64) error {
	var found bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM recruiters WHERE id = $1)`, id).Scan(&found); err != nil {
		return errors.Wrapf(err, "unable to look up recruiter %d", id)
	}
	if !found {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) ResumeHistory(ctx context.Context, recruiterID int64) ([]ResumeShare, error) {
	res := make([]ResumeShare, 0)
	if err := r.exists(ctx, recruiterID); err != nil {
		return res, err
	}
	stmt := `SELECT h.id, h.recruiter_id, h.resume_version_id, rv.version_name, h.shared_date, h.notes, h.created_at
	FROM recruiter_resume_history h
	JOIN resume_versions rv ON rv.id = h.resume_version_id
	WHERE h.recruiter_id = $1
	ORDER BY h.shared_date DESC, h.created_at DESC`
	rows, err := r.db.QueryContext(ctx, stmt, recruiterID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to get resume history for recruiter %d", recruiterID)
	}
	defer rows.Close()
	for rows.Next() {
		var s ResumeShare
		if err := rows.Scan(&s.ID, &s.RecruiterID, &s.ResumeVersionID, &s.VersionName, &s.SharedDate, &s.Notes, &s.CreatedAt); err != nil {
			return res, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *Repository) Communications(ctx context.Context, recruiterID int64) ([]Communication, error) {
	res := make([]Communication, 0)
	if err := r.exists(ctx, recruiterID); err != nil {
		return res, err
	}
	stmt := `SELECT id, recruiter_id, application_id, communication_type, direction, subject, content, communication_date,
	outcome, follow_up_required, follow_up_date, notes, created_at
	FROM recruiter_communications
	WHERE recruiter_id = $1
	ORDER BY communication_date DESC`
	rows, err := r.db.QueryContext(ctx, stmt, recruiterID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to get communications for recruiter %d", recruiterID)
	}
	defer rows.Close()
	for rows.Next() {
		var c Communication
		err := rows.Scan(
			&c.ID,
			&c.RecruiterID,
			&c.ApplicationID,
			&c.CommunicationType,
			&c.Direction,
			&c.Subject,
			&c.Content,
			&c.CommunicationDate,
			&c.Outcome,
			&c.FollowUpRequired,
			&c.FollowUpDate,
			&c.Notes,
			&c.CreatedAt,
		)
		if err != nil {
			return res, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// AddCommunication logs a communication and bumps the recruiter's last contact date
func (r *Repository) AddCommunication(ctx context.Context, c Communication) (Communication, error) {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt := `INSERT INTO recruiter_communications (recruiter_id, application_id, communication_type, direction, subject, content,
		communication_date, outcome, follow_up_required, follow_up_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()), $8, $9, $10, $11)
		RETURNING id, communication_date, created_at`
		var when interface{}
		if !c.CommunicationDate.IsZero() {
			when = c.CommunicationDate
		}
		err := tx.QueryRowContext(
			ctx,
			stmt,
			c.RecruiterID,
			c.ApplicationID,
			c.CommunicationType,
			c.Direction,
			c.Subject,
			c.Content,
			when,
			c.Outcome,
			c.FollowUpRequired,
			c.FollowUpDate,
			c.Notes,
		).Scan(&c.ID, &c.CommunicationDate, &c.CreatedAt)
		if err != nil {
			return errors.Wrapf(err, "unable to add communication for recruiter %d", c.RecruiterID)
		}
		_, err = tx.ExecContext(
			ctx,
			`UPDATE recruiters SET last_contact_date = GREATEST(last_contact_date, $1::date), updated_at = NOW() WHERE id = $2`,
			calendar.New(c.CommunicationDate),
			c.RecruiterID,
		)
		return errors.Wrapf(err, "unable to bump last contact for recruiter %d", c.RecruiterID)
	})
	return c, err
}

const selectEvent = `SELECT id, recruiter_id, title, event_type, event_date, description, follow_up_required, follow_up_date, created_at, updated_at FROM recruiter_events`

func scanEvent(row scanner) (Event, error) {
	var e Event
	err := row.Scan(
		&e.ID,
		&e.RecruiterID,
		&e.Title,
		&e.EventType,
		&e.EventDate,
		&e.Description,
		&e.FollowUpRequired,
		&e.FollowUpDate,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func (r *Repository) Events(ctx context.Context, recruiterID int64) ([]Event, error) {
	res := make([]Event, 0)
	if err := r.exists(ctx, recruiterID); err != nil {
		return res, err
	}
	rows, err := r.db.QueryContext(ctx, selectEvent+` WHERE recruiter_id = $1 ORDER BY event_date DESC, created_at DESC`, recruiterID)
	if err != nil {
		return res, errors.Wrapf(err, "unable to list events for recruiter %d", recruiterID)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return res, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r *Repository) AddEvent(ctx context.Context, e Event) (Event, error) {
	if e.EventType == "" {
		e.EventType = EventTypeNote
	}
	if e.EventDate.IsZero() {
		e.EventDate = calendar.Today()
	}
	stmt := `INSERT INTO recruiter_events (recruiter_id, title, event_type, event_date, description, follow_up_required, follow_up_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		e.RecruiterID,
		e.Title,
		e.EventType,
		e.EventDate,
		e.Description,
		e.FollowUpRequired,
		e.FollowUpDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return e, errors.Wrapf(err, "unable to add event to recruiter %d", e.RecruiterID)
}

func (r *Repository) UpdateEvent(ctx context.Context, id int64, p EventPatch) (Event, error) {
	stmt, args, err := database.BuildUpdate("recruiter_events", id, p, "updated_at = NOW()")
	if err != nil {
		return Event{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Event{}, errors.Wrapf(err, "unable to update recruiter event %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Event{}, err
	}
	e, err := scanEvent(r.db.QueryRowContext(ctx, selectEvent+` WHERE id = $1`, id))
	return e, errors.Wrapf(err, "unable to get recruiter event %d", id)
}

func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recruiter_events WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete recruiter event %d", id)
	}
	return database.RequireAffected(res)
}

// Dashboard lists every recruiter with activity counts, most recently contacted first
func (r *Repository) Dashboard(ctx context.Context) ([]DashboardRow, error) {
	res := make([]DashboardRow, 0)
	stmt := `SELECT id, name, company, relationship_status, is_starred, current_resume_version,
	total_communications, last_communication, applications_count, resumes_shared
	FROM recruiter_dashboard
	ORDER BY last_communication DESC NULLS LAST, LOWER(name)`
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return res, errors.Wrap(err, "unable to load recruiter dashboard")
	}
	defer rows.Close()
	for rows.Next() {
		var d DashboardRow
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Company,
			&d.RelationshipStatus,
			&d.IsStarred,
			&d.CurrentResumeVersion,
			&d.TotalCommunications,
			&d.LastCommunication,
			&d.ApplicationsCount,
			&d.ResumesShared,
		)
		if err != nil {
			return res, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}
