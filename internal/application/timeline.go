package application

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/calendar"
	"github.com/resume-runner/resume-runner/internal/database"
)

const selectEvent = `SELECT id, application_id, event_type, event_date, event_time, title, description, outcome, next_steps,
	attendees, location, meeting_link, documents_shared, duration_minutes, follow_up_required, follow_up_date,
	created_at, updated_at
FROM application_events`

func scanEvent(row scanner) (Event, error) {
	var e Event
	err := row.Scan(
		&e.ID,
		&e.ApplicationID,
		&e.EventType,
		&e.EventDate,
		&e.EventTime,
		&e.Title,
		&e.Description,
		&e.Outcome,
		&e.NextSteps,
		pq.Array(&e.Attendees),
		&e.Location,
		&e.MeetingLink,
		pq.Array(&e.DocumentsShared),
		&e.DurationMinutes,
		&e.FollowUpRequired,
		&e.FollowUpDate,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if e.DocumentsShared == nil {
		e.DocumentsShared = []string{}
	}
	return e, err
}

// Timeline lists the events of an application in the order they happened
func (r *Repository) Timeline(ctx context.Context, applicationID int64) ([]Event, error) {
	res := make([]Event, 0)
	if err := r.exists(ctx, applicationID); err != nil {
		return res, err
	}
	rows, err := r.db.QueryContext(
		ctx,
		selectEvent+` WHERE application_id = $1 ORDER BY event_date, event_time NULLS FIRST, created_at`,
		applicationID,
	)
	if err != nil {
		return res, errors.Wrapf(err, "unable to get timeline of application %d", applicationID)
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

func (r *Repository) GetEvent(ctx context.Context, id int64) (Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, selectEvent+` WHERE id = $1`, id))
	return e, errors.Wrapf(err, "unable to get application event %d", id)
}

// AddEvent appends to the timeline, event_date defaults to today
func (r *Repository) AddEvent(ctx context.Context, e Event) (Event, error) {
	if e.EventDate.IsZero() {
		e.EventDate = calendar.Today()
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if e.DocumentsShared == nil {
		e.DocumentsShared = []string{}
	}
	stmt := `INSERT INTO application_events (application_id, event_type, event_date, event_time, title, description, outcome,
	next_steps, attendees, location, meeting_link, documents_shared, duration_minutes, follow_up_required, follow_up_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		stmt,
		e.ApplicationID,
		e.EventType,
		e.EventDate,
		e.EventTime,
		e.Title,
		e.Description,
		e.Outcome,
		e.NextSteps,
		pq.Array(e.Attendees),
		e.Location,
		e.MeetingLink,
		pq.Array(e.DocumentsShared),
		e.DurationMinutes,
		e.FollowUpRequired,
		e.FollowUpDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return e, errors.Wrapf(err, "unable to add event to application %d", e.ApplicationID)
}

func (r *Repository) UpdateEvent(ctx context.Context, id int64, p EventPatch) (Event, error) {
	stmt, args, err := database.BuildUpdate("application_events", id, p, "updated_at = NOW()")
	if err != nil {
		return Event{}, err
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Event{}, errors.Wrapf(err, "unable to update application event %d", id)
	}
	if err := database.RequireAffected(res); err != nil {
		return Event{}, err
	}
	return r.GetEvent(ctx, id)
}

func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM application_events WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete application event %d", id)
	}
	return database.RequireAffected(res)
}

// FollowUps collects follow-ups due between today and today+days across the
// application, company and recruiter event logs, soonest first.
func (r *Repository) FollowUps(ctx context.Context, days int) ([]FollowUp, error) {
	res := make([]FollowUp, 0)
	if days < 0 {
		days = 0
	}
	stmt := `SELECT 'application', ae.id, ae.application_id, ae.title, ae.event_type, ae.follow_up_date, a.position_title, c.name, NULL
	FROM application_events ae
	JOIN applications a ON a.id = ae.application_id
	JOIN companies c ON c.id = a.company_id
	WHERE ae.follow_up_required AND ae.follow_up_date BETWEEN CURRENT_DATE AND CURRENT_DATE + $1::int
	UNION ALL
	SELECT 'company', ce.id, ce.company_id, ce.title, ce.event_type, ce.follow_up_date, NULL, c.name, NULL
	FROM company_events ce
	JOIN companies c ON c.id = ce.company_id
	WHERE ce.follow_up_required AND ce.follow_up_date BETWEEN CURRENT_DATE AND CURRENT_DATE + $1::int
	UNION ALL
	SELECT 'recruiter', re.id, re.recruiter_id, re.title, re.event_type, re.follow_up_date, NULL, rc.company, rc.name
	FROM recruiter_events re
	JOIN recruiters rc ON rc.id = re.recruiter_id
	WHERE re.follow_up_required AND re.follow_up_date BETWEEN CURRENT_DATE AND CURRENT_DATE + $1::int
	ORDER BY 6, 1, 2`
	rows, err := r.db.QueryContext(ctx, stmt, days)
	if err != nil {
		return res, errors.Wrap(err, "unable to list follow ups")
	}
	defer rows.Close()
	for rows.Next() {
		var f FollowUp
		err := rows.Scan(&f.Source, &f.EventID, &f.ParentID, &f.Title, &f.EventType, &f.FollowUpDate, &f.PositionTitle, &f.CompanyName, &f.RecruiterName)
		if err != nil {
			return res, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}
