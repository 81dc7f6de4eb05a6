package application

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resume-runner/resume-runner/internal/calendar"
)

var eventColumns = []string{
	"id", "application_id", "event_type", "event_date", "event_time", "title", "description", "outcome", "next_steps",
	"attendees", "location", "meeting_link", "documents_shared", "duration_minutes", "follow_up_required", "follow_up_date",
	"created_at", "updated_at",
}

func TestTimelineOrder(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	day := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`WHERE application_id = \$1 ORDER BY event_date, event_time NULLS FIRST, created_at`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow(1, 1, EventTypeSubmitted, day, nil, "Application Submitted", nil, "pending", nil, "{}", nil, nil, nil, nil, false, nil, now, now).
			AddRow(2, 1, "phone_screen", day.AddDate(0, 0, 7), "10:30", "Intro call", nil, nil, nil, `{"Jane Doe",Sam}`, nil, "https://meet.test/x", nil, 30, true, day.AddDate(0, 0, 10), now, now))

	events, err := repo.Timeline(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []string{}, events[0].Attendees)
	assert.Equal(t, []string{}, events[0].DocumentsShared)
	assert.Equal(t, []string{"Jane Doe", "Sam"}, events[1].Attendees)
	assert.Equal(t, "2024-04-12", events[1].FollowUpDate.String())
	assert.Equal(t, 30, *events[1].DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineMissingApplication(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	_, err := repo.Timeline(context.Background(), 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAddEventDefaults(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO application_events`).
		WithArgs(1, "interview", calendar.Today().String(), nil, "Onsite", nil, nil, nil, pq.Array([]string{}), nil, nil, pq.Array([]string{"slides.pdf"}), nil, false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(12, now, now))

	e, err := repo.AddEvent(context.Background(), Event{
		ApplicationID:   1,
		EventType:       "interview",
		Title:           "Onsite",
		DocumentsShared: []string{"slides.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), e.ID)
	assert.Equal(t, []string{}, e.Attendees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEventArrays(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	attendees := []string{"Jane"}
	outcome := "passed"
	mock.ExpectExec(`UPDATE application_events SET outcome = \$1, attendees = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(outcome, pq.Array(attendees), 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM application_events WHERE id = \$1`).WithArgs(12).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow(12, 1, "interview", now, nil, "Onsite", nil, outcome, nil, "{Jane}", nil, nil, "{}", nil, false, nil, now, now))

	e, err := repo.UpdateEvent(context.Background(), 12, EventPatch{Outcome: &outcome, Attendees: &attendees})
	require.NoError(t, err)
	assert.Equal(t, "passed", *e.Outcome)
	assert.Equal(t, attendees, e.Attendees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEventMissing(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`DELETE FROM application_events WHERE id = \$1`).WithArgs(12).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteEvent(context.Background(), 12), sql.ErrNoRows)
}

func TestFollowUpsAcrossLogs(t *testing.T) {
	repo, mock := newRepo(t)
	due := time.Now()
	mock.ExpectQuery(`(?s)FROM application_events ae.*UNION ALL.*FROM company_events ce.*UNION ALL.*FROM recruiter_events re`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"source", "id", "parent_id", "title", "event_type", "follow_up_date", "position_title", "company_name", "recruiter_name"}).
			AddRow("application", 2, 1, "Intro call", "phone_screen", due, "Go Developer", "Acme", nil).
			AddRow("recruiter", 4, 9, "Check in", "note", due, nil, "Agency", "Jane"))

	res, err := repo.FollowUps(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "application", res[0].Source)
	assert.Equal(t, "Go Developer", *res[0].PositionTitle)
	assert.Equal(t, "Jane", *res[1].RecruiterName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowUpsNegativeDays(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM application_events ae`).WithArgs(0).WillReturnRows(sqlmock.NewRows([]string{"source"}))
	res, err := repo.FollowUps(context.Background(), -3)
	require.NoError(t, err)
	assert.Empty(t, res)
}
