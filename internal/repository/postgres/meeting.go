package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/models"
)

type MeetingRepo struct {
	DB DBTX
}

const createMeeting = `-- name: CreateMeeting
INSERT INTO meetings (id, type, held_at, presiding_id, conducting_id, agenda)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, type, held_at, presiding_id, conducting_id, agenda
`

func (r *MeetingRepo) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	rows, _ := r.DB.Query(ctx, createMeeting, uuid.New(), m.Type, m.HeldAt, m.PresidingID, m.ConductingID, m.Agenda)
	meeting, err := pgx.CollectOneRow(rows, rowToMeeting)
	if err != nil {
		return meeting, fmt.Errorf("db error: %w", err)
	}

	return meeting, nil
}

const getMeeting = `-- name: GetMeeting
SELECT id, created_at, type, held_at, presiding_id, conducting_id, agenda
FROM meetings
WHERE id = $1
`

func (r *MeetingRepo) Get(ctx context.Context, id uuid.UUID) (models.Meeting, error) {
	rows, _ := r.DB.Query(ctx, getMeeting, id)
	meeting, err := pgx.CollectOneRow(rows, rowToMeeting)

	switch {
	case err == nil:
		return meeting, nil
	case errors.Is(err, pgx.ErrNoRows):
		return meeting, apperrors.ErrMeetingNotFound
	default:
		return meeting, fmt.Errorf("db error: %w", err)
	}
}

const listMeetings = `-- name: ListMeetings
SELECT id, created_at, type, held_at, presiding_id, conducting_id, agenda
FROM meetings
ORDER BY held_at DESC
`

func (r *MeetingRepo) List(ctx context.Context) ([]models.Meeting, error) {
	rows, _ := r.DB.Query(ctx, listMeetings)
	meetings, err := pgx.CollectRows(rows, rowToMeeting)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return meetings, nil
}

const updateMeeting = `-- name: UpdateMeeting
UPDATE meetings
SET type = $2, held_at = $3, presiding_id = $4, conducting_id = $5, agenda = $6
WHERE id = $1
RETURNING id, created_at, type, held_at, presiding_id, conducting_id, agenda
`

func (r *MeetingRepo) Update(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	rows, _ := r.DB.Query(ctx, updateMeeting, m.ID, m.Type, m.HeldAt, m.PresidingID, m.ConductingID, m.Agenda)
	meeting, err := pgx.CollectOneRow(rows, rowToMeeting)

	switch {
	case err == nil:
		return meeting, nil
	case errors.Is(err, pgx.ErrNoRows):
		return meeting, apperrors.ErrMeetingNotFound
	default:
		return meeting, fmt.Errorf("db error: %w", err)
	}
}

const deleteMeeting = `-- name: DeleteMeeting
DELETE FROM meetings
WHERE id = $1
`

func (r *MeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteMeeting, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMeetingNotFound
	}

	return nil
}

func rowToMeeting(row pgx.CollectableRow) (models.Meeting, error) {
	var m models.Meeting
	err := row.Scan(&m.ID, &m.CreatedAt, &m.Type, &m.HeldAt, &m.PresidingID, &m.ConductingID, &m.Agenda)
	return m, err
}
