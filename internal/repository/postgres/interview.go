package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/models"
)

type InterviewRepo struct {
	DB DBTX
}

const createInterview = `-- name: CreateInterview
INSERT INTO interviews (id, member_id, leader_id, scheduled_at, purpose, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, member_id, leader_id, scheduled_at, purpose, status
`

func (r *InterviewRepo) Create(ctx context.Context, i models.Interview) (models.Interview, error) {
	rows, _ := r.DB.Query(ctx, createInterview, uuid.New(), i.MemberID, i.LeaderID, i.ScheduledAt, i.Purpose, i.Status)
	interview, err := pgx.CollectOneRow(rows, rowToInterview)
	if err != nil {
		return interview, fmt.Errorf("db error: %w", err)
	}

	return interview, nil
}

const getInterview = `-- name: GetInterview
SELECT id, created_at, member_id, leader_id, scheduled_at, purpose, status
FROM interviews
WHERE id = $1
`

func (r *InterviewRepo) Get(ctx context.Context, id uuid.UUID) (models.Interview, error) {
	rows, _ := r.DB.Query(ctx, getInterview, id)
	interview, err := pgx.CollectOneRow(rows, rowToInterview)

	switch {
	case err == nil:
		return interview, nil
	case errors.Is(err, pgx.ErrNoRows):
		return interview, apperrors.ErrInterviewNotFound
	default:
		return interview, fmt.Errorf("db error: %w", err)
	}
}

const listUpcomingInterviews = `-- name: ListUpcomingInterviews
SELECT id, created_at, member_id, leader_id, scheduled_at, purpose, status
FROM interviews
WHERE scheduled_at > $2 AND status = 'scheduled' AND ($1::uuid IS NULL OR leader_id = $1)
ORDER BY scheduled_at
`

func (r *InterviewRepo) ListUpcoming(ctx context.Context, leaderID *uuid.UUID, after time.Time) ([]models.Interview, error) {
	rows, _ := r.DB.Query(ctx, listUpcomingInterviews, leaderID, after)
	interviews, err := pgx.CollectRows(rows, rowToInterview)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return interviews, nil
}

const setInterviewStatus = `-- name: SetInterviewStatus
UPDATE interviews
SET status = $2
WHERE id = $1
RETURNING id, created_at, member_id, leader_id, scheduled_at, purpose, status
`

func (r *InterviewRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) (models.Interview, error) {
	rows, _ := r.DB.Query(ctx, setInterviewStatus, id, status)
	interview, err := pgx.CollectOneRow(rows, rowToInterview)

	switch {
	case err == nil:
		return interview, nil
	case errors.Is(err, pgx.ErrNoRows):
		return interview, apperrors.ErrInterviewNotFound
	default:
		return interview, fmt.Errorf("db error: %w", err)
	}
}

func rowToInterview(row pgx.CollectableRow) (models.Interview, error) {
	var i models.Interview
	err := row.Scan(&i.ID, &i.CreatedAt, &i.MemberID, &i.LeaderID, &i.ScheduledAt, &i.Purpose, &i.Status)
	return i, err
}
