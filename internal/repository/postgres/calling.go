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

type CallingRepo struct {
	DB DBTX
}

const createCalling = `-- name: CreateCalling
INSERT INTO callings (id, member_id, organization, title, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, member_id, organization, title, status, created_at, released_at
`

func (r *CallingRepo) Create(ctx context.Context, c models.Calling) (models.Calling, error) {
	rows, _ := r.DB.Query(ctx, createCalling, uuid.New(), c.MemberID, c.Organization, c.Title, c.Status)
	calling, err := pgx.CollectOneRow(rows, rowToCalling)
	if err != nil {
		return calling, fmt.Errorf("db error: %w", err)
	}

	return calling, nil
}

const getCalling = `-- name: GetCalling
SELECT id, member_id, organization, title, status, created_at, released_at
FROM callings
WHERE id = $1
`

func (r *CallingRepo) Get(ctx context.Context, id uuid.UUID) (models.Calling, error) {
	rows, _ := r.DB.Query(ctx, getCalling, id)
	calling, err := pgx.CollectOneRow(rows, rowToCalling)

	switch {
	case err == nil:
		return calling, nil
	case errors.Is(err, pgx.ErrNoRows):
		return calling, apperrors.ErrCallingNotFound
	default:
		return calling, fmt.Errorf("db error: %w", err)
	}
}

const listCallings = `-- name: ListCallings
SELECT id, member_id, organization, title, status, created_at, released_at
FROM callings
WHERE $1::uuid IS NULL OR member_id = $1
ORDER BY created_at DESC
`

func (r *CallingRepo) List(ctx context.Context, memberID *uuid.UUID) ([]models.Calling, error) {
	rows, _ := r.DB.Query(ctx, listCallings, memberID)
	callings, err := pgx.CollectRows(rows, rowToCalling)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return callings, nil
}

const setCallingStatus = `-- name: SetCallingStatus
UPDATE callings
SET status = $2, released_at = $3
WHERE id = $1
RETURNING id, member_id, organization, title, status, created_at, released_at
`

func (r *CallingRepo) SetStatus(ctx context.Context, id uuid.UUID, status string, releasedAt *time.Time) (models.Calling, error) {
	rows, _ := r.DB.Query(ctx, setCallingStatus, id, status, releasedAt)
	calling, err := pgx.CollectOneRow(rows, rowToCalling)

	switch {
	case err == nil:
		return calling, nil
	case errors.Is(err, pgx.ErrNoRows):
		return calling, apperrors.ErrCallingNotFound
	default:
		return calling, fmt.Errorf("db error: %w", err)
	}
}

func rowToCalling(row pgx.CollectableRow) (models.Calling, error) {
	var c models.Calling
	err := row.Scan(&c.ID, &c.MemberID, &c.Organization, &c.Title, &c.Status, &c.CreatedAt, &c.ReleasedAt)
	return c, err
}
