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

type ActivityRepo struct {
	DB DBTX
}

const createActivity = `-- name: CreateActivity
INSERT INTO activities (id, name, location, held_at, organizer_id, category_id, estimated_cost)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, name, location, held_at, organizer_id, category_id, estimated_cost
`

func (r *ActivityRepo) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	rows, _ := r.DB.Query(ctx, createActivity, uuid.New(), a.Name, a.Location, a.HeldAt, a.OrganizerID, a.CategoryID, a.EstimatedCost)
	activity, err := pgx.CollectOneRow(rows, rowToActivity)
	if err != nil {
		return activity, fmt.Errorf("db error: %w", err)
	}

	return activity, nil
}

const getActivity = `-- name: GetActivity
SELECT id, created_at, name, location, held_at, organizer_id, category_id, estimated_cost
FROM activities
WHERE id = $1
`

func (r *ActivityRepo) Get(ctx context.Context, id uuid.UUID) (models.Activity, error) {
	rows, _ := r.DB.Query(ctx, getActivity, id)
	activity, err := pgx.CollectOneRow(rows, rowToActivity)

	switch {
	case err == nil:
		return activity, nil
	case errors.Is(err, pgx.ErrNoRows):
		return activity, apperrors.ErrActivityNotFound
	default:
		return activity, fmt.Errorf("db error: %w", err)
	}
}

const listActivities = `-- name: ListActivities
SELECT id, created_at, name, location, held_at, organizer_id, category_id, estimated_cost
FROM activities
ORDER BY held_at DESC
`

func (r *ActivityRepo) List(ctx context.Context) ([]models.Activity, error) {
	rows, _ := r.DB.Query(ctx, listActivities)
	activities, err := pgx.CollectRows(rows, rowToActivity)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return activities, nil
}

const updateActivity = `-- name: UpdateActivity
UPDATE activities
SET name = $2, location = $3, held_at = $4, organizer_id = $5, category_id = $6, estimated_cost = $7
WHERE id = $1
RETURNING id, created_at, name, location, held_at, organizer_id, category_id, estimated_cost
`

func (r *ActivityRepo) Update(ctx context.Context, a models.Activity) (models.Activity, error) {
	rows, _ := r.DB.Query(ctx, updateActivity, a.ID, a.Name, a.Location, a.HeldAt, a.OrganizerID, a.CategoryID, a.EstimatedCost)
	activity, err := pgx.CollectOneRow(rows, rowToActivity)

	switch {
	case err == nil:
		return activity, nil
	case errors.Is(err, pgx.ErrNoRows):
		return activity, apperrors.ErrActivityNotFound
	default:
		return activity, fmt.Errorf("db error: %w", err)
	}
}

const deleteActivity = `-- name: DeleteActivity
DELETE FROM activities
WHERE id = $1
`

func (r *ActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteActivity, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrActivityNotFound
	}

	return nil
}

func rowToActivity(row pgx.CollectableRow) (models.Activity, error) {
	var a models.Activity
	err := row.Scan(&a.ID, &a.CreatedAt, &a.Name, &a.Location, &a.HeldAt, &a.OrganizerID, &a.CategoryID, &a.EstimatedCost)
	return a, err
}
