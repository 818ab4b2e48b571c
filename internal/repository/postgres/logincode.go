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

type LoginCodeRepo struct {
	DB DBTX
}

const saveLoginCode = `-- name: SaveLoginCode
INSERT INTO login_codes (id, user_id, code, created_at, expires_at, attempts_left, used_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

func (r *LoginCodeRepo) Save(ctx context.Context, code models.LoginCode) error {
	rows, _ := r.DB.Query(ctx, saveLoginCode, code.ID, code.UserID, code.Code, code.CreatedAt, code.ExpiresAt, code.AttemptsLeft, code.UsedAt)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const getLoginCode = `-- name: GetLoginCode
SELECT id, user_id, code, created_at, expires_at, attempts_left, used_at
FROM login_codes
WHERE id = $1
`

func (r *LoginCodeRepo) Get(ctx context.Context, id uuid.UUID) (models.LoginCode, error) {
	rows, _ := r.DB.Query(ctx, getLoginCode, id)
	code, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.LoginCode, error) {
		var c models.LoginCode
		err := row.Scan(&c.ID, &c.UserID, &c.Code, &c.CreatedAt, &c.ExpiresAt, &c.AttemptsLeft, &c.UsedAt)
		return c, err
	})

	switch {
	case err == nil:
		return code, nil
	case errors.Is(err, pgx.ErrNoRows):
		return code, fmt.Errorf("repo error: %w", apperrors.ErrLoginCodeNotFound)
	default:
		return code, fmt.Errorf("db error: %w", err)
	}
}

const decrementAttempts = `-- name: DecrementLoginCodeAttempts
UPDATE login_codes
SET attempts_left = attempts_left - 1
WHERE id = $1 AND attempts_left > 0
RETURNING attempts_left
`

func (r *LoginCodeRepo) DecrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	rows, _ := r.DB.Query(ctx, decrementAttempts, id)
	left, err := pgx.CollectOneRow(rows, pgx.RowTo[int])

	switch {
	case err == nil:
		return left, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("repo error: %w", apperrors.ErrLoginCodeNoAttempts)
	default:
		return 0, fmt.Errorf("db error: %w", err)
	}
}

const markLoginCodeUsed = `-- name: MarkLoginCodeUsed
UPDATE login_codes
SET used_at = COALESCE(used_at, $2)
WHERE id = $1
RETURNING used_at
`

func (r *LoginCodeRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, markLoginCodeUsed, id, time.Now())
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[time.Time])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("repo error: %w", apperrors.ErrLoginCodeNotFound)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
