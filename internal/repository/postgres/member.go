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

type MemberRepo struct {
	DB DBTX
}

const createMember = `-- name: CreateMember
INSERT INTO members (id, first_name, last_name, email, phone, address, birthdate, household)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, first_name, last_name, email, phone, address, birthdate, household
`

func (r *MemberRepo) Create(ctx context.Context, m models.Member) (models.Member, error) {
	rows, _ := r.DB.Query(ctx, createMember, uuid.New(), m.FirstName, m.LastName, m.Email, m.Phone, m.Address, m.Birthdate, m.Household)
	member, err := pgx.CollectOneRow(rows, rowToMember)
	if err != nil {
		return member, fmt.Errorf("db error: %w", err)
	}

	return member, nil
}

const getMember = `-- name: GetMember
SELECT id, created_at, first_name, last_name, email, phone, address, birthdate, household
FROM members
WHERE id = $1
`

func (r *MemberRepo) Get(ctx context.Context, id uuid.UUID) (models.Member, error) {
	rows, _ := r.DB.Query(ctx, getMember, id)
	member, err := pgx.CollectOneRow(rows, rowToMember)

	switch {
	case err == nil:
		return member, nil
	case errors.Is(err, pgx.ErrNoRows):
		return member, apperrors.ErrMemberNotFound
	default:
		return member, fmt.Errorf("db error: %w", err)
	}
}

const listMembers = `-- name: ListMembers
SELECT id, created_at, first_name, last_name, email, phone, address, birthdate, household
FROM members
WHERE $1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
ORDER BY last_name, first_name
`

func (r *MemberRepo) List(ctx context.Context, search string) ([]models.Member, error) {
	rows, _ := r.DB.Query(ctx, listMembers, search)
	members, err := pgx.CollectRows(rows, rowToMember)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return members, nil
}

const updateMember = `-- name: UpdateMember
UPDATE members
SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6, birthdate = $7, household = $8
WHERE id = $1
RETURNING id, created_at, first_name, last_name, email, phone, address, birthdate, household
`

func (r *MemberRepo) Update(ctx context.Context, m models.Member) (models.Member, error) {
	rows, _ := r.DB.Query(ctx, updateMember, m.ID, m.FirstName, m.LastName, m.Email, m.Phone, m.Address, m.Birthdate, m.Household)
	member, err := pgx.CollectOneRow(rows, rowToMember)

	switch {
	case err == nil:
		return member, nil
	case errors.Is(err, pgx.ErrNoRows):
		return member, apperrors.ErrMemberNotFound
	default:
		return member, fmt.Errorf("db error: %w", err)
	}
}

const deleteMember = `-- name: DeleteMember
DELETE FROM members
WHERE id = $1
`

func (r *MemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteMember, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}

	return nil
}

func rowToMember(row pgx.CollectableRow) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.CreatedAt, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Address, &m.Birthdate, &m.Household)
	return m, err
}
