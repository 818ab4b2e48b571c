package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/models"
)

type BudgetRepo struct {
	DB DBTX
}

const createCategory = `-- name: CreateBudgetCategory
INSERT INTO budget_categories (id, name, fiscal_year, allocated)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, name, fiscal_year, allocated
`

func (r *BudgetRepo) CreateCategory(ctx context.Context, c models.BudgetCategory) (models.BudgetCategory, error) {
	rows, _ := r.DB.Query(ctx, createCategory, uuid.New(), c.Name, c.FiscalYear, c.Allocated)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return category, apperrors.ErrBudgetCategoryTaken
		}

		return category, fmt.Errorf("db error: %w", err)
	}

	return category, nil
}

const getCategory = `-- name: GetBudgetCategory
SELECT id, created_at, name, fiscal_year, allocated
FROM budget_categories
WHERE id = $1
`

func (r *BudgetRepo) GetCategory(ctx context.Context, id uuid.UUID) (models.BudgetCategory, error) {
	rows, _ := r.DB.Query(ctx, getCategory, id)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, apperrors.ErrBudgetCategoryNotFound
	default:
		return category, fmt.Errorf("db error: %w", err)
	}
}

const listCategories = `-- name: ListBudgetCategories
SELECT id, created_at, name, fiscal_year, allocated
FROM budget_categories
WHERE fiscal_year = $1
ORDER BY name
`

func (r *BudgetRepo) ListCategories(ctx context.Context, fiscalYear int) ([]models.BudgetCategory, error) {
	rows, _ := r.DB.Query(ctx, listCategories, fiscalYear)
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return categories, nil
}

const createExpense = `-- name: CreateExpense
INSERT INTO expenses (id, category_id, payee, purpose, amount, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, category_id, created_at, payee, purpose, amount, status, approved_at
`

func (r *BudgetRepo) CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	rows, _ := r.DB.Query(ctx, createExpense, uuid.New(), e.CategoryID, e.Payee, e.Purpose, e.Amount, e.Status)
	expense, err := pgx.CollectOneRow(rows, rowToExpense)
	if err != nil {
		return expense, fmt.Errorf("db error: %w", err)
	}

	return expense, nil
}

const getExpense = `-- name: GetExpense
SELECT id, category_id, created_at, payee, purpose, amount, status, approved_at
FROM expenses
WHERE id = $1
`

func (r *BudgetRepo) GetExpense(ctx context.Context, id uuid.UUID) (models.Expense, error) {
	rows, _ := r.DB.Query(ctx, getExpense, id)
	expense, err := pgx.CollectOneRow(rows, rowToExpense)

	switch {
	case err == nil:
		return expense, nil
	case errors.Is(err, pgx.ErrNoRows):
		return expense, apperrors.ErrExpenseNotFound
	default:
		return expense, fmt.Errorf("db error: %w", err)
	}
}

const listExpenses = `-- name: ListExpenses
SELECT id, category_id, created_at, payee, purpose, amount, status, approved_at
FROM expenses
WHERE $1::uuid IS NULL OR category_id = $1
ORDER BY created_at DESC
`

func (r *BudgetRepo) ListExpenses(ctx context.Context, categoryID *uuid.UUID) ([]models.Expense, error) {
	rows, _ := r.DB.Query(ctx, listExpenses, categoryID)
	expenses, err := pgx.CollectRows(rows, rowToExpense)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return expenses, nil
}

const setExpenseStatus = `-- name: SetExpenseStatus
UPDATE expenses
SET status = $2, approved_at = COALESCE(approved_at, $3)
WHERE id = $1
RETURNING id, category_id, created_at, payee, purpose, amount, status, approved_at
`

func (r *BudgetRepo) SetExpenseStatus(ctx context.Context, id uuid.UUID, status string, approvedAt *time.Time) (models.Expense, error) {
	rows, _ := r.DB.Query(ctx, setExpenseStatus, id, status, approvedAt)
	expense, err := pgx.CollectOneRow(rows, rowToExpense)

	switch {
	case err == nil:
		return expense, nil
	case errors.Is(err, pgx.ErrNoRows):
		return expense, apperrors.ErrExpenseNotFound
	default:
		return expense, fmt.Errorf("db error: %w", err)
	}
}

const budgetSummary = `-- name: BudgetSummary
SELECT c.id, c.created_at, c.name, c.fiscal_year, c.allocated,
       COALESCE(SUM(e.amount) FILTER (WHERE e.status IN ('approved', 'reimbursed')), 0) AS spent
FROM budget_categories c
LEFT JOIN expenses e ON e.category_id = c.id
WHERE c.fiscal_year = $1
GROUP BY c.id
ORDER BY c.name
`

func (r *BudgetRepo) Summary(ctx context.Context, fiscalYear int) ([]models.BudgetSummary, error) {
	rows, _ := r.DB.Query(ctx, budgetSummary, fiscalYear)
	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BudgetSummary, error) {
		var s models.BudgetSummary
		err := row.Scan(&s.Category.ID, &s.Category.CreatedAt, &s.Category.Name, &s.Category.FiscalYear, &s.Category.Allocated, &s.Spent)
		s.Remaining = s.Category.Allocated.Sub(s.Spent)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return summaries, nil
}

func rowToCategory(row pgx.CollectableRow) (models.BudgetCategory, error) {
	var c models.BudgetCategory
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.FiscalYear, &c.Allocated)
	return c, err
}

func rowToExpense(row pgx.CollectableRow) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.CategoryID, &e.CreatedAt, &e.Payee, &e.Purpose, &e.Amount, &e.Status, &e.ApprovedAt)
	return e, err
}
