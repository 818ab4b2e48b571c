package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/testutil"
)

func Test_BudgetRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	category := models.BudgetCategory{
		Name:       "Youth activities",
		FiscalYear: 2026,
		Allocated:  decimal.RequireFromString("1200.00"),
	}

	t.Run("create category ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := BudgetRepo{DB: tx}

			got, err := repo.CreateCategory(t.Context(), category)

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, got.ID)
			require.Equal(t, "Youth activities", got.Name)
			require.Equal(t, 2026, got.FiscalYear)
			require.True(t, got.Allocated.Equal(decimal.RequireFromString("1200.00")))
		})
	})

	t.Run("duplicate category for year", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := BudgetRepo{DB: tx}

			_, err := repo.CreateCategory(t.Context(), category)
			require.NoError(t, err)

			_, err = repo.CreateCategory(t.Context(), category)
			require.ErrorIs(t, err, apperrors.ErrBudgetCategoryTaken)

			// Same name is fine in another fiscal year
			other := category
			other.FiscalYear = 2027
			_, err = repo.CreateCategory(t.Context(), other)
			require.NoError(t, err)
		})
	})

	t.Run("expense lifecycle", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := BudgetRepo{DB: tx}
			cat, err := repo.CreateCategory(t.Context(), category)
			require.NoError(t, err)

			expense, err := repo.CreateExpense(t.Context(), models.Expense{
				CategoryID: cat.ID,
				Payee:      "Camp store",
				Purpose:    "Firewood",
				Amount:     decimal.RequireFromString("75.50"),
				Status:     models.ExpenseSubmitted,
			})
			require.NoError(t, err)
			require.Equal(t, models.ExpenseSubmitted, expense.Status)
			require.Nil(t, expense.ApprovedAt)

			now := time.Now()
			approved, err := repo.SetExpenseStatus(t.Context(), expense.ID, models.ExpenseApproved, &now)
			require.NoError(t, err)
			require.Equal(t, models.ExpenseApproved, approved.Status)
			require.NotNil(t, approved.ApprovedAt)

			reimbursed, err := repo.SetExpenseStatus(t.Context(), expense.ID, models.ExpenseReimbursed, nil)
			require.NoError(t, err)
			require.Equal(t, models.ExpenseReimbursed, reimbursed.Status)
			require.NotNil(t, reimbursed.ApprovedAt, "approval timestamp should be kept")
			require.WithinDuration(t, *approved.ApprovedAt, *reimbursed.ApprovedAt, 0)
		})
	})

	t.Run("set status on not existed expense", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := BudgetRepo{DB: tx}

			_, err := repo.SetExpenseStatus(t.Context(), uuid.New(), models.ExpenseApproved, nil)
			require.ErrorIs(t, err, apperrors.ErrExpenseNotFound)
		})
	})

	t.Run("list expenses filtered by category", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := BudgetRepo{DB: tx}
			cat1, err := repo.CreateCategory(t.Context(), category)
			require.NoError(t, err)
			cat2, err := repo.CreateCategory(t.Context(), models.BudgetCategory{
				Name:       "Relief society",
				FiscalYear: 2026,
				Allocated:  decimal.RequireFromString("800.00"),
			})
			require.NoError(t, err)

			for _, catID := range []uuid.UUID{cat1.ID, cat1.ID, cat2.ID} {
				_, err := repo.CreateExpense(t.Context(), models.Expense{
					CategoryID: catID,
					Payee:      "Somebody",
					Amount:     decimal.RequireFromString("10.00"),
					Status:     models.ExpenseSubmitted,
				})
				require.NoError(t, err)
			}

			all, err := repo.ListExpenses(t.Context(), nil)
			require.NoError(t, err)
			require.Len(t, all, 3)

			filtered, err := repo.ListExpenses(t.Context(), &cat1.ID)
			require.NoError(t, err)
			require.Len(t, filtered, 2)
		})
	})

	t.Run("summary counts approved and reimbursed only", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := BudgetRepo{DB: tx}
			cat, err := repo.CreateCategory(t.Context(), category)
			require.NoError(t, err)

			add := func(amount string, status string) {
				e, err := repo.CreateExpense(t.Context(), models.Expense{
					CategoryID: cat.ID,
					Payee:      "Somebody",
					Amount:     decimal.RequireFromString(amount),
					Status:     models.ExpenseSubmitted,
				})
				require.NoError(t, err)
				if status != models.ExpenseSubmitted {
					_, err = repo.SetExpenseStatus(t.Context(), e.ID, status, nil)
					require.NoError(t, err)
				}
			}

			add("100.00", models.ExpenseApproved)
			add("50.50", models.ExpenseReimbursed)
			add("999.00", models.ExpenseSubmitted) // should not count

			summaries, err := repo.Summary(t.Context(), 2026)
			require.NoError(t, err)
			require.Len(t, summaries, 1)

			s := summaries[0]
			require.Equal(t, cat.ID, s.Category.ID)
			require.True(t, s.Spent.Equal(decimal.RequireFromString("150.50")), "spent is %s", s.Spent)
			require.True(t, s.Remaining.Equal(decimal.RequireFromString("1049.50")), "remaining is %s", s.Remaining)
		})
	})

	t.Run("summary for year without categories", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := BudgetRepo{DB: tx}

			summaries, err := repo.Summary(t.Context(), 1999)
			require.NoError(t, err)
			require.Empty(t, summaries)
		})
	})
}
