package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/repository"
)

type BudgetService struct {
	budgetRepo repository.BudgetRepo
}

func NewService(budgetRepo repository.BudgetRepo) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
	}
}

func (s *BudgetService) CreateCategory(ctx context.Context, name string, fiscalYear int, allocated decimal.Decimal) (models.BudgetCategory, error) {
	return s.budgetRepo.CreateCategory(ctx, models.BudgetCategory{
		Name:       name,
		FiscalYear: fiscalYear,
		Allocated:  allocated,
	})
}

func (s *BudgetService) ListCategories(ctx context.Context, fiscalYear int) ([]models.BudgetCategory, error) {
	return s.budgetRepo.ListCategories(ctx, fiscalYear)
}

// SubmitExpense records an expense against an existing category
func (s *BudgetService) SubmitExpense(ctx context.Context, categoryID uuid.UUID, payee string, purpose string, amount decimal.Decimal) (models.Expense, error) {
	if _, err := s.budgetRepo.GetCategory(ctx, categoryID); err != nil {
		return models.Expense{}, err
	}

	return s.budgetRepo.CreateExpense(ctx, models.Expense{
		CategoryID: categoryID,
		Payee:      payee,
		Purpose:    purpose,
		Amount:     amount,
		Status:     models.ExpenseSubmitted,
	})
}

func (s *BudgetService) ListExpenses(ctx context.Context, categoryID *uuid.UUID) ([]models.Expense, error) {
	return s.budgetRepo.ListExpenses(ctx, categoryID)
}

// ApproveExpense moves a submitted expense to approved
func (s *BudgetService) ApproveExpense(ctx context.Context, id uuid.UUID) (models.Expense, error) {
	expense, err := s.budgetRepo.GetExpense(ctx, id)
	if err != nil {
		return models.Expense{}, err
	}
	if expense.Status != models.ExpenseSubmitted {
		return models.Expense{}, apperrors.ErrExpenseNotSubmitted
	}

	now := time.Now()
	return s.budgetRepo.SetExpenseStatus(ctx, id, models.ExpenseApproved, &now)
}

// ReimburseExpense marks an approved expense as paid out
func (s *BudgetService) ReimburseExpense(ctx context.Context, id uuid.UUID) (models.Expense, error) {
	expense, err := s.budgetRepo.GetExpense(ctx, id)
	if err != nil {
		return models.Expense{}, err
	}
	if expense.Status != models.ExpenseApproved {
		return models.Expense{}, apperrors.ErrExpenseNotSubmitted
	}

	return s.budgetRepo.SetExpenseStatus(ctx, id, models.ExpenseReimbursed, nil)
}

func (s *BudgetService) Summary(ctx context.Context, fiscalYear int) ([]models.BudgetSummary, error) {
	return s.budgetRepo.Summary(ctx, fiscalYear)
}
