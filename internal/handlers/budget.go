package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/handlers/render"
	"github.com/jhansen/wardbook/internal/models"
)

type budgetService interface {
	CreateCategory(ctx context.Context, name string, fiscalYear int, allocated decimal.Decimal) (models.BudgetCategory, error)
	ListCategories(ctx context.Context, fiscalYear int) ([]models.BudgetCategory, error)
	SubmitExpense(ctx context.Context, categoryID uuid.UUID, payee string, purpose string, amount decimal.Decimal) (models.Expense, error)
	ListExpenses(ctx context.Context, categoryID *uuid.UUID) ([]models.Expense, error)
	ApproveExpense(ctx context.Context, id uuid.UUID) (models.Expense, error)
	ReimburseExpense(ctx context.Context, id uuid.UUID) (models.Expense, error)
	Summary(ctx context.Context, fiscalYear int) ([]models.BudgetSummary, error)
}

type BudgetHandler struct {
	budgetService budgetService
}

func NewBudget(budgetService budgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

type CategoryResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	FiscalYear int             `json:"fiscalYear"`
	Allocated  decimal.Decimal `json:"allocated"`
}

type ExpenseResponse struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Payee      string          `json:"payee"`
	Purpose    string          `json:"purpose"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	ApprovedAt *time.Time      `json:"approvedAt,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type SummaryResponse struct {
	Category  CategoryResponse `json:"category"`
	Spent     decimal.Decimal  `json:"spent"`
	Remaining decimal.Decimal  `json:"remaining"`
}

func toCategoryResponse(c models.BudgetCategory) CategoryResponse {
	return CategoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		FiscalYear: c.FiscalYear,
		Allocated:  c.Allocated,
	}
}

func toExpenseResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:         e.ID,
		CategoryID: e.CategoryID,
		Payee:      e.Payee,
		Purpose:    e.Purpose,
		Amount:     e.Amount,
		Status:     e.Status,
		ApprovedAt: e.ApprovedAt,
		CreatedAt:  e.CreatedAt,
	}
}

// fiscalYearParam reads the 'year' query param, defaults to the current year
func fiscalYearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	return strconv.Atoi(raw)
}

func (h *BudgetHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	type CreateRequest struct {
		Name       string          `json:"name" validate:"required,max=100"`
		FiscalYear int             `json:"fiscalYear" validate:"required,min=2000,max=2200"`
		Allocated  decimal.Decimal `json:"allocated"`
	}

	data, err := render.BindAndValidate[CreateRequest](w, r)
	if err != nil {
		return
	}

	category, err := h.budgetService.CreateCategory(r.Context(), data.Name, data.FiscalYear, data.Allocated)
	switch {
	case err == nil:
		render.JSONWithStatus(w, toCategoryResponse(category), http.StatusCreated)
	case errors.Is(err, apperrors.ErrBudgetCategoryTaken):
		render.ServiceError(w, "Category already exists for fiscal year", http.StatusConflict)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *BudgetHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	year, err := fiscalYearParam(r)
	if err != nil {
		render.ServiceError(w, "Invalid fiscal year", http.StatusBadRequest)
		return
	}

	categories, err := h.budgetService.ListCategories(r.Context(), year)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, toCategoryResponse(c))
	}

	render.JSON(w, responses)
}

func (h *BudgetHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	type CreateRequest struct {
		CategoryID uuid.UUID       `json:"categoryId" validate:"required"`
		Payee      string          `json:"payee" validate:"required,max=200"`
		Purpose    string          `json:"purpose" validate:"max=500"`
		Amount     decimal.Decimal `json:"amount" validate:"required"`
	}

	data, err := render.BindAndValidate[CreateRequest](w, r)
	if err != nil {
		return
	}

	if data.Amount.LessThanOrEqual(decimal.Zero) {
		render.ServiceError(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	expense, err := h.budgetService.SubmitExpense(r.Context(), data.CategoryID, data.Payee, data.Purpose, data.Amount)
	switch {
	case err == nil:
		render.JSONWithStatus(w, toExpenseResponse(expense), http.StatusCreated)
	case errors.Is(err, apperrors.ErrBudgetCategoryNotFound):
		render.ServiceError(w, "Budget category not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *BudgetHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	expenses, err := h.budgetService.ListExpenses(r.Context(), categoryID)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, toExpenseResponse(e))
	}

	render.JSON(w, responses)
}

func (h *BudgetHandler) ApproveExpense(w http.ResponseWriter, r *http.Request) {
	h.setExpenseStatus(w, r, h.budgetService.ApproveExpense)
}

func (h *BudgetHandler) ReimburseExpense(w http.ResponseWriter, r *http.Request) {
	h.setExpenseStatus(w, r, h.budgetService.ReimburseExpense)
}

func (h *BudgetHandler) setExpenseStatus(w http.ResponseWriter, r *http.Request, change func(context.Context, uuid.UUID) (models.Expense, error)) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid expense id", http.StatusBadRequest)
		return
	}

	expense, err := change(r.Context(), id)
	switch {
	case err == nil:
		render.JSON(w, toExpenseResponse(expense))
	case errors.Is(err, apperrors.ErrExpenseNotFound):
		render.ServiceError(w, "Expense not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrExpenseNotSubmitted):
		render.ServiceError(w, "Expense is not in the right state", http.StatusConflict)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *BudgetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	year, err := fiscalYearParam(r)
	if err != nil {
		render.ServiceError(w, "Invalid fiscal year", http.StatusBadRequest)
		return
	}

	summaries, err := h.budgetService.Summary(r.Context(), year)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, SummaryResponse{
			Category:  toCategoryResponse(s.Category),
			Spent:     s.Spent,
			Remaining: s.Remaining,
		})
	}

	render.JSON(w, responses)
}
