package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense lifecycle statuses
const (
	ExpenseSubmitted  = "submitted"
	ExpenseApproved   = "approved"
	ExpenseReimbursed = "reimbursed"
)

type BudgetCategory struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Name       string
	FiscalYear int
	Allocated  decimal.Decimal
}

type Expense struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	CreatedAt  time.Time
	Payee      string
	Purpose    string
	Amount     decimal.Decimal
	Status     string
	ApprovedAt *time.Time // nil until approved
}

// BudgetSummary aggregates spending for a category
// Spent counts approved and reimbursed expenses only
type BudgetSummary struct {
	Category  BudgetCategory
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}
