package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/models"
)

// Storage aggregates all repositories over a single connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Device() TrustedDeviceRepo
	LoginCode() LoginCodeRepo
	Member() MemberRepo
	Calling() CallingRepo
	Meeting() MeetingRepo
	Budget() BudgetRepo
	Interview() InterviewRepo
	Activity() ActivityRepo

	// Run fn within a db transaction
	// The storage passed to fn sees uncommitted state; rollback on error
	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, email string, role string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token even if it expired or used already
	// If not found must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Mark token as used
	// Must be idempotent: if the token is used already it must return
	// apperrors.ErrRefreshTokenIsUsed and keep the original usedAt
	MarkUsed(ctx context.Context, tokenString string) (usedAt time.Time, err error)
}

// TrustedDevice repository interface
type TrustedDeviceRepo interface {
	// Remember device for the user; repeated calls refresh last_seen
	Trust(ctx context.Context, userID uuid.UUID, deviceID string) (models.TrustedDevice, error)

	IsTrusted(ctx context.Context, userID uuid.UUID, deviceID string) (bool, error)
}

// LoginCode repository interface
type LoginCodeRepo interface {
	Save(ctx context.Context, code models.LoginCode) error

	// If code not found must return apperrors.ErrLoginCodeNotFound
	Get(ctx context.Context, id uuid.UUID) (models.LoginCode, error)

	// Decrease attempts counter, return attempts left
	DecrementAttempts(ctx context.Context, id uuid.UUID) (int, error)

	MarkUsed(ctx context.Context, id uuid.UUID) error
}

type MemberRepo interface {
	Create(ctx context.Context, member models.Member) (models.Member, error)
	Get(ctx context.Context, id uuid.UUID) (models.Member, error)

	// List members ordered by last name
	// Non empty search filters by case insensitive name substring
	List(ctx context.Context, search string) ([]models.Member, error)

	Update(ctx context.Context, member models.Member) (models.Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CallingRepo interface {
	Create(ctx context.Context, calling models.Calling) (models.Calling, error)
	Get(ctx context.Context, id uuid.UUID) (models.Calling, error)
	List(ctx context.Context, memberID *uuid.UUID) ([]models.Calling, error)

	// Move calling to the given status
	// releasedAt is set only when status is released
	SetStatus(ctx context.Context, id uuid.UUID, status string, releasedAt *time.Time) (models.Calling, error)
}

type MeetingRepo interface {
	Create(ctx context.Context, meeting models.Meeting) (models.Meeting, error)
	Get(ctx context.Context, id uuid.UUID) (models.Meeting, error)
	List(ctx context.Context) ([]models.Meeting, error)
	Update(ctx context.Context, meeting models.Meeting) (models.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type BudgetRepo interface {
	// If category with the same name exists for the fiscal year
	// must return apperrors.ErrBudgetCategoryTaken
	CreateCategory(ctx context.Context, category models.BudgetCategory) (models.BudgetCategory, error)
	GetCategory(ctx context.Context, id uuid.UUID) (models.BudgetCategory, error)
	ListCategories(ctx context.Context, fiscalYear int) ([]models.BudgetCategory, error)

	CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error)
	GetExpense(ctx context.Context, id uuid.UUID) (models.Expense, error)
	ListExpenses(ctx context.Context, categoryID *uuid.UUID) ([]models.Expense, error)
	SetExpenseStatus(ctx context.Context, id uuid.UUID, status string, approvedAt *time.Time) (models.Expense, error)

	// Aggregate spent and remaining amounts per category for the year
	// Spent counts approved and reimbursed expenses only
	Summary(ctx context.Context, fiscalYear int) ([]models.BudgetSummary, error)
}

type InterviewRepo interface {
	Create(ctx context.Context, interview models.Interview) (models.Interview, error)
	Get(ctx context.Context, id uuid.UUID) (models.Interview, error)

	// List interviews scheduled after 'after', optionally for one leader
	ListUpcoming(ctx context.Context, leaderID *uuid.UUID, after time.Time) ([]models.Interview, error)

	SetStatus(ctx context.Context, id uuid.UUID, status string) (models.Interview, error)
}

type ActivityRepo interface {
	Create(ctx context.Context, activity models.Activity) (models.Activity, error)
	Get(ctx context.Context, id uuid.UUID) (models.Activity, error)
	List(ctx context.Context) ([]models.Activity, error)
	Update(ctx context.Context, activity models.Activity) (models.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
