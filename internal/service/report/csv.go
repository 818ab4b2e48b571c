package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jhansen/wardbook/internal/repository"
)

// ReportService renders ward data as CSV for download from the dashboard
type ReportService struct {
	memberRepo repository.MemberRepo
	budgetRepo repository.BudgetRepo
}

func NewService(memberRepo repository.MemberRepo, budgetRepo repository.BudgetRepo) *ReportService {
	return &ReportService{
		memberRepo: memberRepo,
		budgetRepo: budgetRepo,
	}
}

// WriteMembersCSV streams the member directory
func (s *ReportService) WriteMembersCSV(ctx context.Context, w io.Writer) error {
	members, err := s.memberRepo.List(ctx, "")
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"last_name", "first_name", "email", "phone", "address", "birthdate", "household"}); err != nil {
		return fmt.Errorf("csv write failed: %w", err)
	}

	for _, m := range members {
		birthdate := ""
		if m.Birthdate != nil {
			birthdate = m.Birthdate.Format(time.DateOnly)
		}

		record := []string{m.LastName, m.FirstName, m.Email, m.Phone, m.Address, birthdate, m.Household}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv write failed: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteBudgetCSV streams the budget summary for the fiscal year
func (s *ReportService) WriteBudgetCSV(ctx context.Context, fiscalYear int, w io.Writer) error {
	summaries, err := s.budgetRepo.Summary(ctx, fiscalYear)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "fiscal_year", "allocated", "spent", "remaining"}); err != nil {
		return fmt.Errorf("csv write failed: %w", err)
	}

	for _, s := range summaries {
		record := []string{
			s.Category.Name,
			strconv.Itoa(s.Category.FiscalYear),
			s.Category.Allocated.StringFixed(2),
			s.Spent.StringFixed(2),
			s.Remaining.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv write failed: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
