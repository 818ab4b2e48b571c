package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jhansen/wardbook/internal/handlers/render"
	"github.com/jhansen/wardbook/internal/logger"
)

type reportService interface {
	WriteMembersCSV(ctx context.Context, w io.Writer) error
	WriteBudgetCSV(ctx context.Context, fiscalYear int, w io.Writer) error
}

type ReportHandler struct {
	reportService reportService
	logger        logger.Logger
}

func NewReports(reportService reportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportHandler) Members(w http.ResponseWriter, r *http.Request) {
	h.streamCSV(w, r, "members.csv", func(ctx context.Context, out io.Writer) error {
		return h.reportService.WriteMembersCSV(ctx, out)
	})
}

func (h *ReportHandler) Budget(w http.ResponseWriter, r *http.Request) {
	year, err := fiscalYearParam(r)
	if err != nil {
		render.ServiceError(w, "Invalid fiscal year", http.StatusBadRequest)
		return
	}

	name := fmt.Sprintf("budget-%d.csv", year)
	h.streamCSV(w, r, name, func(ctx context.Context, out io.Writer) error {
		return h.reportService.WriteBudgetCSV(ctx, year, out)
	})
}

func (h *ReportHandler) streamCSV(w http.ResponseWriter, r *http.Request, filename string, write func(context.Context, io.Writer) error) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := write(r.Context(), w); err != nil {
		// headers are already out, the best we can do is log
		h.logger.Error("report streaming failed", "error", err, "filename", filename)
	}
}
