package handler

import (
	"context"
	"credit-report-engine/internal/api/handler/dto"
	"credit-report-engine/internal/domain/report"
	"credit-report-engine/internal/event"
	"credit-report-engine/internal/infrastructure/monitoring"
	"credit-report-engine/internal/pkg/apperrors"
	"credit-report-engine/internal/render"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const publishTimeout = 5 * time.Second

type ReportHandler struct {
	service   report.Service
	renderers render.Set
	exporter  *render.Exporter
	publisher event.ReportPublisher
	logger    *slog.Logger
}

func NewReportHandler(s report.Service, renderers render.Set, exporter *render.Exporter, publisher event.ReportPublisher, l *slog.Logger) *ReportHandler {
	if s == nil || exporter == nil {
		panic("report service and exporter cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &ReportHandler{
		service:   s,
		renderers: renderers,
		exporter:  exporter,
		publisher: publisher,
		logger:    l.With("component", "ReportHandler"),
	}
}

// GetReport builds a borrower's credit report and returns it in the requested format.
//
// @Summary Generate a borrower credit report
// @Description Builds a fresh credit report for the borrower. JSON is returned inline; CSV and PDF are returned as attachments.
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Param borrowerID path string true "Borrower ID"
// @Param format query string false "Output format" Enums(json, csv, pdf) default(json)
// @Success 200 {object} dto.CreditReportResponse "Credit report"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID or format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid bearer token"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Storage or rendering failure"
// @Router /borrowers/{borrowerID}/report [get]
// @Security BearerAuth
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		monitoring.RecordReportServed("invalid", "error")
		respondError(w, err)
		return
	}
	logger := h.logger.With("format", string(format))

	borrowerID := strings.TrimSpace(chi.URLParam(r, "borrowerID"))
	if borrowerID == "" {
		monitoring.RecordReportServed(string(format), "error")
		respondError(w, fmt.Errorf("%w: borrowerID not found in URL path", apperrors.ErrInvalidArgument))
		return
	}
	logger = logger.With("borrowerID", borrowerID)

	rep, err := h.service.BuildReport(ctx, borrowerID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to build credit report", slog.Any("error", err))
		monitoring.RecordReportServed(string(format), "error")
		respondError(w, err)
		return
	}

	if format == render.FormatJSON {
		respondJSON(w, http.StatusOK, dto.NewCreditReportResponse(rep))
	} else if !h.serveFile(w, r, logger, format, rep) {
		monitoring.RecordReportServed(string(format), "error")
		return
	}

	monitoring.RecordReportServed(string(format), "success")
	h.publish(ctx, logger, format, rep)
}

// serveFile streams a rendered report and reports whether the client got it.
func (h *ReportHandler) serveFile(w http.ResponseWriter, r *http.Request, logger *slog.Logger, format render.Format, rep *report.CreditReport) bool {
	ctx := r.Context()
	renderer, ok := h.renderers.Lookup(format)
	if !ok {
		logger.ErrorContext(ctx, "No renderer configured for format")
		respondError(w, fmt.Errorf("%w: no renderer for format %s", apperrors.ErrInternalServer, format))
		return false
	}

	headerWritten := false
	err := h.exporter.Export(ctx, renderer, rep, func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%w: open rendered report: %w", apperrors.ErrIO, err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("%w: stat rendered report: %w", apperrors.ErrIO, err)
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, attachmentName(rep, format)))
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
		w.WriteHeader(http.StatusOK)
		headerWritten = true

		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("%w: stream rendered report: %w", apperrors.ErrIO, err)
		}
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to serve rendered credit report", slog.Any("error", err))
		if !headerWritten {
			respondError(w, err)
		}
		return false
	}

	logger.InfoContext(ctx, "Served rendered credit report")
	return true
}

func (h *ReportHandler) publish(ctx context.Context, logger *slog.Logger, format render.Format, rep *report.CreditReport) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := h.publisher.PublishReportGenerated(ctx, event.ReportGeneratedEvent{
		BorrowerID:  rep.Borrower.ID,
		Format:      string(format),
		CreditScore: rep.Summary.CreditScore,
		GeneratedAt: rep.GeneratedAt,
	})
	if err != nil {
		logger.WarnContext(ctx, "Failed to publish report generated event", slog.Any("error", err))
	}
}

func attachmentName(rep *report.CreditReport, format render.Format) string {
	return "credit-report-" + strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, rep.Borrower.ID) + "-" + rep.GeneratedAt.UTC().Format("20060102") + format.Extension()
}
