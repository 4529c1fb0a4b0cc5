package report

import (
	"cmp"
	"context"
	"credit-report-engine/internal/domain/borrower"
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"credit-report-engine/internal/infrastructure/monitoring"
	"credit-report-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	BuildReport(ctx context.Context, borrowerID string) (*CreditReport, error)
}

type Option func(*reportService)

// WithClock overrides the source of CreditReport.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *reportService) {
		s.now = now
	}
}

type reportService struct {
	accessor DataAccessor
	scorer   ScoreModel
	now      func() time.Time
	logger   *slog.Logger
}

func NewReportService(accessor DataAccessor, scorer ScoreModel, logger *slog.Logger, opts ...Option) Service {
	s := &reportService{
		accessor: accessor,
		scorer:   scorer,
		now:      time.Now,
		logger:   logger.With("component", "ReportService"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reportService) BuildReport(ctx context.Context, borrowerID string) (*CreditReport, error) {
	borrowerID = strings.TrimSpace(borrowerID)
	if borrowerID == "" {
		return nil, fmt.Errorf("%w: borrower id is required", apperrors.ErrInvalidArgument)
	}

	logger := s.logger.With("borrowerID", borrowerID)
	start := time.Now()

	b, err := s.accessor.FindBorrowerByID(ctx, borrowerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load borrower", "error", err)
		return nil, classify(err, "load borrower "+borrowerID)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
	}

	loans, err := s.accessor.FindLoansByBorrower(ctx, borrowerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load loans", "error", err)
		return nil, classify(err, "load loans for borrower "+borrowerID)
	}

	repayments, err := s.accessor.FindRepaymentsByBorrower(ctx, borrowerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load repayments", "error", err)
		return nil, classify(err, "load repayments for borrower "+borrowerID)
	}

	report := Aggregate(b, loans, repayments, s.scorer, s.now().UTC())

	monitoring.RecordReportBuilt(report.Summary.CreditScore, time.Since(start))
	logger.InfoContext(ctx, "Credit report built",
		"loans", report.Summary.TotalLoans,
		"repayments", len(report.Repayments),
		"creditScore", report.Summary.CreditScore,
		"scoreModel", s.scorer.Name(),
	)
	return report, nil
}

// classify keeps not-found and storage failures distinguishable for callers
// and treats anything else coming out of the accessor as a storage failure.
func classify(err error, what string) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrStorage) {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	return apperrors.WrapStorageError(err, "failed to "+what)
}

// Aggregate derives a CreditReport from already loaded records. The input
// slices are not modified.
func Aggregate(b *borrower.Borrower, loans []loan.Loan, repayments []repayment.Repayment, scorer ScoreModel, generatedAt time.Time) *CreditReport {
	loans = slices.Clone(loans)
	slices.SortStableFunc(loans, func(x, y loan.Loan) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})

	repayments = slices.Clone(repayments)
	slices.SortStableFunc(repayments, func(x, y repayment.Repayment) int {
		if c := x.PaymentDate.Compare(y.PaymentDate); c != 0 {
			return c
		}
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})

	summary := Summary{
		TotalLoans:           len(loans),
		TotalBorrowed:        decimal.Zero,
		TotalInterestAccrued: decimal.Zero,
		TotalRepaid:          decimal.Zero,
	}

	loanEntries := make([]LoanSummaryEntry, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		summary.TotalBorrowed = summary.TotalBorrowed.Add(l.Amount)
		summary.TotalInterestAccrued = summary.TotalInterestAccrued.Add(l.Interest())
		loanEntries = append(loanEntries, LoanSummaryEntry{
			LoanID:               l.ID,
			Amount:               l.Amount,
			InterestRate:         l.InterestRate,
			Purpose:              l.Purpose,
			Status:               l.Status,
			RepaymentStatus:      l.RepaymentStatus,
			TotalRepaymentAmount: l.TotalRepaymentAmount(),
		})
		summary.LastActivity = latest(summary.LastActivity, l.CreatedAt)
	}

	owed := summary.TotalBorrowed.Add(summary.TotalInterestAccrued)
	balance := owed

	repaymentEntries := make([]RepaymentEntry, 0, len(repayments))
	for i := range repayments {
		r := &repayments[i]
		summary.TotalRepaid = summary.TotalRepaid.Add(r.Amount)
		balance = balance.Sub(r.Amount)
		remaining := balance
		repaymentEntries = append(repaymentEntries, RepaymentEntry{
			Date:             r.PaymentDate,
			Amount:           r.Amount,
			Method:           r.Method,
			RemainingBalance: &remaining,
		})
		summary.LastActivity = latest(summary.LastActivity, r.PaymentDate)
	}

	summary.TotalOutstanding = owed.Sub(summary.TotalRepaid)
	summary.CreditScore = scorer.Score(loans, repayments)

	return &CreditReport{
		Borrower: BorrowerInfo{
			ID:    b.ID,
			Name:  b.DisplayName(),
			Email: b.Email,
			Phone: b.Phone,
		},
		Summary:     summary,
		Loans:       loanEntries,
		Repayments:  repaymentEntries,
		GeneratedAt: generatedAt,
	}
}

func latest(current *time.Time, t time.Time) *time.Time {
	if t.IsZero() {
		return current
	}
	if current == nil || t.After(*current) {
		return &t
	}
	return current
}
