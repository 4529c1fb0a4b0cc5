package render

import (
	"context"
	"credit-report-engine/internal/domain/report"
	"credit-report-engine/internal/pkg/apperrors"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
)

const (
	SectionLoanDetails      = "Loan Details"
	SectionRepaymentHistory = "Repayment History"

	dateLayout       = "2006-01-02"
	notAvailableText = "N/A"
)

var (
	loanCSVHeader = []string{
		"Loan ID", "Amount", "Interest Rate", "Purpose", "Status",
		"Repayment Status", "Total Repayment Amount", "Borrower Name", "Borrower Email",
	}
	repaymentCSVHeader = []string{"Date", "Amount", "Method", "Remaining Balance", "Borrower Name"}
)

type CSVRenderer struct {
	logger *slog.Logger
}

func NewCSVRenderer(logger *slog.Logger) *CSVRenderer {
	return &CSVRenderer{logger: logger.With("component", "CSVRenderer")}
}

func (c *CSVRenderer) Format() Format {
	return FormatCSV
}

// Render writes the loan and repayment sections to path with its extension forced to .csv.
func (c *CSVRenderer) Render(ctx context.Context, r *report.CreditReport, path string) (string, error) {
	if err := checkRenderable(ctx, r); err != nil {
		return "", err
	}

	path = withExtension(path, FormatCSV)
	if err := writeAtomic(path, func(w io.Writer) error { return writeCSV(w, r) }); err != nil {
		c.logger.ErrorContext(ctx, "Failed to write CSV report", "path", path, "error", err)
		return "", err
	}

	c.logger.DebugContext(ctx, "CSV report written", "path", path, "borrowerID", r.Borrower.ID)
	return path, nil
}

func writeCSV(w io.Writer, r *report.CreditReport) error {
	cw := csv.NewWriter(w)

	records := make([][]string, 0, len(r.Loans)+len(r.Repayments)+5)
	records = append(records, []string{SectionLoanDetails}, loanCSVHeader)
	for _, l := range r.Loans {
		records = append(records, []string{
			l.LoanID,
			l.Amount.StringFixed(2),
			l.InterestRate.String(),
			l.Purpose,
			string(l.Status),
			string(l.RepaymentStatus),
			l.TotalRepaymentAmount.StringFixed(2),
			r.Borrower.Name,
			r.Borrower.Email,
		})
	}

	records = append(records, []string{}, []string{SectionRepaymentHistory}, repaymentCSVHeader)
	for _, p := range r.Repayments {
		remaining := notAvailableText
		if p.RemainingBalance != nil {
			remaining = p.RemainingBalance.StringFixed(2)
		}
		records = append(records, []string{
			p.Date.Format(dateLayout),
			p.Amount.StringFixed(2),
			string(p.Method),
			remaining,
			r.Borrower.Name,
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("%w: write csv: %w", apperrors.ErrIO, err)
	}
	return nil
}
