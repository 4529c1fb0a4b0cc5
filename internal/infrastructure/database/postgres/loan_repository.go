package postgres

import (
	"context"
	"credit-report-engine/internal/domain/loan"
	"log/slog"
	"time"
)

const findLoansByBorrowerSQL = `
        SELECT id, borrower_id, amount, interest_rate, COALESCE(purpose, ''), status, COALESCE(repayment_status, ''), created_at, updated_at
        FROM loans
        WHERE borrower_id = $1
        ORDER BY created_at ASC, id ASC`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) FindByBorrower(ctx context.Context, borrowerID string) (loans []loan.Loan, err error) {
	start := time.Now()
	defer func() { observe("FindLoansByBorrower", start, err) }()

	rows, err := r.db.Query(ctx, findLoansByBorrowerSQL, borrowerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans", "borrower_id", borrowerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	loans = make([]loan.Loan, 0)
	for rows.Next() {
		var (
			l               loan.Loan
			status          string
			repaymentStatus string
		)
		if err = rows.Scan(
			&l.ID, &l.BorrowerID, &l.Amount, &l.InterestRate, &l.Purpose,
			&status, &repaymentStatus, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "borrower_id", borrowerID, "error", err)
			return nil, translateDBError(err, r.logger)
		}

		l.Status = loan.ParseStatus(status)
		l.RepaymentStatus = loan.ParseRepaymentStatus(repaymentStatus)
		loans = append(loans, l)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "borrower_id", borrowerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.DebugContext(ctx, "Loans loaded", "borrower_id", borrowerID, "count", len(loans))
	return loans, nil
}
