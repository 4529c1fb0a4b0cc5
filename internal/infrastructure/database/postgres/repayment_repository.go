package postgres

import (
	"context"
	"credit-report-engine/internal/domain/repayment"
	"log/slog"
	"time"
)

const findRepaymentsByBorrowerSQL = `
        SELECT id, borrower_id, loan_id, payment_amount, payment_date, due_date, COALESCE(payment_method, ''), created_at
        FROM repayments
        WHERE borrower_id = $1
        ORDER BY payment_date ASC, created_at ASC, id ASC`

type RepaymentRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ repayment.Repository = (*RepaymentRepository)(nil)

func NewRepaymentRepository(db DBPool, logger *slog.Logger) *RepaymentRepository {
	return &RepaymentRepository{db: db, logger: logger.With("component", "RepaymentRepository")}
}

func (r *RepaymentRepository) FindByBorrower(ctx context.Context, borrowerID string) (repayments []repayment.Repayment, err error) {
	start := time.Now()
	defer func() { observe("FindRepaymentsByBorrower", start, err) }()

	rows, err := r.db.Query(ctx, findRepaymentsByBorrowerSQL, borrowerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query repayments", "borrower_id", borrowerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	repayments = make([]repayment.Repayment, 0)
	for rows.Next() {
		var (
			p      repayment.Repayment
			method string
		)
		if err = rows.Scan(
			&p.ID, &p.BorrowerID, &p.LoanID, &p.Amount, &p.PaymentDate,
			&p.DueDate, &method, &p.CreatedAt,
		); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan repayment row", "borrower_id", borrowerID, "error", err)
			return nil, translateDBError(err, r.logger)
		}
		p.Method = repayment.ParseMethod(method)
		repayments = append(repayments, p)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating repayment rows", "borrower_id", borrowerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.DebugContext(ctx, "Repayments loaded", "borrower_id", borrowerID, "count", len(repayments))
	return repayments, nil
}
