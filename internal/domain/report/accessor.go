package report

import (
	"context"
	"credit-report-engine/internal/domain/borrower"
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
)

// DataAccessor is the read-only port the aggregator pulls borrower data through.
// Implementations return errors wrapping apperrors.ErrNotFound or apperrors.ErrStorage.
type DataAccessor interface {
	FindBorrowerByID(ctx context.Context, borrowerID string) (*borrower.Borrower, error)
	FindLoansByBorrower(ctx context.Context, borrowerID string) ([]loan.Loan, error)
	FindRepaymentsByBorrower(ctx context.Context, borrowerID string) ([]repayment.Repayment, error)
}

type repositoryAccessor struct {
	borrowers  borrower.Repository
	loans      loan.Repository
	repayments repayment.Repository
}

// NewRepositoryAccessor composes per-aggregate repositories into a DataAccessor.
func NewRepositoryAccessor(borrowers borrower.Repository, loans loan.Repository, repayments repayment.Repository) DataAccessor {
	return &repositoryAccessor{borrowers: borrowers, loans: loans, repayments: repayments}
}

func (a *repositoryAccessor) FindBorrowerByID(ctx context.Context, borrowerID string) (*borrower.Borrower, error) {
	return a.borrowers.FindByID(ctx, borrowerID)
}

func (a *repositoryAccessor) FindLoansByBorrower(ctx context.Context, borrowerID string) ([]loan.Loan, error) {
	return a.loans.FindByBorrower(ctx, borrowerID)
}

func (a *repositoryAccessor) FindRepaymentsByBorrower(ctx context.Context, borrowerID string) ([]repayment.Repayment, error) {
	return a.repayments.FindByBorrower(ctx, borrowerID)
}
