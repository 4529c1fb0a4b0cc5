package repayment

import (
	"context"
)

type Repository interface {
	// FindByBorrower returns the borrower's repayments ordered by payment date, oldest first.
	FindByBorrower(ctx context.Context, borrowerID string) ([]Repayment, error)
}
