package loan

import (
	"context"
)

type Repository interface {
	// FindByBorrower returns the borrower's loans ordered by creation time, oldest first.
	FindByBorrower(ctx context.Context, borrowerID string) ([]Loan, error)
}
