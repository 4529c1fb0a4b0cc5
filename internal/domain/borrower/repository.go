package borrower

import (
	"context"
)

type Repository interface {
	// FindByID returns apperrors.ErrNotFound when no borrower has the given id.
	FindByID(ctx context.Context, borrowerID string) (*Borrower, error)
}
