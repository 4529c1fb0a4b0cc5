package postgres

import (
	"context"
	"credit-report-engine/internal/domain/borrower"
	"credit-report-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const findBorrowerByIDSQL = `
        SELECT id, name, email, COALESCE(phone, ''), created_at, updated_at
        FROM borrowers
        WHERE id = $1`

type BorrowerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ borrower.Repository = (*BorrowerRepository)(nil)

func NewBorrowerRepository(db DBPool, logger *slog.Logger) *BorrowerRepository {
	if db == nil {
		panic("DBPool cannot be nil for BorrowerRepository")
	}
	return &BorrowerRepository{
		db:     db,
		logger: logger.With("component", "BorrowerRepository"),
	}
}

func (r *BorrowerRepository) FindByID(ctx context.Context, borrowerID string) (*borrower.Borrower, error) {
	start := time.Now()

	var b borrower.Borrower
	err := r.db.QueryRow(ctx, findBorrowerByIDSQL, borrowerID).Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	observe("FindBorrowerByID", start, err)

	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.WarnContext(ctx, "Borrower not found", slog.String("borrowerID", borrowerID))
			return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
		}
		r.logger.ErrorContext(ctx, "Failed to query borrower by ID", slog.String("borrowerID", borrowerID), slog.Any("error", err))
		return nil, translated
	}
	return &b, nil
}
