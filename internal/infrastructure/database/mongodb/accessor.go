package mongodb

import (
	"context"
	"credit-report-engine/internal/domain/borrower"
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"credit-report-engine/internal/domain/report"
	"credit-report-engine/internal/infrastructure/monitoring"
	"credit-report-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	borrowersCollection  = "borrowers"
	loansCollection      = "loans"
	repaymentsCollection = "repayments"
)

// Accessor reads borrower, loan and repayment documents and maps them onto
// the domain model.
type Accessor struct {
	db     *mongo.Database
	logger *slog.Logger
}

var _ report.DataAccessor = (*Accessor)(nil)

func NewAccessor(db *mongo.Database, logger *slog.Logger) *Accessor {
	return &Accessor{db: db, logger: logger.With("component", "MongoAccessor")}
}

func (a *Accessor) FindBorrowerByID(ctx context.Context, borrowerID string) (b *borrower.Borrower, err error) {
	start := time.Now()
	defer func() { observe("FindBorrowerByID", start, err) }()

	oid, err := primitive.ObjectIDFromHex(borrowerID)
	if err != nil {
		a.logger.WarnContext(ctx, "Borrower id is not an ObjectID", "borrowerID", borrowerID)
		return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
	}

	var doc borrowerDocument
	err = a.db.Collection(borrowersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			a.logger.WarnContext(ctx, "Borrower not found", "borrowerID", borrowerID)
			return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
		}
		a.logger.ErrorContext(ctx, "Failed to find borrower", "borrowerID", borrowerID, "error", err)
		return nil, apperrors.WrapStorageError(err, "failed to find borrower "+borrowerID)
	}
	return doc.toDomain(), nil
}

func (a *Accessor) FindLoansByBorrower(ctx context.Context, borrowerID string) (loans []loan.Loan, err error) {
	start := time.Now()
	defer func() { observe("FindLoansByBorrower", start, err) }()

	oid, err := primitive.ObjectIDFromHex(borrowerID)
	if err != nil {
		return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
	}

	var docs []loanDocument
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if err = a.findAll(ctx, loansCollection, bson.M{"borrower": oid}, opts, &docs); err != nil {
		return nil, err
	}

	loans = make([]loan.Loan, 0, len(docs))
	for i := range docs {
		l, mapErr := docs[i].toDomain()
		if mapErr != nil {
			a.logger.ErrorContext(ctx, "Malformed loan document", "borrowerID", borrowerID, "error", mapErr)
			err = apperrors.WrapStorageError(mapErr, "malformed loan document")
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, nil
}

func (a *Accessor) FindRepaymentsByBorrower(ctx context.Context, borrowerID string) (repayments []repayment.Repayment, err error) {
	start := time.Now()
	defer func() { observe("FindRepaymentsByBorrower", start, err) }()

	oid, err := primitive.ObjectIDFromHex(borrowerID)
	if err != nil {
		return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
	}

	var docs []repaymentDocument
	opts := options.Find().SetSort(bson.D{{Key: "paymentDate", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if err = a.findAll(ctx, repaymentsCollection, bson.M{"borrower": oid}, opts, &docs); err != nil {
		return nil, err
	}

	repayments = make([]repayment.Repayment, 0, len(docs))
	for i := range docs {
		p, mapErr := docs[i].toDomain()
		if mapErr != nil {
			a.logger.ErrorContext(ctx, "Malformed repayment document", "borrowerID", borrowerID, "error", mapErr)
			err = apperrors.WrapStorageError(mapErr, "malformed repayment document")
			return nil, err
		}
		repayments = append(repayments, p)
	}
	return repayments, nil
}

func (a *Accessor) findAll(ctx context.Context, collection string, filter any, opts *options.FindOptions, out any) error {
	cursor, err := a.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query collection", "collection", collection, "error", err)
		return apperrors.WrapStorageError(err, "failed to query "+collection)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		a.logger.ErrorContext(ctx, "Failed to decode documents", "collection", collection, "error", err)
		return apperrors.WrapStorageError(err, "failed to decode "+collection)
	}
	return nil
}

func observe(queryName string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery(queryName, status, time.Since(start))
}
