package mongodb

import (
	"context"
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"credit-report-engine/internal/pkg/apperrors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccessor_FindBorrowerByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	oid := primitive.NewObjectID()
	created := time.Date(2023, 9, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lending.borrowers", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Neo Ramaili"},
			{Key: "email", Value: "neo@example.com"},
			{Key: "phone", Value: "+266 6300 1111"},
			{Key: "createdAt", Value: created},
		}))

		b, err := NewAccessor(mt.DB, logger).FindBorrowerByID(ctx, oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), b.ID)
		assert.Equal(mt, "Neo Ramaili", b.Name)
		assert.Equal(mt, "+266 6300 1111", b.Phone)
		assert.True(mt, created.Equal(b.CreatedAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lending.borrowers", mtest.FirstBatch))

		_, err := NewAccessor(mt.DB, logger).FindBorrowerByID(ctx, oid.Hex())
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		_, err := NewAccessor(mt.DB, logger).FindBorrowerByID(ctx, "not-an-object-id")
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted at shutdown",
			Name:    "InterruptedAtShutdown",
		}))

		_, err := NewAccessor(mt.DB, logger).FindBorrowerByID(ctx, oid.Hex())
		assert.ErrorIs(mt, err, apperrors.ErrStorage)
		assert.NotErrorIs(mt, err, apperrors.ErrNotFound)
	})
}

func TestAccessor_FindLoansByBorrower(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	borrowerID := primitive.NewObjectID()
	created := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	mt.Run("maps numeric representations", func(mt *mtest.T) {
		rate, err := primitive.ParseDecimal128("7.5")
		require.NoError(mt, err)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lending.loans", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: first},
				{Key: "borrower", Value: borrowerID},
				{Key: "amount", Value: 1000.0},
				{Key: "interestRate", Value: int32(5)},
				{Key: "purpose", Value: "School fees, supplies"},
				{Key: "status", Value: "Approved"},
				{Key: "repaymentStatus", Value: "In Progress"},
				{Key: "createdAt", Value: created},
			},
			bson.D{
				{Key: "_id", Value: second},
				{Key: "borrower", Value: borrowerID},
				{Key: "amount", Value: int64(2000)},
				{Key: "interestRate", Value: rate},
				{Key: "status", Value: "Pending"},
				{Key: "createdAt", Value: created.AddDate(0, 1, 0)},
			},
		))

		loans, err := NewAccessor(mt.DB, logger).FindLoansByBorrower(ctx, borrowerID.Hex())
		require.NoError(mt, err)
		require.Len(mt, loans, 2)

		assert.Equal(mt, first.Hex(), loans[0].ID)
		assert.Equal(mt, borrowerID.Hex(), loans[0].BorrowerID)
		assert.True(mt, dec("1000").Equal(loans[0].Amount))
		assert.True(mt, dec("5").Equal(loans[0].InterestRate))
		assert.Equal(mt, loan.RepaymentInProgress, loans[0].RepaymentStatus)

		assert.True(mt, dec("2000").Equal(loans[1].Amount))
		assert.True(mt, dec("7.5").Equal(loans[1].InterestRate))
		assert.Equal(mt, loan.StatusPending, loans[1].Status)
		assert.Equal(mt, loan.RepaymentNotStarted, loans[1].RepaymentStatus)
	})

	mt.Run("unknown status is kept verbatim", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lending.loans", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "borrower", Value: borrowerID},
			{Key: "amount", Value: 300.0},
			{Key: "interestRate", Value: 4.0},
			{Key: "status", Value: "Overdue"},
			{Key: "repaymentStatus", Value: "In Progress"},
			{Key: "createdAt", Value: created},
		}))

		loans, err := NewAccessor(mt.DB, logger).FindLoansByBorrower(ctx, borrowerID.Hex())
		require.NoError(mt, err)
		require.Len(mt, loans, 1)
		assert.Equal(mt, loan.Status("Overdue"), loans[0].Status)
		assert.False(mt, loans[0].IsActive())
	})

	mt.Run("loan without amount is a storage error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lending.loans", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "borrower", Value: borrowerID},
			{Key: "status", Value: "Approved"},
		}))

		_, err := NewAccessor(mt.DB, logger).FindLoansByBorrower(ctx, borrowerID.Hex())
		assert.ErrorIs(mt, err, apperrors.ErrStorage)
		assert.NotErrorIs(mt, err, apperrors.ErrInvalidArgument)
	})

	mt.Run("query error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query", Name: "BadValue"}))

		_, err := NewAccessor(mt.DB, logger).FindLoansByBorrower(ctx, borrowerID.Hex())
		assert.ErrorIs(mt, err, apperrors.ErrStorage)
	})
}

func TestAccessor_FindRepaymentsByBorrower(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	borrowerID := primitive.NewObjectID()
	paid := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mt.Run("normalizes legacy field names", func(mt *mtest.T) {
		loanID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lending.repayments", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "borrower", Value: borrowerID},
				{Key: "loan", Value: loanID},
				{Key: "paymentAmount", Value: 500.0},
				{Key: "amount", Value: 1.0},
				{Key: "paymentDate", Value: paid},
				{Key: "dueDate", Value: paid.AddDate(0, 0, -1)},
				{Key: "paymentMethod", Value: "Mobile Money"},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "borrower", Value: borrowerID},
				{Key: "amount", Value: "125.50"},
				{Key: "paymentDate", Value: paid.AddDate(0, 1, 0)},
				{Key: "method", Value: "cash"},
			},
		))

		repayments, err := NewAccessor(mt.DB, logger).FindRepaymentsByBorrower(ctx, borrowerID.Hex())
		require.NoError(mt, err)
		require.Len(mt, repayments, 2)

		assert.True(mt, dec("500").Equal(repayments[0].Amount), "paymentAmount takes precedence")
		require.NotNil(mt, repayments[0].LoanID)
		assert.Equal(mt, loanID.Hex(), *repayments[0].LoanID)
		require.NotNil(mt, repayments[0].DueDate)
		assert.False(mt, repayments[0].PaidBy())
		assert.Equal(mt, repayment.MethodMobileMoney, repayments[0].Method)

		assert.True(mt, dec("125.50").Equal(repayments[1].Amount))
		assert.Nil(mt, repayments[1].LoanID)
		assert.Nil(mt, repayments[1].DueDate)
		assert.Equal(mt, repayment.MethodCash, repayments[1].Method)
	})

	mt.Run("no repayments", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lending.repayments", mtest.FirstBatch))

		repayments, err := NewAccessor(mt.DB, logger).FindRepaymentsByBorrower(ctx, borrowerID.Hex())
		require.NoError(mt, err)
		assert.NotNil(mt, repayments)
		assert.Empty(mt, repayments)
	})
}

func TestToDecimal(t *testing.T) {
	d128, err := primitive.ParseDecimal128("1234.5678")
	require.NoError(t, err)

	raw, err := bson.Marshal(bson.D{
		{Key: "double", Value: 12.5},
		{Key: "int32", Value: int32(7)},
		{Key: "int64", Value: int64(9000000000)},
		{Key: "decimal", Value: d128},
		{Key: "string", Value: "42.10"},
		{Key: "null", Value: nil},
		{Key: "bool", Value: true},
		{Key: "badString", Value: "twelve"},
	})
	require.NoError(t, err)
	doc := bson.Raw(raw)

	for key, want := range map[string]string{
		"double":  "12.5",
		"int32":   "7",
		"int64":   "9000000000",
		"decimal": "1234.5678",
		"string":  "42.10",
	} {
		got, ok, err := toDecimal(doc.Lookup(key))
		require.NoError(t, err, key)
		assert.True(t, ok, key)
		assert.True(t, dec(want).Equal(got), "%s: %s", key, got)
	}

	_, ok, err := toDecimal(doc.Lookup("null"))
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = toDecimal(doc.Lookup("missing"))
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = toDecimal(doc.Lookup("bool"))
	assert.Error(t, err)

	_, _, err = toDecimal(doc.Lookup("badString"))
	assert.Error(t, err)
}
