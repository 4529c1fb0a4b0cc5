package mongodb

import (
	"credit-report-engine/internal/domain/borrower"
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type borrowerDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *borrowerDocument) toDomain() *borrower.Borrower {
	return &borrower.Borrower{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type loanDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	Borrower        primitive.ObjectID `bson:"borrower"`
	Amount          bson.RawValue      `bson:"amount"`
	InterestRate    bson.RawValue      `bson:"interestRate"`
	Purpose         string             `bson:"purpose"`
	Status          string             `bson:"status"`
	RepaymentStatus string             `bson:"repaymentStatus"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d *loanDocument) toDomain() (loan.Loan, error) {
	amount, ok, err := toDecimal(d.Amount)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("loan %s amount: %w", d.ID.Hex(), err)
	}
	if !ok {
		return loan.Loan{}, fmt.Errorf("loan %s has no amount", d.ID.Hex())
	}
	rate, _, err := toDecimal(d.InterestRate)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("loan %s interest rate: %w", d.ID.Hex(), err)
	}
	return loan.Loan{
		ID:              d.ID.Hex(),
		BorrowerID:      d.Borrower.Hex(),
		Amount:          amount,
		InterestRate:    rate,
		Purpose:         d.Purpose,
		Status:          loan.ParseStatus(d.Status),
		RepaymentStatus: loan.ParseRepaymentStatus(d.RepaymentStatus),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// repaymentDocument covers both shapes repayments were written with over
// time: amount/method and paymentAmount/paymentMethod.
type repaymentDocument struct {
	ID            primitive.ObjectID  `bson:"_id"`
	Borrower      primitive.ObjectID  `bson:"borrower"`
	Loan          *primitive.ObjectID `bson:"loan,omitempty"`
	PaymentAmount bson.RawValue       `bson:"paymentAmount"`
	Amount        bson.RawValue       `bson:"amount"`
	PaymentDate   time.Time           `bson:"paymentDate"`
	DueDate       *time.Time          `bson:"dueDate,omitempty"`
	PaymentMethod string              `bson:"paymentMethod"`
	Method        string              `bson:"method"`
	CreatedAt     time.Time           `bson:"createdAt"`
}

func (d *repaymentDocument) toDomain() (repayment.Repayment, error) {
	amount, ok, err := toDecimal(d.PaymentAmount)
	if err != nil {
		return repayment.Repayment{}, fmt.Errorf("repayment %s paymentAmount: %w", d.ID.Hex(), err)
	}
	if !ok {
		amount, ok, err = toDecimal(d.Amount)
		if err != nil {
			return repayment.Repayment{}, fmt.Errorf("repayment %s amount: %w", d.ID.Hex(), err)
		}
		if !ok {
			return repayment.Repayment{}, fmt.Errorf("repayment %s has no amount", d.ID.Hex())
		}
	}

	method := d.PaymentMethod
	if method == "" {
		method = d.Method
	}

	p := repayment.Repayment{
		ID:          d.ID.Hex(),
		BorrowerID:  d.Borrower.Hex(),
		Amount:      amount,
		PaymentDate: d.PaymentDate,
		DueDate:     d.DueDate,
		Method:      repayment.ParseMethod(method),
		CreatedAt:   d.CreatedAt,
	}
	if d.Loan != nil {
		id := d.Loan.Hex()
		p.LoanID = &id
	}
	return p, nil
}

// toDecimal converts a numeric BSON value. ok is false when the field is absent or null.
func toDecimal(v bson.RawValue) (d decimal.Decimal, ok bool, err error) {
	switch v.Type {
	case 0, bson.TypeNull, bson.TypeUndefined:
		return decimal.Zero, false, nil
	case bson.TypeDouble:
		return decimal.NewFromFloat(v.Double()), true, nil
	case bson.TypeInt32:
		return decimal.NewFromInt(int64(v.Int32())), true, nil
	case bson.TypeInt64:
		return decimal.NewFromInt(v.Int64()), true, nil
	case bson.TypeDecimal128:
		d, err = decimal.NewFromString(v.Decimal128().String())
		return d, err == nil, err
	case bson.TypeString:
		d, err = decimal.NewFromString(v.StringValue())
		return d, err == nil, err
	}
	return decimal.Zero, false, fmt.Errorf("unsupported numeric type %s", v.Type)
}
