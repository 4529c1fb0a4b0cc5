package report

import (
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"time"

	"github.com/shopspring/decimal"
)

type BorrowerInfo struct {
	ID    string
	Name  string
	Email string
	Phone string
}

type Summary struct {
	TotalLoans           int
	TotalBorrowed        decimal.Decimal
	TotalInterestAccrued decimal.Decimal
	TotalRepaid          decimal.Decimal
	// TotalOutstanding is borrowed + interest - repaid and goes negative on overpayment.
	TotalOutstanding decimal.Decimal
	CreditScore      int
	LastActivity     *time.Time
}

type LoanSummaryEntry struct {
	LoanID               string
	Amount               decimal.Decimal
	InterestRate         decimal.Decimal
	Purpose              string
	Status               loan.Status
	RepaymentStatus      loan.RepaymentStatus
	TotalRepaymentAmount decimal.Decimal
}

type RepaymentEntry struct {
	Date   time.Time
	Amount decimal.Decimal
	Method repayment.Method
	// RemainingBalance is the running balance after this payment, nil when not tracked.
	RemainingBalance *decimal.Decimal
}

// CreditReport is a point-in-time view of a borrower's credit history.
// It is built fresh for every request and must not be mutated once returned.
type CreditReport struct {
	Borrower    BorrowerInfo
	Summary     Summary
	Loans       []LoanSummaryEntry
	Repayments  []RepaymentEntry
	GeneratedAt time.Time
}

func (r *CreditReport) HasOutstandingBalance() bool {
	return r.Summary.TotalOutstanding.IsPositive()
}

// ScoreBand is the qualitative label used in the report narrative.
func (r *CreditReport) ScoreBand() string {
	switch score := r.Summary.CreditScore; {
	case score > 700:
		return "good"
	case score > 600:
		return "fair"
	default:
		return "poor"
	}
}
