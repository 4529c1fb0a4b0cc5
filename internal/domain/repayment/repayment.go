package repayment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash         Method = "Cash"
	MethodTransfer     Method = "Transfer"
	MethodCheque       Method = "Cheque"
	MethodMobileMoney  Method = "Mobile Money"
	MethodBankTransfer Method = "Bank Transfer"
)

var knownMethods = []Method{MethodCash, MethodTransfer, MethodCheque, MethodMobileMoney, MethodBankTransfer}

// ParseMethod maps loosely formatted method names onto the known set.
// Unrecognised values are kept verbatim.
func ParseMethod(s string) Method {
	key := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range knownMethods {
		if strings.ToLower(string(m)) == key {
			return m
		}
	}
	return Method(strings.TrimSpace(s))
}

type Repayment struct {
	ID          string
	BorrowerID  string
	LoanID      *string
	Amount      decimal.Decimal
	PaymentDate time.Time
	DueDate     *time.Time
	Method      Method
	CreatedAt   time.Time
}

// PaidBy reports whether the payment landed on or before its due date.
// A repayment without a due date is considered on time.
func (r *Repayment) PaidBy() bool {
	if r.DueDate == nil {
		return true
	}
	return !truncateDay(r.PaymentDate).After(truncateDay(*r.DueDate))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
