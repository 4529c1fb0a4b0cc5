package loan

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type RepaymentStatus string

const (
	RepaymentNotStarted RepaymentStatus = "Not Started"
	RepaymentInProgress RepaymentStatus = "In Progress"
	RepaymentCompleted  RepaymentStatus = "Completed"
)

var hundred = decimal.NewFromInt(100)

type Loan struct {
	ID              string
	BorrowerID      string
	Amount          decimal.Decimal
	InterestRate    decimal.Decimal // annual simple rate, in percent
	Purpose         string
	Status          Status
	RepaymentStatus RepaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Interest is the simple interest accrued on the principal.
func (l *Loan) Interest() decimal.Decimal {
	return l.Amount.Mul(l.InterestRate).Div(hundred)
}

func (l *Loan) TotalRepaymentAmount() decimal.Decimal {
	return l.Amount.Add(l.Interest())
}

// IsActive reports whether the loan was approved and is still being repaid.
func (l *Loan) IsActive() bool {
	return l.Status == StatusApproved && l.RepaymentStatus != RepaymentCompleted
}

// ParseStatus maps loosely formatted status names onto the known set.
// Unrecognised values such as "Overdue" are kept verbatim so they still
// show up on the report.
func ParseStatus(s string) Status {
	switch normalize(s) {
	case "pending":
		return StatusPending
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	}
	return Status(strings.TrimSpace(s))
}

// ParseRepaymentStatus treats a blank value as not started and keeps
// unrecognised values verbatim.
func ParseRepaymentStatus(s string) RepaymentStatus {
	switch normalize(s) {
	case "not started", "":
		return RepaymentNotStarted
	case "in progress":
		return RepaymentInProgress
	case "completed":
		return RepaymentCompleted
	}
	return RepaymentStatus(strings.TrimSpace(s))
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}
