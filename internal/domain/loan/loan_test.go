package loan_test

import (
	"credit-report-engine/internal/domain/loan"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoan_TotalRepaymentAmount(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		rate          string
		wantInterest  string
		wantRepayment string
	}{
		{"five percent", "1000", "5", "50", "1050"},
		{"ten percent", "2000", "10", "200", "2200"},
		{"zero rate", "750.50", "0", "0", "750.5"},
		{"fractional rate", "1234.56", "7.5", "92.592", "1327.152"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &loan.Loan{
				Amount:       decimal.RequireFromString(tt.amount),
				InterestRate: decimal.RequireFromString(tt.rate),
			}
			assert.True(t, decimal.RequireFromString(tt.wantInterest).Equal(l.Interest()), "interest %s", l.Interest())
			assert.True(t, decimal.RequireFromString(tt.wantRepayment).Equal(l.TotalRepaymentAmount()), "total %s", l.TotalRepaymentAmount())
			assert.True(t, l.TotalRepaymentAmount().GreaterThanOrEqual(l.Amount), "total repayment must not be below principal")
		})
	}
}

func TestLoan_IsActive(t *testing.T) {
	tests := []struct {
		status          loan.Status
		repaymentStatus loan.RepaymentStatus
		want            bool
	}{
		{loan.StatusApproved, loan.RepaymentNotStarted, true},
		{loan.StatusApproved, loan.RepaymentInProgress, true},
		{loan.StatusApproved, loan.RepaymentCompleted, false},
		{loan.StatusPending, loan.RepaymentNotStarted, false},
		{loan.StatusRejected, loan.RepaymentInProgress, false},
	}

	for _, tt := range tests {
		l := &loan.Loan{Status: tt.status, RepaymentStatus: tt.repaymentStatus}
		assert.Equal(t, tt.want, l.IsActive(), "%s/%s", tt.status, tt.repaymentStatus)
	}
}

func TestParseStatus(t *testing.T) {
	for input, want := range map[string]loan.Status{
		"Pending":    loan.StatusPending,
		"APPROVED":   loan.StatusApproved,
		" rejected ": loan.StatusRejected,
		" Overdue ":  loan.Status("Overdue"),
		"":           loan.Status(""),
	} {
		assert.Equal(t, want, loan.ParseStatus(input), "input %q", input)
	}
}

func TestParseRepaymentStatus(t *testing.T) {
	for input, want := range map[string]loan.RepaymentStatus{
		"Not Started": loan.RepaymentNotStarted,
		"not_started": loan.RepaymentNotStarted,
		"":            loan.RepaymentNotStarted,
		"in-progress": loan.RepaymentInProgress,
		"In Progress": loan.RepaymentInProgress,
		"COMPLETED":   loan.RepaymentCompleted,
		"defaulted ":  loan.RepaymentStatus("defaulted"),
	} {
		assert.Equal(t, want, loan.ParseRepaymentStatus(input), "input %q", input)
	}
}

func TestUnknownStatusIsNotActive(t *testing.T) {
	l := loan.Loan{Status: loan.ParseStatus("Overdue"), RepaymentStatus: loan.ParseRepaymentStatus("In Progress")}
	assert.False(t, l.IsActive())
}
