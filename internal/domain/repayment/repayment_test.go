package repayment_test

import (
	"credit-report-engine/internal/domain/repayment"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMethod(t *testing.T) {
	tests := map[string]repayment.Method{
		"cash":          repayment.MethodCash,
		"Transfer":      repayment.MethodTransfer,
		"CHEQUE":        repayment.MethodCheque,
		"mobile_money":  repayment.MethodMobileMoney,
		"mobile-money":  repayment.MethodMobileMoney,
		"Bank Transfer": repayment.MethodBankTransfer,
		" Crypto ":      repayment.Method("Crypto"),
	}
	for input, want := range tests {
		assert.Equal(t, want, repayment.ParseMethod(input), "input %q", input)
	}
}

func TestRepayment_PaidBy(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("no due date counts as on time", func(t *testing.T) {
		r := &repayment.Repayment{PaymentDate: due.AddDate(1, 0, 0)}
		assert.True(t, r.PaidBy())
	})

	t.Run("same day later hour is on time", func(t *testing.T) {
		r := &repayment.Repayment{PaymentDate: due.Add(17 * time.Hour), DueDate: &due}
		assert.True(t, r.PaidBy())
	})

	t.Run("early payment is on time", func(t *testing.T) {
		r := &repayment.Repayment{PaymentDate: due.AddDate(0, 0, -3), DueDate: &due}
		assert.True(t, r.PaidBy())
	})

	t.Run("payment after due day is late", func(t *testing.T) {
		r := &repayment.Repayment{PaymentDate: due.AddDate(0, 0, 1), DueDate: &due}
		assert.False(t, r.PaidBy())
	})
}
