package report

import (
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"credit-report-engine/internal/pkg/apperrors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeLoans(n int) []loan.Loan {
	loans := make([]loan.Loan, n)
	for i := range loans {
		loans[i] = loan.Loan{Status: loan.StatusApproved, RepaymentStatus: loan.RepaymentInProgress}
	}
	return loans
}

func payments(n int) []repayment.Repayment {
	return make([]repayment.Repayment, n)
}

func TestLegacyScoreModel_Score(t *testing.T) {
	model := LegacyScoreModel()

	tests := []struct {
		name       string
		loans      []loan.Loan
		repayments []repayment.Repayment
		want       int
	}{
		{"empty history", nil, nil, 650},
		{"one repayment", nil, payments(1), 655},
		{"active loans only", activeLoans(2), nil, 644},
		{"mixed", activeLoans(4), payments(10), 688},
		{"clamped high", nil, payments(100), MaxScore},
		{"clamped low", activeLoans(200), nil, MinScore},
		{
			name: "completed and pending loans are not active",
			loans: []loan.Loan{
				{Status: loan.StatusApproved, RepaymentStatus: loan.RepaymentCompleted},
				{Status: loan.StatusPending, RepaymentStatus: loan.RepaymentNotStarted},
				{Status: loan.StatusRejected, RepaymentStatus: loan.RepaymentNotStarted},
			},
			want: 650,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Score(tt.loans, tt.repayments))
		})
	}
}

func TestLegacyScoreModel_IgnoresDueDates(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	late := []repayment.Repayment{{PaymentDate: due.AddDate(0, 1, 0), DueDate: &due}}

	assert.Equal(t, 655, LegacyScoreModel().Score(nil, late))
}

func TestLegacyScoreModel_PinnedFormula(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	model := LegacyScoreModel()

	statuses := []loan.Status{loan.StatusPending, loan.StatusApproved, loan.StatusRejected}
	repaymentStatuses := []loan.RepaymentStatus{loan.RepaymentNotStarted, loan.RepaymentInProgress, loan.RepaymentCompleted}

	for range 500 {
		loans := make([]loan.Loan, rng.IntN(120))
		active := 0
		for i := range loans {
			loans[i] = loan.Loan{
				Status:          statuses[rng.IntN(len(statuses))],
				RepaymentStatus: repaymentStatuses[rng.IntN(len(repaymentStatuses))],
			}
			if loans[i].IsActive() {
				active++
			}
		}
		repayments := payments(rng.IntN(60))

		want := clamp(650+5*len(repayments)-3*active, 300, 850)
		got := model.Score(loans, repayments)

		require.Equal(t, want, got)
		require.GreaterOrEqual(t, got, MinScore)
		require.LessOrEqual(t, got, MaxScore)
	}
}

func TestDueDateScoreModel_Score(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repayments := []repayment.Repayment{
		{PaymentDate: due.Add(-48 * time.Hour), DueDate: &due},
		{PaymentDate: due.Add(10 * time.Hour), DueDate: &due},
		{PaymentDate: due.AddDate(0, 0, 5), DueDate: &due},
		{PaymentDate: due.AddDate(0, 0, 5)},
	}

	// three on time (same-day payment counts), one late
	assert.Equal(t, 650+15-10, DueDateScoreModel().Score(nil, repayments))
}

func TestScoreModelByName(t *testing.T) {
	for name, want := range map[string]string{
		"":         ScoreModelLegacy,
		"legacy":   ScoreModelLegacy,
		" LEGACY ": ScoreModelLegacy,
		"due_date": ScoreModelDueDate,
		"Due_Date": ScoreModelDueDate,
	} {
		model, err := ScoreModelByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, model.Name())
	}

	_, err := ScoreModelByName("fico")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
