package report

import (
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"credit-report-engine/internal/pkg/apperrors"
	"fmt"
	"strings"
)

const (
	BaseScore = 650
	MinScore  = 300
	MaxScore  = 850

	onTimePaymentBonus = 5
	latePaymentPenalty = 10
	activeLoanPenalty  = 3
)

const (
	ScoreModelLegacy  = "legacy"
	ScoreModelDueDate = "due_date"
)

// OnTimePredicate decides whether a single repayment counts as paid on time.
type OnTimePredicate func(r *repayment.Repayment) bool

type ScoreModel struct {
	name   string
	onTime OnTimePredicate
}

// LegacyScoreModel treats every repayment as on time, which is how scores
// have always been computed for existing borrowers.
func LegacyScoreModel() ScoreModel {
	return ScoreModel{
		name:   ScoreModelLegacy,
		onTime: func(*repayment.Repayment) bool { return true },
	}
}

// DueDateScoreModel counts a repayment as late when it was made after its due date.
func DueDateScoreModel() ScoreModel {
	return ScoreModel{
		name:   ScoreModelDueDate,
		onTime: (*repayment.Repayment).PaidBy,
	}
}

func ScoreModelByName(name string) (ScoreModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScoreModelLegacy:
		return LegacyScoreModel(), nil
	case ScoreModelDueDate:
		return DueDateScoreModel(), nil
	}
	return ScoreModel{}, fmt.Errorf("%w: unknown score model %q", apperrors.ErrInvalidArgument, name)
}

func (m ScoreModel) Name() string {
	return m.name
}

// Score is deterministic and always lands in [MinScore, MaxScore].
func (m ScoreModel) Score(loans []loan.Loan, repayments []repayment.Repayment) int {
	onTime := 0
	for i := range repayments {
		if m.onTime(&repayments[i]) {
			onTime++
		}
	}
	late := len(repayments) - onTime

	active := 0
	for i := range loans {
		if loans[i].IsActive() {
			active++
		}
	}

	score := BaseScore + onTimePaymentBonus*onTime - latePaymentPenalty*late - activeLoanPenalty*active
	return clamp(score, MinScore, MaxScore)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
