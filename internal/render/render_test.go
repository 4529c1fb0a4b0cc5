package render

import (
	"credit-report-engine/internal/domain/loan"
	"credit-report-engine/internal/domain/repayment"
	"credit-report-engine/internal/domain/report"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

var generatedAt = time.Date(2024, 6, 30, 14, 5, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReport(loans, repayments int) *report.CreditReport {
	r := &report.CreditReport{
		Borrower: report.BorrowerInfo{
			ID:    "665f1c2e9b1d4a0012345678",
			Name:  "Palesa Nthati",
			Email: "palesa@example.com",
			Phone: "+266 5800 0000",
		},
		GeneratedAt: generatedAt,
		Loans:       []report.LoanSummaryEntry{},
		Repayments:  []report.RepaymentEntry{},
	}

	owed := decimal.Zero
	for i := range loans {
		amount := decimal.NewFromInt(int64(1000 * (i + 1)))
		rate := decimal.NewFromInt(int64(5 + i%10))
		total := amount.Add(amount.Mul(rate).Div(decimal.NewFromInt(100)))
		owed = owed.Add(total)
		r.Loans = append(r.Loans, report.LoanSummaryEntry{
			LoanID:               fmt.Sprintf("loan-%06d", i),
			Amount:               amount,
			InterestRate:         rate,
			Purpose:              fmt.Sprintf("Working capital for the spring planting season, batch %d", i),
			Status:               loan.StatusApproved,
			RepaymentStatus:      loan.RepaymentInProgress,
			TotalRepaymentAmount: total,
		})
	}

	balance := owed
	repaid := decimal.Zero
	for i := range repayments {
		amount := decimal.RequireFromString("250.75")
		balance = balance.Sub(amount)
		repaid = repaid.Add(amount)
		remaining := balance
		r.Repayments = append(r.Repayments, report.RepaymentEntry{
			Date:             generatedAt.AddDate(0, 0, -repayments+i),
			Amount:           amount,
			Method:           repayment.MethodMobileMoney,
			RemainingBalance: &remaining,
		})
	}

	r.Summary = report.Summary{
		TotalLoans:       loans,
		TotalRepaid:      repaid,
		TotalOutstanding: owed.Sub(repaid),
		CreditScore:      650,
	}
	return r
}
