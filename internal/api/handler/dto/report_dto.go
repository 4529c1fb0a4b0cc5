package dto

import (
	"credit-report-engine/internal/domain/report"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type BorrowerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// SummaryResponse carries money as fixed two-decimal strings.
type SummaryResponse struct {
	TotalLoans           int        `json:"totalLoans"`
	TotalBorrowed        string     `json:"totalBorrowed"`
	TotalInterestAccrued string     `json:"totalInterestAccrued"`
	TotalRepaid          string     `json:"totalRepaid"`
	TotalOutstanding     string     `json:"totalOutstanding"`
	CreditScore          int        `json:"creditScore"`
	ScoreBand            string     `json:"scoreBand"`
	LastActivity         *time.Time `json:"lastActivity,omitempty"`
}

type LoanEntryResponse struct {
	LoanID               string `json:"loanId"`
	Amount               string `json:"amount"`
	InterestRate         string `json:"interestRate"`
	Purpose              string `json:"purpose"`
	Status               string `json:"status"`
	RepaymentStatus      string `json:"repaymentStatus"`
	TotalRepaymentAmount string `json:"totalRepaymentAmount"`
}

type RepaymentEntryResponse struct {
	Date             string  `json:"date"`
	Amount           string  `json:"amount"`
	Method           string  `json:"method"`
	RemainingBalance *string `json:"remainingBalance,omitempty"`
}

type CreditReportResponse struct {
	Borrower    BorrowerResponse         `json:"borrower"`
	Summary     SummaryResponse          `json:"summary"`
	Loans       []LoanEntryResponse      `json:"loans"`
	Repayments  []RepaymentEntryResponse `json:"repayments"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

func NewCreditReportResponse(r *report.CreditReport) CreditReportResponse {
	resp := CreditReportResponse{
		Borrower: BorrowerResponse{
			ID:    r.Borrower.ID,
			Name:  r.Borrower.Name,
			Email: r.Borrower.Email,
			Phone: r.Borrower.Phone,
		},
		Summary: SummaryResponse{
			TotalLoans:           r.Summary.TotalLoans,
			TotalBorrowed:        money(r.Summary.TotalBorrowed),
			TotalInterestAccrued: money(r.Summary.TotalInterestAccrued),
			TotalRepaid:          money(r.Summary.TotalRepaid),
			TotalOutstanding:     money(r.Summary.TotalOutstanding),
			CreditScore:          r.Summary.CreditScore,
			ScoreBand:            r.ScoreBand(),
			LastActivity:         r.Summary.LastActivity,
		},
		Loans:       make([]LoanEntryResponse, 0, len(r.Loans)),
		Repayments:  make([]RepaymentEntryResponse, 0, len(r.Repayments)),
		GeneratedAt: r.GeneratedAt,
	}

	for _, l := range r.Loans {
		resp.Loans = append(resp.Loans, LoanEntryResponse{
			LoanID:               l.LoanID,
			Amount:               money(l.Amount),
			InterestRate:         l.InterestRate.String(),
			Purpose:              l.Purpose,
			Status:               string(l.Status),
			RepaymentStatus:      string(l.RepaymentStatus),
			TotalRepaymentAmount: money(l.TotalRepaymentAmount),
		})
	}

	for _, p := range r.Repayments {
		entry := RepaymentEntryResponse{
			Date:   p.Date.Format(dateLayout),
			Amount: money(p.Amount),
			Method: string(p.Method),
		}
		if p.RemainingBalance != nil {
			balance := money(*p.RemainingBalance)
			entry.RemainingBalance = &balance
		}
		resp.Repayments = append(resp.Repayments, entry)
	}

	return resp
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
