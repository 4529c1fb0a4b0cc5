package render

import (
	"context"
	"credit-report-engine/internal/domain/report"
	"credit-report-engine/internal/pkg/apperrors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	pageMargin   = 15.0
	footerHeight = 22.0
	// A4 portrait width less both margins.
	pageContentWidth = 210.0 - 2*pageMargin

	loanIDDisplayLength  = 6
	purposeDisplayLength = 20

	timestampLayout = "02 Jan 2006 15:04 MST"
	statusOverdue   = "overdue"

	tableLoanDetails       = "loan_details"
	tableRepaymentHistory  = "repayment_history"
	tableBorrowerInfo      = "borrower_information"
	tableCreditSummary     = "credit_summary"
	documentCreator        = "credit-report-engine"
	maxNoticeFooterLines   = 3
	sectionHeadingFontSize = 13.0
)

// layoutStats records what was actually placed on the page stream.
type layoutStats struct {
	Pages     int
	RowsDrawn map[string]int
}

type DocumentRenderer struct {
	theme  Theme
	logo   string
	logger *slog.Logger
}

// NewDocumentRenderer probes the configured logo once. A logo that cannot be
// decoded is logged and left off the cover page.
func NewDocumentRenderer(theme Theme, logger *slog.Logger) *DocumentRenderer {
	logger = logger.With("component", "DocumentRenderer")
	r := &DocumentRenderer{theme: theme, logger: logger}

	if theme.LogoAssetPath != "" {
		probe := fpdf.New("P", "mm", "A4", "")
		probe.RegisterImageOptions(theme.LogoAssetPath, fpdf.ImageOptions{ReadDpi: true})
		if probe.Err() {
			logger.Warn("Logo asset could not be loaded, rendering without it", "path", theme.LogoAssetPath, "error", probe.Error())
		} else {
			r.logo = theme.LogoAssetPath
		}
	}
	return r
}

func (r *DocumentRenderer) Format() Format {
	return FormatPDF
}

// Render lays the report out in memory and then writes it to path with the
// extension forced to .pdf.
func (r *DocumentRenderer) Render(ctx context.Context, rep *report.CreditReport, path string) (string, error) {
	if err := checkRenderable(ctx, rep); err != nil {
		return "", err
	}

	pdf, stats, err := r.layout(rep)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to lay out credit report", "borrowerID", rep.Borrower.ID, "error", err)
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path = withExtension(path, FormatPDF)
	err = writeAtomic(path, func(w io.Writer) error {
		if err := pdf.Output(w); err != nil {
			return fmt.Errorf("%w: write document: %w", apperrors.ErrIO, err)
		}
		return nil
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to write credit report document", "path", path, "error", err)
		return "", err
	}

	r.logger.DebugContext(ctx, "Credit report document written", "path", path, "pages", stats.Pages)
	return path, nil
}

func (r *DocumentRenderer) layout(rep *report.CreditReport) (pdf *fpdf.Fpdf, stats layoutStats, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.WrapRenderError(fmt.Errorf("%v", rec), "document layout aborted")
		}
	}()

	pdf = fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, footerHeight)
	pdf.SetCellMargin(cellPadding)
	pdf.AliasNbPages("")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(rep.GeneratedAt)
	pdf.SetModificationDate(rep.GeneratedAt)
	pdf.SetTitle("Credit Report - "+rep.Borrower.Name, true)
	pdf.SetAuthor(r.theme.InstitutionName, true)
	pdf.SetSubject("Borrower credit report", false)
	pdf.SetCreator(documentCreator, false)

	pageWidth, pageHeight := pdf.GetPageSize()
	d := &document{
		pdf:       pdf,
		theme:     r.theme,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		left:      pageMargin,
		top:       pageMargin,
		width:     pageWidth - 2*pageMargin,
		bottom:    pageHeight - footerHeight,
		rowsDrawn: make(map[string]int),
	}
	pdf.SetFooterFunc(func() { r.drawFooter(d, rep) })

	r.drawCoverPage(d, rep)

	d.newPage()
	r.drawSectionHeading(d, "Borrower Information")
	d.drawTable(r.borrowerTable(rep))
	r.drawSectionHeading(d, "Credit Summary")
	d.drawTable(r.summaryTable(rep))
	r.drawSectionHeading(d, "Loan Details")
	d.drawTable(r.loanTable(rep))

	d.newPage()
	r.drawSectionHeading(d, "Repayment History")
	d.drawTable(r.repaymentTable(rep))
	r.drawSectionHeading(d, "Credit Analysis")
	r.drawAnalysis(d, rep)

	if pdf.Err() {
		return nil, layoutStats{}, apperrors.WrapRenderError(pdf.Error(), "failed to lay out credit report document")
	}
	return pdf, layoutStats{Pages: pdf.PageCount(), RowsDrawn: d.rowsDrawn}, nil
}

func (r *DocumentRenderer) drawCoverPage(d *document, rep *report.CreditReport) {
	pdf := d.pdf
	d.newPage()
	pageWidth, _ := pdf.GetPageSize()

	d.setFillColor(r.theme.PrimaryColor)
	pdf.Rect(0, 0, pageWidth, 60, "F")

	textX := d.left
	if r.logo != "" {
		pdf.ImageOptions(r.logo, d.left, 15, 0, 30, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		textX = d.left + 45
	}
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(r.theme.HeaderFont, "B", 16)
	pdf.SetXY(textX, 24)
	pdf.CellFormat(d.width-(textX-d.left), 8, d.tr(r.theme.InstitutionName), "", 1, AlignLeft, false, 0, "")

	d.setTextColor(r.theme.PrimaryColor)
	pdf.SetFont(r.theme.HeaderFont, "B", 30)
	pdf.SetXY(d.left, 100)
	pdf.CellFormat(d.width, 14, "Credit Report", "", 1, AlignCenter, false, 0, "")

	d.setTextColor(r.theme.TextColor)
	pdf.SetFont(r.theme.BodyFont, "", 16)
	pdf.SetX(d.left)
	pdf.CellFormat(d.width, 10, d.tr(rep.Borrower.Name), "", 1, AlignCenter, false, 0, "")

	pdf.SetFont(r.theme.BodyFont, "", 11)
	pdf.SetX(d.left)
	pdf.CellFormat(d.width, 8, "Generated on "+rep.GeneratedAt.UTC().Format(timestampLayout), "", 1, AlignCenter, false, 0, "")

	pdf.Ln(12)
	d.setTextColor(r.scoreColor(rep))
	pdf.SetFont(r.theme.HeaderFont, "B", 20)
	pdf.SetX(d.left)
	score := fmt.Sprintf("Credit Score: %d (%s)", rep.Summary.CreditScore, capitalize(rep.ScoreBand()))
	pdf.CellFormat(d.width, 12, score, "", 1, AlignCenter, false, 0, "")
}

func (r *DocumentRenderer) drawFooter(d *document, rep *report.CreditReport) {
	pdf := d.pdf
	_, pageHeight := pdf.GetPageSize()
	y := pageHeight - footerHeight + 3

	d.setDrawColor(r.theme.BorderColor)
	pdf.SetLineWidth(0.2)
	pdf.Line(d.left, y, d.left+d.width, y)

	pdf.SetFont(r.theme.BodyFont, "I", 7)
	d.setTextColor(r.theme.TextColor)
	notice := d.wrap(d.tr(r.theme.ConfidentialityNotice), d.width)
	if len(notice) > maxNoticeFooterLines {
		notice = notice[:maxNoticeFooterLines]
		notice[maxNoticeFooterLines-1] = d.ellipsize(notice[maxNoticeFooterLines-1], d.width)
	}
	y += 1.5
	for _, line := range notice {
		pdf.SetXY(d.left, y)
		pdf.CellFormat(d.width, 3.5, line, "", 0, AlignLeft, false, 0, "")
		y += 3.5
	}

	pdf.SetXY(d.left, y+1)
	pdf.CellFormat(d.width/2, 3.5, "Generated "+rep.GeneratedAt.UTC().Format(timestampLayout), "", 0, AlignLeft, false, 0, "")
	pdf.CellFormat(d.width/2, 3.5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, AlignRight, false, 0, "")
}

func (r *DocumentRenderer) drawSectionHeading(d *document, title string) {
	pdf := d.pdf
	d.ensureSpace(24)
	if pdf.GetY() > d.top {
		pdf.Ln(6)
	}
	d.setTextColor(r.theme.PrimaryColor)
	pdf.SetFont(r.theme.HeaderFont, "B", sectionHeadingFontSize)
	pdf.SetX(d.left)
	pdf.CellFormat(d.width, 8, d.tr(title), "", 1, AlignLeft, false, 0, "")

	d.setDrawColor(r.theme.PrimaryColor)
	pdf.SetLineWidth(0.5)
	y := pdf.GetY()
	pdf.Line(d.left, y, d.left+d.width, y)
	pdf.SetXY(d.left, y+2)
}

func keyValueColumns(width float64) []Column {
	return []Column{
		{Header: "Field", Width: width / 3, Align: AlignLeft},
		{Header: "Value", Width: width - width/3, Align: AlignLeft},
	}
}

func (r *DocumentRenderer) borrowerTable(rep *report.CreditReport) Table {
	b := rep.Borrower
	return Table{
		Name:    tableBorrowerInfo,
		Columns: keyValueColumns(pageContentWidth),
		Rows: [][]Cell{
			{{Text: "Name"}, {Text: b.Name}},
			{{Text: "Email"}, {Text: b.Email}},
			{{Text: "Phone"}, {Text: orNotAvailable(b.Phone)}},
			{{Text: "Borrower ID"}, {Text: b.ID}},
			{{Text: "Report Date"}, {Text: rep.GeneratedAt.UTC().Format(timestampLayout)}},
		},
	}
}

func (r *DocumentRenderer) summaryTable(rep *report.CreditReport) Table {
	s := rep.Summary
	scoreColor := r.scoreColor(rep)
	lastActivity := notAvailableText
	if s.LastActivity != nil {
		lastActivity = s.LastActivity.UTC().Format(dateLayout)
	}
	return Table{
		Name:    tableCreditSummary,
		Columns: keyValueColumns(pageContentWidth),
		Rows: [][]Cell{
			{{Text: "Credit Score"}, {Text: fmt.Sprintf("%d (%s)", s.CreditScore, capitalize(rep.ScoreBand())), Color: &scoreColor}},
			{{Text: "Total Loans"}, {Text: strconv.Itoa(s.TotalLoans)}},
			{{Text: "Total Borrowed"}, r.moneyCell(s.TotalBorrowed)},
			{{Text: "Total Interest Accrued"}, r.moneyCell(s.TotalInterestAccrued)},
			{{Text: "Total Repaid"}, r.moneyCell(s.TotalRepaid)},
			{{Text: "Total Outstanding"}, r.moneyCell(s.TotalOutstanding)},
			{{Text: "Last Activity"}, {Text: lastActivity}},
		},
	}
}

func (r *DocumentRenderer) loanTable(rep *report.CreditReport) Table {
	rows := make([][]Cell, 0, len(rep.Loans))
	for _, l := range rep.Loans {
		rows = append(rows, r.flagOverdue([]Cell{
			{Text: lastRunes(l.LoanID, loanIDDisplayLength)},
			r.moneyCell(l.Amount),
			{Text: l.InterestRate.StringFixed(2) + "%"},
			{Text: truncateRunes(l.Purpose, purposeDisplayLength)},
			{Text: string(l.Status)},
			{Text: string(l.RepaymentStatus)},
			r.moneyCell(l.TotalRepaymentAmount),
		}))
	}
	return Table{
		Name: tableLoanDetails,
		Columns: []Column{
			{Header: "Loan ID", Width: 20, Align: AlignLeft},
			{Header: "Amount", Width: 27, Align: AlignRight},
			{Header: "Rate", Width: 17, Align: AlignRight},
			{Header: "Purpose", Width: 38, Align: AlignLeft},
			{Header: "Status", Width: 23, Align: AlignLeft},
			{Header: "Repayment Status", Width: 27, Align: AlignLeft},
			{Header: "Total Repayment", Width: 28, Align: AlignRight},
		},
		Rows:  rows,
		Empty: "No loans on record.",
	}
}

func (r *DocumentRenderer) repaymentTable(rep *report.CreditReport) Table {
	rows := make([][]Cell, 0, len(rep.Repayments))
	for _, p := range rep.Repayments {
		remaining := Cell{Text: notAvailableText}
		if p.RemainingBalance != nil {
			remaining = r.moneyCell(*p.RemainingBalance)
		}
		rows = append(rows, r.flagOverdue([]Cell{
			{Text: p.Date.UTC().Format(dateLayout)},
			r.moneyCell(p.Amount),
			{Text: string(p.Method)},
			remaining,
		}))
	}
	return Table{
		Name: tableRepaymentHistory,
		Columns: []Column{
			{Header: "Date", Width: 35, Align: AlignLeft},
			{Header: "Amount", Width: 45, Align: AlignRight},
			{Header: "Method", Width: 50, Align: AlignLeft},
			{Header: "Remaining Balance", Width: 50, Align: AlignRight},
		},
		Rows:  rows,
		Empty: "No repayments on record.",
	}
}

func (r *DocumentRenderer) drawAnalysis(d *document, rep *report.CreditReport) {
	pdf := d.pdf
	pdf.SetFont(r.theme.BodyFont, "", 10)
	d.setTextColor(r.theme.TextColor)

	const analysisLineHeight = 5.5
	for _, line := range d.wrap(d.tr(strings.Join(r.analysis(rep), " ")), d.width) {
		d.ensureSpace(analysisLineHeight)
		pdf.SetX(d.left)
		pdf.CellFormat(d.width, analysisLineHeight, line, "", 1, AlignLeft, false, 0, "")
	}
}

// analysis produces the narrative sentences for the Credit Analysis section.
func (r *DocumentRenderer) analysis(rep *report.CreditReport) []string {
	s := rep.Summary
	var sentences []string

	switch {
	case s.TotalOutstanding.IsPositive():
		sentences = append(sentences, fmt.Sprintf("The borrower has an outstanding balance of %s across %s.",
			formatMoney(r.theme.CurrencySymbol, s.TotalOutstanding), plural(s.TotalLoans, "loan")))
	case s.TotalOutstanding.IsNegative():
		sentences = append(sentences, fmt.Sprintf("The borrower has no outstanding balance and has overpaid by %s.",
			formatMoney(r.theme.CurrencySymbol, s.TotalOutstanding.Neg())))
	default:
		sentences = append(sentences, "The borrower has no outstanding balance.")
	}

	sentences = append(sentences, fmt.Sprintf("A credit score of %d places the borrower's credit standing in the %s range.",
		s.CreditScore, rep.ScoreBand()))

	if n := len(rep.Repayments); n == 0 {
		sentences = append(sentences, "No repayments have been recorded to date.")
	} else {
		sentences = append(sentences, fmt.Sprintf("%s recorded to date.", plural(n, "repayment has been", "repayments have been")))
	}
	return sentences
}

func (r *DocumentRenderer) scoreColor(rep *report.CreditReport) Color {
	switch rep.ScoreBand() {
	case "good":
		return r.theme.PositiveColor
	case "fair":
		return r.theme.WarningColor
	default:
		return r.theme.NegativeColor
	}
}

// moneyCell colors amounts by sign.
func (r *DocumentRenderer) moneyCell(v decimal.Decimal) Cell {
	c := Cell{Text: formatMoney(r.theme.CurrencySymbol, v)}
	switch {
	case v.IsNegative():
		c.Color = &r.theme.NegativeColor
	case v.IsPositive():
		c.Color = &r.theme.PositiveColor
	}
	return c
}

// flagOverdue colors every cell reading "Overdue" with the warning color.
func (r *DocumentRenderer) flagOverdue(row []Cell) []Cell {
	for i := range row {
		if strings.EqualFold(strings.TrimSpace(row[i].Text), statusOverdue) {
			row[i].Color = &r.theme.WarningColor
		}
	}
	return row
}

func formatMoney(symbol string, v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
	}
	fixed := v.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	return sign + symbol + b.String() + "." + frac
}

func plural(n int, forms ...string) string {
	singular, pluralForm := forms[0], forms[0]+"s"
	if len(forms) > 1 {
		pluralForm = forms[1]
	}
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + pluralForm
}

func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailableText
	}
	return s
}
