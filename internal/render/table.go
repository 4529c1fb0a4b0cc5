package render

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

const (
	cellPadding    = 1.5
	lineHeight     = 4.5
	tableFontSize  = 8.5
	headerFontSize = 8.5
)

type Column struct {
	Header string
	Width  float64
	Align  string
}

// Cell is a single table value. Color overrides the theme text color when set.
type Cell struct {
	Text  string
	Color *Color
}

type Table struct {
	Name    string
	Columns []Column
	Rows    [][]Cell
	// Empty is printed in place of rows when the table has none.
	Empty string
}

// document wraps an fpdf page stream with the geometry the table primitive needs.
type document struct {
	pdf    *fpdf.Fpdf
	theme  Theme
	tr     func(string) string
	left   float64
	top    float64
	width  float64
	bottom float64

	rowsDrawn map[string]int
}

func (d *document) setTextColor(c Color) {
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

func (d *document) setFillColor(c Color) {
	d.pdf.SetFillColor(c.R, c.G, c.B)
}

func (d *document) setDrawColor(c Color) {
	d.pdf.SetDrawColor(c.R, c.G, c.B)
}

func (d *document) newPage() {
	d.pdf.AddPage()
	d.pdf.SetXY(d.left, d.top)
}

// ensureSpace starts a new page when less than h remains above the footer.
func (d *document) ensureSpace(h float64) {
	if d.pdf.GetY()+h > d.bottom {
		d.newPage()
	}
}

// drawTable lays out t starting at the current position, breaking onto new
// pages as needed and repeating the header row on each of them.
func (d *document) drawTable(t Table) {
	d.pdf.SetLineWidth(0.2)
	d.setDrawColor(d.theme.BorderColor)

	headerLines, headerHeight := d.measureHeader(t.Columns)
	d.ensureSpace(headerHeight + lineHeight + 2*cellPadding)
	d.drawHeader(t.Columns, headerLines, headerHeight)

	if len(t.Rows) == 0 && t.Empty != "" {
		d.pdf.SetFont(d.theme.BodyFont, "I", tableFontSize)
		d.setTextColor(d.theme.TextColor)
		h := lineHeight + 2*cellPadding
		d.pdf.CellFormat(d.tableWidth(t.Columns), h, d.tr(t.Empty), "1", 1, AlignCenter, false, 0, "")
		d.pdf.SetX(d.left)
		return
	}

	maxRowHeight := d.bottom - d.top - headerHeight
	for i, row := range t.Rows {
		lines, h := d.measureRow(t.Columns, row, maxRowHeight)
		if d.pdf.GetY()+h > d.bottom {
			d.newPage()
			d.drawHeader(t.Columns, headerLines, headerHeight)
		}
		d.drawRow(t.Columns, row, lines, h, i%2 == 1)
		d.rowsDrawn[t.Name]++
	}
}

func (d *document) tableWidth(cols []Column) float64 {
	w := 0.0
	for _, c := range cols {
		w += c.Width
	}
	return w
}

func (d *document) measureHeader(cols []Column) ([][]string, float64) {
	d.pdf.SetFont(d.theme.HeaderFont, "B", headerFontSize)
	lines := make([][]string, len(cols))
	maxLines := 1
	for i, c := range cols {
		lines[i] = d.wrap(d.tr(c.Header), c.Width-2*cellPadding)
		maxLines = max(maxLines, len(lines[i]))
	}
	return lines, float64(maxLines)*lineHeight + 2*cellPadding
}

func (d *document) drawHeader(cols []Column, lines [][]string, h float64) {
	d.pdf.SetFont(d.theme.HeaderFont, "B", headerFontSize)
	d.setFillColor(d.theme.PrimaryColor)
	d.pdf.SetTextColor(255, 255, 255)

	x, y := d.left, d.pdf.GetY()
	for i, c := range cols {
		d.pdf.Rect(x, y, c.Width, h, "FD")
		d.drawLines(x, y, c.Width, lines[i], AlignCenter)
		x += c.Width
	}
	d.pdf.SetXY(d.left, y+h)
}

// measureRow wraps every cell at its column width and returns the row height,
// which is set by the tallest cell. Rows taller than maxHeight are truncated.
func (d *document) measureRow(cols []Column, row []Cell, maxHeight float64) ([][]string, float64) {
	d.pdf.SetFont(d.theme.BodyFont, "", tableFontSize)
	maxAllowed := max(1, int((maxHeight-2*cellPadding)/lineHeight))

	lines := make([][]string, len(cols))
	maxLines := 1
	for i, c := range cols {
		text := ""
		if i < len(row) {
			text = row[i].Text
		}
		width := c.Width - 2*cellPadding
		wrapped := d.wrap(d.tr(text), width)
		if len(wrapped) > maxAllowed {
			wrapped = wrapped[:maxAllowed]
			wrapped[maxAllowed-1] = d.ellipsize(wrapped[maxAllowed-1], width)
		}
		lines[i] = wrapped
		maxLines = max(maxLines, len(wrapped))
	}
	return lines, float64(maxLines)*lineHeight + 2*cellPadding
}

func (d *document) drawRow(cols []Column, row []Cell, lines [][]string, h float64, shaded bool) {
	d.pdf.SetFont(d.theme.BodyFont, "", tableFontSize)
	if shaded {
		d.setFillColor(d.theme.SecondaryColor)
	} else {
		d.pdf.SetFillColor(255, 255, 255)
	}

	x, y := d.left, d.pdf.GetY()
	for i, c := range cols {
		d.pdf.Rect(x, y, c.Width, h, "FD")
		d.setTextColor(d.theme.TextColor)
		if i < len(row) && row[i].Color != nil {
			d.setTextColor(*row[i].Color)
		}
		d.drawLines(x, y, c.Width, lines[i], c.Align)
		x += c.Width
	}
	d.pdf.SetXY(d.left, y+h)
}

func (d *document) drawLines(x, y, w float64, lines []string, align string) {
	for i, line := range lines {
		d.pdf.SetXY(x, y+cellPadding+float64(i)*lineHeight)
		d.pdf.CellFormat(w, lineHeight, line, "", 0, align, false, 0, "")
	}
}

// wrap splits already translated text into lines no wider than width using
// the current font metrics. Words wider than a line are broken.
func (d *document) wrap(text string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			for d.pdf.GetStringWidth(word) > width {
				n := d.fitPrefix(word, width)
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, word[:n])
				word = word[n:]
			}
			if word == "" {
				continue
			}
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if d.pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

func (d *document) fitPrefix(word string, width float64) int {
	n := 1
	for n < len(word) && d.pdf.GetStringWidth(word[:n+1]) <= width {
		n++
	}
	return n
}

// ellipsize marks line as truncated, shortening it so the marker still fits
// within width.
func (d *document) ellipsize(line string, width float64) string {
	const ellipsis = "..."
	room := width - d.pdf.GetStringWidth(ellipsis)
	if d.pdf.GetStringWidth(line) <= room {
		return line + ellipsis
	}
	if room <= 0 || line == "" || d.pdf.GetStringWidth(line[:1]) > room {
		return ellipsis
	}
	return strings.TrimRight(line[:d.fitPrefix(line, room)], " ") + ellipsis
}
