package render

import (
	"context"
	"credit-report-engine/internal/domain/report"
	"credit-report-engine/internal/pkg/apperrors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat defaults to JSON when no format was requested.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	}
	return "", apperrors.NewValidationError("format", fmt.Sprintf("unsupported report format %q, expected one of json, csv, pdf", s))
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Renderer writes a CreditReport to a file and returns the path actually written.
type Renderer interface {
	Format() Format
	Render(ctx context.Context, r *report.CreditReport, path string) (string, error)
}

// Set looks renderers up by output format.
type Set map[Format]Renderer

func NewSet(renderers ...Renderer) Set {
	s := make(Set, len(renderers))
	for _, r := range renderers {
		s[r.Format()] = r
	}
	return s
}

func (s Set) Lookup(f Format) (Renderer, bool) {
	r, ok := s[f]
	return r, ok
}

func withExtension(path string, f Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + f.Extension()
}

func checkRenderable(ctx context.Context, r *report.CreditReport) error {
	if r == nil {
		return fmt.Errorf("%w: report is nil", apperrors.ErrInvalidArgument)
	}
	return ctx.Err()
}
