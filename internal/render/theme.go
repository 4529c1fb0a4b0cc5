package render

import (
	"credit-report-engine/internal/config"
	"credit-report-engine/internal/pkg/apperrors"
	"fmt"
	"strconv"
	"strings"
)

type Color struct {
	R, G, B int
}

// ParseHexColor accepts colors in #RRGGBB form.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("color %q must be in #RRGGBB form", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q is not valid hex: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Core fonts available without embedding font files.
var coreFonts = map[string]string{
	"arial":     "Arial",
	"helvetica": "Helvetica",
	"times":     "Times",
	"courier":   "Courier",
}

// Theme carries the branding and styling used by the document renderer.
type Theme struct {
	PrimaryColor   Color
	SecondaryColor Color
	TextColor      Color
	BorderColor    Color
	PositiveColor  Color
	NegativeColor  Color
	WarningColor   Color
	HeaderFont     string
	BodyFont       string
	LogoAssetPath  string

	InstitutionName       string
	ConfidentialityNotice string
	CurrencySymbol        string
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:          Color{0x1F, 0x3A, 0x5F},
		SecondaryColor:        Color{0xEE, 0xF2, 0xF7},
		TextColor:             Color{0x22, 0x22, 0x22},
		BorderColor:           Color{0xC8, 0xCE, 0xD6},
		PositiveColor:         Color{0x1E, 0x7B, 0x34},
		NegativeColor:         Color{0xB3, 0x26, 0x1E},
		WarningColor:          Color{0xC7, 0x77, 0x00},
		HeaderFont:            "Helvetica",
		BodyFont:              "Helvetica",
		InstitutionName:       "Microfinance Lending Services",
		ConfidentialityNotice: "CONFIDENTIAL: This report contains personal financial information and is intended solely for the named borrower and authorised staff.",
		CurrencySymbol:        "M",
	}
}

// NewTheme validates report configuration and converts it into a Theme.
// Blank options keep their default value.
func NewTheme(cfg config.ReportConfig) (Theme, error) {
	theme := DefaultTheme()

	colors := []struct {
		field string
		value string
		dst   *Color
	}{
		{"primaryColor", cfg.Theme.PrimaryColor, &theme.PrimaryColor},
		{"secondaryColor", cfg.Theme.SecondaryColor, &theme.SecondaryColor},
		{"textColor", cfg.Theme.TextColor, &theme.TextColor},
		{"borderColor", cfg.Theme.BorderColor, &theme.BorderColor},
		{"positiveColor", cfg.Theme.PositiveColor, &theme.PositiveColor},
		{"negativeColor", cfg.Theme.NegativeColor, &theme.NegativeColor},
		{"warningColor", cfg.Theme.WarningColor, &theme.WarningColor},
	}
	for _, c := range colors {
		if strings.TrimSpace(c.value) == "" {
			continue
		}
		parsed, err := ParseHexColor(c.value)
		if err != nil {
			return Theme{}, fmt.Errorf("%w: %w", apperrors.NewValidationError(c.field, "invalid color"), err)
		}
		*c.dst = parsed
	}

	fonts := []struct {
		field string
		value string
		dst   *string
	}{
		{"headerFont", cfg.Theme.HeaderFont, &theme.HeaderFont},
		{"bodyFont", cfg.Theme.BodyFont, &theme.BodyFont},
	}
	for _, f := range fonts {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		family, ok := coreFonts[strings.ToLower(strings.TrimSpace(f.value))]
		if !ok {
			return Theme{}, apperrors.NewValidationError(f.field, fmt.Sprintf("unsupported font %q", f.value))
		}
		*f.dst = family
	}

	theme.LogoAssetPath = strings.TrimSpace(cfg.Theme.LogoAssetPath)
	if cfg.InstitutionName != "" {
		theme.InstitutionName = cfg.InstitutionName
	}
	if cfg.ConfidentialityNotice != "" {
		theme.ConfidentialityNotice = cfg.ConfidentialityNotice
	}
	if cfg.CurrencySymbol != "" {
		theme.CurrencySymbol = cfg.CurrencySymbol
	}
	return theme, nil
}
