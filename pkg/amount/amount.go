// Package amount parses free-text money and quantity input.
package amount

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/khata/internal/domain"
)

// Sanitize keeps digits and the first decimal point; everything else is dropped.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	seenDot := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '.' && !seenDot:
			seenDot = true
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Parse sanitizes and parses text. Empty input is 0; non-finite or negative values are rejected.
func Parse(text string) (float64, error) {
	clean := Sanitize(strings.TrimSpace(text))
	if clean == "" || clean == "." {
		if strings.TrimSpace(text) == "" {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, text)
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, text)
	}
	if !IsNonNegative(v) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, text)
	}
	return v, nil
}

// ParseOrZero is Parse with every failure clamped to 0.
func ParseOrZero(text string) float64 {
	v, err := Parse(text)
	if err != nil {
		return 0
	}
	return v
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsNonNegative reports whether v is finite and >= 0.
func IsNonNegative(v float64) bool {
	return IsFinite(v) && v >= 0
}

// Round2 converts v to a decimal rounded to 2 places.
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
