// Package currencyutils provides common currency and decimal operations used throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaskedAmount replaces amounts when values are hidden.
const MaskedAmount = "••••"

var nonNumeric = regexp.MustCompile(`[^0-9.,'\-]`)

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles formats like "R$ 1.234,56", "1,234.56", "1234,56", "CHF 1'234.56".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	if standardized == "" || standardized == "-" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': no digits", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount converts various currency string formats to a form decimal.NewFromString accepts.
func StandardizeAmount(amountStr string) string {
	amountStr = nonNumeric.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	lastComma := strings.LastIndex(amountStr, ",")
	lastDot := strings.LastIndex(amountStr, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The separator appearing last is the decimal one.
		if lastComma > lastDot {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case lastComma >= 0:
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Count(amountStr, ".") > 1:
		// 1.234.567 only makes sense with dots as thousands separators.
		amountStr = strings.ReplaceAll(amountStr, ".", "")
	case lastDot >= 0 && isThousandsGroup(amountStr, lastDot):
		// pt-BR "1.500" is fifteen hundred.
		amountStr = strings.Replace(amountStr, ".", "", 1)
	}

	return amountStr
}

// isThousandsGroup reports whether the single dot at pos separates a leading
// group of one to three digits (not a lone zero) from exactly three digits.
func isThousandsGroup(s string, pos int) bool {
	intPart := strings.TrimPrefix(s[:pos], "-")
	fracPart := s[pos+1:]
	if len(fracPart) != 3 || len(intPart) == 0 || len(intPart) > 3 {
		return false
	}
	return strings.TrimLeft(intPart, "0") != ""
}

// FormatBRL formats an amount the way the pt-BR locale does: "1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatAmount prefixes a pt-BR formatted amount with the currency symbol.
// When hide is true the digits are masked.
func FormatAmount(amount decimal.Decimal, symbol string, hide bool) string {
	value := FormatBRL(amount)
	if hide {
		value = MaskedAmount
	}
	if symbol == "" {
		return value
	}
	return symbol + " " + value
}
