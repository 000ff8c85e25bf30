// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutBrazilian = "02/01/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	MonthLayout         = "2006-01"
)

// monthNames are the pt-BR month names used in report titles.
var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// ParseDateString attempts to parse a date string using the formats spreadsheets commonly produce.
func ParseDateString(dateStr string) (time.Time, error) {
	cleanDate := strings.TrimSpace(dateStr)
	if cleanDate == "" {
		return time.Time{}, fmt.Errorf("unable to parse empty date")
	}

	formats := []string{
		DateLayoutISO,
		time.RFC3339,
		time.RFC3339Nano,
		DateLayoutFull,
		DateLayoutBrazilian, // day-first: the sheet is filled in pt-BR
		DateLayoutEuropean,
		"2/1/2006",
		"02-01-2006",
		"2006/01/02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, cleanDate); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// TruncateTime drops a time-of-day component from an ISO-like timestamp.
// "2024-03-01T03:00:00.000Z" becomes "2024-03-01".
func TruncateTime(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	if i := strings.IndexAny(dateStr, "T "); i > 0 {
		return dateStr[:i]
	}
	return dateStr
}

// NormalizeISO returns the canonical YYYY-MM-DD form of dateStr.
// Values that cannot be parsed are returned truncated but otherwise untouched,
// so the caller can keep them without losing data.
func NormalizeISO(dateStr string) string {
	truncated := TruncateTime(dateStr)
	if _, err := time.Parse(DateLayoutISO, truncated); err == nil {
		return truncated
	}
	if t, err := ParseDateString(dateStr); err == nil {
		return ToISODate(t)
	}
	return truncated
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// DaysIn returns the number of days of a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ShiftIntoMonth keeps the day-of-month of date and moves it into the target month.
// Days past the end of the target month are clamped to its last day (31 Jan -> 29 Feb 2024).
func ShiftIntoMonth(date time.Time, year int, month time.Month) time.Time {
	day := date.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// PreviousMonth returns the month before (year, month).
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// MonthLabel renders a month as "Março 2024".
func MonthLabel(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return fmt.Sprintf("%02d/%d", int(month), year)
	}
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}
