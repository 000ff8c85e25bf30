// Package models provides the data structures used throughout the application.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical date representation of a transaction.
const DateLayout = "2006-01-02"

// Transaction is a single income, expense or investment entry.
//
// JSON field names follow the spreadsheet columns so the same encoding is used
// for the local snapshot and for the remote endpoint.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"descricao" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"valor" validate:"amount"`
	Date        string          `json:"data" validate:"required,isodate"`
	Category    string          `json:"categoria" validate:"max=100"`
	Kind        Kind            `json:"tipo" validate:"kind"`
	Status      Status          `json:"status" validate:"status"`
	Frequency   Frequency       `json:"frequencia" validate:"frequency"`
}

// transactionWire mirrors Transaction but emits the amount as a JSON number,
// which is what the spreadsheet expects in the "valor" column.
type transactionWire struct {
	ID          string      `json:"id"`
	Description string      `json:"descricao"`
	Amount      json.Number `json:"valor"`
	Date        string      `json:"data"`
	Category    string      `json:"categoria"`
	Kind        Kind        `json:"tipo"`
	Status      Status      `json:"status"`
	Frequency   Frequency   `json:"frequencia"`
}

// MarshalJSON encodes the transaction with a numeric amount.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionWire{
		ID:          t.ID,
		Description: t.Description,
		Amount:      json.Number(t.Amount.String()),
		Date:        t.Date,
		Category:    t.Category,
		Kind:        t.Kind,
		Status:      t.Status,
		Frequency:   t.Frequency,
	})
}

// YearMonth resolves the transaction date to its monthly bucket.
// ok is false when the date cannot be parsed.
func (t Transaction) YearMonth() (year int, month time.Month, ok bool) {
	d, err := t.ParsedDate()
	if err != nil {
		return 0, 0, false
	}
	return d.Year(), d.Month(), true
}

// ParsedDate parses the canonical date string.
func (t Transaction) ParsedDate() (time.Time, error) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid transaction date %q: %w", t.Date, err)
	}
	return d, nil
}

// InMonth reports whether the transaction falls in the given month (1-indexed).
func (t Transaction) InMonth(year int, month time.Month) bool {
	y, m, ok := t.YearMonth()
	return ok && y == year && m == month
}

// WithToggledStatus returns a copy with Paid and Pending swapped.
func (t Transaction) WithToggledStatus() Transaction {
	t.Status = t.Status.Toggle()
	return t
}

// AmountFloat is used only for presentation layers that need a float.
func (t Transaction) AmountFloat() float64 {
	f, _ := t.Amount.Float64()
	return f
}

// CloneTransactions returns an independent copy of the slice.
func CloneTransactions(in []Transaction) []Transaction {
	if in == nil {
		return []Transaction{}
	}
	out := make([]Transaction, len(in))
	copy(out, in)
	return out
}
