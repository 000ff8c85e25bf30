// Package report derives monthly aggregates from transactions and renders them
// as CSV, XLSX and a shareable text message.
package report

import (
	"sort"
	"time"

	"fjacquet/finance-peres/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the sum of one category.
type CategoryTotal struct {
	Category string          `json:"categoria"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Summary holds the aggregates of one month.
type Summary struct {
	Year           int             `json:"year"`
	Month          time.Month      `json:"month"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	Investment     decimal.Decimal `json:"investment"`
	Balance        decimal.Decimal `json:"balance"`
	PendingExpense decimal.Decimal `json:"pendingExpense"`
	Count          int             `json:"count"`
	Categories     []CategoryTotal `json:"categories"`
}

// Summarize aggregates records, which are expected to belong to (year, month).
// Totals are partitioned strictly by kind; the balance is income minus
// expenses minus investments.
func Summarize(records []models.Transaction, year int, month time.Month) Summary {
	s := Summary{
		Year:           year,
		Month:          month,
		Income:         decimal.Zero,
		Expense:        decimal.Zero,
		Investment:     decimal.Zero,
		PendingExpense: decimal.Zero,
		Count:          len(records),
	}
	for _, t := range records {
		switch t.Kind {
		case models.KindIncome:
			s.Income = s.Income.Add(t.Amount)
		case models.KindExpense:
			s.Expense = s.Expense.Add(t.Amount)
			if t.Status != models.StatusPaid {
				s.PendingExpense = s.PendingExpense.Add(t.Amount)
			}
		case models.KindInvestment:
			s.Investment = s.Investment.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense).Sub(s.Investment)
	s.Categories = CategoryBreakdown(records, models.KindExpense)
	return s
}

// CategoryBreakdown sums the records of kind per category, largest first.
func CategoryBreakdown(records []models.Transaction, kind models.Kind) []CategoryTotal {
	index := map[string]int{}
	totals := []CategoryTotal{}
	for _, t := range records {
		if t.Kind != kind {
			continue
		}
		name := t.Category
		if name == "" {
			name = models.CategoryOther
		}
		i, ok := index[name]
		if !ok {
			i = len(totals)
			index[name] = i
			totals = append(totals, CategoryTotal{Category: name, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(t.Amount)
		totals[i].Count++
	}
	sort.SliceStable(totals, func(a, b int) bool {
		if c := totals[a].Total.Cmp(totals[b].Total); c != 0 {
			return c > 0
		}
		return totals[a].Category < totals[b].Category
	})
	return totals
}

// Top returns at most n leading entries.
func Top(totals []CategoryTotal, n int) []CategoryTotal {
	if len(totals) <= n {
		return totals
	}
	return totals[:n]
}
