package report

import (
	"fmt"
	"strings"

	"fjacquet/finance-peres/internal/currencyutils"

	"github.com/shopspring/decimal"
)

const (
	shareSeparator  = "━━━━━━━━━━━━━━━━━━"
	shareCategories = 5
)

// ShareText renders the month as a chat message with bold markers, the
// totals and the five largest expense categories.
func ShareText(title string, s Summary, symbol string, hide bool) string {
	money := func(d decimal.Decimal) string {
		return currencyutils.FormatAmount(d, symbol, hide)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *RESUMO FINANCEIRO - %s*\n", strings.ToUpper(title))
	b.WriteString(shareSeparator + "\n\n")

	b.WriteString("💰 *DADOS GERAIS*\n")
	fmt.Fprintf(&b, "✅ *Receitas:* %s\n", money(s.Income))
	fmt.Fprintf(&b, "🔴 *Despesas:* %s\n", money(s.Expense))
	if !s.Investment.IsZero() {
		fmt.Fprintf(&b, "📈 *Investimentos:* %s\n", money(s.Investment))
	}
	fmt.Fprintf(&b, "💎 *Saldo:* %s\n\n", money(s.Balance))

	if len(s.Categories) > 0 {
		b.WriteString("📂 *GASTOS POR CATEGORIA*\n")
		for _, c := range Top(s.Categories, shareCategories) {
			fmt.Fprintf(&b, "• %s: %s\n", c.Category, money(c.Total))
		}
		b.WriteString("\n")
	}

	b.WriteString(shareSeparator + "\n")
	b.WriteString("✨ _Enviado via FinancePeres_")
	return b.String()
}
