package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  decimal.Decimal
		hasError  bool
	}{
		{"Empty string", "", decimal.Zero, false},
		{"Simple decimal", "123.45", decimal.NewFromFloat(123.45), false},
		{"Negative decimal", "-123.45", decimal.NewFromFloat(-123.45), false},
		{"Integer", "100", decimal.NewFromInt(100), false},
		{"With comma decimal separator", "123,45", decimal.NewFromFloat(123.45), false},
		{"Brazilian thousands and decimals", "1.234,56", decimal.NewFromFloat(1234.56), false},
		{"Brazilian currency symbol", "R$ 50,00", decimal.NewFromInt(50), false},
		{"Brazilian symbol with thousands", "R$ 12.345,67", decimal.NewFromFloat(12345.67), false},
		{"US thousands", "1,234.56", decimal.NewFromFloat(1234.56), false},
		{"Comma as thousands only", "1,234", decimal.NewFromInt(1234), false},
		{"Dots as thousands only", "1.234.567", decimal.NewFromInt(1234567), false},
		{"Single dot thousands group", "1.500", decimal.NewFromInt(1500), false},
		{"Single dot thousands with symbol", "R$ 1.500", decimal.NewFromInt(1500), false},
		{"Round thousands", "2.000", decimal.NewFromInt(2000), false},
		{"Negative thousands group", "-1.500", decimal.NewFromInt(-1500), false},
		{"Symbol with thousands and cents", "R$ 1.500,00", decimal.NewFromInt(1500), false},
		{"Leading zero keeps decimal dot", "0.500", decimal.NewFromFloat(0.5), false},
		{"Long integer part keeps decimal dot", "1234.567", decimal.RequireFromString("1234.567"), false},
		{"Two decimals stay decimal", "15.50", decimal.NewFromFloat(15.5), false},
		{"With thousand separator (apostrophe)", "CHF 1'234.56", decimal.NewFromFloat(1234.56), false},
		{"With currency symbol (EUR)", "€123.45", decimal.NewFromFloat(123.45), false},
		{"With spaces", "  123.45  ", decimal.NewFromFloat(123.45), false},
		{"Non-breaking space", "R$\u00a050,00", decimal.NewFromInt(50), false},
		{"Non-numeric", "abc", decimal.Zero, true},
		{"Only a sign", "-", decimal.Zero, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAmount(tc.amountStr)

			if tc.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, tc.expected.Equal(result), "Expected %s but got %s", tc.expected.String(), result.String())
			}
		})
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"50", "50,00"},
		{"999.9", "999,90"},
		{"1234.56", "1.234,56"},
		{"1234567.8", "1.234.567,80"},
		{"-1200", "-1.200,00"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatBRL(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	amount := decimal.RequireFromString("1500.5")
	assert.Equal(t, "R$ 1.500,50", FormatAmount(amount, "R$", false))
	assert.Equal(t, "R$ ••••", FormatAmount(amount, "R$", true))
	assert.Equal(t, "1.500,50", FormatAmount(amount, "", false))
}
