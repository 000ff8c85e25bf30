package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() Transaction {
	return Transaction{
		ID:          "123456",
		Description: "Aluguel",
		Amount:      decimal.RequireFromString("1234.56"),
		Date:        "2024-03-01",
		Category:    "Moradia",
		Kind:        KindExpense,
		Status:      StatusPending,
		Frequency:   FrequencyFixed,
	}
}

func TestTransaction_YearMonth(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantYear  int
		wantMonth time.Month
		wantOK    bool
	}{
		{"iso date", "2024-03-01", 2024, time.March, true},
		{"end of year", "2023-12-31", 2023, time.December, true},
		{"garbage", "not a date", 0, 0, false},
		{"empty", "", 0, 0, false},
		{"day-first date is not canonical", "01/03/2024", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{Date: tt.date}
			y, m, ok := tx.YearMonth()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMonth, m)
		})
	}
}

func TestTransaction_InMonth(t *testing.T) {
	tx := sampleTransaction()
	assert.True(t, tx.InMonth(2024, time.March))
	assert.False(t, tx.InMonth(2024, time.February))
	assert.False(t, tx.InMonth(2023, time.March))
}

func TestTransaction_WithToggledStatus(t *testing.T) {
	tx := sampleTransaction()

	once := tx.WithToggledStatus()
	assert.Equal(t, StatusPaid, once.Status)
	assert.Equal(t, StatusPending, tx.Status, "original must not change")

	twice := once.WithToggledStatus()
	assert.Equal(t, tx.Status, twice.Status)
}

func TestTransaction_MarshalJSONUsesNumericAmount(t *testing.T) {
	data, err := json.Marshal(sampleTransaction())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 1234.56, raw["valor"])
	assert.Equal(t, "Despesa", raw["tipo"])
	assert.Equal(t, "Pendente", raw["status"])
	assert.Equal(t, "Fixo", raw["frequencia"])

	var back Transaction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "Aluguel", back.Description)
}

func TestEnums(t *testing.T) {
	assert.True(t, KindInvestment.Valid())
	assert.False(t, Kind("Transfer").Valid())
	assert.Equal(t, StatusPaid, Status("whatever").Toggle())
	assert.True(t, FrequencySporadic.Valid())
	assert.False(t, Frequency("Weekly").Valid())
	assert.True(t, AlertMedium.Valid())
	assert.False(t, AlertLevel("critical").Valid())
}

func TestCloneTransactions(t *testing.T) {
	assert.NotNil(t, CloneTransactions(nil))

	in := []Transaction{sampleTransaction()}
	out := CloneTransactions(in)
	out[0].Description = "changed"
	assert.Equal(t, "Aluguel", in[0].Description)
}
