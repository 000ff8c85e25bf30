package monthly_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/finance-peres/cmd/monthly"
	"fjacquet/finance-peres/cmd/root"
	"fjacquet/finance-peres/internal/config"
	"fjacquet/finance-peres/internal/container"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/report"
	"fjacquet/finance-peres/internal/syncerror"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var current *container.Container

func TestMain(m *testing.M) {
	root.Init()
	root.Cmd.AddCommand(monthly.CopyCmd, monthly.SummaryCmd, monthly.ReportCmd,
		monthly.InsightsCmd, monthly.ExportCmd)
	os.Exit(m.Run())
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func newApp(t *testing.T, records ...models.Transaction) *container.Container {
	t.Helper()
	cfg := &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Remote: config.RemoteConfig{TimeoutSeconds: 5},
		Cache:  config.CacheConfig{Backend: config.CacheBackendFile, Directory: t.TempDir(), Key: "ff_transactions"},
		Sync:   config.SyncConfig{FetchFallback: config.FallbackCache},
		AI:     config.AIConfig{RequestsPerMinute: 10},
		Export: config.ExportConfig{Delimiter: ";", IncludeBOM: true, CurrencySymbol: "R$"},
	}
	c, err := container.NewContainer(context.Background(), cfg, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	c.GetStore().Load(context.Background(), records)
	current = c
	t.Cleanup(func() {
		current = nil
		root.AppContainer = nil
		_ = c.Close()
	})
	return c
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(root.Cmd)
	root.AppContainer = current
	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&out)
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	return out.String(), err
}

func tx(id, date string, kind models.Kind, amount int64, category string) models.Transaction {
	return models.Transaction{
		ID:          id,
		Description: "item " + id,
		Amount:      decimal.NewFromInt(amount),
		Date:        date,
		Category:    category,
		Kind:        kind,
		Status:      models.StatusPending,
		Frequency:   models.FrequencyFixed,
	}
}

func march() []models.Transaction {
	return []models.Transaction{
		tx("100001", "2024-03-05", models.KindIncome, 5000, "Salário"),
		tx("100002", "2024-03-10", models.KindExpense, 1200, "Moradia"),
		tx("100003", "2024-03-31", models.KindExpense, 300, "Lazer"),
		tx("100004", "2024-03-15", models.KindInvestment, 500, "Renda Fixa"),
		tx("100005", "2024-02-20", models.KindExpense, 999, "Carro"),
	}
}

func TestCopyMonth(t *testing.T) {
	app := newApp(t, march()...)

	out, err := run(t, "copy-month", "--month", "2024-04")
	require.NoError(t, err)
	assert.Contains(t, out, "3 transações copiadas de Março 2024 para Abril 2024")

	april := app.GetStore().FilterByMonth(2024, time.April)
	require.Len(t, april, 3)
	dates := map[string]bool{}
	for _, r := range april {
		assert.Equal(t, models.StatusPending, r.Status)
		assert.NotEqual(t, models.KindInvestment, r.Kind)
		dates[r.Date] = true
	}
	assert.True(t, dates["2024-04-30"], "day 31 is clamped to the end of April")

	_, err = run(t, "copy-month", "--month", "2024-07")
	assert.ErrorIs(t, err, syncerror.ErrNothingToCopy)
}

func TestSummary(t *testing.T) {
	newApp(t, march()...)

	out, err := run(t, "summary", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Março 2024 (4 transações)")
	assert.Contains(t, out, "R$ 5.000,00")
	assert.Contains(t, out, "R$ 3.000,00")
	assert.Contains(t, out, "Moradia")
	assert.NotContains(t, out, "Carro")
}

func TestPrintSummary_Hidden(t *testing.T) {
	var buf bytes.Buffer
	s := report.Summarize(march()[:4], 2024, time.March)
	require.NoError(t, monthly.PrintSummary(&buf, "Março 2024", s, "R$", true))
	assert.NotContains(t, buf.String(), "5.000,00")
	assert.Contains(t, buf.String(), "Saldo")
}

func TestReport(t *testing.T) {
	newApp(t, march()...)

	out, err := run(t, "report", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "RESUMO FINANCEIRO - MARÇO 2024")
	assert.Contains(t, out, "Investimentos")
	assert.Contains(t, out, "Enviado via FinancePeres")
}

func TestInsights_Disabled(t *testing.T) {
	newApp(t, march()...)

	_, err := run(t, "insights", "--month", "2024-03")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestExport_CSV(t *testing.T) {
	newApp(t, march()...)
	path := filepath.Join(t.TempDir(), "march.csv")

	out, err := run(t, "export", "--month", "2024-03", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "4 transações exportadas")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\uFEFF"))
	assert.Contains(t, content, "item 100002;1200.00;2024-03-10")
	assert.NotContains(t, content, "item 100005")
}

func TestExport_Stdout(t *testing.T) {
	newApp(t, march()...)

	out, err := run(t, "export", "--month", "2024-03", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Descrição")
}

func TestExport_XLSX(t *testing.T) {
	newApp(t, march()...)
	path := filepath.Join(t.TempDir(), "march.xlsx")

	_, err := run(t, "export", "--month", "2024-03", "--format", "xlsx", "-o", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Transações", "Resumo"}, f.GetSheetList())
}

func TestExport_UnknownFormat(t *testing.T) {
	newApp(t)

	_, err := run(t, "export", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
