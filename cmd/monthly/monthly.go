// Package monthly handles the per-month commands: copy, summary, reports and exports
package monthly

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/finance-peres/cmd/root"
	"fjacquet/finance-peres/internal/currencyutils"
	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/fileutils"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	exportFormat string
	exportOutput string
)

// CopyCmd copies the previous month's recurring entries into the selected month
var CopyCmd = &cobra.Command{
	Use:   "copy-month",
	Short: "Copy last month's income and expenses into the selected month",
	Long: `Copy every income and expense of the month before --month into --month.
Copies get new ids, are marked Pendente and keep their day of month, clamped
to the length of the target month. Investments are not copied.`,
	Args: cobra.NoArgs,
	RunE: copyFunc,
}

// SummaryCmd prints the monthly totals
var SummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the totals of a month",
	Args:  cobra.NoArgs,
	RunE:  summaryFunc,
}

// ReportCmd prints the shareable text report
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the shareable text summary of a month",
	Args:  cobra.NoArgs,
	RunE:  reportFunc,
}

// InsightsCmd asks the AI model to analyse a month
var InsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate AI insights for a month",
	Args:  cobra.NoArgs,
	RunE:  insightsFunc,
}

// ExportCmd writes the month to CSV or XLSX
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a month to CSV or XLSX",
	Long: `Export the transactions of --month. CSV uses the configured delimiter and
a UTF-8 BOM so spreadsheet applications detect the encoding; XLSX adds a
summary sheet.`,
	Args: cobra.NoArgs,
	RunE: exportFunc,
}

func init() {
	ExportCmd.Flags().StringVarP(&exportFormat, "format", "F", FormatCSV, "Output format: csv or xlsx")
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, '-' for stdout (default: financas-YYYY-MM.<format>)")
}

func copyFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	year, month, err := root.SelectedMonth()
	if err != nil {
		return err
	}
	if err := root.OpenStore(ctx); err != nil {
		return err
	}

	fromYear, fromMonth := dateutils.PreviousMonth(year, month)
	copies, err := root.GetContainer().GetStore().CopyPreviousMonth(ctx, fromYear, fromMonth, year, month)
	if err != nil {
		return fmt.Errorf("copy from %s: %w", dateutils.MonthLabel(fromYear, fromMonth), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d transações copiadas de %s para %s.\n",
		len(copies), dateutils.MonthLabel(fromYear, fromMonth), dateutils.MonthLabel(year, month))
	return nil
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	year, month, err := root.SelectedMonth()
	if err != nil {
		return err
	}
	if err := root.OpenStore(root.Context(cmd)); err != nil {
		return err
	}
	app := root.GetContainer()

	s := report.Summarize(app.GetStore().FilterByMonth(year, month), year, month)
	return PrintSummary(cmd.OutOrStdout(), dateutils.MonthLabel(year, month), s,
		app.GetConfig().Export.CurrencySymbol, root.SharedFlags.HideValues)
}

// PrintSummary writes the totals and the expense breakdown of s.
func PrintSummary(w io.Writer, title string, s report.Summary, symbol string, hide bool) error {
	money := func(d decimal.Decimal) string {
		return currencyutils.FormatAmount(d, symbol, hide)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d transações)\n", title, s.Count)
	fmt.Fprintf(&b, "  %-20s %s\n", "Receitas", money(s.Income))
	fmt.Fprintf(&b, "  %-20s %s\n", "Despesas", money(s.Expense))
	fmt.Fprintf(&b, "  %-20s %s\n", "Investimentos", money(s.Investment))
	fmt.Fprintf(&b, "  %-20s %s\n", "Saldo", money(s.Balance))
	fmt.Fprintf(&b, "  %-20s %s\n", "Despesas pendentes", money(s.PendingExpense))
	if len(s.Categories) > 0 {
		b.WriteString("\nDespesas por categoria:\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "  %-20s %s\n", c.Category, money(c.Total))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func reportFunc(cmd *cobra.Command, args []string) error {
	year, month, err := root.SelectedMonth()
	if err != nil {
		return err
	}
	if err := root.OpenStore(root.Context(cmd)); err != nil {
		return err
	}
	app := root.GetContainer()

	text := report.ShareText(dateutils.MonthLabel(year, month),
		report.Summarize(app.GetStore().FilterByMonth(year, month), year, month),
		app.GetConfig().Export.CurrencySymbol, root.SharedFlags.HideValues)
	_, err = io.WriteString(cmd.OutOrStdout(), text)
	return err
}

func insightsFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	year, month, err := root.SelectedMonth()
	if err != nil {
		return err
	}
	if err := root.OpenStore(ctx); err != nil {
		return err
	}
	app := root.GetContainer()

	insight, err := app.GetInsights().Insights(ctx, dateutils.MonthLabel(year, month),
		app.GetStore().FilterByMonth(year, month), year, month)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Alerta: %s\n\n%s\n", insight.AlertLevel, insight.Summary)
	if len(insight.Recommendations) > 0 {
		fmt.Fprintln(out, "\nRecomendações:")
		for _, r := range insight.Recommendations {
			fmt.Fprintf(out, "  • %s\n", r)
		}
	}
	return nil
}

func exportFunc(cmd *cobra.Command, args []string) error {
	year, month, err := root.SelectedMonth()
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("unsupported export format %q (use csv or xlsx)", exportFormat)
	}
	if err := root.OpenStore(root.Context(cmd)); err != nil {
		return err
	}
	app := root.GetContainer()
	monthly := app.GetStore().FilterByMonth(year, month)

	output := exportOutput
	if output == "" {
		output = fmt.Sprintf("financas-%04d-%02d.%s", year, int(month), format)
	}

	var w io.Writer
	if output == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := fileutils.CreateFile(output)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				root.GetLogger().WithError(err).Warn("Failed to close export file")
			}
		}()
		w = f
	}

	exporter := app.GetExporter()
	if format == FormatXLSX {
		err = exporter.WriteXLSX(w, monthly, report.Summarize(monthly, year, month), dateutils.MonthLabel(year, month))
	} else {
		err = exporter.WriteCSV(w, monthly)
	}
	if err != nil {
		if output != "-" {
			_ = os.Remove(output)
		}
		return err
	}

	if output != "-" {
		root.GetLogger().Info("Export written",
			logging.F(logging.FieldPath, output), logging.F(logging.FieldCount, len(monthly)))
		fmt.Fprintf(cmd.OutOrStdout(), "%d transações exportadas para %s.\n", len(monthly), output)
	}
	return nil
}
