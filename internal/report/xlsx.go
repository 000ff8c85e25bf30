package report

import (
	"fmt"
	"io"

	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTransactions = "Transações"
	sheetSummary      = "Resumo"
)

// WriteXLSX writes a workbook with the transactions and a summary sheet.
func (e *Exporter) WriteXLSX(w io.Writer, records []models.Transaction, summary Summary, title string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return fmt.Errorf("error preparing workbook: %w", err)
	}
	if err := writeTransactionSheet(f, records); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("error preparing workbook: %w", err)
	}
	if err := writeSummarySheet(f, summary, title); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	e.logger.Debug("Wrote XLSX export", logging.F(logging.FieldCount, len(records)))
	return nil
}

func writeTransactionSheet(f *excelize.File, records []models.Transaction) error {
	headers := []interface{}{"Descrição", "Valor", "Data", "Categoria", "Tipo", "Status", "Frequência"}
	if err := f.SetSheetRow(sheetTransactions, "A1", &headers); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i, t := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			t.Description,
			t.AmountFloat(),
			t.Date,
			t.Category,
			string(t.Kind),
			string(t.Status),
			string(t.Frequency),
		}
		if err := f.SetSheetRow(sheetTransactions, cell, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s Summary, title string) error {
	rows := [][]interface{}{
		{title},
		{"Receitas", s.Income.InexactFloat64()},
		{"Despesas", s.Expense.InexactFloat64()},
		{"Investimentos", s.Investment.InexactFloat64()},
		{"Saldo", s.Balance.InexactFloat64()},
		{"Despesas pendentes", s.PendingExpense.InexactFloat64()},
		{},
		{"Categoria", "Total"},
	}
	for _, c := range s.Categories {
		rows = append(rows, []interface{}{c.Category, c.Total.InexactFloat64()})
	}

	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &rows[i]); err != nil {
			return fmt.Errorf("error writing summary: %w", err)
		}
	}
	return nil
}
