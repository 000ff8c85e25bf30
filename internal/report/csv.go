package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"

	"github.com/gocarina/gocsv"
)

const utf8BOM = "\uFEFF"

// csvRow is one exported line. Column names match the spreadsheet headers.
type csvRow struct {
	Description string `csv:"Descrição"`
	Amount      string `csv:"Valor"`
	Date        string `csv:"Data"`
	Category    string `csv:"Categoria"`
	Kind        string `csv:"Tipo"`
	Status      string `csv:"Status"`
}

// Exporter renders transactions to files a spreadsheet application opens.
type Exporter struct {
	Delimiter  rune
	IncludeBOM bool
	logger     logging.Logger
}

// NewExporter creates an exporter. A zero delimiter means ';'.
func NewExporter(delimiter rune, includeBOM bool, logger logging.Logger) *Exporter {
	if delimiter == 0 {
		delimiter = ';'
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Exporter{
		Delimiter:  delimiter,
		IncludeBOM: includeBOM,
		logger:     logger.WithField(logging.FieldComponent, "exporter"),
	}
}

// WriteCSV writes a header line and one line per record, in order.
func (e *Exporter) WriteCSV(w io.Writer, records []models.Transaction) error {
	if e.IncludeBOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return fmt.Errorf("error writing CSV data: %w", err)
		}
	}

	rows := make([]csvRow, 0, len(records))
	for _, t := range records {
		rows = append(rows, csvRow{
			Description: t.Description,
			Amount:      t.Amount.StringFixed(2),
			Date:        t.Date,
			Category:    t.Category,
			Kind:        string(t.Kind),
			Status:      string(t.Status),
		})
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		e.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	e.logger.Debug("Wrote CSV export", logging.F(logging.FieldCount, len(rows)))
	return nil
}

