// Package catalog holds the per-kind category lists offered when recording a transaction.
package catalog

import (
	"fmt"
	"os"

	"fjacquet/finance-peres/internal/fileutils"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/textutils"

	"gopkg.in/yaml.v3"
)

// Catalog maps every kind to its ordered category names.
type Catalog struct {
	byKind map[models.Kind][]string
}

// fileFormat is the YAML layout of a catalog override file.
type fileFormat struct {
	Income     []string `yaml:"income"`
	Expense    []string `yaml:"expense"`
	Investment []string `yaml:"investment"`
}

// Default returns the built-in categories.
func Default() *Catalog {
	return &Catalog{byKind: map[models.Kind][]string{
		models.KindIncome: {"Salário", "Fotografia", models.CategoryOther},
		models.KindExpense: {
			"Lanche",
			"Compras mercado",
			"Lazer",
			"Moradia",
			"Utilidades José",
			"Utilidades geral",
			"Carro",
			"Cartão de crédito",
			"Saúde",
			"Alimentação",
			models.CategoryOther,
		},
		models.KindInvestment: {
			"Reserva de Emergência",
			"Renda Fixa",
			"Ações",
			"Fundos Imobiliários",
			"Criptoativos",
			"Previdência",
			models.CategoryOther,
		},
	}}
}

// Load reads a YAML override. A missing file yields the defaults; kinds the
// file leaves empty keep their default list. "Outro" is always available.
func Load(path string, logger logging.Logger) (*Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}

	if fileutils.DirectoryExists(path) {
		return nil, fmt.Errorf("categories file %s is a directory", path)
	}
	if !fileutils.FileExists(path) {
		logger.Warn("Categories file not found, using defaults", logging.F(logging.FieldPath, path))
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}

	overrides := map[models.Kind][]string{
		models.KindIncome:     f.Income,
		models.KindExpense:    f.Expense,
		models.KindInvestment: f.Investment,
	}
	for kind, names := range overrides {
		if len(names) == 0 {
			continue
		}
		cat.byKind[kind] = withOther(names)
	}

	logger.Debug("Loaded category catalog", logging.F(logging.FieldPath, path))
	return cat, nil
}

func withOther(names []string) []string {
	out := make([]string, 0, len(names)+1)
	hasOther := false
	for _, n := range names {
		if textutils.EqualFold(n, models.CategoryOther) {
			hasOther = true
		}
		out = append(out, n)
	}
	if !hasOther {
		out = append(out, models.CategoryOther)
	}
	return out
}

// ForKind returns a copy of the categories of kind.
func (c *Catalog) ForKind(kind models.Kind) []string {
	names := c.byKind[kind]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// IsKnown reports whether category belongs to kind, ignoring case and accents.
// Unknown categories are still accepted by the store; this only drives hints.
func (c *Catalog) IsKnown(kind models.Kind, category string) bool {
	for _, n := range c.byKind[kind] {
		if textutils.EqualFold(n, category) {
			return true
		}
	}
	return false
}

// Canonical returns the catalog spelling of category when it is known for kind,
// otherwise category unchanged.
func (c *Catalog) Canonical(kind models.Kind, category string) string {
	for _, n := range c.byKind[kind] {
		if textutils.EqualFold(n, category) {
			return n
		}
	}
	return category
}
