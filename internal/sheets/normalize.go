package sheets

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fjacquet/finance-peres/internal/currencyutils"
	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/textutils"

	"github.com/shopspring/decimal"
)

type field int

const (
	fieldID field = iota
	fieldDescription
	fieldAmount
	fieldDate
	fieldCategory
	fieldKind
	fieldStatus
	fieldFrequency
)

// fieldSynonyms maps folded column names (see textutils.FoldKey) to fields.
var fieldSynonyms = map[string]field{
	"id":          fieldID,
	"codigo":      fieldID,
	"uuid":        fieldID,
	"descricao":   fieldDescription,
	"description": fieldDescription,
	"desc":        fieldDescription,
	"historico":   fieldDescription,
	"nome":        fieldDescription,
	"name":        fieldDescription,
	"valor":       fieldAmount,
	"value":       fieldAmount,
	"montante":    fieldAmount,
	"amount":      fieldAmount,
	"quantia":     fieldAmount,
	"data":        fieldDate,
	"date":        fieldDate,
	"dia":         fieldDate,
	"vencimento":  fieldDate,
	"categoria":   fieldCategory,
	"category":    fieldCategory,
	"tipo":        fieldKind,
	"type":        fieldKind,
	"kind":        fieldKind,
	"status":      fieldStatus,
	"situacao":    fieldStatus,
	"estado":      fieldStatus,
	"frequencia":  fieldFrequency,
	"frequency":   fieldFrequency,
	"recorrencia": fieldFrequency,
}

var kindSynonyms = map[string]models.Kind{
	"receita":      models.KindIncome,
	"income":       models.KindIncome,
	"entrada":      models.KindIncome,
	"despesa":      models.KindExpense,
	"expense":      models.KindExpense,
	"gasto":        models.KindExpense,
	"saida":        models.KindExpense,
	"investimento": models.KindInvestment,
	"investment":   models.KindInvestment,
}

var statusSynonyms = map[string]models.Status{
	"pago":     models.StatusPaid,
	"paid":     models.StatusPaid,
	"true":     models.StatusPaid,
	"pendente": models.StatusPending,
	"pending":  models.StatusPending,
	"false":    models.StatusPending,
}

var frequencySynonyms = map[string]models.Frequency{
	"fixo":       models.FrequencyFixed,
	"fixa":       models.FrequencyFixed,
	"fixed":      models.FrequencyFixed,
	"esporadico": models.FrequencySporadic,
	"sporadic":   models.FrequencySporadic,
	"variavel":   models.FrequencySporadic,
}

// normalizer turns loosely shaped spreadsheet rows into transactions.
type normalizer struct {
	newID  func() string
	now    func() time.Time
	logger logging.Logger
}

// wireNames holds the column each field is written under.
var wireNames = map[field]string{
	fieldID:          "id",
	fieldDescription: "descricao",
	fieldAmount:      "valor",
	fieldDate:        "data",
	fieldCategory:    "categoria",
	fieldKind:        "tipo",
	fieldStatus:      "status",
	fieldFrequency:   "frequencia",
}

// columnRank orders the columns that map to f: the exact wire name first,
// then spellings that fold to it, then other synonyms.
func columnRank(key, folded string, f field) int {
	switch {
	case key == wireNames[f]:
		return 0
	case folded == wireNames[f]:
		return 1
	default:
		return 2
	}
}

// normalize maps one row. When several columns map to the same field the
// lowest columnRank wins, ties broken by column name.
func (n *normalizer) normalize(row map[string]interface{}) models.Transaction {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make(map[field]interface{}, len(row))
	ranks := make(map[field]int, len(row))
	for _, key := range keys {
		folded := textutils.FoldKey(key)
		f, ok := fieldSynonyms[folded]
		if !ok {
			continue
		}
		rank := columnRank(key, folded, f)
		if best, seen := ranks[f]; seen && best <= rank {
			continue
		}
		values[f] = row[key]
		ranks[f] = rank
	}

	t := models.Transaction{
		ID:          stringify(values[fieldID]),
		Description: stringify(values[fieldDescription]),
		Amount:      n.amount(values[fieldAmount]),
		Date:        n.date(values[fieldDate]),
		Category:    stringify(values[fieldCategory]),
		Kind:        lookup(kindSynonyms, values[fieldKind], models.DefaultKind),
		Status:      lookup(statusSynonyms, values[fieldStatus], models.DefaultStatus),
		Frequency:   lookup(frequencySynonyms, values[fieldFrequency], models.DefaultFrequency),
	}
	if t.ID == "" {
		t.ID = n.newID()
	}
	if t.Category == "" {
		t.Category = models.CategoryOther
	}
	return t
}

// amount accepts JSON numbers and currency strings. Malformed input becomes
// zero and negative values are stored as their magnitude.
func (n *normalizer) amount(v interface{}) decimal.Decimal {
	var (
		d   decimal.Decimal
		err error
	)
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case json.Number:
		d, err = decimal.NewFromString(val.String())
	case float64:
		d = decimal.NewFromFloat(val)
	case string:
		d, err = currencyutils.ParseAmount(val)
	default:
		err = fmt.Errorf("unsupported amount type %T", v)
	}
	if err != nil {
		n.logger.Debug("Coercing malformed amount to zero", logging.F("value", v))
		return decimal.Zero
	}
	return d.Abs()
}

// date truncates any time-of-day part and falls back to today when absent.
func (n *normalizer) date(v interface{}) string {
	s := stringify(v)
	if s == "" {
		return dateutils.ToISODate(n.now())
	}
	return dateutils.NormalizeISO(s)
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func lookup[T any](synonyms map[string]T, v interface{}, fallback T) T {
	if got, ok := synonyms[textutils.FoldKey(stringify(v))]; ok {
		return got
	}
	return fallback
}
