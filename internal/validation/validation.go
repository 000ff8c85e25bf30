// Package validation rejects malformed user input before it reaches the transaction store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"fjacquet/finance-peres/internal/currencyutils"
	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/syncerror"
	"fjacquet/finance-peres/internal/textutils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

var (
	kindReason      = fmt.Sprintf("must be one of %s, %s, %s", models.KindIncome, models.KindExpense, models.KindInvestment)
	statusReason    = fmt.Sprintf("must be %s or %s", models.StatusPaid, models.StatusPending)
	frequencyReason = fmt.Sprintf("must be %s or %s", models.FrequencyFixed, models.FrequencySporadic)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so errors match the wire vocabulary.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateutils.DateLayoutISO, fl.Field().String())
		return err == nil
	})
	mustRegister(v, "kind", func(fl validator.FieldLevel) bool {
		return models.Kind(fl.Field().String()).Valid()
	})
	mustRegister(v, "status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	mustRegister(v, "frequency", func(fl validator.FieldLevel) bool {
		return models.Frequency(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// ApplyDefaults fills the optional fields a form may leave blank and
// canonicalizes the date. It never changes the id or the amount.
func ApplyDefaults(t models.Transaction) models.Transaction {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	if t.Category == "" {
		t.Category = models.CategoryOther
	}
	if t.Kind == "" {
		t.Kind = models.DefaultKind
	}
	if t.Status == "" {
		t.Status = models.DefaultStatus
	}
	if t.Frequency == "" {
		t.Frequency = models.DefaultFrequency
	}
	if t.Date != "" {
		t.Date = dateutils.NormalizeISO(t.Date)
	}
	return t
}

// Transaction validates a record. Every rejected field is reported as a
// *syncerror.ValidationError; the joined result matches syncerror.ErrValidation.
func Transaction(t models.Transaction) error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", syncerror.ErrValidation, err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &syncerror.ValidationError{Field: fe.Field(), Reason: reason(fe)})
	}
	return errors.Join(errs...)
}

// Prepare applies defaults and validates in one step.
func Prepare(t models.Transaction) (models.Transaction, error) {
	t = ApplyDefaults(t)
	if err := Transaction(t); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "amount":
		return "must be a non-negative number"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "kind":
		return kindReason
	case "status":
		return statusReason
	case "frequency":
		return frequencyReason
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// ParseAmount parses an amount typed by a user ("1.234,56", "R$ 50"). Empty,
// malformed and negative inputs are rejected.
func ParseAmount(input string) (decimal.Decimal, error) {
	if strings.TrimSpace(input) == "" {
		return decimal.Zero, &syncerror.ValidationError{Field: "valor", Reason: "is required"}
	}
	d, err := currencyutils.ParseAmount(input)
	if err != nil {
		return decimal.Zero, &syncerror.ValidationError{Field: "valor", Reason: "must be a number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &syncerror.ValidationError{Field: "valor", Reason: "must be a non-negative number"}
	}
	return d, nil
}

// ParseKind resolves a user-supplied kind, ignoring case and accents.
func ParseKind(input string) (models.Kind, error) {
	for _, k := range models.Kinds {
		if textutils.EqualFold(string(k), input) {
			return k, nil
		}
	}
	return "", &syncerror.ValidationError{Field: "tipo", Reason: kindReason}
}

// ParseStatus resolves a user-supplied status, ignoring case and accents.
func ParseStatus(input string) (models.Status, error) {
	for _, s := range []models.Status{models.StatusPaid, models.StatusPending} {
		if textutils.EqualFold(string(s), input) {
			return s, nil
		}
	}
	return "", &syncerror.ValidationError{Field: "status", Reason: statusReason}
}

// ParseFrequency resolves a user-supplied frequency, ignoring case and accents
// ("esporadico" matches "Esporádico").
func ParseFrequency(input string) (models.Frequency, error) {
	for _, f := range []models.Frequency{models.FrequencyFixed, models.FrequencySporadic} {
		if textutils.EqualFold(string(f), input) {
			return f, nil
		}
	}
	return "", &syncerror.ValidationError{Field: "frequencia", Reason: frequencyReason}
}
