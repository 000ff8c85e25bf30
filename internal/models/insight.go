package models

// AlertLevel grades how concerning a month looks.
type AlertLevel string

// Alert levels returned by the insights model.
const (
	AlertLow    AlertLevel = "low"
	AlertMedium AlertLevel = "medium"
	AlertHigh   AlertLevel = "high"
)

// Valid reports whether a is a known alert level.
func (a AlertLevel) Valid() bool {
	switch a {
	case AlertLow, AlertMedium, AlertHigh:
		return true
	}
	return false
}

// FinancialInsight is the structured answer of the insights model.
type FinancialInsight struct {
	Summary         string     `json:"summary"`
	Recommendations []string   `json:"recommendations"`
	AlertLevel      AlertLevel `json:"alertLevel"`
}
