package models

// Kind tags which summary bucket and category set a transaction belongs to.
type Kind string

// Transaction kinds, spelled as the spreadsheet stores them.
const (
	KindIncome     Kind = "Receita"
	KindExpense    Kind = "Despesa"
	KindInvestment Kind = "Investimento"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindIncome, KindExpense, KindInvestment}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindInvestment:
		return true
	}
	return false
}

// Status tells whether a transaction has been settled.
type Status string

// Transaction statuses
const (
	StatusPaid    Status = "Pago"
	StatusPending Status = "Pendente"
)

// Toggle flips Paid and Pending. Any other value becomes Paid.
func (s Status) Toggle() Status {
	if s == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusPending
}

// Frequency is a hint for recurring imports; it is not enforced.
type Frequency string

// Transaction frequencies
const (
	FrequencyFixed    Frequency = "Fixo"
	FrequencySporadic Frequency = "Esporádico"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyFixed || f == FrequencySporadic
}

// Defaults applied to rows that omit a field.
const (
	DefaultKind      = KindExpense
	DefaultStatus    = StatusPending
	DefaultFrequency = FrequencySporadic
	CategoryOther    = "Outro"
)

// File permissions
const (
	PermissionSnapshotFile = 0600
	PermissionDirectory    = 0750
	PermissionReportFile   = 0644
)
