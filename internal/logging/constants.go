package logging

// Standardized field names for structured logging.
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldAction        = "action"
	FieldState         = "state"
	FieldStatus        = "status"
	FieldCount         = "count"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldURL           = "url"
	FieldKey           = "key"
	FieldPath          = "path"
	FieldDuration      = "duration_ms"
	FieldRequestID     = "request_id"
	FieldModel         = "model"
)
