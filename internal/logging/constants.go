package logging

// Standardized field names for structured logging.
// Keep these stable: downstream log filters key on them.
const (
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldPass       = "pass"
	FieldTraceID    = "trace_id"
	FieldLine       = "line"
	FieldLineNumber = "line_number"
	FieldCount      = "count"
	FieldLines      = "lines_read"
	FieldMerchant   = "merchant_id"
	FieldProduct    = "product_id"
	FieldFormat     = "format"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
)
