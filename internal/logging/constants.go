package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldCategory   = "category"
	FieldMonth      = "month"
	FieldLine       = "line"
	FieldColumn     = "column"
	FieldReason     = "reason"
	FieldMode       = "mode"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldFormat     = "format"
	FieldWorkers    = "workers"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldProjected  = "projected_amount"
)
