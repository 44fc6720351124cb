package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldStage     = "stage"
	FieldOperation = "operation"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldRowsIn    = "rows_in"
	FieldRowsOut   = "rows_out"
	FieldSource    = "source"
	FieldPath      = "path"
	FieldFormat    = "format"
	FieldMonths    = "months"
	FieldRevenue   = "revenue"
	FieldTakeover  = "takeover_date"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentPipeline = "pipeline"
	ComponentSheets   = "sheets"
	ComponentExport   = "export"
	ComponentAMQP     = "amqp"
)

// Pipeline stages
const (
	StageRead      = "read"
	StageNormalize = "normalize"
	StageParse     = "parse"
	StageFilter    = "filter"
	StageRevenue   = "revenue"
	StageRollup    = "rollup"
)

// Operations defines standard operation names
const (
	OpRead    = "read"
	OpWrite   = "write"
	OpPublish = "publish"
	OpParse   = "parse"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeSchema  = "schema_error"
	ErrorTypeNetwork = "network_error"
	ErrorTypeIO      = "io_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRunID adds the pipeline run id
func (f LogFields) WithRunID(runID string) LogFields {
	f[FieldRunID] = runID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithStage adds stage and row count fields
func (f LogFields) WithStage(stage string, rowsIn, rowsOut int) LogFields {
	f[FieldStage] = stage
	f[FieldRowsIn] = rowsIn
	f[FieldRowsOut] = rowsOut
	return f
}

// With adds an arbitrary field
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
