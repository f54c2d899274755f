package logger

// Field keys shared by every package that logs.
const (
	FieldComponent = "component"
	FieldService   = "service"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldRequestID = "request_id"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldFile      = "file"

	// Validation graph fields.
	FieldNode       = "node"
	FieldValidators = "validators"
	FieldMissing    = "missing"
	FieldDependsOn  = "depends_on"
)

// Fields builds a field map from alternating key-value pairs. Pairs whose
// key is not a string are dropped, as is a trailing key without a value.
//
//	log.Info("compiled", logger.Fields(logger.FieldNode, "contact", "inputs", 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// MergeWithError sets the error field on fields, allocating the map if needed.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	fields[FieldError] = err.Error()
	return fields
}
