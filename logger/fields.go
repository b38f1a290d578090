package logger

import "time"

// Keys shared by every component's log lines.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	FieldCategory = "category"
	FieldOffset   = "offset"
	FieldLimit    = "limit"
	FieldURL      = "url"
	FieldCount    = "count"
)

// Fields pairs up alternating keys and values. Pairs whose key is not a
// string are dropped, as is a trailing key without a value.
//
//	log.Info("page fetched", logger.Fields("category", "温泉", "offset", 50))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		if k, ok := kvs[i-1].(string); ok {
			m[k] = kvs[i]
		}
	}
	return m
}

func ErrorFields(op string, err error) map[string]interface{} {
	return MergeWithError(Fields(FieldOperation, op), err)
}

func DurationFields(op string, d time.Duration) map[string]interface{} {
	return Fields(FieldOperation, op, FieldDuration, d.Milliseconds())
}

// MergeWithError sets the error key on fields, allocating when fields is nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = Fields()
	}
	fields[FieldError] = err.Error()
	return fields
}
