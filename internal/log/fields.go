package log

// Attribute keys shared by every component.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldReferer    = "referer"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"

	FieldSummaryID = "summary_id"
	FieldSource    = "source"
	FieldRecords   = "records"
	FieldYears     = "years"
	FieldFirstYear = "first_year"
	FieldLastYear  = "last_year"
	FieldFilename  = "filename"
	FieldBytes     = "bytes"
	FieldMissing   = "missing_columns"
	FieldChart     = "chart"
	FieldSinkRef   = "sink_ref"
	FieldQueue     = "queue"
)

// Component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentInventory = "inventory"
	ComponentReport    = "report"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentBackend   = "backend"
	ComponentTemplate  = "template"
)

// Operation names.
const (
	OpCreate   = "create"
	OpUpload   = "upload"
	OpExport   = "export"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpValidate = "validate"
	OpRender   = "render"
)

// ErrorTypeInternal marks failures that are bugs or broken deployments
// rather than bad input.
const ErrorTypeInternal = "internal_error"

// LogFields accumulates attributes for one record.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError records err's message; a nil err adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSummary identifies a computed summary and the year range it covers.
func (f LogFields) WithSummary(id, source string, records int, years []int) LogFields {
	f[FieldSummaryID] = id
	f[FieldSource] = source
	f[FieldRecords] = records
	f[FieldYears] = len(years)
	if len(years) > 0 {
		f[FieldFirstYear] = years[0]
		f[FieldLastYear] = years[len(years)-1]
	}
	return f
}

func (f LogFields) WithUpload(filename string, size int64) LogFields {
	f[FieldFilename] = filename
	f[FieldBytes] = size
	return f
}

// WithHTTPRequest adds the request line and client headers. Empty values
// are left out.
func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	for k, v := range map[string]string{FieldQuery: query, FieldUserAgent: userAgent, FieldReferer: referer} {
		if v != "" {
			f[k] = v
		}
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice flattens the fields into slog key/value arguments.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
