package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldDate        = "date"
	FieldKey         = "key"
	FieldNamespace   = "namespace"
	FieldExpenseID   = "expense_id"
	FieldExpenseDesc = "expense_description"
	FieldAmountCents = "amount_cents"
	FieldCount       = "count"
	FieldFormat      = "format"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentKV      = "kv"
	ComponentService = "service"
	ComponentExport  = "export"
	ComponentCache   = "cache"
	ComponentConfig  = "config"
)

// Operations defines standard operation names.
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpAdd      = "add"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpMove     = "move"
	OpScan     = "scan"
	OpClear    = "clear"
	OpMigrate  = "migrate"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
