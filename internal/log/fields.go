// Package log defines shared field names for structured logging.
package log

// Common field names.
const (
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
)

// Domain field names.
const (
	FieldWeekPlanID = "week_plan_id"
	FieldItemID     = "item_id"
	FieldVendorID   = "vendor_id"
	FieldStartDate  = "start_date"
	FieldStatus     = "status"
)
