package logging

// Standardized field names for structured logging, so entries can be
// filtered by the same keys regardless of the component that emitted them.
const (
	FieldFile        = "file_path"
	FieldFormat      = "format"
	FieldStatus      = "status"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCount       = "count"
	FieldDuration    = "duration_ms"
	FieldRecordIndex = "record_index"
	FieldField       = "field"
	FieldBank        = "bank"
	FieldChatID      = "chat_id"
	FieldStep        = "step"
	FieldState       = "state"
	FieldStaffCode   = "staff_code"
	FieldOutputFile  = "output_file"
)
