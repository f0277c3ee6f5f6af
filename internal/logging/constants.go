package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile        = "file_name"
	FieldInstitution = "institution"
	FieldAccountID   = "account_id"
	FieldRow         = "row"
	FieldCount       = "count"
	FieldImported    = "imported"
	FieldSkipped     = "skipped"
	FieldCategory    = "category"
	FieldKeyword     = "keyword"
	FieldTag         = "tag"
	FieldTransaction = "transaction_id"
	FieldHash        = "content_hash"
	FieldReason      = "reason"
	FieldAddr        = "addr"
)
