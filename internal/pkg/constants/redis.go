package constants

// Redis key formats
const (
	// Callback audit ledger
	KeyCallbackAuditPrefix = "payments:callback:audit:" // Format: payments:callback:audit:{transaction_id}

	// Rate Limiting
	KeyRateLimit = "rate:limit:%s:%s" // Format: rate:limit:{resource}:{client}
)

// Redis hash fields for the callback audit ledger
const (
	FieldStatus       = "status"
	FieldPayloadHash  = "payload_hash"
	FieldRawPayload   = "raw_payload"
	FieldReceivedAt   = "received_at"
	FieldStartedAt    = "started_at"
	FieldProcessedAt  = "processed_at"
	FieldResult       = "result"
	FieldIsSuccess    = "is_success"
	FieldResponseCode = "response_code"
)

// Audit ledger states
const (
	AuditStatusProcessing = "processing"
	AuditStatusCompleted  = "completed"
	AuditStatusFailed     = "failed"
)
