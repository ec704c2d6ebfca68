package models

import "time"

// PendingTransaction is a gateway transaction awaiting its final outcome
type PendingTransaction struct {
	TransactionID   string    `json:"transaction_id" db:"transaction_id"`
	ClientReference string    `json:"client_reference" db:"client_reference"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// AuditStart is the answer of the audit ledger to a new callback delivery
type AuditStart struct {
	CanProcess bool
	Existing   *CallbackResult
}
