package models

import "time"

// PaymentEventFinalized is the type of the event published once a payment reaches a final state
const PaymentEventFinalized = "payment.finalized"

// Payment event sources
const (
	PaymentEventSourceCallback       = "callback"
	PaymentEventSourceReconciliation = "reconciliation"
)

// PaymentEvent notifies downstream consumers of a final payment outcome
type PaymentEvent struct {
	EventID         string    `json:"event_id"`
	Type            string    `json:"type"`
	TransactionID   string    `json:"transaction_id"`
	ClientReference string    `json:"client_reference"`
	Status          string    `json:"status"`
	ResponseCode    string    `json:"response_code,omitempty"`
	IsSuccess       bool      `json:"is_success"`
	Source          string    `json:"source"`
	OccurredAt      time.Time `json:"occurred_at"`
}
