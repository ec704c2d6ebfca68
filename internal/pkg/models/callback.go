package models

import "github.com/shopspring/decimal"

// CallbackRequest is the webhook body posted by the gateway
type CallbackRequest struct {
	ResponseCode string        `json:"ResponseCode"`
	Message      string        `json:"Message,omitempty"`
	Data         *CallbackData `json:"Data"`
}

// CallbackData carries the transaction details of a callback
type CallbackData struct {
	Amount                decimal.Decimal  `json:"Amount"`
	Charges               *decimal.Decimal `json:"Charges,omitempty"`
	AmountAfterCharges    *decimal.Decimal `json:"AmountAfterCharges,omitempty"`
	AmountCharged         *decimal.Decimal `json:"AmountCharged,omitempty"`
	Description           string           `json:"Description,omitempty"`
	ClientReference       string           `json:"ClientReference"`
	TransactionID         string           `json:"TransactionId"`
	ExternalTransactionID string           `json:"ExternalTransactionId,omitempty"`
	OrderID               string           `json:"OrderId,omitempty"`
	PaymentDate           string           `json:"PaymentDate,omitempty"`
}

// CallbackResult is the processed outcome of a callback, stored in the audit ledger
type CallbackResult struct {
	ClientReference       string           `json:"client_reference"`
	TransactionID         string           `json:"transaction_id"`
	ResponseCode          string           `json:"response_code"`
	Category              string           `json:"category"`
	NextAction            string           `json:"next_action"`
	IsFinal               bool             `json:"is_final"`
	IsSuccess             bool             `json:"is_success"`
	CustomerMessage       string           `json:"customer_message"`
	RawMessage            string           `json:"raw_message,omitempty"`
	Amount                decimal.Decimal  `json:"amount"`
	Charges               *decimal.Decimal `json:"charges,omitempty"`
	AmountAfterCharges    *decimal.Decimal `json:"amount_after_charges,omitempty"`
	AmountCharged         *decimal.Decimal `json:"amount_charged,omitempty"`
	Description           string           `json:"description,omitempty"`
	ExternalTransactionID string           `json:"external_transaction_id,omitempty"`
	OrderID               string           `json:"order_id,omitempty"`
	PaymentDate           string           `json:"payment_date,omitempty"`
}
