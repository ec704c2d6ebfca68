package models

import "github.com/shopspring/decimal"

// StatusQuery identifies a transaction to look up. At least one id is required.
type StatusQuery struct {
	ClientReference      string `json:"client_reference,omitempty" query:"clientReference"`
	TransactionID        string `json:"transaction_id,omitempty" query:"transactionId"`
	NetworkTransactionID string `json:"network_transaction_id,omitempty" query:"networkTransactionId"`
	AccountID            string `json:"-" query:"-"`
}

// GatewayStatusResponse is the status API response
type GatewayStatusResponse struct {
	Message      string             `json:"message"`
	ResponseCode string             `json:"responseCode"`
	Data         *GatewayStatusData `json:"data"`
}

// GatewayStatusData is the transaction snapshot returned by the status API
type GatewayStatusData struct {
	Date                  string           `json:"date"`
	Status                string           `json:"status"`
	TransactionID         string           `json:"transactionId"`
	ExternalTransactionID string           `json:"externalTransactionId"`
	PaymentMethod         string           `json:"paymentMethod"`
	ClientReference       string           `json:"clientReference"`
	CurrencyCode          string           `json:"currencyCode"`
	Amount                decimal.Decimal  `json:"amount"`
	Charges               *decimal.Decimal `json:"charges"`
	AmountAfterCharges    *decimal.Decimal `json:"amountAfterCharges"`
	IsFulfilled           *bool            `json:"isFulfilled"`
}

// StatusResult is the status lookup outcome returned to callers
type StatusResult struct {
	ResponseCode          string           `json:"response_code"`
	Message               string           `json:"message,omitempty"`
	Status                string           `json:"status"`
	TransactionID         string           `json:"transaction_id"`
	ExternalTransactionID string           `json:"external_transaction_id,omitempty"`
	ClientReference       string           `json:"client_reference"`
	PaymentMethod         string           `json:"payment_method,omitempty"`
	CurrencyCode          string           `json:"currency_code,omitempty"`
	Amount                decimal.Decimal  `json:"amount"`
	Charges               *decimal.Decimal `json:"charges,omitempty"`
	AmountAfterCharges    *decimal.Decimal `json:"amount_after_charges,omitempty"`
	IsFulfilled           *bool            `json:"is_fulfilled,omitempty"`
	Date                  string           `json:"date,omitempty"`
	Category              string           `json:"category"`
	NextAction            string           `json:"next_action"`
	IsFinal               bool             `json:"is_final"`
	IsSuccess             bool             `json:"is_success"`
}
