package models

import "github.com/shopspring/decimal"

// Initiation statuses
const (
	InitiationStatusSuccess = "Success"
	InitiationStatusPending = "Pending"
	InitiationStatusFailed  = "Failed"
)

// InitiateRequest is a merchant request to debit a customer's wallet
type InitiateRequest struct {
	CustomerName    string          `json:"customer_name"`
	CustomerMsisdn  string          `json:"customer_msisdn"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	Channel         string          `json:"channel"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ClientReference string          `json:"client_reference"`
	CallbackURL     string          `json:"callback_url,omitempty"`
}

// InitiateResult is the outcome of an initiation returned to the caller
type InitiateResult struct {
	TransactionID      string           `json:"transaction_id"`
	ClientReference    string           `json:"client_reference"`
	Amount             decimal.Decimal  `json:"amount"`
	Charges            *decimal.Decimal `json:"charges,omitempty"`
	AmountAfterCharges *decimal.Decimal `json:"amount_after_charges,omitempty"`
	AmountCharged      *decimal.Decimal `json:"amount_charged,omitempty"`
	DeliveryFee        *decimal.Decimal `json:"delivery_fee,omitempty"`
	Description        string           `json:"description,omitempty"`
	Status             string           `json:"status"`
	ResponseCode       string           `json:"response_code"`
	Category           string           `json:"category"`
	NextAction         string           `json:"next_action"`
	CustomerMessage    string           `json:"customer_message"`
	RawMessage         string           `json:"raw_message,omitempty"`
	// Reconcilable is false when the gateway reported a pending state without
	// returning a transaction id, so neither callback nor polling can confirm it.
	Reconcilable bool `json:"reconcilable"`
}

// GatewayInitiateRequest is the wire body sent to the collection API
type GatewayInitiateRequest struct {
	AccountID               string `json:"-"`
	CustomerName            string `json:"CustomerName,omitempty"`
	CustomerMsisdn          string `json:"CustomerMsisdn"`
	CustomerEmail           string `json:"CustomerEmail,omitempty"`
	Channel                 string `json:"Channel"`
	Amount                  string `json:"Amount"`
	PrimaryCallbackEndpoint string `json:"PrimaryCallbackEndpoint"`
	Description             string `json:"Description"`
	ClientReference         string `json:"ClientReference"`
}

// GatewayInitiateResponse is the collection API response
type GatewayInitiateResponse struct {
	ResponseCode string                       `json:"ResponseCode"`
	Message      string                       `json:"Message"`
	Data         *GatewayInitiateResponseData `json:"Data"`
}

// GatewayInitiateResponseData carries the accepted transaction details
type GatewayInitiateResponseData struct {
	TransactionID      string           `json:"TransactionId"`
	ClientReference    string           `json:"ClientReference"`
	Description        string           `json:"Description"`
	Amount             decimal.Decimal  `json:"Amount"`
	Charges            *decimal.Decimal `json:"Charges"`
	AmountAfterCharges *decimal.Decimal `json:"AmountAfterCharges"`
	AmountCharged      *decimal.Decimal `json:"AmountCharged"`
	DeliveryFee        *decimal.Decimal `json:"DeliveryFee"`
}
