// Package decision translates gateway response codes and messages into
// structured handling decisions shared by the initiation, callback and
// reconciliation paths.
package decision

import (
	"fmt"
	"strings"
)

// Category groups gateway outcomes by who has to act on them
type Category string

const (
	CategorySuccess            Category = "Success"
	CategoryPending            Category = "Pending"
	CategoryCustomerError      Category = "CustomerError"
	CategoryValidationError    Category = "ValidationError"
	CategoryConfigurationError Category = "ConfigurationError"
	CategoryPermissionError    Category = "PermissionError"
	CategoryTransientError     Category = "TransientError"
	CategoryUnknown            Category = "Unknown"
)

// NextAction tells the caller what to do with an outcome
type NextAction string

const (
	NextActionNone                    NextAction = "None"
	NextActionWaitForCallback         NextAction = "WaitForCallback"
	NextActionAskCustomerToRetry      NextAction = "AskCustomerToRetry"
	NextActionAskCustomerToCheckFunds NextAction = "AskCustomerToCheckFunds"
	NextActionFixRequest              NextAction = "FixRequest"
	NextActionContactProviderSupport  NextAction = "ContactProviderSupport"
	NextActionCheckAuthAndKeys        NextAction = "CheckAuthAndKeys"
	NextActionNotAllowed              NextAction = "NotAllowed"
	NextActionRetryLater              NextAction = "RetryLater"
)

const (
	CodeSuccess         = "0000"
	CodePending         = "0001"
	CodeCustomerFailure = "2001"
	CodeValidation      = "4000"
	CodeFeesNotSet      = "4070"
	CodeSetupIncomplete = "4101"
	CodePermission      = "4103"
	CodeUnknown         = "UNKNOWN"
)

// Decision is the classification of a single gateway response
type Decision struct {
	Code            string     `json:"code"`
	Description     string     `json:"description"`
	Category        Category   `json:"category"`
	NextAction      NextAction `json:"next_action"`
	IsSuccess       bool       `json:"is_success"`
	IsFinal         bool       `json:"is_final"`
	ShouldRetry     bool       `json:"should_retry"`
	CustomerMessage string     `json:"customer_message"`
	DeveloperHint   string     `json:"developer_hint,omitempty"`
}

// byCode is keyed by upper-cased code and never mutated after init.
var byCode = map[string]Decision{
	CodeSuccess: {
		Code:            CodeSuccess,
		Description:     "The transaction has been processed successfully.",
		Category:        CategorySuccess,
		NextAction:      NextActionNone,
		IsSuccess:       true,
		IsFinal:         true,
		CustomerMessage: "Payment successful.",
	},
	CodePending: {
		Code:            CodePending,
		Description:     "Request has been accepted. A callback will be sent on final state.",
		Category:        CategoryPending,
		NextAction:      NextActionWaitForCallback,
		CustomerMessage: "Payment request received. Please confirm on your phone.",
		DeveloperHint:   "Do not mark as failed. Persist as pending and await the callback.",
	},
	CodeCustomerFailure: {
		Code:            CodeCustomerFailure,
		Description:     "Mobile money customer or rail failure (PIN, funds, limits, timeout, invalid transaction).",
		Category:        CategoryCustomerError,
		NextAction:      NextActionAskCustomerToRetry,
		IsFinal:         true,
		CustomerMessage: "Payment could not be completed. Please try again.",
		DeveloperHint:   "Use the message text to tell insufficient funds, wrong PIN, timeout and invalid transaction apart.",
	},
	CodeValidation: {
		Code:            CodeValidation,
		Description:     "Validation errors. Something is not quite right with this request.",
		Category:        CategoryValidationError,
		NextAction:      NextActionFixRequest,
		IsFinal:         true,
		CustomerMessage: "We couldn't start the payment due to invalid details.",
		DeveloperHint:   "Inspect the request payload and log the validation details returned by the gateway.",
	},
	CodeFeesNotSet: {
		Code:            CodeFeesNotSet,
		Description:     "Unable to complete payment at the moment. Fees not set for given conditions.",
		Category:        CategoryConfigurationError,
		NextAction:      NextActionContactProviderSupport,
		IsFinal:         true,
		ShouldRetry:     true,
		CustomerMessage: "Payment is temporarily unavailable. Please try again later.",
		DeveloperHint:   "Ensure the minimum amount is passed, otherwise ask the provider to set up fees.",
	},
	CodeSetupIncomplete: {
		Code:            CodeSetupIncomplete,
		Description:     "Business not fully set up, auth scopes or keys mismatch, or POS sales number missing.",
		Category:        CategoryConfigurationError,
		NextAction:      NextActionCheckAuthAndKeys,
		IsFinal:         true,
		CustomerMessage: "Payment service is not available for this merchant at the moment.",
		DeveloperHint:   "Check basic auth credentials, API key scopes (mobilemoney-receive-direct) and the POS sales number.",
	},
	CodePermission: {
		Code:            CodePermission,
		Description:     "Permission denied. Account not allowed to transact on this channel.",
		Category:        CategoryPermissionError,
		NextAction:      NextActionNotAllowed,
		IsFinal:         true,
		CustomerMessage: "This payment method is not available right now.",
		DeveloperHint:   "Ask the provider to enable channel permissions for the merchant account.",
	},
}

// refinement adjusts a 2001 decision when the message contains one of its needles
type refinement struct {
	needles []string
	apply   func(d Decision) Decision
}

// refinements2001 is evaluated in order; the first match wins.
var refinements2001 = []refinement{
	{
		needles: []string{"insufficient funds", "avail. balance", "balance limits", "counter", "limit"},
		apply: func(d Decision) Decision {
			d.NextAction = NextActionAskCustomerToCheckFunds
			d.CustomerMessage = "Insufficient funds or account limits reached. Please top up and try again."
			d.DeveloperHint = "Customer funds or limits issue, not a system error."
			return d
		},
	},
	{
		needles: []string{"wrong pin", "invalid pin", "entered the wrong pin", "no or invalid pin", "missing permissions"},
		apply: func(d Decision) Decision {
			d.NextAction = NextActionAskCustomerToRetry
			d.CustomerMessage = "Incorrect PIN. Please try again."
			d.DeveloperHint = "Customer entered a wrong or invalid PIN."
			return d
		},
	},
	{
		needles: []string{"ussd session timeout", "session timeout", "timeout"},
		apply: func(d Decision) Decision {
			d.NextAction = NextActionAskCustomerToRetry
			d.CustomerMessage = "The confirmation timed out. Please try again and confirm promptly."
			d.DeveloperHint = "USSD session timed out."
			return d
		},
	},
	{
		needles: []string{"transaction id is invalid", "invalid transaction"},
		apply: func(d Decision) Decision {
			d.NextAction = NextActionAskCustomerToRetry
			d.CustomerMessage = "Payment could not be verified. Please try again."
			d.DeveloperHint = "Invalid or unknown transaction id returned by the provider."
			return d
		},
	},
	{
		needles: []string{"not able to parse", "strange characters", "(&*!%@)", "parse your request"},
		apply: func(d Decision) Decision {
			d.Category = CategoryValidationError
			d.NextAction = NextActionFixRequest
			d.CustomerMessage = "We couldn't start the payment due to invalid details. Please try again."
			d.DeveloperHint = "Sanitize the description and request fields, avoid special characters."
			return d
		},
	},
	{
		needles: []string{"matches the channel", "number provided matches the channel", "ensure that the number provided matches"},
		apply: func(d Decision) Decision {
			d.Category = CategoryValidationError
			d.NextAction = NextActionFixRequest
			d.CustomerMessage = "The phone number doesn't match the selected network. Please correct it and try again."
			d.DeveloperHint = "Ensure the MSISDN matches the channel network (MTN, Vodafone, AirtelTigo)."
			return d
		},
	},
	{
		needles: []string{"fri not found", "account holder"},
		apply: func(d Decision) Decision {
			d.NextAction = NextActionAskCustomerToRetry
			d.CustomerMessage = "We couldn't validate this account. Please confirm your number and try again."
			d.DeveloperHint = "Provider account holder lookup failed (FRI not found)."
			return d
		},
	},
	{
		needles: []string{"vodafone cash failed", "vodafone failed"},
		apply: func(d Decision) Decision {
			d.Category = CategoryTransientError
			d.NextAction = NextActionRetryLater
			d.ShouldRetry = true
			d.CustomerMessage = "Vodafone Cash is currently unavailable. Please try again later."
			d.DeveloperHint = "Likely a provider-side transient issue."
			return d
		},
	},
}

// Classify maps a gateway response code and optional message to a Decision.
// It is pure and safe for concurrent use.
func Classify(code, message string) Decision {
	code = strings.TrimSpace(code)
	message = strings.TrimSpace(message)

	base, ok := byCode[strings.ToUpper(code)]
	if !ok {
		unknownCode := code
		if unknownCode == "" {
			unknownCode = CodeUnknown
		}
		return Decision{
			Code:            unknownCode,
			Description:     "Unknown response code from the gateway.",
			Category:        CategoryUnknown,
			NextAction:      NextActionRetryLater,
			IsFinal:         true,
			ShouldRetry:     true,
			CustomerMessage: "We couldn't complete the payment. Please try again.",
			DeveloperHint:   fmt.Sprintf("Unhandled gateway response code '%s'. Capture and map it. Raw message: '%s'.", code, message),
		}
	}

	if base.Code == CodeCustomerFailure {
		return refine2001(base, message)
	}
	return base
}

func refine2001(base Decision, message string) Decision {
	if message == "" {
		return base
	}

	lower := strings.ToLower(message)
	for _, r := range refinements2001 {
		if containsAny(lower, r.needles) {
			return r.apply(base)
		}
	}

	base.CustomerMessage = "Payment could not be completed. Please try again."
	base.DeveloperHint = fmt.Sprintf("2001 variant not specifically mapped. Raw message: '%s'.", message)
	return base
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// ClassifyStatus maps a free-text status from the status endpoint.
// Unrecognised values are treated as still pending.
func ClassifyStatus(status string) (isFinal, isSuccess bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "successful", "paid":
		return true, true
	case "failed", "unpaid", "refunded", "cancelled":
		return true, false
	default:
		return false, false
	}
}
