package usecase

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/internal/utils"
)

var supportedChannels = map[string]bool{
	"mtn-gh":      true,
	"vodafone-gh": true,
	"tigo-gh":     true,
}

// normalizeInitiateRequest trims fields, rewrites local MSISDNs and applies the default callback URL
func normalizeInitiateRequest(req models.InitiateRequest, defaultCallbackURL string) models.InitiateRequest {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerMsisdn = utils.NormalizeMSISDN(req.CustomerMsisdn)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.Channel = strings.ToLower(strings.TrimSpace(req.Channel))
	req.Description = strings.TrimSpace(req.Description)
	req.ClientReference = strings.TrimSpace(req.ClientReference)
	req.CallbackURL = utils.FirstNonBlank(req.CallbackURL, defaultCallbackURL)
	return req
}

// validateInitiateRequest returns every rule violation in field order
func validateInitiateRequest(req models.InitiateRequest) []string {
	var errs []string

	if len([]rune(req.CustomerName)) > 100 {
		errs = append(errs, "Customer name must not exceed 100 characters.")
	}
	if !utils.IsValidMSISDN(req.CustomerMsisdn) {
		errs = append(errs, "Customer mobile number must be 12 digits starting with 233.")
	}
	if req.CustomerEmail != "" {
		if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
			errs = append(errs, "Customer email is not a valid email address.")
		}
	}
	if !supportedChannels[req.Channel] {
		errs = append(errs, "Channel must be one of mtn-gh, vodafone-gh or tigo-gh.")
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, "Amount must be greater than 0.")
	} else if !req.Amount.Equal(req.Amount.Truncate(2)) {
		errs = append(errs, "Amount must have at most 2 decimal places.")
	}
	if req.Description == "" {
		errs = append(errs, "Description is required.")
	} else if len([]rune(req.Description)) > 500 {
		errs = append(errs, "Description must not exceed 500 characters.")
	}
	switch {
	case req.ClientReference == "":
		errs = append(errs, "Client reference is required.")
	case len(req.ClientReference) > 36:
		errs = append(errs, "Client reference must not exceed 36 characters.")
	case !utils.IsAlphanumeric(req.ClientReference):
		errs = append(errs, "Client reference must be alphanumeric.")
	}
	if req.CallbackURL == "" {
		errs = append(errs, "Callback URL is required.")
	} else if !isAbsoluteHTTPURL(req.CallbackURL) {
		errs = append(errs, "Callback URL must be an absolute http or https URL.")
	}

	return errs
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateCallbackRequest(req models.CallbackRequest) []string {
	var errs []string

	code := strings.TrimSpace(req.ResponseCode)
	if code == "" {
		errs = append(errs, "ResponseCode is required.")
	} else if len(code) > 10 {
		errs = append(errs, "ResponseCode must not exceed 10 characters.")
	}

	if req.Data == nil {
		return append(errs, "Data is required.")
	}

	ref := strings.TrimSpace(req.Data.ClientReference)
	if ref == "" {
		errs = append(errs, "Data.ClientReference is required.")
	} else if len(ref) > 36 {
		errs = append(errs, "Data.ClientReference must not exceed 36 characters.")
	}
	if strings.TrimSpace(req.Data.TransactionID) == "" {
		errs = append(errs, "Data.TransactionId is required.")
	}
	if !req.Data.Amount.IsPositive() {
		errs = append(errs, "Data.Amount must be greater than 0.")
	}

	return errs
}

func validateStatusQuery(query models.StatusQuery) []string {
	var errs []string

	if strings.TrimSpace(query.ClientReference) == "" &&
		strings.TrimSpace(query.TransactionID) == "" &&
		strings.TrimSpace(query.NetworkTransactionID) == "" {
		errs = append(errs, "At least one identifier is required: clientReference, transactionId or networkTransactionId.")
	}
	if len(strings.TrimSpace(query.ClientReference)) > 36 {
		errs = append(errs, "clientReference must not exceed 36 characters.")
	}
	if len(strings.TrimSpace(query.TransactionID)) > 64 {
		errs = append(errs, "transactionId must not exceed 64 characters.")
	}
	if len(strings.TrimSpace(query.NetworkTransactionID)) > 64 {
		errs = append(errs, "networkTransactionId must not exceed 64 characters.")
	}

	return errs
}
