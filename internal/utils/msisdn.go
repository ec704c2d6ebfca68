package utils

import (
	"regexp"
	"strings"
)

// GhanaCountryCode prefixes every wallet number accepted by the gateway
const GhanaCountryCode = "233"

var ghanaMSISDNPattern = regexp.MustCompile(`^233\d{9}$`)

// NormalizeMSISDN strips separators and rewrites local (0XX) numbers to 233XX
func NormalizeMSISDN(msisdn string) string {
	stripped := strings.NewReplacer("-", "", " ", "", "+", "").Replace(strings.TrimSpace(msisdn))
	if strings.HasPrefix(stripped, "0") && len(stripped) == 10 {
		return GhanaCountryCode + stripped[1:]
	}
	return stripped
}

// IsValidMSISDN reports whether msisdn is exactly 12 digits starting with 233
func IsValidMSISDN(msisdn string) bool {
	return ghanaMSISDNPattern.MatchString(msisdn)
}

// MaskMSISDN keeps the first and last three characters, e.g. 233***567
func MaskMSISDN(msisdn string) string {
	if len(msisdn) < 6 {
		return "****"
	}
	return msisdn[:3] + "***" + msisdn[len(msisdn)-3:]
}
