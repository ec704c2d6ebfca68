package middleware

import (
	"crypto/subtle"
	"net/http"
	"net/netip"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/models"
)

// Callback guard failure codes
const (
	CallbackInvalidSignature = "Callback.InvalidSignature"
	CallbackInvalidSource    = "Callback.InvalidSource"
)

// CallbackGuard rejects callbacks that carry the wrong shared secret or come from outside the allowed networks.
// It is a pass-through when validation is disabled.
func CallbackGuard(config models.CallbackConfig) echo.MiddlewareFunc {
	header := config.SecretHeader
	if header == "" {
		header = "X-Callback-Secret"
	}
	prefixes := parseAllowedSources(config.AllowedCIDRs)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !config.EnableValidation {
			return next
		}

		return func(c echo.Context) error {
			if config.SharedSecret != "" {
				provided := c.Request().Header.Get(header)
				if subtle.ConstantTimeCompare([]byte(provided), []byte(config.SharedSecret)) != 1 {
					logger.Warn("Callback rejected: invalid shared secret",
						logger.String("client_ip", c.RealIP()))
					return c.JSON(http.StatusUnauthorized, map[string]string{
						"error":   CallbackInvalidSignature,
						"message": "Callback signature validation failed.",
					})
				}
			}

			if len(config.AllowedCIDRs) > 0 && !sourceAllowed(c.RealIP(), prefixes) {
				logger.Warn("Callback rejected: source not allowed",
					logger.String("client_ip", c.RealIP()))
				return c.JSON(http.StatusForbidden, map[string]string{
					"error":   CallbackInvalidSource,
					"message": "Callback source IP is not allowed.",
				})
			}

			return next(c)
		}
	}
}

// parseAllowedSources accepts CIDR blocks and bare addresses. Unparseable entries are logged and skipped.
func parseAllowedSources(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		logger.Warn("Ignoring invalid callback allow-list entry", logger.String("entry", entry))
	}
	return prefixes
}

func sourceAllowed(ip string, prefixes []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
