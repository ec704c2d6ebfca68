package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/apperror"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success         bool              `json:"success"`
	Error           string            `json:"error"`
	Message         string            `json:"message,omitempty"`
	Code            int               `json:"code,omitempty"`
	ProviderCode    string            `json:"provider_code,omitempty"`
	ProviderMessage string            `json:"provider_message,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// SuccessResponse sends a success response with data
func SuccessResponse(c echo.Context, statusCode int, message string, data interface{}) error {
	return c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseHandler sends an error response
func ErrorResponseHandler(c echo.Context, statusCode int, errorMessage string) error {
	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   errorMessage,
		Code:    statusCode,
	})
}

// AppErrorResponse renders err with the status mapped from its apperror type.
// Untyped errors are hidden behind a generic 500.
func AppErrorResponse(c echo.Context, err error) error {
	appErr, ok := apperror.As(err)
	if !ok {
		return InternalServerErrorResponse(c, "")
	}

	statusCode := apperror.HTTPStatus(appErr)
	return c.JSON(statusCode, ErrorResponse{
		Success:         false,
		Error:           appErr.Code,
		Message:         appErr.Description,
		Code:            statusCode,
		ProviderCode:    appErr.ProviderCode,
		ProviderMessage: appErr.ProviderMessage,
		Metadata:        appErr.Metadata,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, errorMessage string) error {
	return ErrorResponseHandler(c, http.StatusBadRequest, errorMessage)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Unauthorized"
	}
	return ErrorResponseHandler(c, http.StatusUnauthorized, errorMessage)
}

// ForbiddenResponse sends a 403 Forbidden response
func ForbiddenResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Forbidden"
	}
	return ErrorResponseHandler(c, http.StatusForbidden, errorMessage)
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Internal server error"
	}
	return ErrorResponseHandler(c, http.StatusInternalServerError, errorMessage)
}
