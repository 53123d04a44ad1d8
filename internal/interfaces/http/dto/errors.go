package dto

import "net/http"

// Error codes returned by the API. Domain error codes pass through
// unchanged so clients can match on them.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_QUANTITY":      http.StatusBadRequest,
	"INVALID_PRICE":         http.StatusBadRequest,
	"INVALID_NAME":          http.StatusBadRequest,
	"INVALID_EMAIL":         http.StatusBadRequest,
	"INVALID_PASSWORD":      http.StatusBadRequest,
	"INVALID_MOVEMENT_TYPE": http.StatusBadRequest,
	"INVALID_STATUS":        http.StatusBadRequest,
	"INVALID_PAYMENT_TERMS": http.StatusBadRequest,
	"INVALID_ROLE":          http.StatusBadRequest,
	"INVALID_TAX_ID":        http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SUPPLIER_IN_USE":      http.StatusConflict,

	// Business rule violations
	"INSUFFICIENT_STOCK":       http.StatusUnprocessableEntity,
	"INVALID_STATE_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_TRANSFER":         http.StatusUnprocessableEntity,
	"INACTIVE_PRODUCT":         http.StatusUnprocessableEntity,
	"INACTIVE_LOCATION":        http.StatusUnprocessableEntity,
	"EMPTY_ORDER":              http.StatusUnprocessableEntity,
	"DUPLICATE_ITEM":           http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
