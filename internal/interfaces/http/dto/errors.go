package dto

import "net/http"

// API error codes. Clients switch on these, so they never change once
// published.
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeInvariantViolation = "ERR_INVARIANT_VIOLATION"

	ErrCodeValidation    = "ERR_VALIDATION"
	ErrCodeInvalidAmount = "ERR_INVALID_AMOUNT"
	ErrCodeBadRequest    = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"

	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeCrossTenant         = "ERR_CROSS_TENANT_REFERENCE"

	ErrCodeInvalidState          = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock     = "ERR_INSUFFICIENT_STOCK"
	ErrCodeMissingPaymentMethod  = "ERR_MISSING_PAYMENT_METHOD"
	ErrCodeRegisterAlreadyOpen   = "ERR_REGISTER_ALREADY_OPEN"
	ErrCodeRegisterAlreadyClosed = "ERR_REGISTER_ALREADY_CLOSED"
	ErrCodeRegisterNotOpen       = "ERR_REGISTER_NOT_OPEN"
)

// errorCode ties an API code to its HTTP status and, when a domain error
// produces it, to the shared.DomainError code.
type errorCode struct {
	status int
	domain string
}

var errorCodes = map[string]errorCode{
	ErrCodeInternal:           {http.StatusInternalServerError, ""},
	ErrCodeInvariantViolation: {http.StatusInternalServerError, "INVARIANT_VIOLATION"},

	ErrCodeValidation:    {http.StatusBadRequest, ""},
	ErrCodeInvalidAmount: {http.StatusBadRequest, "INVALID_AMOUNT"},
	ErrCodeBadRequest:    {http.StatusBadRequest, ""},
	ErrCodeInvalidInput:  {http.StatusBadRequest, "INVALID_INPUT"},

	ErrCodeUnauthorized:    {http.StatusUnauthorized, ""},
	ErrCodeRequestTooLarge: {http.StatusRequestEntityTooLarge, ""},

	ErrCodeNotFound:            {http.StatusNotFound, "NOT_FOUND"},
	ErrCodeAlreadyExists:       {http.StatusConflict, "ALREADY_EXISTS"},
	ErrCodeConcurrencyConflict: {http.StatusConflict, "CONCURRENCY_CONFLICT"},
	ErrCodeCrossTenant:         {http.StatusUnprocessableEntity, "CROSS_TENANT_REFERENCE"},

	ErrCodeRegisterAlreadyOpen:   {http.StatusConflict, "REGISTER_ALREADY_OPEN"},
	ErrCodeRegisterAlreadyClosed: {http.StatusConflict, "REGISTER_ALREADY_CLOSED"},

	ErrCodeInvalidState:         {http.StatusUnprocessableEntity, "INVALID_STATE"},
	ErrCodeInsufficientStock:    {http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	ErrCodeMissingPaymentMethod: {http.StatusUnprocessableEntity, "MISSING_PAYMENT_METHOD"},
	ErrCodeRegisterNotOpen:      {http.StatusUnprocessableEntity, "REGISTER_NOT_OPEN"},
}

var fromDomainCode = func() map[string]string {
	m := make(map[string]string, len(errorCodes))
	for api, c := range errorCodes {
		if c.domain != "" {
			m[c.domain] = api
		}
	}
	return m
}()

// GetHTTPStatus returns 500 for codes it does not know.
func GetHTTPStatus(code string) int {
	if c, ok := errorCodes[code]; ok {
		return c.status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a shared.DomainError code into its API code.
// API codes and unknown codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if api, ok := fromDomainCode[code]; ok {
		return api
	}
	return code
}
