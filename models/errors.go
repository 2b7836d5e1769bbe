package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeNoOffers     = "NO_OFFERS_FOUND"
	ErrCodeTimeout      = "SOURCE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CompareError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type CompareError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *CompareError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CompareError) Unwrap() error {
	return e.Err
}

// NewCompareError creates a new CompareError.
func NewCompareError(code, message string, err error) *CompareError {
	return &CompareError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *CompareError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
