package telebirr

import (
	"errors"
	"fmt"
)

const (
	CodeTransport        = "transport_error"
	CodeMalformed        = "malformed_response"
	CodeMissingField     = "missing_field"
	CodeRejected         = "rejected"
	CodeUnexpectedStatus = "unexpected_status"
)

// GatewayError is any failed exchange with the gateway: transport failures,
// non-2xx replies, bodies that fail schema validation and missing fields.
type GatewayError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
}

// GatewayErrorResponse is the error body the gateway returns with non-2xx codes.
type GatewayErrorResponse struct {
	ErrorCode     string `json:"errorCode"`
	ErrorMsg      string `json:"errorMsg"`
	ErrorSolution string `json:"errorSolution"`
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("gateway error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.Code == CodeTransport
}

// MissingFieldError reports an expected response field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("response field %s is missing", e.Field)
}

func newMissingFieldError(field string, statusCode int) *GatewayError {
	return &GatewayError{
		Code:       CodeMissingField,
		Message:    "incomplete gateway response",
		StatusCode: statusCode,
		Err:        &MissingFieldError{Field: field},
	}
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}
