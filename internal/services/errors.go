package services

// Stable reason codes surfaced to callers. Retry guidance is implied by the
// code itself (e.g. a client seeing invalid_credential_format should fix the
// secret and resubmit).
const (
	CodeAuthRequired            = "auth_required"
	CodeValidationError         = "validation_error"
	CodeInvalidCredentialFormat = "invalid_credential_format"
	CodeZeroBalanceNotAllowed   = "zero_balance_not_allowed"
	CodeNotFound                = "not_found"
	CodeInternal                = "internal"
)

// ServiceError pairs a machine-checkable code with a human-readable message.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// ErrorCode extracts the reason code from err, defaulting to internal.
func ErrorCode(err error) string {
	if se, ok := err.(*ServiceError); ok {
		return se.Code
	}
	return CodeInternal
}
