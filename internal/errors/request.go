package errors

var (
	ErrRequestNotFound = &DomainError{
		Code:    "REQUEST_NOT_FOUND",
		Message: "request not found",
		Kind:    KindNotFound,
	}
	ErrRequestNotPending = &DomainError{
		Code:    "REQUEST_NOT_PENDING",
		Message: "request has already been processed",
		Kind:    KindConflict,
	}
	ErrMissingPayload = &DomainError{
		Code:    "MISSING_PAYLOAD",
		Message: "request details are required",
		Kind:    KindValidation,
	}
)
