package errors

var (
	ErrInvalidLevel = &DomainError{
		Code:    "INVALID_LEVEL",
		Message: "level is outside the configured referral depth",
		Kind:    KindValidation,
	}
	ErrInvalidPercent = &DomainError{
		Code:    "INVALID_PERCENT",
		Message: "percent must be between 0 and 100 with at most two decimals",
		Kind:    KindValidation,
	}
	ErrInvalidOrder = &DomainError{
		Code:    "INVALID_ORDER",
		Message: "order id is required",
		Kind:    KindValidation,
	}
	ErrConfigNotFound = &DomainError{
		Code:    "CONFIG_NOT_FOUND",
		Message: "commission config not found",
		Kind:    KindNotFound,
	}
)
