package errors

var (
	ErrSelfReferral = &DomainError{
		Code:    "SELF_REFERRAL",
		Message: "a user cannot refer themselves",
		Kind:    KindValidation,
	}
	ErrAlreadyReferred = &DomainError{
		Code:    "ALREADY_REFERRED",
		Message: "user already has a referrer",
		Kind:    KindConflict,
	}
	ErrSponsorNotFound = &DomainError{
		Code:    "SPONSOR_NOT_FOUND",
		Message: "sponsor referral code not found",
		Kind:    KindNotFound,
	}
	ErrSponsorNotActivated = &DomainError{
		Code:    "SPONSOR_NOT_ACTIVATED",
		Message: "sponsor is not activated",
		Kind:    KindValidation,
	}
	ErrAlreadyActivated = &DomainError{
		Code:    "ALREADY_ACTIVATED",
		Message: "user is already activated",
		Kind:    KindConflict,
	}
	ErrInvalidStatusTransition = &DomainError{
		Code:    "INVALID_STATUS_TRANSITION",
		Message: "invalid activation status transition",
		Kind:    KindConflict,
	}
)
