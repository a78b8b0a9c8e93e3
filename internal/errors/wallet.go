package errors

var (
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient available balance",
		Kind:    KindInsufficientFunds,
	}
	ErrInsufficientLocked = &DomainError{
		Code:    "INSUFFICIENT_LOCKED",
		Message: "insufficient locked balance",
		Kind:    KindInsufficientFunds,
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
		Kind:    KindNotFound,
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "wallet transaction not found",
		Kind:    KindNotFound,
	}
	ErrAlreadyReversed = &DomainError{
		Code:    "ALREADY_REVERSED",
		Message: "wallet transaction already reversed",
		Kind:    KindConflict,
	}
	ErrNotReversible = &DomainError{
		Code:    "NOT_REVERSIBLE",
		Message: "reversal entries cannot be reversed",
		Kind:    KindValidation,
	}
	ErrLedgerMismatch = &DomainError{
		Code:    "LEDGER_MISMATCH",
		Message: "wallet balance does not match its ledger",
		Kind:    KindPersistence,
	}
)
