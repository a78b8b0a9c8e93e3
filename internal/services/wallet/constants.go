package wallet

// Operation names used for metrics and logs
const (
	OpCredit         = "credit"
	OpDebit          = "debit"
	OpMoveToLocked   = "move_to_locked"
	OpReleaseLocked  = "release_locked"
	OpFinalizeLocked = "finalize_locked"
	OpReverse        = "reverse"
	OpGetBalance     = "get_balance"
	OpReconcile      = "reconcile"
)

// History page sizes
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)
