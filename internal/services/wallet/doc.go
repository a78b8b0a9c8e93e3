/*
Package wallet keeps the per-user balances and their append-only ledger.

A wallet holds an available and a locked amount. Every change to available + locked is
mirrored by exactly one ledger entry, so a wallet always folds to its ledger:

	available + locked == sum(CREDIT) - sum(DEBIT)

Moving money between available and locked writes no entry.

Usage:

	svc := wallet.NewService(store, cache, logger, metrics)

	// Credit a commission
	available, err := svc.Credit(ctx, wallet.Entry{
	    UserID:      uplineID,
	    Amount:      decimal.RequireFromString("100.00"),
	    Type:        models.TransactionTypeCommission,
	    ReferenceID: orderID,
	})

	// Hold funds for a withdrawal, then pay them out
	err = svc.MoveToLocked(ctx, userID, amount)
	entry, err := svc.FinalizeLocked(ctx, wallet.Entry{...})

Other services that move money as part of a larger unit of work use the Ledger returned by
Service.Ledger with their own transactional Store and call Service.Invalidate after commit.

Error Handling:

Amounts must be positive with at most two decimals (apperrors.ErrInvalidAmount). Debits
beyond the available balance fail with apperrors.ErrInsufficientFunds, releases beyond the
locked balance with apperrors.ErrInsufficientLocked. Reconcile reports a drift as
apperrors.ErrLedgerMismatch.

Cache Management:

Balances are read through an optional BalanceCache and invalidated after every committed
change. A miss is filled under the cache version read before the database lookup, so a
balance loaded before a concurrent commit is discarded. A cache failure never fails the
request.
*/
package wallet
