package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"

	"github.com/shopspring/decimal"
)

type walletRepository struct{ s *Store }

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var out *models.Wallet
	err := r.s.run(ctx, func(st *state) error {
		w, ok := st.wallets[userID]
		if !ok {
			return apperrors.ErrWalletNotFound
		}
		out = &w
		return nil
	})
	return out, err
}

// GetOrCreateForUpdate needs no row lock: transactions are already serialized.
func (r *walletRepository) GetOrCreateForUpdate(ctx context.Context, userID uint) (*models.Wallet, error) {
	var out *models.Wallet
	err := r.s.run(ctx, func(st *state) error {
		w, ok := st.wallets[userID]
		if !ok {
			st.walletSeq++
			now := time.Now()
			w = models.Wallet{
				ID:        st.walletSeq,
				UserID:    userID,
				Available: decimal.Zero,
				Locked:    decimal.Zero,
				CreatedAt: now,
				UpdatedAt: now,
			}
			st.wallets[userID] = w
		}
		out = &w
		return nil
	})
	return out, err
}

func (r *walletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	return r.s.run(ctx, func(st *state) error {
		if _, ok := st.wallets[wallet.UserID]; !ok {
			return fmt.Errorf("failed to update wallet: user %d has no wallet", wallet.UserID)
		}
		wallet.UpdatedAt = time.Now()
		st.wallets[wallet.UserID] = *wallet
		return nil
	})
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *models.WalletTransaction) error {
	return r.s.run(ctx, func(st *state) error {
		if tx.ReversalOf != nil {
			for _, e := range st.ledger {
				if e.ReversalOf != nil && *e.ReversalOf == *tx.ReversalOf {
					return fmt.Errorf("failed to create transaction: entry %d already reversed", *tx.ReversalOf)
				}
			}
		}
		st.ledgerSeq++
		tx.ID = st.ledgerSeq
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = time.Now()
		}
		if tx.Status == "" {
			tx.Status = models.TransactionStatusSuccess
		}
		st.ledger = append(st.ledger, *tx)
		return nil
	})
}

func (r *walletRepository) GetTransactionByID(ctx context.Context, id uint) (*models.WalletTransaction, error) {
	var out *models.WalletTransaction
	err := r.s.run(ctx, func(st *state) error {
		for _, e := range st.ledger {
			if e.ID == id {
				e := e
				out = &e
				return nil
			}
		}
		return apperrors.ErrTransactionNotFound
	})
	return out, err
}

func (r *walletRepository) HasReversal(ctx context.Context, transactionID uint) (bool, error) {
	found := false
	err := r.s.run(ctx, func(st *state) error {
		for _, e := range st.ledger {
			if e.ReversalOf != nil && *e.ReversalOf == transactionID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *walletRepository) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var out []models.WalletTransaction
	err := r.s.run(ctx, func(st *state) error {
		for _, e := range st.ledger {
			if e.UserID == userID {
				out = append(out, e)
			}
		}
		// ids grow with time, newest first
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

func (r *walletRepository) LedgerTotal(ctx context.Context, userID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.s.run(ctx, func(st *state) error {
		for _, e := range st.ledger {
			if e.UserID == userID && e.Status == models.TransactionStatusSuccess {
				total = total.Add(e.Signed())
			}
		}
		return nil
	})
	return total, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
