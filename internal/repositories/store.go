package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that take part in one unit of work. Repositories obtained
// from the Store handed to an ExecuteInTransaction callback all run inside that transaction.
type Store interface {
	Users() UserRepository
	Referrals() ReferralRepository
	Commissions() CommissionRepository
	Wallets() WalletRepository
	Requests() RequestRepository

	// ExecuteInTransaction commits when fn returns nil and rolls back otherwise.
	// Calling it on a transactional Store joins the running transaction.
	ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore returns the gorm backed Store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository             { return NewUserRepository(s.db) }
func (s *store) Referrals() ReferralRepository     { return NewReferralRepository(s.db) }
func (s *store) Commissions() CommissionRepository { return NewCommissionRepository(s.db) }
func (s *store) Wallets() WalletRepository         { return NewWalletRepository(s.db) }
func (s *store) Requests() RequestRepository       { return NewRequestRepository(s.db) }

func (s *store) ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
