// Package memory is a process-local implementation of the repository contracts.
//
// Transactions are serialized: a transaction works on a private copy of the data that
// replaces the shared copy on commit, so a failed callback leaves nothing behind. This gives
// the same atomicity and row-lock guarantees the relational store provides, at the price of
// no concurrency between writers. It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"

	"refnet/internal/models"
	"refnet/internal/repositories"
)

type state struct {
	users       map[uint]models.User
	edges       []models.ReferralEdge
	configs     map[int]models.CommissionConfig
	records     []models.CommissionRecord
	wallets     map[uint]models.Wallet // by user id
	ledger      []models.WalletTransaction
	withdrawals map[uint]models.WithdrawalRequest
	recharges   map[uint]models.RechargeRequest

	userSeq, edgeSeq, recordSeq, walletSeq, ledgerSeq, withdrawalSeq, rechargeSeq uint
}

func newState() *state {
	return &state{
		users:       make(map[uint]models.User),
		configs:     make(map[int]models.CommissionConfig),
		wallets:     make(map[uint]models.Wallet),
		withdrawals: make(map[uint]models.WithdrawalRequest),
		recharges:   make(map[uint]models.RechargeRequest),
	}
}

func (s *state) clone() *state {
	cp := *s
	cp.users = make(map[uint]models.User, len(s.users))
	for k, v := range s.users {
		cp.users[k] = v
	}
	cp.edges = append([]models.ReferralEdge(nil), s.edges...)
	cp.configs = make(map[int]models.CommissionConfig, len(s.configs))
	for k, v := range s.configs {
		cp.configs[k] = v
	}
	cp.records = append([]models.CommissionRecord(nil), s.records...)
	cp.wallets = make(map[uint]models.Wallet, len(s.wallets))
	for k, v := range s.wallets {
		cp.wallets[k] = v
	}
	cp.ledger = append([]models.WalletTransaction(nil), s.ledger...)
	cp.withdrawals = make(map[uint]models.WithdrawalRequest, len(s.withdrawals))
	for k, v := range s.withdrawals {
		cp.withdrawals[k] = v
	}
	cp.recharges = make(map[uint]models.RechargeRequest, len(s.recharges))
	for k, v := range s.recharges {
		cp.recharges[k] = v
	}
	return &cp
}

type shared struct {
	mu sync.Mutex
	st *state
}

// Store implements repositories.Store.
type Store struct {
	shared *shared
	tx     *state // set inside ExecuteInTransaction
}

var _ repositories.Store = (*Store)(nil)

func New() *Store {
	return &Store{shared: &shared{st: newState()}}
}

// run executes fn against the transaction state, or against the shared state under the
// lock when called outside a transaction.
func (s *Store) run(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s.tx)
	}
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	return fn(s.shared.st)
}

func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s)
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	work := s.shared.st.clone()
	if err := fn(&Store{shared: s.shared, tx: work}); err != nil {
		return err
	}
	s.shared.st = work
	return nil
}

func (s *Store) Users() repositories.UserRepository             { return &userRepository{s} }
func (s *Store) Referrals() repositories.ReferralRepository     { return &referralRepository{s} }
func (s *Store) Commissions() repositories.CommissionRepository { return &commissionRepository{s} }
func (s *Store) Wallets() repositories.WalletRepository         { return &walletRepository{s} }
func (s *Store) Requests() repositories.RequestRepository       { return &requestRepository{s} }
