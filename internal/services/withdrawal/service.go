// Package withdrawal runs the PENDING -> APPROVED | REJECTED lifecycle of payout requests.
// Funds are held in the locked balance while a request is pending.
package withdrawal

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/logger"
	"refnet/internal/models"
	"refnet/internal/money"
	"refnet/internal/repositories"
	"refnet/internal/services/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const referencePrefix = "WD-"

type CreateInput struct {
	UserID      uint
	Amount      decimal.Decimal
	BankDetails map[string]interface{}
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.WithdrawalRequest, error)
	Approve(ctx context.Context, requestID uint, note string) (*models.WithdrawalRequest, error)
	Reject(ctx context.Context, requestID uint, note string) (*models.WithdrawalRequest, error)
	Get(ctx context.Context, requestID uint) (*models.WithdrawalRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.WithdrawalRequest, int64, error)
}

type service struct {
	store   repositories.Store
	wallets wallet.Service
	logger  *zap.Logger
}

func NewService(store repositories.Store, wallets wallet.Service, log *zap.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	return &service{
		store:   store,
		wallets: wallets,
		logger:  logger.OrNop(log).Named("withdrawal"),
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.WithdrawalRequest, error) {
	if !money.IsValidAmount(input.Amount) {
		return nil, apperrors.ErrInvalidAmount
	}
	if len(input.BankDetails) == 0 {
		return nil, apperrors.ErrMissingPayload.WithMessage("bank details are required")
	}

	req := &models.WithdrawalRequest{
		Reference:   referencePrefix + strings.ToUpper(uuid.NewString()),
		UserID:      input.UserID,
		Amount:      input.Amount,
		BankDetails: input.BankDetails,
		Status:      models.RequestPending,
	}
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, input.UserID); err != nil {
			return err
		}
		if _, err := s.wallets.Ledger().MoveToLocked(ctx, tx, input.UserID, input.Amount); err != nil {
			return err
		}
		return tx.Requests().CreateWithdrawal(ctx, req)
	})
	if err != nil {
		return nil, s.fail("create", err, zap.Uint("user_id", input.UserID))
	}

	s.wallets.Invalidate(ctx, req.UserID)
	s.logger.Info("withdrawal requested",
		zap.Uint("request_id", req.ID),
		zap.String("reference", req.Reference),
		zap.Uint("user_id", req.UserID),
		zap.String("amount", req.Amount.StringFixed(money.Scale)))
	return req, nil
}

func (s *service) Approve(ctx context.Context, requestID uint, note string) (*models.WithdrawalRequest, error) {
	return s.process(ctx, requestID, models.RequestApproved, note, func(tx repositories.Store, req *models.WithdrawalRequest) error {
		_, err := s.wallets.Ledger().FinalizeLocked(ctx, tx, wallet.Entry{
			UserID:      req.UserID,
			Amount:      req.Amount,
			Type:        models.TransactionTypeWithdrawal,
			ReferenceID: req.Reference,
			Description: fmt.Sprintf("withdrawal %s", req.Reference),
		})
		return err
	})
}

func (s *service) Reject(ctx context.Context, requestID uint, note string) (*models.WithdrawalRequest, error) {
	return s.process(ctx, requestID, models.RequestRejected, note, func(tx repositories.Store, req *models.WithdrawalRequest) error {
		_, err := s.wallets.Ledger().ReleaseLocked(ctx, tx, req.UserID, req.Amount)
		return err
	})
}

// process moves a pending request to its terminal status after apply has settled the
// held funds, all in one transaction.
func (s *service) process(
	ctx context.Context,
	requestID uint,
	status, note string,
	apply func(tx repositories.Store, req *models.WithdrawalRequest) error,
) (*models.WithdrawalRequest, error) {
	var req *models.WithdrawalRequest
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		req, err = tx.Requests().GetWithdrawalForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return apperrors.ErrRequestNotPending.WithMessage("withdrawal %s is already %s", req.Reference, req.Status)
		}
		if err := apply(tx, req); err != nil {
			return err
		}

		now := time.Now()
		req.Status = status
		req.AdminNote = strings.TrimSpace(note)
		req.ProcessedAt = &now
		return tx.Requests().UpdateWithdrawal(ctx, req)
	})
	if err != nil {
		return nil, s.fail(strings.ToLower(status), err, zap.Uint("request_id", requestID))
	}

	s.wallets.Invalidate(ctx, req.UserID)
	s.logger.Info("withdrawal processed",
		zap.Uint("request_id", req.ID),
		zap.String("reference", req.Reference),
		zap.String("status", req.Status))
	return req, nil
}

func (s *service) Get(ctx context.Context, requestID uint) (*models.WithdrawalRequest, error) {
	req, err := s.store.Requests().GetWithdrawal(ctx, requestID)
	if err != nil {
		return nil, s.fail("get", err, zap.Uint("request_id", requestID))
	}
	return req, nil
}

func (s *service) List(ctx context.Context, filter models.RequestFilter) ([]models.WithdrawalRequest, int64, error) {
	reqs, total, err := s.store.Requests().ListWithdrawals(ctx, filter)
	if err != nil {
		return nil, 0, s.fail("list", err)
	}
	return reqs, total, nil
}

func (s *service) fail(op string, err error, fields ...zap.Field) error {
	if apperrors.KindOf(err) == apperrors.KindPersistence {
		s.logger.Error("withdrawal operation failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	}
	return apperrors.Wrap(err)
}
