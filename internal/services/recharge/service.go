// Package recharge handles top-up requests. A recharge touches the wallet only when an
// admin approves it.
package recharge

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

const referencePrefix = "RC-"

type CreateInput struct {
	UserID uint
	Amount decimal.Decimal
	Proof  map[string]interface{}
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.RechargeRequest, error)
	Approve(ctx context.Context, requestID uint, note string) (*models.RechargeRequest, error)
	Reject(ctx context.Context, requestID uint, note string) (*models.RechargeRequest, error)
	Get(ctx context.Context, requestID uint) (*models.RechargeRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.RechargeRequest, int64, error)
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
		logger:  logger.OrNop(log).Named("recharge"),
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.RechargeRequest, error) {
	if !money.IsValidAmount(input.Amount) {
		return nil, apperrors.ErrInvalidAmount
	}
	if len(input.Proof) == 0 {
		return nil, apperrors.ErrMissingPayload.WithMessage("payment proof is required")
	}
	if _, err := s.store.Users().GetByID(ctx, input.UserID); err != nil {
		return nil, s.fail("create", err, zap.Uint("user_id", input.UserID))
	}

	req := &models.RechargeRequest{
		Reference: referencePrefix + strings.ToUpper(uuid.NewString()),
		UserID:    input.UserID,
		Amount:    input.Amount,
		Proof:     input.Proof,
		Status:    models.RequestPending,
	}
	if err := s.store.Requests().CreateRecharge(ctx, req); err != nil {
		return nil, s.fail("create", err, zap.Uint("user_id", input.UserID))
	}

	s.logger.Info("recharge requested",
		zap.Uint("request_id", req.ID),
		zap.String("reference", req.Reference),
		zap.Uint("user_id", req.UserID),
		zap.String("amount", req.Amount.StringFixed(money.Scale)))
	return req, nil
}

func (s *service) Approve(ctx context.Context, requestID uint, note string) (*models.RechargeRequest, error) {
	return s.process(ctx, requestID, models.RequestApproved, note, func(tx repositories.Store, req *models.RechargeRequest) error {
		_, err := s.wallets.Ledger().Credit(ctx, tx, wallet.Entry{
			UserID:      req.UserID,
			Amount:      req.Amount,
			Type:        models.TransactionTypeRecharge,
			ReferenceID: req.Reference,
			Description: fmt.Sprintf("recharge %s", req.Reference),
		})
		return err
	})
}

func (s *service) Reject(ctx context.Context, requestID uint, note string) (*models.RechargeRequest, error) {
	return s.process(ctx, requestID, models.RequestRejected, note, nil)
}

func (s *service) process(
	ctx context.Context,
	requestID uint,
	status, note string,
	apply func(tx repositories.Store, req *models.RechargeRequest) error,
) (*models.RechargeRequest, error) {
	var req *models.RechargeRequest
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		req, err = tx.Requests().GetRechargeForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return apperrors.ErrRequestNotPending.WithMessage("recharge %s is already %s", req.Reference, req.Status)
		}
		if apply != nil {
			if err := apply(tx, req); err != nil {
				return err
			}
		}

		now := time.Now()
		req.Status = status
		req.AdminNote = strings.TrimSpace(note)
		req.ProcessedAt = &now
		return tx.Requests().UpdateRecharge(ctx, req)
	})
	if err != nil {
		return nil, s.fail(strings.ToLower(status), err, zap.Uint("request_id", requestID))
	}

	if status == models.RequestApproved {
		s.wallets.Invalidate(ctx, req.UserID)
	}
	s.logger.Info("recharge processed",
		zap.Uint("request_id", req.ID),
		zap.String("reference", req.Reference),
		zap.String("status", req.Status))
	return req, nil
}

func (s *service) Get(ctx context.Context, requestID uint) (*models.RechargeRequest, error) {
	req, err := s.store.Requests().GetRecharge(ctx, requestID)
	if err != nil {
		return nil, s.fail("get", err, zap.Uint("request_id", requestID))
	}
	return req, nil
}

func (s *service) List(ctx context.Context, filter models.RequestFilter) ([]models.RechargeRequest, int64, error) {
	reqs, total, err := s.store.Requests().ListRecharges(ctx, filter)
	if err != nil {
		return nil, 0, s.fail("list", err)
	}
	return reqs, total, nil
}

func (s *service) fail(op string, err error, fields ...zap.Field) error {
	if apperrors.KindOf(err) == apperrors.KindPersistence {
		s.logger.Error("recharge operation failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	}
	return apperrors.Wrap(err)
}
