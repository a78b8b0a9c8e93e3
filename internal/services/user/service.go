// Package user registers users and activates them into the referral tree.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/logger"
	"refnet/internal/models"
	"refnet/internal/repositories"
	"refnet/internal/services/referral"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
)

type Service interface {
	// Register creates a NOT_STARTED user. sponsorCode is optional; when set it must
	// belong to an existing user.
	Register(ctx context.Context, sponsorCode string) (*models.User, error)
	SubmitForReview(ctx context.Context, userID uint) (*models.User, error)
	// Activate marks the user ACTIVATED and attaches it below its sponsor in the same
	// transaction.
	Activate(ctx context.Context, userID uint) (*models.User, error)
	Get(ctx context.Context, userID uint) (*models.User, error)
}

type service struct {
	store     repositories.Store
	referrals referral.Service
	logger    *zap.Logger
	newCode   func() string
}

func NewService(store repositories.Store, referrals referral.Service, log *zap.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if referrals == nil {
		panic("referral service is required")
	}
	return &service{
		store:     store,
		referrals: referrals,
		logger:    logger.OrNop(log).Named("user"),
		newCode:   generateReferralCode,
	}
}

func (s *service) Register(ctx context.Context, sponsorCode string) (*models.User, error) {
	sponsorCode = strings.ToUpper(strings.TrimSpace(sponsorCode))
	if sponsorCode != "" {
		if _, err := s.store.Users().GetByReferralCode(ctx, sponsorCode); err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return nil, apperrors.ErrSponsorNotFound
			}
			return nil, s.fail("register", err)
		}
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, s.fail("register", err)
	}

	user := &models.User{
		ReferralCode:     code,
		SponsorCode:      sponsorCode,
		ActivationStatus: models.ActivationNotStarted,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, s.fail("register", err)
	}
	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("sponsor_code", sponsorCode))
	return user, nil
}

func (s *service) SubmitForReview(ctx context.Context, userID uint) (*models.User, error) {
	var user *models.User
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		user, err = tx.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.ActivationStatus != models.ActivationNotStarted {
			return apperrors.ErrInvalidStatusTransition.WithMessage(
				"cannot submit a user in status %s for review", user.ActivationStatus)
		}
		user.ActivationStatus = models.ActivationUnderReview
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, s.fail("submit_for_review", err, zap.Uint("user_id", userID))
	}
	return user, nil
}

func (s *service) Activate(ctx context.Context, userID uint) (*models.User, error) {
	var user *models.User
	edges := 0
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		user, err = tx.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		switch user.ActivationStatus {
		case models.ActivationActivated:
			return apperrors.ErrAlreadyActivated
		case models.ActivationUnderReview:
		default:
			return apperrors.ErrInvalidStatusTransition.WithMessage(
				"user %d must be under review before activation", userID)
		}

		now := time.Now()
		user.ActivationStatus = models.ActivationActivated
		user.ActivatedAt = &now

		if user.SponsorCode != "" {
			sponsor, err := tx.Users().GetByReferralCode(ctx, user.SponsorCode)
			if err != nil {
				if errors.Is(err, apperrors.ErrUserNotFound) {
					return apperrors.ErrSponsorNotFound
				}
				return err
			}
			if sponsor.ID == user.ID {
				return apperrors.ErrSelfReferral
			}
			if !sponsor.IsActivated() {
				return apperrors.ErrSponsorNotActivated
			}
			sponsorID := sponsor.ID
			user.ReferredBy = &sponsorID

			if edges, err = s.referrals.AddReferralTx(ctx, tx, sponsorID, user.ID); err != nil {
				return err
			}
		}
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, s.fail("activate", err, zap.Uint("user_id", userID))
	}

	fields := []zap.Field{zap.Uint("user_id", user.ID), zap.Int("edges", edges)}
	if user.ReferredBy != nil {
		fields = append(fields, zap.Uint("referred_by", *user.ReferredBy))
	}
	s.logger.Info("user activated", fields...)
	return user, nil
}

func (s *service) Get(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, s.fail("get", err, zap.Uint("user_id", userID))
	}
	return user, nil
}

func (s *service) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code := s.newCode()
		_, err := s.store.Users().GetByReferralCode(ctx, code)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("failed to generate a unique referral code")
}

func (s *service) fail(op string, err error, fields ...zap.Field) error {
	if apperrors.KindOf(err) == apperrors.KindPersistence {
		s.logger.Error("user operation failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	}
	return apperrors.Wrap(err)
}

func generateReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:referralCodeLength])
}
