// Package referral maintains the depth-bounded closure relation of the referral forest.
package referral

import (
	"context"

	apperrors "refnet/internal/errors"
	"refnet/internal/logger"
	"refnet/internal/models"
	"refnet/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	// AddReferral records newUserID below referrerID in its own transaction.
	AddReferral(ctx context.Context, referrerID, newUserID uint) error
	// AddReferralTx does the same inside the caller's transaction and reports how many
	// edges were written.
	AddReferralTx(ctx context.Context, tx repositories.Store, referrerID, newUserID uint) (int, error)
	Overview(ctx context.Context, rootID uint) (*Overview, error)
	MaxDepth() int
}

type service struct {
	store  repositories.Store
	config Config
	logger *zap.Logger
}

func NewService(store repositories.Store, config Config, log *zap.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	return &service{
		store:  store,
		config: config,
		logger: logger.OrNop(log).Named("referral"),
	}
}

func (s *service) MaxDepth() int {
	return s.config.MaxDepth
}

func (s *service) AddReferral(ctx context.Context, referrerID, newUserID uint) error {
	return apperrors.Wrap(s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		_, err := s.AddReferralTx(ctx, tx, referrerID, newUserID)
		return err
	}))
}

func (s *service) AddReferralTx(ctx context.Context, tx repositories.Store, referrerID, newUserID uint) (int, error) {
	if referrerID == 0 || newUserID == 0 {
		return 0, apperrors.ErrUserNotFound
	}
	if referrerID == newUserID {
		return 0, apperrors.ErrSelfReferral
	}
	if _, err := tx.Users().GetByID(ctx, referrerID); err != nil {
		return 0, err
	}

	// The referred-by link is written once.
	current, err := tx.Referrals().Ancestors(ctx, newUserID, 1)
	if err != nil {
		return 0, err
	}
	if len(current) > 0 {
		if current[0].UplineID == referrerID {
			return 0, nil
		}
		return 0, apperrors.ErrAlreadyReferred.WithMessage(
			"user %d is already referred by user %d", newUserID, current[0].UplineID)
	}

	ancestors, err := tx.Referrals().Ancestors(ctx, referrerID, s.config.MaxDepth)
	if err != nil {
		return 0, err
	}
	if err := s.checkCycle(ctx, tx, referrerID, newUserID, ancestors); err != nil {
		return 0, err
	}

	edges := make([]models.ReferralEdge, 0, len(ancestors)+1)
	edges = append(edges, models.ReferralEdge{UplineID: referrerID, DownlineID: newUserID, Level: 1})
	for _, a := range ancestors {
		if a.Level < s.config.MaxDepth {
			edges = append(edges, models.ReferralEdge{UplineID: a.UplineID, DownlineID: newUserID, Level: a.Level + 1})
		}
	}

	written := 0
	for i := range edges {
		inserted, err := tx.Referrals().InsertIfAbsent(ctx, &edges[i])
		if err != nil {
			return 0, err
		}
		if inserted {
			written++
		}
	}

	s.logger.Debug("referral recorded",
		zap.Uint("referrer_id", referrerID),
		zap.Uint("user_id", newUserID),
		zap.Int("edges", written))
	return written, nil
}

// checkCycle walks the referrer's chain to its root, MaxDepth generations per query,
// and rejects newUserID if it appears anywhere above.
func (s *service) checkCycle(ctx context.Context, tx repositories.Store, referrerID, newUserID uint, ancestors []models.ReferralEdge) error {
	visited := map[uint]bool{referrerID: true}
	for {
		var top uint
		for _, a := range ancestors {
			if a.UplineID == newUserID {
				return apperrors.ErrSelfReferral.WithMessage("user %d is already above user %d", newUserID, referrerID)
			}
			if a.Level == s.config.MaxDepth {
				top = a.UplineID
			}
		}
		if top == 0 || visited[top] {
			return nil
		}
		visited[top] = true

		var err error
		if ancestors, err = tx.Referrals().Ancestors(ctx, top, s.config.MaxDepth); err != nil {
			return err
		}
	}
}

func (s *service) Overview(ctx context.Context, rootID uint) (*Overview, error) {
	if _, err := s.store.Users().GetByID(ctx, rootID); err != nil {
		return nil, apperrors.Wrap(err)
	}

	edges, err := s.store.Referrals().Descendants(ctx, rootID)
	if err != nil {
		return nil, s.fail("overview", err, rootID)
	}
	earnings, err := s.store.Commissions().ApprovedEarningsByDownline(ctx, rootID)
	if err != nil {
		return nil, s.fail("overview", err, rootID)
	}

	seen := make(map[uint]bool, len(edges))
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.Level > s.config.MaxDepth || seen[e.DownlineID] {
			continue
		}
		seen[e.DownlineID] = true
		ids = append(ids, e.DownlineID)
	}
	users, err := s.store.Users().ListByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail("overview", err, rootID)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	overview := &Overview{UserID: rootID, Levels: make([]Level, s.config.MaxDepth), TotalEarnings: decimal.Zero}
	for i := range overview.Levels {
		overview.Levels[i] = Level{Level: i + 1, Earnings: decimal.Zero, Members: []Member{}}
	}

	counted := make(map[uint]bool, len(ids))
	for _, e := range edges {
		if !seen[e.DownlineID] || counted[e.DownlineID] {
			continue
		}
		counted[e.DownlineID] = true

		earned, ok := earnings[e.DownlineID]
		if !ok {
			earned = decimal.Zero
		}
		u := byID[e.DownlineID]
		lvl := &overview.Levels[e.Level-1]
		lvl.Members = append(lvl.Members, Member{
			UserID:       e.DownlineID,
			ReferralCode: u.ReferralCode,
			ActivatedAt:  u.ActivatedAt,
			Earnings:     earned,
		})
		lvl.Count++
		lvl.Earnings = lvl.Earnings.Add(earned)
		overview.TotalMembers++
		overview.TotalEarnings = overview.TotalEarnings.Add(earned)
	}
	return overview, nil
}

func (s *service) fail(op string, err error, userID uint) error {
	if apperrors.KindOf(err) == apperrors.KindPersistence {
		s.logger.Error("referral query failed", zap.String("operation", op), zap.Uint("user_id", userID), zap.Error(err))
	}
	return apperrors.Wrap(err)
}
