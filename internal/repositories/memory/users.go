package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.s.run(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.ReferralCode == user.ReferralCode {
				return fmt.Errorf("failed to create user: referral code %q already taken", user.ReferralCode)
			}
		}
		st.userSeq++
		now := time.Now()
		user.ID = st.userSeq
		user.CreatedAt, user.UpdatedAt = now, now
		if user.ActivationStatus == "" {
			user.ActivationStatus = models.ActivationNotStarted
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var out *models.User
	err := r.s.run(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var out *models.User
	err := r.s.run(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.ReferralCode == code {
				u := u
				out = &u
				return nil
			}
		}
		return apperrors.ErrUserNotFound
	})
	return out, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.s.run(ctx, func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return apperrors.ErrUserNotFound
		}
		user.UpdatedAt = time.Now()
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var out []models.User
	err := r.s.run(ctx, func(st *state) error {
		for _, id := range ids {
			if u, ok := st.users[id]; ok {
				out = append(out, u)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}
