package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"
)

const defaultPageSize = 20

type requestRepository struct{ s *Store }

func (r *requestRepository) CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	return r.s.run(ctx, func(st *state) error {
		for _, w := range st.withdrawals {
			if w.Reference == req.Reference {
				return fmt.Errorf("failed to create withdrawal request: duplicate reference %s", req.Reference)
			}
		}
		st.withdrawalSeq++
		now := time.Now()
		req.ID = st.withdrawalSeq
		req.CreatedAt, req.UpdatedAt = now, now
		st.withdrawals[req.ID] = *req
		return nil
	})
}

func (r *requestRepository) GetWithdrawal(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	var out *models.WithdrawalRequest
	err := r.s.run(ctx, func(st *state) error {
		w, ok := st.withdrawals[id]
		if !ok {
			return apperrors.ErrRequestNotFound.WithMessage("withdrawal request not found")
		}
		out = &w
		return nil
	})
	return out, err
}

func (r *requestRepository) GetWithdrawalForUpdate(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	return r.GetWithdrawal(ctx, id)
}

func (r *requestRepository) UpdateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	return r.s.run(ctx, func(st *state) error {
		if _, ok := st.withdrawals[req.ID]; !ok {
			return apperrors.ErrRequestNotFound.WithMessage("withdrawal request not found")
		}
		req.UpdatedAt = time.Now()
		st.withdrawals[req.ID] = *req
		return nil
	})
}

func (r *requestRepository) ListWithdrawals(ctx context.Context, filter models.RequestFilter) ([]models.WithdrawalRequest, int64, error) {
	var out []models.WithdrawalRequest
	var total int64
	err := r.s.run(ctx, func(st *state) error {
		for _, w := range st.withdrawals {
			if matches(filter, w.UserID, w.Status) {
				out = append(out, w)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
		total = int64(len(out))
		out = page(out, pageSize(filter.Limit), filter.Offset)
		return nil
	})
	return out, total, err
}

func (r *requestRepository) CreateRecharge(ctx context.Context, req *models.RechargeRequest) error {
	return r.s.run(ctx, func(st *state) error {
		for _, rc := range st.recharges {
			if rc.Reference == req.Reference {
				return fmt.Errorf("failed to create recharge request: duplicate reference %s", req.Reference)
			}
		}
		st.rechargeSeq++
		now := time.Now()
		req.ID = st.rechargeSeq
		req.CreatedAt, req.UpdatedAt = now, now
		st.recharges[req.ID] = *req
		return nil
	})
}

func (r *requestRepository) GetRecharge(ctx context.Context, id uint) (*models.RechargeRequest, error) {
	var out *models.RechargeRequest
	err := r.s.run(ctx, func(st *state) error {
		rc, ok := st.recharges[id]
		if !ok {
			return apperrors.ErrRequestNotFound.WithMessage("recharge request not found")
		}
		out = &rc
		return nil
	})
	return out, err
}

func (r *requestRepository) GetRechargeForUpdate(ctx context.Context, id uint) (*models.RechargeRequest, error) {
	return r.GetRecharge(ctx, id)
}

func (r *requestRepository) UpdateRecharge(ctx context.Context, req *models.RechargeRequest) error {
	return r.s.run(ctx, func(st *state) error {
		if _, ok := st.recharges[req.ID]; !ok {
			return apperrors.ErrRequestNotFound.WithMessage("recharge request not found")
		}
		req.UpdatedAt = time.Now()
		st.recharges[req.ID] = *req
		return nil
	})
}

func (r *requestRepository) ListRecharges(ctx context.Context, filter models.RequestFilter) ([]models.RechargeRequest, int64, error) {
	var out []models.RechargeRequest
	var total int64
	err := r.s.run(ctx, func(st *state) error {
		for _, rc := range st.recharges {
			if matches(filter, rc.UserID, rc.Status) {
				out = append(out, rc)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
		total = int64(len(out))
		out = page(out, pageSize(filter.Limit), filter.Offset)
		return nil
	})
	return out, total, err
}

func matches(filter models.RequestFilter, userID uint, status string) bool {
	if filter.UserID != 0 && filter.UserID != userID {
		return false
	}
	return filter.Status == "" || filter.Status == status
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return limit
}
