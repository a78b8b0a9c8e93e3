package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "refnet/internal/errors"
	"refnet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultPageSize = 20

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

func (r *requestRepository) GetWithdrawal(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFound(err, "withdrawal")
	}
	return &req, nil
}

func (r *requestRepository) GetWithdrawalForUpdate(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error; err != nil {
		return nil, notFound(err, "withdrawal")
	}
	return &req, nil
}

func (r *requestRepository) UpdateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update withdrawal request: %w", err)
	}
	return nil
}

func (r *requestRepository) ListWithdrawals(ctx context.Context, filter models.RequestFilter) ([]models.WithdrawalRequest, int64, error) {
	var (
		reqs  []models.WithdrawalRequest
		total int64
	)
	query := applyFilter(r.db.WithContext(ctx).Model(&models.WithdrawalRequest{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawal requests: %w", err)
	}
	if err := paginate(query, filter).Find(&reqs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return reqs, total, nil
}

func (r *requestRepository) CreateRecharge(ctx context.Context, req *models.RechargeRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create recharge request: %w", err)
	}
	return nil
}

func (r *requestRepository) GetRecharge(ctx context.Context, id uint) (*models.RechargeRequest, error) {
	var req models.RechargeRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFound(err, "recharge")
	}
	return &req, nil
}

func (r *requestRepository) GetRechargeForUpdate(ctx context.Context, id uint) (*models.RechargeRequest, error) {
	var req models.RechargeRequest
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error; err != nil {
		return nil, notFound(err, "recharge")
	}
	return &req, nil
}

func (r *requestRepository) UpdateRecharge(ctx context.Context, req *models.RechargeRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update recharge request: %w", err)
	}
	return nil
}

func (r *requestRepository) ListRecharges(ctx context.Context, filter models.RequestFilter) ([]models.RechargeRequest, int64, error) {
	var (
		reqs  []models.RechargeRequest
		total int64
	)
	query := applyFilter(r.db.WithContext(ctx).Model(&models.RechargeRequest{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recharge requests: %w", err)
	}
	if err := paginate(query, filter).Find(&reqs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recharge requests: %w", err)
	}
	return reqs, total, nil
}

func applyFilter(q *gorm.DB, filter models.RequestFilter) *gorm.DB {
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	// reusable for both the count and the page query
	return q.Session(&gorm.Session{})
}

func paginate(q *gorm.DB, filter models.RequestFilter) *gorm.DB {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	return q.Order("created_at DESC, id DESC").Limit(limit).Offset(filter.Offset)
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrRequestNotFound.WithMessage("%s request not found", what)
	}
	return fmt.Errorf("failed to get %s request: %w", what, err)
}
