package repositories

import (
	"context"

	"refnet/internal/models"
)

// RequestRepository persists withdrawal and recharge requests.
type RequestRepository interface {
	CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error
	GetWithdrawal(ctx context.Context, id uint) (*models.WithdrawalRequest, error)
	GetWithdrawalForUpdate(ctx context.Context, id uint) (*models.WithdrawalRequest, error)
	UpdateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error
	ListWithdrawals(ctx context.Context, filter models.RequestFilter) ([]models.WithdrawalRequest, int64, error)

	CreateRecharge(ctx context.Context, req *models.RechargeRequest) error
	GetRecharge(ctx context.Context, id uint) (*models.RechargeRequest, error)
	GetRechargeForUpdate(ctx context.Context, id uint) (*models.RechargeRequest, error)
	UpdateRecharge(ctx context.Context, req *models.RechargeRequest) error
	ListRecharges(ctx context.Context, filter models.RequestFilter) ([]models.RechargeRequest, int64, error)
}
