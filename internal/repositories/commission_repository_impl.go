package repositories

import (
	"context"
	"fmt"
	"time"

	"refnet/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) UpsertConfig(ctx context.Context, cfg *models.CommissionConfig) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "level"}},
		DoUpdates: clause.AssignmentColumns([]string{"percent", "active", "updated_at"}),
	}).Create(cfg).Error
	if err != nil {
		return fmt.Errorf("failed to upsert commission config: %w", err)
	}
	return nil
}

func (r *commissionRepository) DeleteConfig(ctx context.Context, level int) (bool, error) {
	result := r.db.WithContext(ctx).Where("level = ?", level).Delete(&models.CommissionConfig{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete commission config: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *commissionRepository) ListConfigs(ctx context.Context) ([]models.CommissionConfig, error) {
	var configs []models.CommissionConfig
	if err := r.db.WithContext(ctx).Order("level").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("failed to list commission configs: %w", err)
	}
	return configs, nil
}

func (r *commissionRepository) InsertRecordIfAbsent(ctx context.Context, record *models.CommissionRecord) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert commission record: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *commissionRepository) MarkApproved(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.CommissionRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.CommissionApproved,
			"approved_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to approve commission record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("commission record %d not found", id)
	}
	return nil
}

func (r *commissionRepository) ListRecordsByOrder(ctx context.Context, orderID string) ([]models.CommissionRecord, error) {
	var records []models.CommissionRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("level, upline_id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list commission records: %w", err)
	}
	return records, nil
}

func (r *commissionRepository) ApprovedEarningsByDownline(ctx context.Context, uplineID uint) (map[uint]decimal.Decimal, error) {
	var rows []struct {
		DownlineID uint
		Total      decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.CommissionRecord{}).
		Select("downline_id, COALESCE(SUM(amount), 0) AS total").
		Where("upline_id = ? AND status = ?", uplineID, models.CommissionApproved).
		Group("downline_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum commission earnings: %w", err)
	}

	earnings := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		earnings[row.DownlineID] = row.Total
	}
	return earnings, nil
}
