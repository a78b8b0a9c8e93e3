package repositories

import (
	"context"
	"fmt"

	"refnet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type referralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) InsertIfAbsent(ctx context.Context, edge *models.ReferralEdge) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert referral edge: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *referralRepository) Ancestors(ctx context.Context, downlineID uint, maxLevel int) ([]models.ReferralEdge, error) {
	var edges []models.ReferralEdge
	err := r.db.WithContext(ctx).
		Where("downline_id = ? AND level <= ?", downlineID, maxLevel).
		Order("level").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get referral ancestors: %w", err)
	}
	return edges, nil
}

func (r *referralRepository) Descendants(ctx context.Context, uplineID uint) ([]models.ReferralEdge, error) {
	var edges []models.ReferralEdge
	err := r.db.WithContext(ctx).
		Where("upline_id = ?", uplineID).
		Order("level, downline_id").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get referral descendants: %w", err)
	}
	return edges, nil
}
