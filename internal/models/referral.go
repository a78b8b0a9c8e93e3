package models

import "time"

// ReferralEdge is one row of the closure relation: Upline is Level hops above Downline.
// Each downline has exactly one upline per level, which keeps the relation a forest.
type ReferralEdge struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	UplineID   uint      `gorm:"not null;uniqueIndex:idx_referral_edge,priority:1;index" json:"upline_id"`
	DownlineID uint      `gorm:"not null;uniqueIndex:idx_referral_edge,priority:2;uniqueIndex:idx_referral_downline_level,priority:1" json:"downline_id"`
	Level      int       `gorm:"not null;uniqueIndex:idx_referral_edge,priority:3;uniqueIndex:idx_referral_downline_level,priority:2" json:"level"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ReferralEdge) TableName() string {
	return "referral_edges"
}
