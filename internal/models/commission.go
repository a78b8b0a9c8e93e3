package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission record statuses
const (
	CommissionPending  = "PENDING"
	CommissionApproved = "APPROVED"
)

// CommissionConfig is the percent paid to the upline sitting Level hops above the buyer.
// Active carries no column default so that an explicit false survives inserts.
type CommissionConfig struct {
	Level     int             `gorm:"primaryKey;autoIncrement:false" json:"level"`
	Percent   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percent"`
	Active    bool            `gorm:"not null" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (CommissionConfig) TableName() string {
	return "commission_configs"
}

// CommissionRecord is one payout of one order to one upline. Percent is a snapshot of the
// config at distribution time.
type CommissionRecord struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	OrderID     string          `gorm:"size:64;not null;uniqueIndex:idx_commission_key,priority:1" json:"order_id"`
	UplineID    uint            `gorm:"not null;uniqueIndex:idx_commission_key,priority:2;index" json:"upline_id"`
	DownlineID  uint            `gorm:"not null;uniqueIndex:idx_commission_key,priority:3" json:"downline_id"`
	Level       int             `gorm:"not null;uniqueIndex:idx_commission_key,priority:4" json:"level"`
	OrderAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"order_amount"`
	Percent     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percent"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status      string          `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (CommissionRecord) TableName() string {
	return "commission_distributions"
}
