package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Request statuses shared by withdrawals and recharges
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

type WithdrawalRequest struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Reference   string            `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"amount"`
	BankDetails datatypes.JSONMap `gorm:"type:jsonb" json:"bank_details"`
	Status      string            `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	AdminNote   string            `gorm:"size:255" json:"admin_note,omitempty"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

type RechargeRequest struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Reference   string            `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"amount"`
	Proof       datatypes.JSONMap `gorm:"type:jsonb" json:"proof"`
	Status      string            `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	AdminNote   string            `gorm:"size:255" json:"admin_note,omitempty"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (RechargeRequest) TableName() string {
	return "recharge_requests"
}

// RequestFilter narrows request listings. Zero values mean "any".
type RequestFilter struct {
	UserID uint
	Status string
	Limit  int
	Offset int
}
