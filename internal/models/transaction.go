package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger directions
const (
	DirectionCredit = "CREDIT"
	DirectionDebit  = "DEBIT"
)

// Ledger entry types
const (
	TransactionTypeCommission = "COMMISSION"
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeRecharge   = "RECHARGE"
	TransactionTypeReversal   = "REVERSAL"
)

const TransactionStatusSuccess = "SUCCESS"

// WalletTransaction is an immutable ledger entry. Amount is always positive; Direction
// carries the sign.
type WalletTransaction struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Direction    string          `gorm:"size:10;not null" json:"direction"`
	Type         string          `gorm:"size:20;not null;index" json:"type"`
	ReferenceID  string          `gorm:"size:64;index" json:"reference_id"`
	Status       string          `gorm:"size:20;not null;default:'SUCCESS'" json:"status"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance_after"`
	Description  string          `gorm:"size:255" json:"description"`
	ReversalOf   *uint           `gorm:"uniqueIndex" json:"reversal_of,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// Signed returns the amount with the direction applied.
func (t *WalletTransaction) Signed() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
