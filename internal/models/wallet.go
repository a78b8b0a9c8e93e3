package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Available decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"available"`
	Locked    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"locked"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Total is available plus locked, the amount the ledger must fold to.
func (w *Wallet) Total() decimal.Decimal {
	return w.Available.Add(w.Locked)
}

// Balance is the read model served by GetBalance and the balance cache.
type Balance struct {
	UserID    uint            `json:"user_id"`
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
	Total     decimal.Decimal `json:"total"`
}

// Balance snapshots the wallet.
func (w *Wallet) Balance() Balance {
	return Balance{UserID: w.UserID, Available: w.Available, Locked: w.Locked, Total: w.Total()}
}
