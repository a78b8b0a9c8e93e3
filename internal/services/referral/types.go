package referral

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMaxDepth is the number of generations a referral reaches.
const DefaultMaxDepth = 6

type Config struct {
	MaxDepth int
}

// Member is one descendant of the overview root.
type Member struct {
	UserID       uint            `json:"user_id"`
	ReferralCode string          `json:"referral_code"`
	ActivatedAt  *time.Time      `json:"activated_at,omitempty"`
	Earnings     decimal.Decimal `json:"earnings"`
}

type Level struct {
	Level    int             `json:"level"`
	Count    int             `json:"count"`
	Earnings decimal.Decimal `json:"earnings"`
	Members  []Member        `json:"members"`
}

// Overview is the downline of one user grouped by level, with the approved commission
// each member has generated for that user.
type Overview struct {
	UserID        uint            `json:"user_id"`
	Levels        []Level         `json:"levels"`
	TotalMembers  int             `json:"total_members"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}
