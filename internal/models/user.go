package models

import "time"

// Activation statuses
const (
	ActivationNotStarted  = "NOT_STARTED"
	ActivationUnderReview = "UNDER_REVIEW"
	ActivationActivated   = "ACTIVATED"
)

// User is the slice of the account the referral core owns. Identity and KYC live elsewhere.
type User struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	ReferralCode     string     `gorm:"size:20;uniqueIndex;not null" json:"referral_code"`
	SponsorCode      string     `gorm:"size:20;default:''" json:"sponsor_code,omitempty"`
	ReferredBy       *uint      `gorm:"index" json:"referred_by,omitempty"`
	ActivationStatus string     `gorm:"size:20;not null;default:'NOT_STARTED'" json:"activation_status"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (u *User) IsActivated() bool {
	return u.ActivationStatus == ActivationActivated
}
