package models

import "time"

// Meter names a countable resource charged against a subscription.
type Meter string

const (
	MeterContent Meter = "content"
	MeterImage   Meter = "image"
)

// UserSubscription is the per-user usage record for the current billing
// period. generations-used counters only move through the atomic
// repository operations; no other code path writes them.
type UserSubscription struct {
	ID                     uint       `json:"id" gorm:"primarykey"`
	UserID                 string     `json:"user_id" gorm:"uniqueIndex;not null"`
	Plan                   PlanType   `json:"plan" gorm:"type:varchar(32);default:'free';not null"`
	ContentGenerationsUsed int        `json:"content_generations_used" gorm:"default:0"`
	ImageGenerationsUsed   int        `json:"image_generations_used" gorm:"default:0"`
	CurrentPeriodStart     time.Time  `json:"current_period_start"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the UserSubscription model.
func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// UsedFor returns the consumed count for the named meter.
func (s *UserSubscription) UsedFor(meter Meter) int {
	switch meter {
	case MeterImage:
		return s.ImageGenerationsUsed
	default:
		return s.ContentGenerationsUsed
	}
}
