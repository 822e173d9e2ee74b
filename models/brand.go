package models

import "time"

// BrandProfile stores a user's brand voice settings for content generation.
type BrandProfile struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	UserID         string    `json:"user_id" gorm:"index"`
	BusinessName   string    `json:"business_name" gorm:"not null"`
	Industry       string    `json:"industry"`
	TargetAudience string    `json:"target_audience"`
	BrandVoice     string    `json:"brand_voice"`
	KeyMessages    string    `json:"key_messages" gorm:"type:text"`
	BrandColors    string    `json:"brand_colors"`
	LogoURL        string    `json:"logo_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the BrandProfile model.
func (BrandProfile) TableName() string {
	return "brand_profiles"
}
