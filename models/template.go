package models

import "time"

// Template is a catalog entry users can start a content item from.
// Premium templates are only listed for plans with full template access.
type Template struct {
	ID          uint             `json:"id" gorm:"primarykey"`
	Name        string           `json:"name" gorm:"not null"`
	Description string           `json:"description" gorm:"type:text;not null"`
	Category    TemplateCategory `json:"category" gorm:"type:varchar(32);not null"`
	Thumbnail   string           `json:"thumbnail" gorm:"not null"`
	IsPremium   bool             `json:"is_premium" gorm:"default:false"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the Template model.
func (Template) TableName() string {
	return "templates"
}
