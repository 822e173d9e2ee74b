package models

import (
	"time"

	"gorm.io/gorm"
)

// TemplateCategory classifies templates and content items by channel.
type TemplateCategory string

const (
	CategorySocial       TemplateCategory = "social"
	CategoryBlog         TemplateCategory = "blog"
	CategoryEmail        TemplateCategory = "email"
	CategoryPresentation TemplateCategory = "presentation"
)

// Valid reports whether c names a known category.
func (c TemplateCategory) Valid() bool {
	switch c {
	case CategorySocial, CategoryBlog, CategoryEmail, CategoryPresentation:
		return true
	}
	return false
}

// ContentStatus defines the publication state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// ContentItem is a saved piece of generated or hand-written content.
type ContentItem struct {
	ID         uint             `json:"id" gorm:"primarykey"`
	UserID     string           `json:"user_id" gorm:"index"`
	Title      string           `json:"title" gorm:"not null"`
	Content    string           `json:"content" gorm:"type:text;not null"`
	TemplateID *uint            `json:"template_id"`
	Category   TemplateCategory `json:"category" gorm:"type:varchar(32);not null"`
	Status     ContentStatus    `json:"status" gorm:"type:varchar(32);default:'draft';not null"`
	CreatedAt  time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt   `json:"-" gorm:"index"`
}

// TableName specifies the table name for the ContentItem model.
func (ContentItem) TableName() string {
	return "content_items"
}
