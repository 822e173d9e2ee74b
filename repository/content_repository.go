package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"

	"gorm.io/gorm"
)

// ContentRepository defines the interface for interacting with saved content items.
type ContentRepository interface {
	CreateContentItem(item *models.ContentItem) error
	GetContentItemByID(id uint) (*models.ContentItem, error)
	GetContentItems(userID string) ([]*models.ContentItem, error)
	UpdateContentItem(item *models.ContentItem) error
	DeleteContentItem(id uint, hardDelete bool) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new instance of ContentRepository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

// CreateContentItem creates a new content item in the database.
func (r *contentRepository) CreateContentItem(item *models.ContentItem) error {
	if item == nil {
		return errors.New("content item cannot be nil")
	}
	if err := r.db.Create(item).Error; err != nil {
		log.Printf("ERROR: [ContentRepository] Failed to create content item '%s': %v", item.Title, err)
		return fmt.Errorf("failed to create content item '%s': %w", item.Title, err)
	}
	log.Printf("INFO: [ContentRepository] Created content item ID %d ('%s').", item.ID, item.Title)
	return nil
}

// GetContentItemByID retrieves a content item by its ID.
// Returns (nil, nil) when the item does not exist.
func (r *contentRepository) GetContentItemByID(id uint) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [ContentRepository] Failed to retrieve content item ID %d: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve content item ID %d: %w", id, err)
	}
	return &item, nil
}

// GetContentItems retrieves content items, newest first. An empty userID
// lists everything; otherwise results are scoped to that user.
func (r *contentRepository) GetContentItems(userID string) ([]*models.ContentItem, error) {
	var items []*models.ContentItem
	query := r.db.Order("id desc")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&items).Error; err != nil {
		log.Printf("ERROR: [ContentRepository] Failed to retrieve content items: %v", err)
		return nil, fmt.Errorf("failed to retrieve content items: %w", err)
	}
	return items, nil
}

// UpdateContentItem updates an existing content item.
func (r *contentRepository) UpdateContentItem(item *models.ContentItem) error {
	if item == nil {
		return errors.New("content item cannot be nil")
	}
	if item.ID == 0 {
		return errors.New("content item ID must be provided for update")
	}
	if err := r.db.Save(item).Error; err != nil {
		log.Printf("ERROR: [ContentRepository] Failed to update content item ID %d: %v", item.ID, err)
		return fmt.Errorf("failed to update content item ID %d: %w", item.ID, err)
	}
	log.Printf("INFO: [ContentRepository] Updated content item ID %d.", item.ID)
	return nil
}

// DeleteContentItem deletes a content item by its ID.
func (r *contentRepository) DeleteContentItem(id uint, hardDelete bool) error {
	dbQuery := r.db
	action := "soft-deleted"
	if hardDelete {
		dbQuery = r.db.Unscoped()
		action = "hard-deleted (permanently)"
	}
	if err := dbQuery.Delete(&models.ContentItem{}, id).Error; err != nil {
		log.Printf("ERROR: [ContentRepository] Failed to %s content item ID %d: %v", action, id, err)
		return fmt.Errorf("failed to %s content item ID %d: %w", action, id, err)
	}
	log.Printf("INFO: [ContentRepository] Successfully %s content item ID %d.", action, id)
	return nil
}
