package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"

	"gorm.io/gorm"
)

// BrandRepository defines the interface for brand profile storage.
type BrandRepository interface {
	// GetBrandProfile returns the user's profile, or (nil, nil) when none exists.
	GetBrandProfile(userID string) (*models.BrandProfile, error)
	// SaveBrandProfile creates the profile on first save and updates it afterwards.
	SaveBrandProfile(profile *models.BrandProfile) (*models.BrandProfile, error)
}

type brandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new instance of BrandRepository.
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) GetBrandProfile(userID string) (*models.BrandProfile, error) {
	var profile models.BrandProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [BrandRepository] Failed to retrieve brand profile for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve brand profile for userID %s: %w", userID, err)
	}
	return &profile, nil
}

func (r *brandRepository) SaveBrandProfile(profile *models.BrandProfile) (*models.BrandProfile, error) {
	if profile == nil {
		return nil, errors.New("brand profile cannot be nil")
	}
	if profile.BusinessName == "" {
		return nil, errors.New("business name cannot be empty")
	}

	existing, err := r.GetBrandProfile(profile.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}

	if err := r.db.Save(profile).Error; err != nil {
		log.Printf("ERROR: [BrandRepository] Failed to save brand profile for userID %s: %v", profile.UserID, err)
		return nil, fmt.Errorf("failed to save brand profile for userID %s: %w", profile.UserID, err)
	}
	log.Printf("INFO: [BrandRepository] Saved brand profile ID %d for userID %s.", profile.ID, profile.UserID)
	return profile, nil
}
