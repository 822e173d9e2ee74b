package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"

	"gorm.io/gorm"
)

// TemplateRepository defines the interface for the template catalog.
type TemplateRepository interface {
	GetTemplates(includePremium bool) ([]*models.Template, error)
	GetTemplateByID(id uint) (*models.Template, error)
	CreateTemplate(template *models.Template) error
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new instance of TemplateRepository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// GetTemplates lists the catalog. Callers on basic template access pass
// includePremium=false and only see the free entries.
func (r *templateRepository) GetTemplates(includePremium bool) ([]*models.Template, error) {
	var templates []*models.Template
	query := r.db.Order("id asc")
	if !includePremium {
		query = query.Where("is_premium = ?", false)
	}
	if err := query.Find(&templates).Error; err != nil {
		log.Printf("ERROR: [TemplateRepository] Failed to retrieve templates: %v", err)
		return nil, fmt.Errorf("failed to retrieve templates: %w", err)
	}
	return templates, nil
}

// GetTemplateByID retrieves a template. Returns (nil, nil) when not found.
func (r *templateRepository) GetTemplateByID(id uint) (*models.Template, error) {
	var template models.Template
	err := r.db.First(&template, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [TemplateRepository] Failed to retrieve template ID %d: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve template ID %d: %w", id, err)
	}
	return &template, nil
}

// CreateTemplate adds a catalog entry.
func (r *templateRepository) CreateTemplate(template *models.Template) error {
	if template == nil {
		return errors.New("template cannot be nil")
	}
	if err := r.db.Create(template).Error; err != nil {
		log.Printf("ERROR: [TemplateRepository] Failed to create template '%s': %v", template.Name, err)
		return fmt.Errorf("failed to create template '%s': %w", template.Name, err)
	}
	log.Printf("INFO: [TemplateRepository] Created template ID %d ('%s').", template.ID, template.Name)
	return nil
}
