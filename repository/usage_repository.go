package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageRepository is the usage ledger: per-user consumption counters for
// the current billing period. Increments and resets are single atomic
// statements at the storage layer, so concurrent requests (and multiple
// server instances) cannot lose updates.
type UsageRepository interface {
	// GetUsage returns the usage record for userID, or (nil, nil) when no
	// record exists yet.
	GetUsage(userID string) (*models.UserSubscription, error)
	// IncrementUsage adds exactly one to the named meter. A missing record
	// is created on plan 'free' with the meter already at 1, in the same
	// statement, so two first requests from a new user cannot race.
	IncrementUsage(userID string, meter models.Meter) error
	// ResetPeriod zeroes all meters and stamps a fresh period start. It is
	// driven by the billing-cycle sweep, never by the generation path.
	ResetPeriod(userID string) error
	// ApplyPlan creates or updates the record's plan, preserving the
	// period's consumed counters.
	ApplyPlan(userID string, plan models.PlanType) (*models.UserSubscription, error)
	// ListExpired returns records whose billing period ended at or before now.
	ListExpired(now time.Time) ([]*models.UserSubscription, error)
}

type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new instance of UsageRepository.
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func meterColumn(meter models.Meter) (string, error) {
	switch meter {
	case models.MeterContent:
		return "content_generations_used", nil
	case models.MeterImage:
		return "image_generations_used", nil
	}
	return "", fmt.Errorf("unknown meter %q", meter)
}

// GetUsage retrieves the current usage record for a user.
// A missing record is not an error: it means the user has consumed nothing.
func (r *usageRepository) GetUsage(userID string) (*models.UserSubscription, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	var sub models.UserSubscription
	err := r.db.First(&sub, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UsageRepository] Failed to fetch usage for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch usage for userID %s: %w", userID, err)
	}
	return &sub, nil
}

// IncrementUsage bumps the meter via an UPSERT: the INSERT carries the
// meter at 1 for a brand-new record, and on conflict the UPDATE applies
// `used = used + 1` inside the database.
func (r *usageRepository) IncrementUsage(userID string, meter models.Meter) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	column, err := meterColumn(meter)
	if err != nil {
		return err
	}

	sub := models.UserSubscription{
		UserID:             userID,
		Plan:               models.PlanFree,
		CurrentPeriodStart: time.Now(),
	}
	switch meter {
	case models.MeterImage:
		sub.ImageGenerationsUsed = 1
	default:
		sub.ContentGenerationsUsed = 1
	}

	err = r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&sub).Error
	if err != nil {
		log.Printf("ERROR: [UsageRepository] Failed to increment %s usage for userID %s: %v", meter, userID, err)
		return fmt.Errorf("failed to increment %s usage for userID %s: %w", meter, userID, err)
	}

	log.Printf("INFO: [UsageRepository] Incremented %s usage for userID %s.", meter, userID)
	return nil
}

// ResetPeriod zeroes both meters and opens a fresh period in one UPDATE.
func (r *usageRepository) ResetPeriod(userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}

	err := r.db.Model(&models.UserSubscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"content_generations_used": 0,
			"image_generations_used":   0,
			"current_period_start":     time.Now(),
			"current_period_end":       nil,
		}).Error
	if err != nil {
		log.Printf("ERROR: [UsageRepository] Failed to reset period for userID %s: %v", userID, err)
		return fmt.Errorf("failed to reset period for userID %s: %w", userID, err)
	}

	log.Printf("INFO: [UsageRepository] Reset billing period for userID %s.", userID)
	return nil
}

// ApplyPlan records a plan change coming from the billing integration.
// Counters are not touched: an upgrade mid-period keeps what was consumed.
func (r *usageRepository) ApplyPlan(userID string, plan models.PlanType) (*models.UserSubscription, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("unknown plan %q", plan)
	}

	sub := models.UserSubscription{
		UserID:             userID,
		Plan:               plan,
		CurrentPeriodStart: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"plan":       string(plan),
			"updated_at": time.Now(),
		}),
	}).Create(&sub).Error
	if err != nil {
		log.Printf("ERROR: [UsageRepository] Failed to apply plan '%s' for userID %s: %v", plan, userID, err)
		return nil, fmt.Errorf("failed to apply plan '%s' for userID %s: %w", plan, userID, err)
	}

	var current models.UserSubscription
	if fetchErr := r.db.First(&current, "user_id = ?", userID).Error; fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch subscription for userID %s after plan change: %w", userID, fetchErr)
	}

	log.Printf("INFO: [UsageRepository] Applied plan '%s' for userID %s.", plan, userID)
	return &current, nil
}

// ListExpired returns records due for a period rollover.
func (r *usageRepository) ListExpired(now time.Time) ([]*models.UserSubscription, error) {
	var subs []*models.UserSubscription
	err := r.db.
		Where("current_period_end IS NOT NULL AND current_period_end <= ?", now).
		Find(&subs).Error
	if err != nil {
		log.Printf("ERROR: [UsageRepository] Failed to list expired subscriptions: %v", err)
		return nil, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}
	return subs, nil
}
