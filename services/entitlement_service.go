package services

import (
	"fmt"
	"log"

	"github.com/michaelfullmer/contentcreatorforbusiness/config"
	"github.com/michaelfullmer/contentcreatorforbusiness/models"
	"github.com/michaelfullmer/contentcreatorforbusiness/repository"
)

// AnonymousCallerID is the sentinel identity for callers with no account.
const AnonymousCallerID = "anonymous"

// EntitlementService resolves the limit set a caller is entitled to.
type EntitlementService interface {
	ResolveLimits(callerID string) (models.LimitSet, error)
}

type entitlementService struct {
	usageRepo repository.UsageRepository
}

// NewEntitlementService creates a new instance of EntitlementService.
func NewEntitlementService(usageRepo repository.UsageRepository) EntitlementService {
	return &entitlementService{usageRepo: usageRepo}
}

// AnonymousLimits is the fixed built-in allowance for anonymous callers:
// a small content allowance, basic templates, nothing unlimited.
func AnonymousLimits() models.LimitSet {
	quota := config.AppConfig.AnonymousQuota
	if quota <= 0 {
		quota = 10
	}
	return models.LimitSet{
		ContentGenerationsPerPeriod: models.Limit(quota),
		ImageGenerationsPerPeriod:   0,
		BrandProfiles:               0,
		TeamSeats:                   1,
		TemplateAccess:              models.TemplateAccessBasic,
	}
}

// ResolveLimits looks up the caller's current plan and maps it to its
// limit set. Anonymous callers get the fixed allowance without any lookup.
// A missing usage record is not an error: absence means the free plan.
func (s *entitlementService) ResolveLimits(callerID string) (models.LimitSet, error) {
	if callerID == "" || callerID == AnonymousCallerID {
		return AnonymousLimits(), nil
	}

	sub, err := s.usageRepo.GetUsage(callerID)
	if err != nil {
		return models.LimitSet{}, fmt.Errorf("failed to resolve plan for caller %s: %w", callerID, err)
	}

	plan := models.PlanFree
	if sub != nil {
		plan = sub.Plan
		if !plan.Valid() {
			log.Printf("WARN: [EntitlementService] Caller %s has unrecognized plan '%s', treating as free.", callerID, plan)
			plan = models.PlanFree
		}
	}
	return models.LimitsForPlan(plan), nil
}
