package services

import (
	"fmt"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"
	"github.com/michaelfullmer/contentcreatorforbusiness/repository"
)

// QuotaService answers "may this caller run one more metered operation
// right now". It only decides; committing a unit of usage is the stream
// coordinator's job, after the operation actually completed.
//
// Because the check and the commit are separate, two concurrent requests
// can both observe one remaining unit and both proceed, over-consuming by
// one. That race is accepted: a reservation scheme would complicate the
// failure paths (a reserved unit would need releasing whenever a stream
// dies midway) for a single unit of slack.
type QuotaService interface {
	CheckAndReserve(callerID string, meter models.Meter) (*models.QuotaDecision, error)
}

type quotaService struct {
	entitlements EntitlementService
	usageRepo    repository.UsageRepository
}

// NewQuotaService creates a new instance of QuotaService.
func NewQuotaService(entitlements EntitlementService, usageRepo repository.UsageRepository) QuotaService {
	return &quotaService{entitlements: entitlements, usageRepo: usageRepo}
}

// CheckAndReserve resolves the caller's limit for the meter and compares
// it against recorded consumption. Unlimited plans short-circuit before
// the ledger is read, and before any arithmetic can touch the sentinel.
// Anonymous callers have no ledger row; they are always evaluated against
// the fixed allowance with zero recorded usage.
func (s *quotaService) CheckAndReserve(callerID string, meter models.Meter) (*models.QuotaDecision, error) {
	limits, err := s.entitlements.ResolveLimits(callerID)
	if err != nil {
		return nil, fmt.Errorf("quota check failed for caller %s: %w", callerID, err)
	}

	limit := limits.For(meter)
	if limit.IsUnlimited() {
		return &models.QuotaDecision{Allowed: true, Remaining: models.Unlimited, Limit: models.Unlimited}, nil
	}

	used := 0
	if callerID != "" && callerID != AnonymousCallerID {
		sub, err := s.usageRepo.GetUsage(callerID)
		if err != nil {
			return nil, fmt.Errorf("quota check failed for caller %s: %w", callerID, err)
		}
		if sub != nil {
			used = sub.UsedFor(meter)
		}
	}

	remaining := limit - models.Limit(used)
	if remaining < 0 {
		remaining = 0
	}
	return &models.QuotaDecision{
		Allowed:   remaining > 0,
		Remaining: remaining,
		Limit:     limit,
	}, nil
}
