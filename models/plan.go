package models

// PlanType enumerates the subscription tiers.
type PlanType string

const (
	PlanFree           PlanType = "free"
	PlanPro            PlanType = "pro"
	PlanEnterprise     PlanType = "enterprise"
	PlanEnterprisePlus PlanType = "enterprise_plus"
)

// Valid reports whether p names a known plan.
func (p PlanType) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise, PlanEnterprisePlus:
		return true
	}
	return false
}

// Limit is a metered allowance for one billing period. Unlimited is a
// distinct sentinel: callers must check IsUnlimited before doing any
// arithmetic on a Limit.
type Limit int64

// Unlimited marks an allowance with no numeric cap. It serializes as -1.
const Unlimited Limit = -1

// IsUnlimited reports whether the limit has no numeric cap.
func (l Limit) IsUnlimited() bool {
	return l < 0
}

// TemplateAccess defines which part of the template catalog a plan unlocks.
type TemplateAccess string

const (
	TemplateAccessBasic TemplateAccess = "basic"
	TemplateAccessAll   TemplateAccess = "all"
)

// LimitSet bundles the entitlements attached to a plan.
type LimitSet struct {
	ContentGenerationsPerPeriod Limit          `json:"content_generations_per_period"`
	ImageGenerationsPerPeriod   Limit          `json:"image_generations_per_period"`
	BrandProfiles               Limit          `json:"brand_profiles"`
	TeamSeats                   Limit          `json:"team_seats"`
	TemplateAccess              TemplateAccess `json:"template_access"`
	APIAccess                   bool           `json:"api_access"`
	WhiteLabeling               bool           `json:"white_labeling"`
}

// For returns the per-period limit for the named meter.
func (ls LimitSet) For(meter Meter) Limit {
	switch meter {
	case MeterImage:
		return ls.ImageGenerationsPerPeriod
	default:
		return ls.ContentGenerationsPerPeriod
	}
}

// LimitsForPlan maps a plan to its limit set. The switch covers every
// PlanType constant; an unrecognized plan value falls back to the free
// tier so a bad row can never grant extra entitlement.
func LimitsForPlan(plan PlanType) LimitSet {
	switch plan {
	case PlanPro:
		return LimitSet{
			ContentGenerationsPerPeriod: 100,
			ImageGenerationsPerPeriod:   20,
			BrandProfiles:               3,
			TeamSeats:                   1,
			TemplateAccess:              TemplateAccessAll,
		}
	case PlanEnterprise:
		return LimitSet{
			ContentGenerationsPerPeriod: Unlimited,
			ImageGenerationsPerPeriod:   Unlimited,
			BrandProfiles:               Unlimited,
			TeamSeats:                   5,
			TemplateAccess:              TemplateAccessAll,
		}
	case PlanEnterprisePlus:
		return LimitSet{
			ContentGenerationsPerPeriod: Unlimited,
			ImageGenerationsPerPeriod:   Unlimited,
			BrandProfiles:               Unlimited,
			TeamSeats:                   Unlimited,
			TemplateAccess:              TemplateAccessAll,
			APIAccess:                   true,
			WhiteLabeling:               true,
		}
	case PlanFree:
		fallthrough
	default:
		return LimitSet{
			ContentGenerationsPerPeriod: 10,
			ImageGenerationsPerPeriod:   0,
			BrandProfiles:               1,
			TeamSeats:                   1,
			TemplateAccess:              TemplateAccessBasic,
		}
	}
}
