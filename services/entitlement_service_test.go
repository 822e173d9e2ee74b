package services

import (
	"errors"
	"testing"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"

	"github.com/stretchr/testify/assert"
)

func TestEntitlementService_ResolveLimits(t *testing.T) {
	t.Run("Anonymous caller gets the fixed allowance without a lookup", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		service := NewEntitlementService(mockUsageRepo)

		limits, err := service.ResolveLimits(AnonymousCallerID)
		assert.NoError(t, err)
		assert.Equal(t, models.Limit(10), limits.ContentGenerationsPerPeriod)
		assert.Equal(t, models.Limit(0), limits.ImageGenerationsPerPeriod)
		assert.Equal(t, models.TemplateAccessBasic, limits.TemplateAccess)
		assert.False(t, limits.ContentGenerationsPerPeriod.IsUnlimited())
		mockUsageRepo.AssertNotCalled(t, "GetUsage")
	})

	t.Run("Empty caller ID is treated as anonymous", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		service := NewEntitlementService(mockUsageRepo)

		limits, err := service.ResolveLimits("")
		assert.NoError(t, err)
		assert.Equal(t, models.Limit(10), limits.ContentGenerationsPerPeriod)
		mockUsageRepo.AssertNotCalled(t, "GetUsage")
	})

	t.Run("Missing usage record resolves to the free plan", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		service := NewEntitlementService(mockUsageRepo)

		mockUsageRepo.On("GetUsage", "newuser").Return(nil, nil)

		limits, err := service.ResolveLimits("newuser")
		assert.NoError(t, err)
		assert.Equal(t, models.LimitsForPlan(models.PlanFree), limits)
	})

	t.Run("Recorded plan maps through the plan table", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		service := NewEntitlementService(mockUsageRepo)

		mockUsageRepo.On("GetUsage", "prouser").Return(&models.UserSubscription{
			UserID: "prouser",
			Plan:   models.PlanPro,
		}, nil)

		limits, err := service.ResolveLimits("prouser")
		assert.NoError(t, err)
		assert.Equal(t, models.Limit(100), limits.ContentGenerationsPerPeriod)
		assert.Equal(t, models.TemplateAccessAll, limits.TemplateAccess)
	})

	t.Run("Unrecognized stored plan falls back to free", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		service := NewEntitlementService(mockUsageRepo)

		mockUsageRepo.On("GetUsage", "odd").Return(&models.UserSubscription{
			UserID: "odd",
			Plan:   models.PlanType("platinum"),
		}, nil)

		limits, err := service.ResolveLimits("odd")
		assert.NoError(t, err)
		assert.Equal(t, models.LimitsForPlan(models.PlanFree), limits)
	})

	t.Run("Storage failure propagates", func(t *testing.T) {
		mockUsageRepo := new(MockUsageRepository)
		service := NewEntitlementService(mockUsageRepo)

		mockUsageRepo.On("GetUsage", "user123").Return(nil, errors.New("disk error"))

		_, err := service.ResolveLimits("user123")
		assert.Error(t, err)
	})
}

func TestLimitsForPlan(t *testing.T) {
	t.Run("Enterprise tiers carry the unlimited sentinel, not a large number", func(t *testing.T) {
		for _, plan := range []models.PlanType{models.PlanEnterprise, models.PlanEnterprisePlus} {
			limits := models.LimitsForPlan(plan)
			assert.True(t, limits.ContentGenerationsPerPeriod.IsUnlimited(), "plan %s", plan)
			assert.True(t, limits.ImageGenerationsPerPeriod.IsUnlimited(), "plan %s", plan)
		}
	})

	t.Run("Only enterprise_plus has API access and white labeling", func(t *testing.T) {
		assert.True(t, models.LimitsForPlan(models.PlanEnterprisePlus).APIAccess)
		assert.True(t, models.LimitsForPlan(models.PlanEnterprisePlus).WhiteLabeling)
		assert.False(t, models.LimitsForPlan(models.PlanEnterprise).APIAccess)
		assert.False(t, models.LimitsForPlan(models.PlanPro).WhiteLabeling)
	})

	t.Run("Free tier numbers", func(t *testing.T) {
		limits := models.LimitsForPlan(models.PlanFree)
		assert.Equal(t, models.Limit(10), limits.ContentGenerationsPerPeriod)
		assert.Equal(t, models.Limit(0), limits.ImageGenerationsPerPeriod)
		assert.Equal(t, models.TemplateAccessBasic, limits.TemplateAccess)
	})
}
