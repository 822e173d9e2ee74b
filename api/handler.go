package api

import (
	"net/http"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"
	"github.com/michaelfullmer/contentcreatorforbusiness/repository"
	"github.com/michaelfullmer/contentcreatorforbusiness/services"
	"github.com/michaelfullmer/contentcreatorforbusiness/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	usageRepo          repository.UsageRepository
	contentRepo        repository.ContentRepository
	templateRepo       repository.TemplateRepository
	brandRepo          repository.BrandRepository
	entitlementService services.EntitlementService
	quotaService       services.QuotaService
	generatorService   services.GeneratorService
	db                 *gorm.DB
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	usageRepo repository.UsageRepository,
	contentRepo repository.ContentRepository,
	templateRepo repository.TemplateRepository,
	brandRepo repository.BrandRepository,
	entitlementService services.EntitlementService,
	quotaService services.QuotaService,
	generatorService services.GeneratorService,
	db *gorm.DB,
) *APIHandler {
	return &APIHandler{
		usageRepo:          usageRepo,
		contentRepo:        contentRepo,
		templateRepo:       templateRepo,
		brandRepo:          brandRepo,
		entitlementService: entitlementService,
		quotaService:       quotaService,
		generatorService:   generatorService,
		db:                 db,
	}
}

// UsageHandler returns the caller's plan and per-meter consumption for
// display. Anonymous callers get the fixed allowance with zero usage and a
// generated guest handle for client-side continuity.
func (h *APIHandler) UsageHandler(c *gin.Context) {
	callerID := resolveCallerID(c, "")

	if callerID == services.AnonymousCallerID {
		limits := services.AnonymousLimits()
		c.JSON(http.StatusOK, models.UsageResponse{
			UserType:       "anonymous",
			UserID:         utils.NewGuestID(),
			Plan:           models.PlanFree,
			Content:        meterUsage(0, limits.ContentGenerationsPerPeriod),
			Image:          meterUsage(0, limits.ImageGenerationsPerPeriod),
			TemplateAccess: limits.TemplateAccess,
		})
		return
	}

	sub, err := h.usageRepo.GetUsage(callerID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not load usage.", err)
		return
	}

	plan := models.PlanFree
	contentUsed, imageUsed := 0, 0
	if sub != nil {
		plan = sub.Plan
		contentUsed = sub.ContentGenerationsUsed
		imageUsed = sub.ImageGenerationsUsed
	}
	limits := models.LimitsForPlan(plan)

	c.JSON(http.StatusOK, models.UsageResponse{
		UserType:       "registered",
		UserID:         callerID,
		Plan:           plan,
		Content:        meterUsage(contentUsed, limits.ContentGenerationsPerPeriod),
		Image:          meterUsage(imageUsed, limits.ImageGenerationsPerPeriod),
		TemplateAccess: limits.TemplateAccess,
		APIAccess:      limits.APIAccess,
		WhiteLabeling:  limits.WhiteLabeling,
	})
}

func meterUsage(used int, limit models.Limit) models.MeterUsage {
	remaining := models.Unlimited
	if !limit.IsUnlimited() {
		remaining = limit - models.Limit(used)
		if remaining < 0 {
			remaining = 0
		}
	}
	return models.MeterUsage{Used: used, Limit: limit, Remaining: remaining}
}

// ApplySubscriptionRequest is the inbound body for plan changes pushed by
// the billing integration.
type ApplySubscriptionRequest struct {
	UserID string          `json:"user_id" binding:"required"`
	Plan   models.PlanType `json:"plan" binding:"required"`
}

// ApplySubscriptionHandler records a plan change for a user.
func (h *APIHandler) ApplySubscriptionHandler(c *gin.Context) {
	var req ApplySubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	if !req.Plan.Valid() {
		utils.SendJSONError(c, http.StatusBadRequest, "Unknown plan.", nil)
		return
	}

	sub, err := h.usageRepo.ApplyPlan(req.UserID, req.Plan)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not apply plan change.", err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ResetSubscriptionRequest identifies the user whose period should roll over.
type ResetSubscriptionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ResetSubscriptionHandler forces a billing-period rollover for one user.
// Normally the scheduled sweep does this; the endpoint exists for the
// billing integration and for operational fixes.
func (h *APIHandler) ResetSubscriptionHandler(c *gin.Context) {
	var req ResetSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	if err := h.usageRepo.ResetPeriod(req.UserID); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not reset billing period.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
