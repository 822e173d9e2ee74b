package api

import (
	"net/http"
	"strconv"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"
	"github.com/michaelfullmer/contentcreatorforbusiness/utils"

	"github.com/gin-gonic/gin"
)

// CreateContentRequest is the inbound body for saving a content item.
type CreateContentRequest struct {
	Title      string                  `json:"title" binding:"required"`
	Content    string                  `json:"content" binding:"required"`
	TemplateID *uint                   `json:"template_id"`
	Category   models.TemplateCategory `json:"category" binding:"required"`
	Status     models.ContentStatus    `json:"status"`
}

// ListContentHandler returns the caller's saved content items, newest first.
func (h *APIHandler) ListContentHandler(c *gin.Context) {
	callerID := resolveCallerID(c, "")
	items, err := h.contentRepo.GetContentItems(callerID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch content.", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetContentHandler returns one content item by ID.
func (h *APIHandler) GetContentHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid content ID.", err)
		return
	}
	item, err := h.contentRepo.GetContentItemByID(id)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch content.", err)
		return
	}
	if item == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Content not found.", nil)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateContentHandler saves a new content item.
func (h *APIHandler) CreateContentHandler(c *gin.Context) {
	var req CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid content data.", err)
		return
	}
	if !req.Category.Valid() {
		utils.SendJSONError(c, http.StatusBadRequest, "Unknown content category.", nil)
		return
	}

	status := req.Status
	if status == "" {
		status = models.ContentStatusDraft
	}
	item := &models.ContentItem{
		UserID:     resolveCallerID(c, ""),
		Title:      req.Title,
		Content:    req.Content,
		TemplateID: req.TemplateID,
		Category:   req.Category,
		Status:     status,
	}
	if err := h.contentRepo.CreateContentItem(item); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to create content.", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateContentRequest carries the patchable fields of a content item.
type UpdateContentRequest struct {
	Title    *string                  `json:"title"`
	Content  *string                  `json:"content"`
	Category *models.TemplateCategory `json:"category"`
	Status   *models.ContentStatus    `json:"status"`
}

// UpdateContentHandler applies a partial update to a content item.
func (h *APIHandler) UpdateContentHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid content ID.", err)
		return
	}
	var req UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid content data.", err)
		return
	}

	item, err := h.contentRepo.GetContentItemByID(id)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch content.", err)
		return
	}
	if item == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Content not found.", nil)
		return
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Content != nil {
		item.Content = *req.Content
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			utils.SendJSONError(c, http.StatusBadRequest, "Unknown content category.", nil)
			return
		}
		item.Category = *req.Category
	}
	if req.Status != nil {
		item.Status = *req.Status
	}

	if err := h.contentRepo.UpdateContentItem(item); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to update content.", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteContentHandler soft-deletes a content item.
func (h *APIHandler) DeleteContentHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid content ID.", err)
		return
	}
	if err := h.contentRepo.DeleteContentItem(id, false); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to delete content.", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTemplatesHandler lists the template catalog. Premium entries are only
// included when the caller's plan carries full template access.
func (h *APIHandler) ListTemplatesHandler(c *gin.Context) {
	callerID := resolveCallerID(c, "")
	limits, err := h.entitlementService.ResolveLimits(callerID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch templates.", err)
		return
	}

	includePremium := limits.TemplateAccess == models.TemplateAccessAll
	templates, err := h.templateRepo.GetTemplates(includePremium)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch templates.", err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetBrandHandler returns the caller's brand profile, if any.
func (h *APIHandler) GetBrandHandler(c *gin.Context) {
	callerID := resolveCallerID(c, "")
	profile, err := h.brandRepo.GetBrandProfile(callerID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch brand profile.", err)
		return
	}
	if profile == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Brand profile not found.", nil)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveBrandHandler creates or updates the caller's brand profile.
func (h *APIHandler) SaveBrandHandler(c *gin.Context) {
	var profile models.BrandProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid brand profile data.", err)
		return
	}
	profile.UserID = resolveCallerID(c, profile.UserID)

	saved, err := h.brandRepo.SaveBrandProfile(&profile)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to save brand profile.", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
