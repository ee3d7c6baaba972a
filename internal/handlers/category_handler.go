package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/response"
	"ledger/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name  string              `json:"name" binding:"required,max=50"`
	Type  models.CategoryType `json:"type" binding:"required,category_type"`
	Icon  string              `json:"icon" binding:"max=50"`
	Color string              `json:"color" binding:"omitempty,hex_color"`
}

// UpdateCategoryRequest represents the request payload for updating a category
type UpdateCategoryRequest struct {
	Name  string `json:"name" binding:"max=50"`
	Icon  string `json:"icon" binding:"max=50"`
	Color string `json:"color" binding:"omitempty,hex_color"`
}

// ReorderCategoriesRequest carries the full desired display order.
type ReorderCategoriesRequest struct {
	CategoryIDs []uint `json:"categoryIds" binding:"required,min=1"`
}

// GetCategories lists the categories visible to the user
// @Summary     List categories
// @Description List system categories plus the user's own, in display order
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by category type (income/expense)"
// @Success     200 {object} response.Envelope "List of categories"
// @Failure     401 {object} response.Envelope "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var typeFilter *models.CategoryType
	switch c.Query("type") {
	case string(models.CategoryTypeIncome):
		t := models.CategoryTypeIncome
		typeFilter = &t
	case string(models.CategoryTypeExpense):
		t := models.CategoryTypeExpense
		typeFilter = &t
	}

	categories, err := h.categoryService.GetVisibleCategories(userID, typeFilter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "ok", gin.H{"categories": categories})
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new user-owned transaction category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} response.Envelope "Category created"
// @Failure     400 {object} response.Envelope "Invalid input"
// @Failure     401 {object} response.Envelope "Unauthorized"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Type, req.Icon, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type})

	response.Created(c, "created", gin.H{"category": category})
}

// UpdateCategory handles updating a category
// @Summary     Update category
// @Description Update a user-owned category's name, icon, or color
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated category details"
// @Success     200 {object} response.Envelope "Updated category"
// @Failure     403 {object} response.Envelope "System category"
// @Failure     404 {object} response.Envelope "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.Name, req.Icon, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	response.OK(c, "updated", gin.H{"category": category})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a user-owned category that no transaction references
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} response.Envelope "Category deleted"
// @Failure     403 {object} response.Envelope "System category"
// @Failure     404 {object} response.Envelope "Category not found"
// @Failure     409 {object} response.Envelope "Category in use"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	response.OK(c, "deleted", nil)
}

// ReorderCategories handles the batch sort-order reassignment
// @Summary     Reorder categories
// @Description Reassign display order for the given categories, first to last
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReorderCategoriesRequest true "Ordered category IDs"
// @Success     200 {object} response.Envelope "Order updated"
// @Failure     400 {object} response.Envelope "Invalid input"
// @Failure     403 {object} response.Envelope "Inaccessible category in list"
// @Router      /categories/order [post]
func (h *CategoryHandler) ReorderCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReorderCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.categoryService.ReorderCategories(userID, req.CategoryIDs); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REORDER_CATEGORIES", "category", 0, c.ClientIP(),
		map[string]interface{}{"categoryIds": req.CategoryIDs})

	response.OK(c, "order updated", nil)
}
