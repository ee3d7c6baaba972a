package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// visibleTo scopes a category query to system categories plus the user's own.
func visibleTo(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_system = ? OR user_id = ?", true, userID)
	}
}

// GetVisibleCategories returns the union of system categories and the
// user's own categories, optionally restricted to one type. System
// categories come first; within each group, ascending sort order, ties
// broken by creation time.
func (s *categoryService) GetVisibleCategories(userID uint, typeFilter *models.CategoryType) ([]models.Category, error) {
	q := s.db.Model(&models.Category{}).Scopes(visibleTo(userID))
	if typeFilter != nil {
		q = q.Where("type = ?", *typeFilter)
	}

	var categories []models.Category
	if err := q.Order("is_system DESC").
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// CreateCategory creates a new user-owned category. The new category is
// appended after every category of the same type currently visible to
// the user.
func (s *categoryService) CreateCategory(userID uint, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	// Next sort order: 1 past the max among visible categories of this
	// type, 0 when none exist yet.
	var nextOrder int
	if err := s.db.Model(&models.Category{}).
		Scopes(visibleTo(userID)).
		Where("type = ?", categoryType).
		Select("COALESCE(MAX(sort_order), -1) + 1").
		Scan(&nextOrder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category := &models.Category{
		Name:      name,
		Type:      categoryType,
		Icon:      icon,
		Color:     color,
		IsSystem:  false,
		UserID:    &userID,
		SortOrder: nextOrder,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// getVisibleCategory fetches a category by id if it is visible to the user.
func (s *categoryService) getVisibleCategory(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Scopes(visibleTo(userID)).
		First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's display attributes. Type and the
// system flag are immutable; system categories reject any update.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, icon, color string) (*models.Category, error) {
	category, err := s.getVisibleCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsSystem {
		return nil, apperrors.ErrSystemCategory
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a user-owned category. Deletion is rejected
// while transactions still reference the category.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.getVisibleCategory(userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return apperrors.ErrSystemCategory
	}

	var refCount int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&refCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if refCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ReorderCategories assigns sort_order = position + 1 to each category in
// the given order. The whole batch is rejected before any write if one of
// the ids does not resolve to a category visible to the user, and the
// reassignment itself runs in a single transaction so a mid-batch failure
// leaves the previous ordering intact. Categories outside the list keep
// their existing sort order.
func (s *categoryService) ReorderCategories(userID uint, orderedIDs []uint) error {
	if len(orderedIDs) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category ids are required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).
			Scopes(visibleTo(userID)).
			Where("id IN ?", orderedIDs).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Duplicate ids in the input also trip this check.
		if count != int64(len(orderedIDs)) {
			return apperrors.ErrReorderForbidden
		}

		for i, id := range orderedIDs {
			if err := tx.Model(&models.Category{}).
				Where("id = ?", id).
				Update("sort_order", i+1).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
}
