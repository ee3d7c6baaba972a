package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db                 *gorm.DB
	defaultAccountType string
}

// NewTransactionService creates a new TransactionServicer. Transactions
// created without an account type are stamped with defaultAccountType.
func NewTransactionService(db *gorm.DB, defaultAccountType string) TransactionServicer {
	return &transactionService{
		db:                 db,
		defaultAccountType: defaultAccountType,
	}
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	return q
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest date first, most recently created first within a date.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Category").
		Order("date DESC").
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.Limit, total)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// categoryExists checks that a category id references an existing category.
// Ownership is deliberately not required: transactions may point at any
// existing category.
func (s *transactionService) categoryExists(categoryID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ?", categoryID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CreateTransaction creates a new transaction for the user.
func (s *transactionService) CreateTransaction(
	userID, categoryID uint,
	transactionType models.TransactionType,
	amount decimal.Decimal,
	date models.Date,
	description, accountType string,
) (*models.Transaction, error) {
	if categoryID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if err := s.categoryExists(categoryID); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = models.Today()
	}
	if accountType == "" {
		accountType = s.defaultAccountType
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Date:        date,
		Description: description,
		AccountType: accountType,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(userID, transaction.ID)
}

// UpdateTransaction applies a partial update to a transaction owned by the
// user. A non-positive amount is rejected, same as on create.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, patch TransactionPatch) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil &&
		*patch.Type != models.TransactionTypeIncome &&
		*patch.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if patch.CategoryID != nil && *patch.CategoryID != transaction.CategoryID {
		if err := s.categoryExists(*patch.CategoryID); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.AccountType != nil {
		updates["account_type"] = *patch.AccountType
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction deletes a transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// typeTotal is the scan target for the per-type summary query.
type typeTotal struct {
	Type  models.TransactionType
	Total decimal.Decimal
}

// GetStatistics aggregates the user's transactions over an optional
// inclusive date range: total income, total expense, balance, and a
// per-(type, category) breakdown ordered by summed amount descending.
// Sums are computed by the store and scanned into decimals; no float
// arithmetic touches the totals.
func (s *transactionService) GetStatistics(userID uint, startDate, endDate *models.Date) (*Statistics, error) {
	rangeFilter := TransactionFilter{StartDate: startDate, EndDate: endDate}

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, rangeFilter)

	var totals []typeTotal
	if err := base.Session(&gorm.Session{}).
		Select("type, SUM(amount) AS total").
		Group("type").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range totals {
		switch t.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = t.Total
		case models.TransactionTypeExpense:
			summary.TotalExpense = t.Total
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	var categoryStats []CategoryStat
	if err := base.Session(&gorm.Session{}).
		Select("transactions.type AS type, transactions.category_id AS category_id, "+
			"categories.name AS category_name, categories.icon AS icon, categories.color AS color, "+
			"SUM(transactions.amount) AS total, COUNT(transactions.id) AS count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Group("transactions.type, transactions.category_id, categories.name, categories.icon, categories.color").
		Order("total DESC").
		Scan(&categoryStats).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if categoryStats == nil {
		categoryStats = []CategoryStat{}
	}

	return &Statistics{
		Summary:       summary,
		CategoryStats: categoryStats,
	}, nil
}
