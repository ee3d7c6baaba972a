package services

import (
	"github.com/shopspring/decimal"

	"ledger/internal/models"
	"ledger/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password, nickname string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	GetVisibleCategories(userID uint, typeFilter *models.CategoryType) ([]models.Category, error)
	CreateCategory(userID uint, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	ReorderCategories(userID uint, orderedIDs []uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *uint
	StartDate  *models.Date
	EndDate    *models.Date
}

// TransactionPatch holds the optional fields of a transaction update.
// Nil fields are left unchanged.
type TransactionPatch struct {
	CategoryID  *uint
	Type        *models.TransactionType
	Amount      *decimal.Decimal
	Date        *models.Date
	Description *string
	AccountType *string
}

// Summary contains the aggregate income/expense totals for a user.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// CategoryStat contains the aggregated amount and count for one
// (type, category) group, joined with category display attributes.
type CategoryStat struct {
	Type         models.TransactionType `json:"type"`
	CategoryID   uint                   `json:"categoryId"`
	CategoryName string                 `json:"categoryName"`
	Icon         string                 `json:"icon"`
	Color        string                 `json:"color"`
	Total        decimal.Decimal        `json:"total"`
	Count        int64                  `json:"count"`
}

// Statistics is the full statistics payload: overall summary plus the
// per-category breakdown ordered by summed amount descending.
type Statistics struct {
	Summary       Summary        `json:"summary"`
	CategoryStats []CategoryStat `json:"categoryStats"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	CreateTransaction(userID, categoryID uint, transactionType models.TransactionType, amount decimal.Decimal, date models.Date, description, accountType string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetStatistics(userID uint, startDate, endDate *models.Date) (*Statistics, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
