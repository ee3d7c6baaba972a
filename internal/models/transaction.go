package models

import "github.com/shopspring/decimal"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system.
// Amount is always strictly positive; the sign is carried by Type.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"userId"`
	CategoryID  uint            `gorm:"not null;index" json:"categoryId"`
	Type        TransactionType `gorm:"size:10;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date        Date            `gorm:"not null;index" json:"date"`
	Description string          `gorm:"size:200" json:"description"`
	AccountType string          `gorm:"size:20" json:"accountType"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
