package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. System categories are
// visible to every user and owned by none (UserID is NULL); user
// categories are visible only to their owner. Type and IsSystem never
// change after creation.
type Category struct {
	Base
	Name      string       `gorm:"size:50;not null" json:"name"`
	Type      CategoryType `gorm:"size:10;not null;index" json:"type"`
	Icon      string       `gorm:"size:50" json:"icon"`
	Color     string       `gorm:"size:20" json:"color"`
	IsSystem  bool         `gorm:"not null;default:false" json:"isSystem"`
	UserID    *uint        `gorm:"index" json:"userId"`
	SortOrder int          `gorm:"not null;default:0" json:"sortOrder"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}

// VisibleTo reports whether the category appears for the given user.
func (c *Category) VisibleTo(userID uint) bool {
	return c.IsSystem || (c.UserID != nil && *c.UserID == userID)
}
