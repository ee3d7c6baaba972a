package models

// User represents the user model in the database
type User struct {
	Base
	Username     string        `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password     string        `gorm:"size:255;not null" json:"-"`
	Nickname     string        `gorm:"size:50" json:"nickname"`
	Avatar       string        `gorm:"size:255" json:"avatar"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
