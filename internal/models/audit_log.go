package models

// AuditLog records a mutation performed through the API.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"userId"`
	Action       string `gorm:"size:50;not null" json:"action"`
	ResourceType string `gorm:"size:50;not null" json:"resourceType"`
	ResourceID   uint   `json:"resourceId"`
	IPAddress    string `gorm:"size:45" json:"ipAddress"`
	Changes      string `gorm:"type:text" json:"changes"`
}
