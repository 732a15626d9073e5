package model

import (
	"time"

	"gorm.io/datatypes"
)

// AdminAuditLog records a destructive action taken through the admin API
type AdminAuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AdminID     uint           `gorm:"not null;index" json:"adminId"`
	Action      string         `gorm:"type:varchar(100);not null" json:"action"` // e.g., "user_delete", "course_delete"
	Resource    string         `gorm:"type:varchar(100)" json:"resource"`        // e.g., "users", "courses"
	ResourceID  uint           `json:"resourceId"`
	OldValue    datatypes.JSON `json:"oldValue,omitempty"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ipAddress"`
	UserAgent   string         `gorm:"type:text" json:"userAgent"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
