package model

import (
	"time"
)

// JWTTokenBlacklist stores revoked JWT tokens until they would have expired anyway
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenID   string    `gorm:"uniqueIndex;not null;type:varchar(64)" json:"tokenId"` // jti claim
	UserID    uint      `gorm:"index" json:"userId"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"` // logout, security, account_deleted
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for JWTTokenBlacklist
func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}
