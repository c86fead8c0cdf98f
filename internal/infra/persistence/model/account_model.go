package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'users' table. The unique index on email backs registration's
// duplicate detection.
type AccountModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	Password  string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "users"
}
