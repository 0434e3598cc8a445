package model

import (
	"time"
)

// SagaLock is an expiring lease on a join saga key
type SagaLock struct {
	LockKey   string    `gorm:"primaryKey;size:200"`
	Owner     string    `gorm:"not null;size:36"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for SagaLock
func (SagaLock) TableName() string {
	return "saga_locks"
}
