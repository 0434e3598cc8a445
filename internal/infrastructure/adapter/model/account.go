package model

import (
	"time"
)

// Account is the database row behind a wallet. The check constraint backs up the
// conditional update that keeps the balance non-negative.
type Account struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Balance   int64     `gorm:"not null;default:0;check:chk_accounts_balance,balance >= 0"` // minor units
	Version   uint64    `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
