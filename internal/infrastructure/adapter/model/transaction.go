package model

import (
	"time"
)

// Transaction is an immutable ledger row. Seq orders rows store-wide and drives
// history pagination; ID is the public identifier.
type Transaction struct {
	Seq            uint64    `gorm:"primaryKey;autoIncrement"`
	ID             string    `gorm:"uniqueIndex;not null;size:36"`
	AccountID      string    `gorm:"not null;size:64;uniqueIndex:idx_transactions_account_key,priority:1;index:idx_transactions_account_seq,priority:1"`
	IdempotencyKey string    `gorm:"not null;size:128;uniqueIndex:idx_transactions_account_key,priority:2"`
	Amount         int64     `gorm:"not null"`
	Category       string    `gorm:"not null;size:32"`
	Status         string    `gorm:"not null;size:16"`
	ReferenceID    string    `gorm:"size:64;index"`
	Description    string    `gorm:"size:255"`
	BalanceAfter   int64     `gorm:"not null"`
	AccountVersion uint64    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
