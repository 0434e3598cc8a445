package model

import (
	"time"
)

// JoinSaga persists the progress of one join workflow, unique per (account, key)
type JoinSaga struct {
	ID                  string    `gorm:"primaryKey;size:36"`
	AccountID           string    `gorm:"not null;size:64;uniqueIndex:idx_join_sagas_account_key,priority:1"`
	SagaKey             string    `gorm:"not null;size:128;uniqueIndex:idx_join_sagas_account_key,priority:2"`
	TournamentID        string    `gorm:"not null;size:64;index"`
	TeamID              string    `gorm:"size:64"`
	Attempt             int       `gorm:"not null;default:1"`
	State               string    `gorm:"not null;size:16;index"`
	EntryFee            int64     `gorm:"not null;default:0"`
	FeeTransactionID    string    `gorm:"size:36"`
	RefundTransactionID string    `gorm:"size:36"`
	FailureReason       string    `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName specifies the table name for JoinSaga
func (JoinSaga) TableName() string {
	return "join_sagas"
}
