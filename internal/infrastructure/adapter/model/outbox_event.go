package model

import (
	"time"
)

// OutboxEvent is a follow-up job written in the same transaction as the state that needs it
type OutboxEvent struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Type        string    `gorm:"not null;size:64"`
	Payload     []byte    `gorm:"not null"`
	Status      string    `gorm:"not null;size:16;index:idx_outbox_events_status_created,priority:1"`
	RetryCount  int       `gorm:"not null;default:0"`
	LastError   string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;index:idx_outbox_events_status_created,priority:2"`
	ProcessedAt *time.Time
}

// TableName specifies the table name for OutboxEvent
func (OutboxEvent) TableName() string {
	return "outbox_events"
}
