package model

import (
	"time"
)

// Tournament backs the locally hosted registry
type Tournament struct {
	ID                  string `gorm:"primaryKey;size:64"`
	Title               string `gorm:"not null;size:255"`
	Game                string `gorm:"size:64"`
	EntryFee            int64  `gorm:"not null;default:0"`
	PrizePool           int64  `gorm:"not null;default:0"`
	MaxParticipants     int    `gorm:"not null"`
	CurrentParticipants int    `gorm:"not null;default:0;check:chk_tournaments_capacity,current_participants <= max_participants"`
	Status              string `gorm:"not null;size:32"`
	StartTime           time.Time
	CreatedBy           string    `gorm:"size:64"`
	CreatedAt           time.Time `gorm:"not null"`
}

// TableName specifies the table name for Tournament
func (Tournament) TableName() string {
	return "tournaments"
}

// TournamentEntry is a taken slot. One per (tournament, account).
type TournamentEntry struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	TournamentID   string    `gorm:"not null;size:64;uniqueIndex:idx_tournament_entries_participant,priority:1"`
	AccountID      string    `gorm:"not null;size:64;uniqueIndex:idx_tournament_entries_participant,priority:2;index"`
	TeamID         string    `gorm:"size:64"`
	Status         string    `gorm:"not null;size:16"`
	RegistrationID string    `gorm:"not null;size:64"`
	JoinedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for TournamentEntry
func (TournamentEntry) TableName() string {
	return "tournament_entries"
}
