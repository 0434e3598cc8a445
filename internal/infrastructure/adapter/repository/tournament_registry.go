package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/model"
)

// errEntryRace marks a lost race on the participant unique index
var errEntryRace = errors.New("tournament entry inserted concurrently")

// TournamentRegistry is the registry hosted in the ledger's own database
type TournamentRegistry struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *database.ErrorMapper
}

var (
	_ external.TournamentRegistry = (*TournamentRegistry)(nil)
	_ external.TournamentAdmin    = (*TournamentRegistry)(nil)
)

// NewTournamentRegistry creates a new TournamentRegistry instance
func NewTournamentRegistry(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger, errorMapper *database.ErrorMapper) *TournamentRegistry {
	return &TournamentRegistry{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  errorMapper,
	}
}

// GetTournament returns fee and capacity information
func (r *TournamentRegistry) GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error) {
	var row model.Tournament
	if err := r.db.WithContext(ctx).Where("id = ?", tournamentID).Take(&row).Error; err != nil {
		return nil, r.mapError(err, "get tournament", errs.ErrTournamentNotFound)
	}
	return tournamentToEntity(&row), nil
}

// CreateTournament adds a tournament
func (r *TournamentRegistry) CreateTournament(ctx context.Context, t *entity.Tournament) error {
	row := model.Tournament{
		ID:                  t.ID,
		Title:               t.Title,
		Game:                t.Game,
		EntryFee:            t.EntryFee,
		PrizePool:           t.PrizePool,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		Status:              string(t.Status),
		StartTime:           t.StartTime,
		CreatedBy:           t.CreatedBy,
		CreatedAt:           t.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if r.errorMapper.IsDuplicateKey(err) {
			return errs.ErrTournamentExists
		}
		return r.mapError(err, "create tournament", nil)
	}

	r.logger.Info("Tournament created", map[string]any{
		"tournament_id":    t.ID,
		"entry_fee":        t.EntryFee,
		"max_participants": t.MaxParticipants,
	})
	return nil
}

// RegisterParticipant takes a slot. Capacity is enforced by a conditional increment;
// one entry per account by the unique participant index. Registering again with the
// same registration id returns the existing entry.
func (r *TournamentRegistry) RegisterParticipant(ctx context.Context, reg external.Registration) (*entity.TournamentEntry, error) {
	var entry *entity.TournamentEntry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.findEntry(tx, reg.TournamentID, reg.AccountID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.RegistrationID != reg.RegistrationID {
				return errs.ErrAlreadyJoined
			}
			entry = existing
			return nil
		}

		result := tx.Model(&model.Tournament{}).
			Where("id = ? AND current_participants < max_participants", reg.TournamentID).
			Update("current_participants", gorm.Expr("current_participants + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Tournament{}).Where("id = ?", reg.TournamentID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errs.ErrTournamentNotFound
			}
			return errs.ErrTournamentFull
		}

		row := model.TournamentEntry{
			TournamentID:   reg.TournamentID,
			AccountID:      reg.AccountID,
			TeamID:         reg.TeamID,
			Status:         string(entity.EntryActive),
			RegistrationID: reg.RegistrationID,
			JoinedAt:       r.timeProvider.Now(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if r.errorMapper.IsDuplicateKey(err) {
				return errEntryRace
			}
			return err
		}
		entry = entryToEntity(&row)
		return nil
	})

	if errors.Is(err, errEntryRace) {
		existing, findErr := r.findEntry(r.db.WithContext(ctx), reg.TournamentID, reg.AccountID)
		if findErr != nil {
			return nil, r.mapError(findErr, "register participant", nil)
		}
		if existing == nil || existing.RegistrationID != reg.RegistrationID {
			return nil, errs.ErrAlreadyJoined
		}
		return existing, nil
	}
	if err != nil {
		return nil, r.mapError(err, "register participant", nil)
	}
	return entry, nil
}

// ListEntries returns every entry held by the account, newest first
func (r *TournamentRegistry) ListEntries(ctx context.Context, accountID string) ([]*entity.TournamentEntry, error) {
	var rows []model.TournamentEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("joined_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, r.mapError(err, "list tournament entries", nil)
	}

	out := make([]*entity.TournamentEntry, len(rows))
	for i := range rows {
		out[i] = entryToEntity(&rows[i])
	}
	return out, nil
}

func (r *TournamentRegistry) findEntry(tx *gorm.DB, tournamentID, accountID string) (*entity.TournamentEntry, error) {
	var row model.TournamentEntry
	err := tx.Where("tournament_id = ? AND account_id = ?", tournamentID, accountID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entryToEntity(&row), nil
}

// mapError reports the registry's own outages as registry unavailability
func (r *TournamentRegistry) mapError(err error, operation string, notFound error) error {
	mapped := r.errorMapper.MapError(err, operation, notFound)
	if errors.Is(mapped, errs.ErrUnavailable) && !errors.Is(mapped, errs.ErrRegistryUnavailable) {
		r.logger.Warn("Tournament registry database unavailable", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
		return errs.ErrRegistryUnavailable
	}
	return mapped
}

func tournamentToEntity(m *model.Tournament) *entity.Tournament {
	return &entity.Tournament{
		ID:                  m.ID,
		Title:               m.Title,
		Game:                m.Game,
		EntryFee:            m.EntryFee,
		PrizePool:           m.PrizePool,
		MaxParticipants:     m.MaxParticipants,
		CurrentParticipants: m.CurrentParticipants,
		Status:              entity.TournamentStatus(m.Status),
		StartTime:           m.StartTime,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt,
	}
}

func entryToEntity(m *model.TournamentEntry) *entity.TournamentEntry {
	return &entity.TournamentEntry{
		TournamentID:   m.TournamentID,
		AccountID:      m.AccountID,
		TeamID:         m.TeamID,
		Status:         entity.EntryStatus(m.Status),
		RegistrationID: m.RegistrationID,
		JoinedAt:       m.JoinedAt,
	}
}
