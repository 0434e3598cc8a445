package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/model"
)

// JoinSagaRepository stores join workflows in join_sagas
type JoinSagaRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *database.ErrorMapper
}

var _ persistence.JoinSagaRepository = (*JoinSagaRepository)(nil)

// NewJoinSagaRepository creates a new JoinSagaRepository instance
func NewJoinSagaRepository(db *gorm.DB, logger coreport.Logger, errorMapper *database.ErrorMapper) *JoinSagaRepository {
	return &JoinSagaRepository{
		db:          db,
		logger:      logger,
		errorMapper: errorMapper,
	}
}

// FindByKey returns the saga stored for (account, key)
func (r *JoinSagaRepository) FindByKey(ctx context.Context, accountID, key string) (*entity.JoinSaga, error) {
	var row model.JoinSaga
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND saga_key = ?", accountID, key).
		Take(&row).Error
	if err != nil {
		return nil, r.errorMapper.MapError(err, "find join saga", errs.ErrSagaNotFound)
	}
	return sagaToEntity(&row), nil
}

// Create stores a new saga
func (r *JoinSagaRepository) Create(ctx context.Context, saga *entity.JoinSaga) error {
	row := sagaToModel(saga)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if r.errorMapper.IsDuplicateKey(err) {
			return errs.ErrSagaExists
		}
		r.logger.Error("Failed to create join saga", map[string]any{
			"saga_id":    saga.ID,
			"account_id": saga.AccountID,
			"error":      err.Error(),
		})
		return r.errorMapper.MapError(err, "create join saga", nil)
	}
	return nil
}

// Save persists every mutable column of an existing saga
func (r *JoinSagaRepository) Save(ctx context.Context, saga *entity.JoinSaga) error {
	result := r.db.WithContext(ctx).Model(&model.JoinSaga{}).
		Where("id = ?", saga.ID).
		Updates(map[string]any{
			"team_id":               saga.TeamID,
			"attempt":               saga.Attempt,
			"state":                 string(saga.State),
			"entry_fee":             saga.EntryFee,
			"fee_transaction_id":    saga.FeeTransactionID,
			"refund_transaction_id": saga.RefundTransactionID,
			"failure_reason":        saga.FailureReason,
			"updated_at":            saga.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to save join saga", map[string]any{
			"saga_id": saga.ID,
			"state":   saga.State,
			"error":   result.Error.Error(),
		})
		return r.errorMapper.MapError(result.Error, "save join saga", nil)
	}
	if result.RowsAffected == 0 {
		return errs.ErrSagaNotFound
	}
	return nil
}

// ListByAccount returns the account's sagas, newest first
func (r *JoinSagaRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*entity.JoinSaga, error) {
	var rows []model.JoinSaga
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(clampLimit(limit, defaultListLimit, maxListLimit)).
		Find(&rows).Error
	if err != nil {
		return nil, r.errorMapper.MapError(err, "list join sagas", nil)
	}

	out := make([]*entity.JoinSaga, len(rows))
	for i := range rows {
		out[i] = sagaToEntity(&rows[i])
	}
	return out, nil
}

func sagaToModel(s *entity.JoinSaga) model.JoinSaga {
	return model.JoinSaga{
		ID:                  s.ID,
		AccountID:           s.AccountID,
		SagaKey:             s.Key,
		TournamentID:        s.TournamentID,
		TeamID:              s.TeamID,
		Attempt:             s.Attempt,
		State:               string(s.State),
		EntryFee:            s.EntryFee,
		FeeTransactionID:    s.FeeTransactionID,
		RefundTransactionID: s.RefundTransactionID,
		FailureReason:       s.FailureReason,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func sagaToEntity(m *model.JoinSaga) *entity.JoinSaga {
	return &entity.JoinSaga{
		ID:                  m.ID,
		AccountID:           m.AccountID,
		TournamentID:        m.TournamentID,
		TeamID:              m.TeamID,
		Key:                 m.SagaKey,
		Attempt:             m.Attempt,
		State:               entity.SagaState(m.State),
		EntryFee:            m.EntryFee,
		FeeTransactionID:    m.FeeTransactionID,
		RefundTransactionID: m.RefundTransactionID,
		FailureReason:       m.FailureReason,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
