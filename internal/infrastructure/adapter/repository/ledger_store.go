package repository

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/model"
)

const (
	defaultListLimit = 20
	maxListLimit     = 1000
)

// LedgerStore implements persistence.LedgerStore on gorm. A balance only changes
// through AppendTransaction, in the same database transaction that writes the record.
type LedgerStore struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *database.ErrorMapper
	metrics      *database.MetricsCollector
	retry        database.RetryConfig
	listener     persistence.CommitListener
}

var _ persistence.LedgerStore = (*LedgerStore)(nil)

// NewLedgerStore creates a new LedgerStore instance
func NewLedgerStore(
	db *gorm.DB,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	errorMapper *database.ErrorMapper,
	metrics *database.MetricsCollector,
) *LedgerStore {
	return &LedgerStore{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  errorMapper,
		metrics:      metrics,
		retry:        database.DefaultRetryConfig(),
	}
}

// SetCommitListener registers the component told about committed balances.
// It must be called before the store serves traffic.
func (s *LedgerStore) SetCommitListener(listener persistence.CommitListener) {
	s.listener = listener
}

// CreateAccount stores a new empty account
func (s *LedgerStore) CreateAccount(ctx context.Context, account *entity.Account) error {
	row := model.Account{
		ID:        account.ID,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if s.errorMapper.IsDuplicateKey(err) {
			return errs.ErrAccountExists
		}
		s.logger.Error("Failed to create account", map[string]any{
			"account_id": account.ID,
			"error":      err.Error(),
		})
		return s.errorMapper.MapError(err, "create account", nil)
	}

	s.logger.Info("Account created", map[string]any{"account_id": account.ID})
	return nil
}

// GetAccount returns the authoritative balance and version
func (s *LedgerStore) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	var row model.Account
	if err := s.db.WithContext(ctx).Where("id = ?", accountID).Take(&row).Error; err != nil {
		return nil, s.errorMapper.MapError(err, "get account", errs.ErrAccountNotFound)
	}
	return accountToEntity(&row), nil
}

// AppendTransaction applies req.Amount and writes the record atomically. Replays of a
// stored (account, key) pair return the stored record and apply nothing.
func (s *LedgerStore) AppendTransaction(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
	if req.Amount == 0 {
		return nil, false, errs.ErrInvalidAmount
	}
	if req.Amount == math.MinInt64 {
		return nil, false, errs.ErrAmountOverflow
	}

	var (
		txn      *entity.Transaction
		replayed bool
	)
	_, err := s.metrics.MeasureQuery("append_transaction", map[string]any{
		"account_id":      req.AccountID,
		"idempotency_key": req.IdempotencyKey,
	}, func() (int64, error) {
		err := database.RetryOnTransientError(ctx, s.retry, func() error {
			var appendErr error
			txn, replayed, appendErr = s.appendOnce(ctx, req)
			return appendErr
		}, s.errorMapper, s.logger)
		return 1, err
	})

	if errors.Is(err, errs.ErrDuplicateTransaction) {
		// A concurrent request with the same key committed first; its record is the answer.
		existing, findErr := s.FindByIdempotencyKey(ctx, req.AccountID, req.IdempotencyKey)
		if findErr != nil {
			return nil, false, findErr
		}
		s.logger.Info("Concurrent duplicate resolved to stored transaction", map[string]any{
			"account_id":      req.AccountID,
			"idempotency_key": req.IdempotencyKey,
			"transaction_id":  existing.ID,
		})
		return existing, true, nil
	}
	if err != nil {
		return nil, false, s.errorMapper.MapError(err, "append transaction", nil)
	}

	if !replayed && s.listener != nil {
		s.listener.OnCommit(txn.AccountID, txn.BalanceAfter, txn.AccountVersion)
	}
	return txn, replayed, nil
}

func (s *LedgerStore) appendOnce(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
	var (
		txn      *entity.Transaction
		replayed bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Transaction
		err := tx.Where("account_id = ? AND idempotency_key = ?", req.AccountID, req.IdempotencyKey).
			Take(&existing).Error
		if err == nil {
			txn, replayed = transactionToEntity(&existing), true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.timeProvider.Now()

		// The guard and the update are one statement, so concurrent appends on the
		// same row are serialized by the database and can never overdraw it.
		update := tx.Model(&model.Account{}).Where("id = ?", req.AccountID)
		if req.Amount < 0 {
			update = update.Where("balance >= ?", -req.Amount)
		} else {
			update = update.Where("balance <= ?", math.MaxInt64-req.Amount)
		}
		result := update.Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", req.Amount),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
		if result.Error != nil {
			return result.Error
		}

		var account model.Account
		if err := tx.Where("id = ?", req.AccountID).Take(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrAccountNotFound
			}
			return err
		}
		if result.RowsAffected == 0 {
			if req.Amount > 0 {
				return errs.ErrAmountOverflow
			}
			return errs.NewInsufficientFundsError(req.AccountID, -req.Amount, account.Balance)
		}

		row := model.Transaction{
			ID:             uuid.NewString(),
			AccountID:      req.AccountID,
			IdempotencyKey: req.IdempotencyKey,
			Amount:         req.Amount,
			Category:       string(req.Category),
			Status:         string(entity.StatusCompleted),
			ReferenceID:    req.ReferenceID,
			Description:    req.Description,
			BalanceAfter:   account.Balance,
			AccountVersion: account.Version,
			CreatedAt:      now,
		}
		if err := tx.Create(&row).Error; err != nil {
			if s.errorMapper.IsDuplicateKey(err) {
				return errs.ErrDuplicateTransaction
			}
			return err
		}

		txn = transactionToEntity(&row)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return txn, replayed, nil
}

// FindByIdempotencyKey returns the record stored under (account, key)
func (s *LedgerStore) FindByIdempotencyKey(ctx context.Context, accountID, key string) (*entity.Transaction, error) {
	var row model.Transaction
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND idempotency_key = ?", accountID, key).
		Take(&row).Error
	if err != nil {
		return nil, s.errorMapper.MapError(err, "find transaction by key", errs.ErrTransactionNotFound)
	}
	return transactionToEntity(&row), nil
}

// GetTransaction returns a record by its id
func (s *LedgerStore) GetTransaction(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	var row model.Transaction
	if err := s.db.WithContext(ctx).Where("id = ?", transactionID).Take(&row).Error; err != nil {
		return nil, s.errorMapper.MapError(err, "get transaction", errs.ErrTransactionNotFound)
	}
	return transactionToEntity(&row), nil
}

// ListTransactions returns the account's records below beforeSeq, newest first
func (s *LedgerStore) ListTransactions(ctx context.Context, accountID string, beforeSeq uint64, limit int) ([]*entity.Transaction, error) {
	query := s.db.WithContext(ctx).Where("account_id = ?", accountID)
	if beforeSeq > 0 {
		query = query.Where("seq < ?", beforeSeq)
	}

	var rows []model.Transaction
	err := query.Order("seq DESC").Limit(clampLimit(limit, defaultListLimit, maxListLimit)).Find(&rows).Error
	if err != nil {
		return nil, s.errorMapper.MapError(err, "list transactions", nil)
	}

	out := make([]*entity.Transaction, len(rows))
	for i := range rows {
		out[i] = transactionToEntity(&rows[i])
	}
	return out, nil
}

// SumCompletedDeltas returns the sum and count of the account's completed records
func (s *LedgerStore) SumCompletedDeltas(ctx context.Context, accountID string) (int64, int64, error) {
	var totals struct {
		Total int64
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("account_id = ? AND status = ?", accountID, entity.StatusCompleted).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, s.errorMapper.MapError(err, "sum transactions", nil)
	}
	return totals.Total, totals.Count, nil
}

// ListAccounts returns up to limit accounts ordered by id, starting after afterID
func (s *LedgerStore) ListAccounts(ctx context.Context, afterID string, limit int) ([]*entity.Account, error) {
	var rows []model.Account
	err := s.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(clampLimit(limit, defaultListLimit, maxListLimit)).
		Find(&rows).Error
	if err != nil {
		return nil, s.errorMapper.MapError(err, "list accounts", nil)
	}

	out := make([]*entity.Account, len(rows))
	for i := range rows {
		out[i] = accountToEntity(&rows[i])
	}
	return out, nil
}

func accountToEntity(row *model.Account) *entity.Account {
	return &entity.Account{
		ID:        row.ID,
		Balance:   row.Balance,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func transactionToEntity(row *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:             row.ID,
		Sequence:       row.Seq,
		AccountID:      row.AccountID,
		Amount:         row.Amount,
		Category:       entity.Category(row.Category),
		Status:         entity.TransactionStatus(row.Status),
		ReferenceID:    row.ReferenceID,
		IdempotencyKey: row.IdempotencyKey,
		Description:    row.Description,
		BalanceAfter:   row.BalanceAfter,
		AccountVersion: row.AccountVersion,
		CreatedAt:      row.CreatedAt,
	}
}
