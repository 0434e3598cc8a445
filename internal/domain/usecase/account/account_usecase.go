package account

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

// UseCase implements account lifecycle operations
type UseCase struct {
	store        persistence.LedgerStore
	transactions usecase.TransactionUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.AccountUseCase = (*UseCase)(nil)

// NewAccountUseCase creates a new account use case instance
func NewAccountUseCase(
	store persistence.LedgerStore,
	transactions usecase.TransactionUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UseCase {
	return &UseCase{
		store:        store,
		transactions: transactions,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// CreateAccount opens an empty account. The bool reports whether it was created by
// this call; an existing account is returned unchanged.
func (u *UseCase) CreateAccount(ctx context.Context, accountID string) (*entity.Account, bool, error) {
	acc, err := entity.NewAccount(accountID, u.timeProvider)
	if err != nil {
		return nil, false, err
	}

	err = u.store.CreateAccount(ctx, acc)
	if errors.Is(err, errs.ErrAccountExists) {
		existing, getErr := u.store.GetAccount(ctx, accountID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		u.logger.Error("Failed to create account", map[string]any{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return nil, false, err
	}

	u.logger.Info("Account created", map[string]any{
		"account_id": accountID,
	})
	return acc, true, nil
}

// AccountExists checks if an account exists with the given ID
func (u *UseCase) AccountExists(ctx context.Context, accountID string) (bool, error) {
	if err := entity.ValidateAccountID(accountID); err != nil {
		return false, err
	}

	_, err := u.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, errs.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SeedAccounts creates the given accounts and funds each with one bonus credit.
// The credit is keyed by account, so running the seed again changes nothing.
func (u *UseCase) SeedAccounts(ctx context.Context, balances map[string]int64) error {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, _, err := u.CreateAccount(ctx, id); err != nil {
			return fmt.Errorf("seed account %s: %w", id, err)
		}

		amount := balances[id]
		if amount <= 0 {
			continue
		}
		if _, err := u.transactions.AddFunds(ctx, id, amount, "Initial balance", "seed:"+id); err != nil {
			return fmt.Errorf("seed balance of %s: %w", id, err)
		}
	}

	u.logger.Info("Seed accounts ready", map[string]any{
		"count": len(ids),
	})
	return nil
}
