package reconciliation

import (
	"context"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
)

const defaultBatchSize = 200

// Mismatch is an account whose stored balance disagrees with its transaction records
type Mismatch struct {
	AccountID   string
	Balance     int64
	SumOfDeltas int64
	Version     uint64
	RecordCount int64
}

// Report summarises one sweep
type Report struct {
	AccountsChecked int
	Mismatches      []Mismatch
}

// Auditor walks every account and checks that the balance equals the sum of its
// completed records and the version equals their count
type Auditor struct {
	store     persistence.LedgerStore
	logger    coreport.Logger
	batchSize int
}

// NewAuditor creates a balance auditor
func NewAuditor(store persistence.LedgerStore, logger coreport.Logger, batchSize int) *Auditor {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Auditor{store: store, logger: logger, batchSize: batchSize}
}

// Sweep checks all accounts in id order. It stops early only when the context ends or
// the store cannot list accounts.
func (a *Auditor) Sweep(ctx context.Context) (Report, error) {
	var (
		report Report
		after  string
	)

	for {
		accounts, err := a.store.ListAccounts(ctx, after, a.batchSize)
		if err != nil {
			a.logger.Error("Reconciliation aborted", map[string]any{
				"after_account_id": after,
				"error":            err.Error(),
			})
			return report, err
		}

		for _, acc := range accounts {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			sum, count, err := a.store.SumCompletedDeltas(ctx, acc.ID)
			if err != nil {
				a.logger.Warn("Could not reconcile account", map[string]any{
					"account_id": acc.ID,
					"error":      err.Error(),
				})
				continue
			}
			report.AccountsChecked++

			if sum != acc.Balance || uint64(count) != acc.Version {
				m := Mismatch{
					AccountID:   acc.ID,
					Balance:     acc.Balance,
					SumOfDeltas: sum,
					Version:     acc.Version,
					RecordCount: count,
				}
				report.Mismatches = append(report.Mismatches, m)
				a.logger.Error("Balance does not match transaction records", map[string]any{
					"account_id":    m.AccountID,
					"balance":       m.Balance,
					"sum_of_deltas": m.SumOfDeltas,
					"version":       m.Version,
					"record_count":  m.RecordCount,
				})
			}
		}

		if len(accounts) < a.batchSize {
			break
		}
		after = accounts[len(accounts)-1].ID
	}

	a.logger.Info("Reconciliation finished", map[string]any{
		"accounts_checked": report.AccountsChecked,
		"mismatches":       len(report.Mismatches),
	})
	return report, nil
}
