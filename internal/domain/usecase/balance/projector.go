package balance

import (
	"context"
	"sync"
	"time"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
)

// DefaultTTL is how long a cached balance is served before it is reloaded
const DefaultTTL = 30 * time.Second

// Snapshot is a balance as it was at a given account version
type Snapshot struct {
	AccountID string
	Balance   int64
	Version   uint64
}

type cacheEntry struct {
	balance  int64
	version  uint64
	loadedAt time.Time
}

// Projector keeps the last known balance of each account. It is written only by the
// store's commit path and by reloads from the store, never by callers.
type Projector struct {
	store        persistence.LedgerStore
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	ttl          time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

var _ persistence.CommitListener = (*Projector)(nil)

// NewProjector creates a projector; a non-positive ttl falls back to DefaultTTL
func NewProjector(store persistence.LedgerStore, timeProvider coreport.TimeProvider, logger coreport.Logger, ttl time.Duration) *Projector {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Projector{
		store:        store,
		timeProvider: timeProvider,
		logger:       logger,
		ttl:          ttl,
		entries:      make(map[string]cacheEntry),
	}
}

// OnCommit installs a committed balance
func (p *Projector) OnCommit(accountID string, balance int64, version uint64) {
	if p.install(accountID, balance, version) {
		p.logger.Debug("Balance projected", map[string]any{
			"account_id": accountID,
			"balance":    balance,
			"version":    version,
		})
	}
}

// Balance returns the cached balance while it is fresh, and reloads it from the store otherwise
func (p *Projector) Balance(ctx context.Context, accountID string) (*Snapshot, error) {
	p.mu.RLock()
	entry, ok := p.entries[accountID]
	p.mu.RUnlock()

	if ok && p.timeProvider.Since(entry.loadedAt).Std() < p.ttl {
		return &Snapshot{AccountID: accountID, Balance: entry.balance, Version: entry.version}, nil
	}

	acc, err := p.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	p.install(acc.ID, acc.Balance, acc.Version)

	// A commit racing with the load may have installed something newer.
	p.mu.RLock()
	entry = p.entries[accountID]
	p.mu.RUnlock()
	return &Snapshot{AccountID: accountID, Balance: entry.balance, Version: entry.version}, nil
}

// Invalidate drops the cached balance of an account
func (p *Projector) Invalidate(accountID string) {
	p.mu.Lock()
	delete(p.entries, accountID)
	p.mu.Unlock()
}

// install stores the value unless a newer version is already cached. An equal version
// refreshes the load time.
func (p *Projector) install(accountID string, balance int64, version uint64) bool {
	now := p.timeProvider.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if current, ok := p.entries[accountID]; ok && current.version > version {
		return false
	}
	p.entries[accountID] = cacheEntry{balance: balance, version: version, loadedAt: now}
	return true
}
