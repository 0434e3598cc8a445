package transaction

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
)

const (
	defaultShardCount = 16
	defaultQueueSize  = 100
)

// AppendFunc is the function signature for applying a transaction to the ledger
type AppendFunc func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error)

// TransactionManager provides sequential processing of transactions per account.
// Accounts are hashed onto a fixed set of shards; each shard has one worker, so two
// requests for the same account never run at the same time inside this process.
type TransactionManager struct {
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	shards         []chan *appendRequest
	queueWaitGroup sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	// Function to apply transactions
	process AppendFunc
}

// appendRequest represents a queued ledger append
type appendRequest struct {
	ctx        context.Context
	req        persistence.AppendRequest
	resultChan chan *appendResult
}

// appendResult represents the outcome of a processed append
type appendResult struct {
	txn      *entity.Transaction
	replayed bool
	err      error
}

// NewTransactionManager creates a new transaction manager and starts its workers
func NewTransactionManager(
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	process AppendFunc,
	shardCount int,
	queueSize int,
) *TransactionManager {
	if process == nil {
		panic("Transaction append function cannot be nil")
	}
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	m := &TransactionManager{
		logger:       logger,
		timeProvider: timeProvider,
		shards:       make([]chan *appendRequest, shardCount),
		process:      process,
	}

	for i := range m.shards {
		m.shards[i] = make(chan *appendRequest, queueSize)
		m.queueWaitGroup.Add(1)
		go m.processShard(i, m.shards[i])
	}

	m.logger.Info("Transaction manager started", map[string]any{
		"shards":     shardCount,
		"queue_size": queueSize,
	})
	return m
}

// Enqueue hands the append to the account's shard and waits for its outcome.
// If ctx ends while waiting the caller gets ctx.Err(), but an append the worker
// already picked up may still commit; callers retry with the same idempotency key.
func (m *TransactionManager) Enqueue(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
	resultChan := make(chan *appendResult, 1)
	queued := &appendRequest{ctx: ctx, req: req, resultChan: resultChan}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, false, errs.ErrQueueClosed
	}

	queue := m.shards[m.shardFor(req.AccountID)]
	select {
	case queue <- queued:
		m.mu.RUnlock()
	case <-ctx.Done():
		m.mu.RUnlock()
		m.logger.Warn("Context canceled while enqueueing transaction", map[string]any{
			"account_id":      req.AccountID,
			"idempotency_key": req.IdempotencyKey,
			"error":           ctx.Err().Error(),
		})
		return nil, false, ctx.Err()
	}

	select {
	case result := <-resultChan:
		return result.txn, result.replayed, result.err
	case <-ctx.Done():
		m.logger.Warn("Context canceled while waiting for transaction result", map[string]any{
			"account_id":      req.AccountID,
			"idempotency_key": req.IdempotencyKey,
			"error":           ctx.Err().Error(),
		})
		return nil, false, ctx.Err()
	}
}

func (m *TransactionManager) shardFor(accountID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID))
	return int(h.Sum32() % uint32(len(m.shards)))
}

// processShard is the worker goroutine for one shard
func (m *TransactionManager) processShard(shard int, queue chan *appendRequest) {
	defer m.queueWaitGroup.Done()

	for queued := range queue {
		// Nobody is waiting for this one any more and nothing has been applied yet.
		if err := queued.ctx.Err(); err != nil {
			queued.resultChan <- &appendResult{err: err}
			continue
		}

		started := m.timeProvider.Now()
		txn, replayed, err := m.process(queued.ctx, queued.req)
		queued.resultChan <- &appendResult{txn: txn, replayed: replayed, err: err}

		m.logger.Debug("Processed queued transaction", map[string]any{
			"shard":           shard,
			"account_id":      queued.req.AccountID,
			"idempotency_key": queued.req.IdempotencyKey,
			"duration_ms":     m.timeProvider.Since(started).Std().Milliseconds(),
		})
	}
}

// Shutdown refuses new work, lets queued appends finish and stops the workers
func (m *TransactionManager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, queue := range m.shards {
		close(queue)
	}
	m.mu.Unlock()

	m.queueWaitGroup.Wait()
	m.logger.Info("Transaction manager shut down successfully", nil)
}
