package mempool

import (
	"sync"
	"time"

	"ledgerd/errors"
	"ledgerd/monitoring"
	"ledgerd/transaction"
)

// DefaultMaxTxs bounds the pool when no explicit cap is configured.
const DefaultMaxTxs = 10_000

// Mempool provides a thread-safe queue for transactions awaiting inclusion
// in a sealed block.
type Mempool struct {
	mu     sync.Mutex
	txs    []*transaction.Transaction
	maxTxs int
}

// NewMempool creates a new, empty mempool. maxTxs <= 0 selects the default cap.
func NewMempool(maxTxs int) *Mempool {
	if maxTxs <= 0 {
		maxTxs = DefaultMaxTxs
	}
	return &Mempool{
		txs:    make([]*transaction.Transaction, 0),
		maxTxs: maxTxs,
	}
}

// Add validates tx, defaults its timestamp to submission time, and appends
// it to the pool. Returns the pool's new size. Rejected transactions leave
// the pool unchanged.
func (m *Mempool) Add(tx *transaction.Transaction) (int, error) {
	if err := tx.Validate(); err != nil {
		monitoring.IncreaseRejectedTxCount()
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.txs) >= m.maxTxs {
		monitoring.IncreaseRejectedTxCount()
		return 0, errors.NewError(errors.ErrCodePoolFull, errors.ErrMsgPoolFull)
	}
	if tx.Timestamp == 0 {
		tx.Timestamp = time.Now().UnixMilli()
	}
	m.txs = append(m.txs, tx)
	monitoring.SetPoolSize(len(m.txs))
	return len(m.txs), nil
}

// Drain atomically returns all pending transactions and empties the pool.
// Used only by block assembly so mining and new submissions never
// interleave over the same snapshot of the pool.
func (m *Mempool) Drain() []*transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	drained := m.txs
	m.txs = make([]*transaction.Transaction, 0)
	monitoring.SetPoolSize(0)
	return drained
}

// Len returns the number of transactions in the mempool.
func (m *Mempool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

// Pending returns a copy of the queued transactions without draining them.
func (m *Mempool) Pending() []*transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*transaction.Transaction, len(m.txs))
	copy(out, m.txs)
	return out
}

// Load replaces the pool contents. Used when rehydrating from a snapshot.
func (m *Mempool) Load(txs []*transaction.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = make([]*transaction.Transaction, len(txs))
	copy(m.txs, txs)
	monitoring.SetPoolSize(len(m.txs))
}
