package events

import (
	"fmt"
	"time"
)

// EventType is an enum-like string type for ledger events
type EventType string

const (
	EventTransactionQueued EventType = "TransactionQueued"
	EventBlockSealed       EventType = "BlockSealed"
	EventMiningProgress    EventType = "MiningProgress"
)

// LedgerEvent represents any observable event in the ledger engine
type LedgerEvent interface {
	Type() EventType
	Timestamp() time.Time
	Detail() string
}

// TransactionQueued event when a transaction is accepted into the pool
type TransactionQueued struct {
	TxHash   string
	PoolSize int
	At       time.Time
}

func NewTransactionQueued(txHash string, poolSize int) *TransactionQueued {
	return &TransactionQueued{TxHash: txHash, PoolSize: poolSize, At: time.Now()}
}

func (e *TransactionQueued) Type() EventType      { return EventTransactionQueued }
func (e *TransactionQueued) Timestamp() time.Time { return e.At }
func (e *TransactionQueued) Detail() string {
	return fmt.Sprintf("tx=%s pool_size=%d", e.TxHash, e.PoolSize)
}

// BlockSealed event when a block passes the nonce search and joins the chain
type BlockSealed struct {
	Index   uint64
	Hash    string
	Nonce   uint64
	TxCount int
	At      time.Time
}

func NewBlockSealed(index uint64, hash string, nonce uint64, txCount int) *BlockSealed {
	return &BlockSealed{Index: index, Hash: hash, Nonce: nonce, TxCount: txCount, At: time.Now()}
}

func (e *BlockSealed) Type() EventType      { return EventBlockSealed }
func (e *BlockSealed) Timestamp() time.Time { return e.At }
func (e *BlockSealed) Detail() string {
	return fmt.Sprintf("index=%d hash=%s nonce=%d txs=%d", e.Index, e.Hash, e.Nonce, e.TxCount)
}

// MiningProgress event emitted periodically during a long nonce search
type MiningProgress struct {
	Index    uint64
	Attempts uint64
	At       time.Time
}

func NewMiningProgress(index uint64, attempts uint64) *MiningProgress {
	return &MiningProgress{Index: index, Attempts: attempts, At: time.Now()}
}

func (e *MiningProgress) Type() EventType      { return EventMiningProgress }
func (e *MiningProgress) Timestamp() time.Time { return e.At }
func (e *MiningProgress) Detail() string {
	return fmt.Sprintf("index=%d attempts=%d", e.Index, e.Attempts)
}
