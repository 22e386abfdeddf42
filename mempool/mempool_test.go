package mempool

import (
	"sync"
	"testing"

	"ledgerd/errors"
	"ledgerd/transaction"
)

func validTx(from string) *transaction.Transaction {
	return &transaction.Transaction{From: from, To: "bob", Amount: 10}
}

// Test 1: Add returns the growing pool size
func TestAdd_ReturnsSize(t *testing.T) {
	mp := NewMempool(0)
	for i := 1; i <= 3; i++ {
		size, err := mp.Add(validTx("alice"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if size != i {
			t.Fatalf("Add returned size %d, want %d", size, i)
		}
	}
}

// Test 2: Rejected transactions are never partially recorded
func TestAdd_RejectLeavesPoolUnchanged(t *testing.T) {
	mp := NewMempool(0)
	if _, err := mp.Add(validTx("alice")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err := mp.Add(&transaction.Transaction{To: "bob", Amount: 10})
	if !errors.HasCode(err, errors.ErrCodeInvalidAddress) {
		t.Fatalf("got %v, want invalid_address", err)
	}
	if mp.Len() != 1 {
		t.Fatalf("pool size changed after rejection: %d", mp.Len())
	}
}

// Test 3: Missing timestamps are defaulted at submission
func TestAdd_DefaultsTimestamp(t *testing.T) {
	mp := NewMempool(0)
	tx := validTx("alice")
	tx.Timestamp = 0
	if _, err := mp.Add(tx); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if mp.Pending()[0].Timestamp == 0 {
		t.Fatalf("timestamp not defaulted")
	}
}

// Test 4: Drain atomically takes everything and empties the pool
func TestDrain(t *testing.T) {
	mp := NewMempool(0)
	mp.Add(validTx("a"))
	mp.Add(validTx("b"))

	drained := mp.Drain()
	if len(drained) != 2 {
		t.Fatalf("drained %d txs, want 2", len(drained))
	}
	if drained[0].From != "a" || drained[1].From != "b" {
		t.Fatalf("drain reordered transactions")
	}
	if mp.Len() != 0 {
		t.Fatalf("pool not empty after drain: %d", mp.Len())
	}

	// Pool stays usable afterwards
	if _, err := mp.Add(validTx("c")); err != nil {
		t.Fatalf("Add after drain failed: %v", err)
	}
}

// Test 5: The cap rejects with pool_full
func TestAdd_PoolFull(t *testing.T) {
	mp := NewMempool(2)
	mp.Add(validTx("a"))
	mp.Add(validTx("b"))
	_, err := mp.Add(validTx("c"))
	if !errors.HasCode(err, errors.ErrCodePoolFull) {
		t.Fatalf("got %v, want pool_full", err)
	}
	if mp.Len() != 2 {
		t.Fatalf("cap breached: %d", mp.Len())
	}
}

// Test 6: No transaction is lost or duplicated under concurrent adds and drains
func TestConcurrentAddAndDrain(t *testing.T) {
	mp := NewMempool(0)
	const writers = 8
	const perWriter = 100

	var wg sync.WaitGroup
	var drainedMu sync.Mutex
	drained := 0

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := mp.Add(validTx("w")); err != nil {
					t.Errorf("Add failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			batch := mp.Drain()
			drainedMu.Lock()
			drained += len(batch)
			drainedMu.Unlock()
		}
	}()
	wg.Wait()

	total := drained + mp.Len()
	if total != writers*perWriter {
		t.Fatalf("lost or duplicated transactions: drained+remaining = %d, want %d", total, writers*perWriter)
	}
}

// Test 7: Load replaces the pool contents for snapshot rehydration
func TestLoad(t *testing.T) {
	mp := NewMempool(0)
	mp.Add(validTx("old"))
	mp.Load([]*transaction.Transaction{validTx("x"), validTx("y")})
	if mp.Len() != 2 {
		t.Fatalf("Load size = %d, want 2", mp.Len())
	}
	if mp.Pending()[0].From != "x" {
		t.Fatalf("Load did not replace contents")
	}
}
