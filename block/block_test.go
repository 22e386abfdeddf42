package block

import (
	"strings"
	"testing"

	"ledgerd/errors"
	"ledgerd/transaction"
)

func testBlock() *Block {
	txs := []*transaction.Transaction{
		{From: "alice", To: "bob", Amount: 50, Timestamp: 1700000000000},
		{From: "bob", To: "charlie", Amount: 30, Timestamp: 1700000000001},
	}
	return &Block{
		Index:     1,
		Timestamp: 1700000000002,
		Data:      Payload{Transactions: txs},
		PrevHash:  strings.Repeat("ab", 32),
	}
}

// Test 1: Seal is pure and deterministic
func TestSeal_Deterministic(t *testing.T) {
	b := testBlock()
	first := b.Seal()
	second := b.Seal()
	if first != second {
		t.Fatalf("Seal not deterministic: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("Seal should be 64 hex chars, got %d", len(first))
	}
}

// Test 2: Changing any sealed field changes the digest
func TestSeal_FieldSensitivity(t *testing.T) {
	base := testBlock().Seal()

	b := testBlock()
	b.Index = 2
	if b.Seal() == base {
		t.Fatalf("Seal ignored index change")
	}

	b = testBlock()
	b.PrevHash = strings.Repeat("cd", 32)
	if b.Seal() == base {
		t.Fatalf("Seal ignored previousHash change")
	}

	b = testBlock()
	b.Timestamp++
	if b.Seal() == base {
		t.Fatalf("Seal ignored timestamp change")
	}

	b = testBlock()
	b.Nonce++
	if b.Seal() == base {
		t.Fatalf("Seal ignored nonce change")
	}

	b = testBlock()
	b.Data.Transactions[0].Amount = 51
	if b.Seal() == base {
		t.Fatalf("Seal ignored data change")
	}
}

// Test 3: Mining produces the difficulty prefix and a sealed block
func TestMine_DifficultyPrefix(t *testing.T) {
	for _, difficulty := range []int{1, 2} {
		b := testBlock()
		if err := b.Mine(difficulty, 50_000_000, nil); err != nil {
			t.Fatalf("Mine(%d) failed: %v", difficulty, err)
		}
		if !strings.HasPrefix(b.Hash, strings.Repeat("0", difficulty)) {
			t.Fatalf("Mine(%d) produced hash without prefix: %s", difficulty, b.Hash)
		}
		if !b.Sealed() {
			t.Fatalf("Mine(%d) left block unsealed", difficulty)
		}
	}
}

// Test 4: Difficulty outside [1,10] is rejected before any work
func TestMine_InvalidDifficulty(t *testing.T) {
	for _, difficulty := range []int{0, 11, -1} {
		b := testBlock()
		err := b.Mine(difficulty, 1000, nil)
		if !errors.HasCode(err, errors.ErrCodeInvalidDifficulty) {
			t.Fatalf("Mine(%d) = %v, want invalid_difficulty", difficulty, err)
		}
		if b.Hash != "" {
			t.Fatalf("Mine(%d) mutated hash on rejection", difficulty)
		}
	}
}

// Test 5: Exceeding the nonce cap fails and leaves the block unsealed
func TestMine_Exhausted(t *testing.T) {
	b := testBlock()
	err := b.Mine(3, 0, nil)
	if !errors.HasCode(err, errors.ErrCodeMiningExhausted) {
		t.Fatalf("Mine with maxNonce=0 = %v, want mining_exhausted", err)
	}
	if b.Hash != "" {
		t.Fatalf("exhausted mine stored a hash: %s", b.Hash)
	}
}

// Test 6: Mining resumes from the current nonce
func TestMine_ResumesFromNonce(t *testing.T) {
	b := testBlock()
	b.Nonce = 7
	_ = b.Mine(1, 5, nil)
	if b.Nonce < 7 {
		t.Fatalf("nonce went backwards: %d", b.Nonce)
	}
}

func TestNewGenesis(t *testing.T) {
	g := NewGenesis()
	if g.Index != 0 {
		t.Fatalf("genesis index = %d, want 0", g.Index)
	}
	if g.PrevHash != GenesisPrevHash {
		t.Fatalf("genesis previousHash = %q, want %q", g.PrevHash, GenesisPrevHash)
	}
	if g.Data.Note != GenesisNote {
		t.Fatalf("genesis note = %q, want %q", g.Data.Note, GenesisNote)
	}
	if !g.Sealed() {
		t.Fatalf("genesis should be self-consistent")
	}
}
