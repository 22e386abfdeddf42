package transaction

import (
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"

	"ledgerd/errors"
)

// Test 1: Shape validation per field
func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		tx   *Transaction
		code errors.LedgerErrorCode
	}{
		{"valid", &Transaction{From: "alice", To: "bob", Amount: 1}, ""},
		{"empty from", &Transaction{To: "bob", Amount: 1}, errors.ErrCodeInvalidAddress},
		{"empty to", &Transaction{From: "alice", Amount: 1}, errors.ErrCodeInvalidAddress},
		{"zero amount", &Transaction{From: "alice", To: "bob"}, errors.ErrCodeInvalidAmount},
		{"oversized from", &Transaction{From: strings.Repeat("a", 300), To: "bob", Amount: 1}, errors.ErrCodeInvalidAddress},
		{"oversized signature", &Transaction{From: "alice", To: "bob", Amount: 1, Signature: strings.Repeat("s", 3000)}, errors.ErrCodeInvalidTransaction},
	}

	for _, c := range cases {
		err := c.tx.Validate()
		if c.code == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", c.name, err)
			}
			continue
		}
		if !errors.HasCode(err, c.code) {
			t.Fatalf("%s: got %v, want code %s", c.name, err, c.code)
		}
	}
}

// Test 2: New stamps submission time when the timestamp is absent
func TestNew_DefaultsTimestamp(t *testing.T) {
	tx := New("alice", "bob", 5, 0)
	if tx.Timestamp == 0 {
		t.Fatalf("timestamp not defaulted")
	}
	tx = New("alice", "bob", 5, 42)
	if tx.Timestamp != 42 {
		t.Fatalf("explicit timestamp overridden: %d", tx.Timestamp)
	}
}

// Test 3: Reward transactions come from the system source
func TestNewReward(t *testing.T) {
	tx := NewReward("miner", 100)
	if tx.From != RewardSource {
		t.Fatalf("reward from = %q, want %q", tx.From, RewardSource)
	}
	if tx.To != "miner" || tx.Amount != 100 {
		t.Fatalf("reward fields wrong: %+v", tx)
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("reward tx should validate: %v", err)
	}
}

// Test 4: The hash ignores the signature, nothing else
func TestHash(t *testing.T) {
	a := &Transaction{From: "alice", To: "bob", Amount: 50, Timestamp: 1}
	b := &Transaction{From: "alice", To: "bob", Amount: 50, Timestamp: 1, Signature: "sig"}
	if a.Hash() != b.Hash() {
		t.Fatalf("signature changed the hash")
	}
	c := &Transaction{From: "alice", To: "bob", Amount: 51, Timestamp: 1}
	if a.Hash() == c.Hash() {
		t.Fatalf("amount change did not change the hash")
	}
}

// Test 5: Validation verdicts agree with the shape contract on fuzzed input
func TestValidate_Fuzzed(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 200; i++ {
		var shape struct {
			From   string
			To     string
			Amount uint64
		}
		f.Fuzz(&shape)

		tx := &Transaction{From: shape.From, To: shape.To, Amount: shape.Amount}
		err := tx.Validate()

		shapeOK := shape.From != "" && len(shape.From) <= 256 &&
			shape.To != "" && len(shape.To) <= 256 &&
			shape.Amount > 0
		if shapeOK && err != nil {
			t.Fatalf("valid shape rejected: %+v: %v", shape, err)
		}
		if !shapeOK && err == nil {
			t.Fatalf("invalid shape accepted: %+v", shape)
		}
	}
}
