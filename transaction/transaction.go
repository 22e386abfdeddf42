package transaction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"ledgerd/errors"
)

// RewardSource is the sender address of synthesized mining rewards.
const RewardSource = "<system>"

// Limits to prevent abuse via oversized inputs
const (
	maxAddressLen   = 256
	maxSignatureLen = 2048
)

// Transaction is a value transfer awaiting (or embedded in) a sealed block.
// Immutable once created; duplicates are permitted. The signature is an
// opaque optional string and is never verified here.
type Transaction struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature,omitempty"`
}

// New builds a transaction stamped with the current time if ts is zero.
func New(from, to string, amount uint64, ts int64) *Transaction {
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	return &Transaction{From: from, To: to, Amount: amount, Timestamp: ts}
}

// NewReward synthesizes the miner payout included in every mined block.
func NewReward(rewardAddress string, amount uint64) *Transaction {
	return &Transaction{
		From:      RewardSource,
		To:        rewardAddress,
		Amount:    amount,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Validate checks the transaction shape. It never mutates the receiver.
func (tx *Transaction) Validate() error {
	if tx == nil {
		return errors.NewError(errors.ErrCodeInvalidTransaction, errors.ErrMsgInvalidTransaction)
	}
	if tx.From == "" || len(tx.From) > maxAddressLen {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress)
	}
	if tx.To == "" || len(tx.To) > maxAddressLen {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress)
	}
	if tx.Amount == 0 {
		return errors.NewError(errors.ErrCodeInvalidAmount, errors.ErrMsgInvalidAmount)
	}
	if len(tx.Signature) > maxSignatureLen {
		return errors.NewError(errors.ErrCodeInvalidTransaction, errors.ErrMsgInvalidTransaction)
	}
	return nil
}

// Serialize renders the hashed fields in a fixed order. The signature is
// excluded so a signed and unsigned copy hash identically.
func (tx *Transaction) Serialize() []byte {
	metadata := fmt.Sprintf(
		"%s|%s|%d|%d",
		tx.From, tx.To, tx.Amount, tx.Timestamp,
	)
	return []byte(metadata)
}

// Hash returns the hex sha256 of the serialized transaction. Used for
// logging and events only; transactions have no identity beyond their
// fields and duplicates are allowed.
func (tx *Transaction) Hash() string {
	sum := sha256.Sum256(tx.Serialize())
	return hex.EncodeToString(sum[:])
}
