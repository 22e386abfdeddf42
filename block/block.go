package block

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"ledgerd/errors"
	"ledgerd/transaction"
)

const (
	// GenesisPrevHash marks the block with no predecessor.
	GenesisPrevHash = "0"
	// GenesisNote is the payload of a synthesized genesis block.
	GenesisNote = "Genesis block"

	MinDifficulty = 1
	MaxDifficulty = 10

	// progressInterval is how many nonce attempts pass between progress
	// callbacks. Purely observational.
	progressInterval = 100_000
)

// Payload is a block's data: either a note (genesis) or an ordered
// transaction sequence.
type Payload struct {
	Note         string                     `json:"note,omitempty"`
	Transactions []*transaction.Transaction `json:"transactions,omitempty"`
}

// Block is an append-only chain record. Immutable once appended; Mine is
// the only permitted mutator of Nonce/Hash, and only before append.
type Block struct {
	Index     uint64  `json:"index"`
	Timestamp int64   `json:"timestamp"`
	Data      Payload `json:"data"`
	PrevHash  string  `json:"previousHash"`
	Hash      string  `json:"hash"`
	Nonce     uint64  `json:"nonce"`
}

// New builds an unsealed block carrying txs. Index and PrevHash are filled
// in by the ledger on append.
func New(txs []*transaction.Transaction) *Block {
	return &Block{
		Timestamp: time.Now().UnixMilli(),
		Data:      Payload{Transactions: txs},
	}
}

// NewGenesis synthesizes the fixed first block of a fresh chain.
func NewGenesis() *Block {
	b := &Block{
		Index:     0,
		Timestamp: time.Now().UnixMilli(),
		Data:      Payload{Note: GenesisNote},
		PrevHash:  GenesisPrevHash,
	}
	b.Hash = b.Seal()
	return b
}

// Seal computes the hex sha256 digest binding index, previous hash,
// timestamp, payload and nonce. Field order is fixed; integers are written
// big-endian, so the digest is reproducible across processes.
func (b *Block) Seal() string {
	h := sha256.New()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, b.Index)
	h.Write(buf)
	h.Write([]byte(b.PrevHash))
	binary.BigEndian.PutUint64(buf, uint64(b.Timestamp))
	h.Write(buf)
	h.Write([]byte(b.Data.Note))
	for _, tx := range b.Data.Transactions {
		h.Write([]byte(tx.From))
		h.Write([]byte(tx.To))
		binary.BigEndian.PutUint64(buf, tx.Amount)
		h.Write(buf)
		binary.BigEndian.PutUint64(buf, uint64(tx.Timestamp))
		h.Write(buf)
		h.Write([]byte(tx.Signature))
	}
	binary.BigEndian.PutUint64(buf, b.Nonce)
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}

// Mine searches for a nonce whose seal has difficulty leading zero hex
// digits, incrementing from the current nonce. At most maxNonce attempts
// are made; on exhaustion the block is left unsealed and must not be
// appended. progress, if non-nil, is invoked periodically with the attempt
// count so far.
func (b *Block) Mine(difficulty int, maxNonce uint64, progress func(attempts uint64)) error {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return errors.NewError(errors.ErrCodeInvalidDifficulty, errors.ErrMsgInvalidDifficulty)
	}

	prefix := strings.Repeat("0", difficulty)
	for attempts := uint64(0); attempts < maxNonce; attempts++ {
		hash := b.Seal()
		if strings.HasPrefix(hash, prefix) {
			b.Hash = hash
			return nil
		}
		b.Nonce++
		if progress != nil && (attempts+1)%progressInterval == 0 {
			progress(attempts + 1)
		}
	}
	return errors.NewError(errors.ErrCodeMiningExhausted, errors.ErrMsgMiningExhausted)
}

// Sealed reports whether the stored hash matches a recomputed seal.
func (b *Block) Sealed() bool {
	return b.Hash != "" && b.Hash == b.Seal()
}
