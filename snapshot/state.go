package snapshot

import (
	"ledgerd/block"
	"ledgerd/transaction"
)

// State is the full ledger blob persisted on every append and loaded once
// at startup. It is the collaborator contract, not a network protocol.
type State struct {
	Chain               []*block.Block             `json:"chain"`
	Difficulty          int                        `json:"difficulty"`
	MiningReward        uint64                     `json:"miningReward"`
	PendingTransactions []*transaction.Transaction `json:"pendingTransactions"`
	LastSaved           int64                      `json:"lastSaved"`
}
