package config

const (
	DefaultListenAddr  = ":8545"
	DefaultMetricsAddr = ":9100"

	DefaultSnapshotBackend = "bolt"
	DefaultSnapshotPath    = "./data/ledger.db"

	DefaultDifficulty   = 2
	DefaultMiningReward = 100
	DefaultMaxNonce     = 50_000_000
)
