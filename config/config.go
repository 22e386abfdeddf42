package config

import (
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"ledgerd/logx"
)

// LoadNodeConfig reads and parses the node.yml file
func LoadNodeConfig(path string) (*GenesisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, err
	}

	cfg := cfgFile.Config
	if cfg.SelfNode.ListenAddr == "" {
		cfg.SelfNode.ListenAddr = DefaultListenAddr
	}
	if cfg.SelfNode.MetricsAddr == "" {
		cfg.SelfNode.MetricsAddr = DefaultMetricsAddr
	}
	if cfg.Snapshot.Backend == "" {
		cfg.Snapshot.Backend = DefaultSnapshotBackend
	}
	if cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = DefaultSnapshotPath
	}
	logx.Info("CONFIG", "loaded node config from ", path)
	return &cfg, nil
}

// DefaultNodeConfig returns the configuration used when no node.yml exists.
func DefaultNodeConfig() *GenesisConfig {
	return &GenesisConfig{
		SelfNode: NodeConfig{
			ListenAddr:  DefaultListenAddr,
			MetricsAddr: DefaultMetricsAddr,
		},
		Snapshot: SnapshotConfig{
			Backend: DefaultSnapshotBackend,
			Path:    DefaultSnapshotPath,
		},
	}
}

type MiningConfig struct {
	Difficulty int    `ini:"difficulty"`
	Reward     uint64 `ini:"reward"`
	MaxNonce   uint64 `ini:"max_nonce"`
}

// DefaultMiningConfig returns the mining parameters used when no
// config.ini is present.
func DefaultMiningConfig() *MiningConfig {
	return &MiningConfig{
		Difficulty: DefaultDifficulty,
		Reward:     DefaultMiningReward,
		MaxNonce:   DefaultMaxNonce,
	}
}

// LoadMiningConfig reads the [mining] section from an .ini file
func LoadMiningConfig(path string) (*MiningConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	miningSection := cfg.Section("mining")
	miningCfg := DefaultMiningConfig()
	err = miningSection.MapTo(miningCfg)
	if err != nil {
		return nil, err
	}
	return miningCfg, nil
}
