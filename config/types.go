package config

// NodeConfig represents the node's service endpoints and log destination
type NodeConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogFile     string `yaml:"log_file"`
}

// SnapshotConfig selects the snapshot store backend
type SnapshotConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// GenesisConfig holds the configuration from node.yml
type GenesisConfig struct {
	SelfNode NodeConfig     `yaml:"self_node"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// ConfigFile is the top-level structure for node.yml
type ConfigFile struct {
	Config GenesisConfig `yaml:"config"`
}
