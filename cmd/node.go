package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ledgerd/config"
	"ledgerd/events"
	"ledgerd/exception"
	"ledgerd/jsonrpc"
	"ledgerd/ledger"
	"ledgerd/logx"
	"ledgerd/mempool"
	"ledgerd/monitoring"
	"ledgerd/ratelimit"
	"ledgerd/snapshot"
)

var (
	nodeConfigPath   string
	miningConfigPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ledger node",
	Run: func(cmd *cobra.Command, args []string) {
		runNode()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&nodeConfigPath, "config", "c", "config/node.yml", "Path to the node config file")
	runCmd.Flags().StringVarP(&miningConfigPath, "mining-config", "m", "config/config.ini", "Path to the mining config file")
}

func runNode() {
	cfg := loadNodeConfiguration()
	miningCfg := loadMiningConfiguration()

	logx.Init(logx.Config{
		Filename:  cfg.SelfNode.LogFile,
		MaxSizeMB: 100,
		MaxAgeDay: 14,
	})

	store, err := snapshot.CreateStore(&snapshot.StoreConfig{
		Type: snapshot.Backend(cfg.Snapshot.Backend),
		Path: cfg.Snapshot.Path,
	})
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}

	pool := mempool.NewMempool(0)
	bus := events.NewEventBus()

	ld, err := ledger.New(ledger.Config{
		Difficulty:   miningCfg.Difficulty,
		MiningReward: miningCfg.Reward,
		MaxNonce:     miningCfg.MaxNonce,
	}, pool, store, bus)
	if err != nil {
		log.Fatalf("Failed to initialize ledger: %v", err)
	}

	startEventLogger(bus)

	monitoring.Start(cfg.SelfNode.MetricsAddr)

	rpc := jsonrpc.NewServer(cfg.SelfNode.ListenAddr, ld, ratelimit.NewRateLimiter(nil))
	rpc.Start()

	waitForShutdown(rpc, ld, store)
}

func loadNodeConfiguration() *config.GenesisConfig {
	cfg, err := config.LoadNodeConfig(nodeConfigPath)
	if err != nil {
		logx.Warn("CMD", "node config not loaded, using defaults: ", err)
		return config.DefaultNodeConfig()
	}
	return cfg
}

func loadMiningConfiguration() *config.MiningConfig {
	cfg, err := config.LoadMiningConfig(miningConfigPath)
	if err != nil {
		logx.Warn("CMD", "mining config not loaded, using defaults: ", err)
		return config.DefaultMiningConfig()
	}
	return cfg
}

// startEventLogger mirrors engine events into the log so operators can
// follow sealing progress without polling.
func startEventLogger(bus *events.EventBus) {
	_, ch := bus.Subscribe()
	exception.SafeGo("event-logger", func() {
		for ev := range ch {
			logx.Info("EVENT", string(ev.Type()), " ", ev.Detail())
		}
	})
}

// waitForShutdown blocks until SIGINT/SIGTERM, then tears the node down:
// final best-effort snapshot save, rpc drain, store close.
func waitForShutdown(rpc *jsonrpc.Server, ld *ledger.Ledger, store snapshot.Store) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	logx.Info("CMD", "received ", s.String(), ", shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rpc.Stop(ctx); err != nil {
		logx.Error("CMD", "rpc shutdown: ", err)
	}
	if err := ld.Persist(); err != nil {
		logx.Error("CMD", "final snapshot save failed: ", err)
	}
	if err := store.Close(); err != nil {
		logx.Error("CMD", "store close: ", err)
	}
}
