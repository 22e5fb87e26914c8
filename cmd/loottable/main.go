package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/james-harris851b/Loot-Table-FHE/internal/catalog"
	"github.com/james-harris851b/Loot-Table-FHE/internal/ledger"
	"github.com/james-harris851b/Loot-Table-FHE/internal/reveal"
	"github.com/james-harris851b/Loot-Table-FHE/internal/txstatus"
	"github.com/james-harris851b/Loot-Table-FHE/internal/wallet"
)

var (
	verbose bool
	logger  *zap.Logger
	app     *appState
)

type appState struct {
	store   *catalog.Store
	wallet  *wallet.Wallet // nil when no key is configured
	session reveal.SessionParams
	tracker *txstatus.Tracker
	closers []func() error
}

func (a *appState) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

var rootCmd = &cobra.Command{
	Use:   "loottable",
	Short: "Client for the encrypted on-chain loot catalog",
	Long: `loottable maintains a catalog of loot records whose drop rates are stored
in an obfuscated form on a contract-backed key-value ledger. Drop rates can
be transformed without decoding them, and decoding for display is gated
behind a wallet signature.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		app, err = buildApp(cmd.Context(), cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func buildApp(ctx context.Context, cfg *Config, logger *zap.Logger) (*appState, error) {
	a := &appState{tracker: txstatus.NewTracker()}
	a.tracker.OnChange = printStatus

	var (
		led     ledger.Ledger
		chainID int64
	)
	switch cfg.LedgerBackend {
	case "sqlite":
		l, err := ledger.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite ledger: %w", err)
		}
		led = l
		chainID = cfg.ChainID
		a.closers = append(a.closers, l.Close)
	case "eth":
		l, err := ledger.DialEth(ctx, cfg.RPCURL, cfg.ContractAddress, cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		led = l
		chainID = l.ChainID().Int64()
		a.closers = append(a.closers, func() error { l.Close(); return nil })
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}

	if cfg.PrivateKey != "" {
		w, err := wallet.FromHexKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		a.wallet = w
	}

	a.session = reveal.NewSessionParams(cfg.ContractAddress, chainID, cfg.SessionDays, nil)
	a.store = catalog.NewStore(led, logger)
	return a, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
