// ABOUTME: Root Cobra command for macros CLI.
// ABOUTME: Opens the local store in PersistentPreRunE and builds the sync engine on demand.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/macros/internal/config"
	"github.com/harperreed/macros/internal/remote"
	"github.com/harperreed/macros/internal/storage"
	"github.com/harperreed/macros/internal/sync"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	verbose bool

	db         *storage.DB
	syncEngine *sync.Engine
	logger     *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "macros",
	Short: "Local-first nutrition and macro tracker",
	Long: `Macros is a CLI tool for logging food, body stats, and macro targets.

Every change is written to a local SQLite database first and queued for
sync. Nothing needs a network connection until you run 'macros sync now'.

QUICK START:

  $ macros profile set --target-cal 2200 --target-protein 160
  $ macros log add "greek yogurt" --cal 150 --protein 15
  $ macros log list                    # Today's entries and totals
  $ macros stat add 82.5 --bf 18       # Record weight and body fat

TEMPLATES:

  $ macros template save 12 breakfast  # Snapshot entry 12 as "breakfast"
  $ macros template use breakfast      # Log it again today

SYNC:

  $ macros sync config --backend redis --redis-url redis://localhost:6379/0
  $ macros sync now                    # Push queued changes
  $ macros sync status                 # How many changes are waiting

MCP INTEGRATION:

  Run 'macros mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "macros": { "command": "macros", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in ~/.local/share/macros/macros.db by default.
  Use --db or 'macros config --data-dir' to move it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A failed RunE skips PersistentPostRunE
		if err := closeResources(); err != nil {
			return err
		}

		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "macros"})
		logger.SetLevel(log.WarnLevel)
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		// Skip db init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "config" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err = cfg.OpenStorage(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
}

func closeResources() error {
	if syncEngine != nil {
		if err := syncEngine.Close(); err != nil && logger != nil {
			logger.Warn("close remote", "err", err)
		}
		syncEngine = nil
	}
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// newEngine builds a sync engine from the sync config. The remote is
// opened at the start of each pass, so one that is down now is retried
// later. A config that cannot be read leaves the engine offline.
func newEngine() *sync.Engine {
	engineLogger := logger.WithPrefix("sync")

	cfg, err := sync.LoadConfig()
	if err != nil {
		engineLogger.Warn("ignoring sync config, working offline", "err", err)
		syncEngine = sync.NewEngine(db, nil, engineLogger)
		return syncEngine
	}
	if !cfg.IsConfigured() {
		engineLogger.Debug("remote not configured")
		syncEngine = sync.NewEngine(db, nil, engineLogger)
		return syncEngine
	}

	opts := cfg.RemoteOptions(logger.WithPrefix("remote"))
	syncEngine = sync.NewLazyEngine(db, func(ctx context.Context) (remote.Store, error) {
		return remote.Open(ctx, opts)
	}, engineLogger)
	if timeout, err := cfg.Timeout(); err == nil {
		syncEngine.RecordTimeout = timeout
	}
	return syncEngine
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.local/share/macros/macros.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
