// ABOUTME: CLI commands for outbox sync.
// ABOUTME: Supports now, status, queue, purge, reseed, and config operations.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/macros/internal/remote"
	"github.com/harperreed/macros/internal/sync"
	"github.com/spf13/cobra"
)

var (
	queueAll       bool
	queueLimit     int
	purgeOlderThan time.Duration
	syncCfgClear   bool
	syncCfgFlags   sync.Config
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync queued changes to the remote store",
	Long: `Every local change is queued in an outbox. Sync pushes queued changes
to the configured remote store in the order they were made.

BACKENDS:

  redis     Redis server (redis://host:port/db)
  charm     Charm KV, E2E encrypted with your SSH key
  memory    In-process store, for trying things out

GETTING STARTED:

  1. Pick a backend:
     macros sync config --backend redis --redis-url redis://localhost:6379/0

  2. Push queued changes:
     macros sync now

  3. Check what is still waiting:
     macros sync status
     macros sync queue

Environment variables MACROS_REMOTE_BACKEND, MACROS_REDIS_URL,
MACROS_KEY_PREFIX, and MACROS_CHARM_HOST override the config file.
A .env file in the working directory is read too.`,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Push queued changes now",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine()

		summary, err := engine.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		status, err := engine.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read sync status: %w", err)
		}

		if summary.Offline {
			color.Yellow("⚠ Remote unavailable, working offline")
			fmt.Printf("  Pending: %d\n", status.Pending)
			return nil
		}

		color.Green("✓ Synced %d changes", summary.Synced)
		if summary.Failed > 0 {
			color.Red("  Failed:   %d", summary.Failed)
		}
		if summary.Deferred > 0 {
			color.Yellow("  Deferred: %d", summary.Deferred)
		}
		fmt.Printf("  Pending:  %d\n", status.Pending)
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgErr := sync.LoadConfig()
		pending, err := db.PendingCount(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count pending: %w", err)
		}

		fmt.Println("Database:", db.Path())
		switch {
		case cfgErr != nil:
			color.Yellow("No remote configured")
			fmt.Println("Sync config is invalid:", cfgErr)
		case cfg.IsConfigured():
			fmt.Println("Backend: ", cfg.Backend)
		default:
			color.Yellow("No remote configured")
			fmt.Println("Run 'macros sync config --backend <name>' to set one up.")
		}
		fmt.Println()
		fmt.Printf("  Pending changes: %d\n", pending)
		return nil
	},
}

var syncQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List queued changes",
	Long: `List outbox records, oldest first. Synced records are hidden unless
--all is given. Failed attempts and the last error are shown per record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := db.ListOutbox(cmd.Context(), queueAll, queueLimit)
		if err != nil {
			return fmt.Errorf("failed to list outbox: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range records {
			target := "?"
			if collection, id, err := r.Target(); err == nil {
				target = collection + "/" + id
			}
			state := color.YellowString("pending")
			if r.Synced {
				state = color.GreenString("synced ")
			}
			fmt.Printf("%s %s %s %s %s\n",
				faintID(r.ID),
				faint.Sprint(r.CreatedAt.Local().Format("2006-01-02 15:04")),
				state,
				padRight(string(r.Operation), 6),
				target)
			if r.Attempts > 0 {
				fmt.Printf("       %s\n", faint.Sprintf("%d failed attempts: %s", r.Attempts, truncate(r.LastError, 60)))
			}
		}
		return nil
	},
}

var syncPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove synced records from the queue",
	Long: `Remove outbox records that have already been synced. Pending records
are never touched.

Example:
  macros sync purge --older-than 168h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := db.PurgeSynced(cmd.Context(), time.Now().Add(-purgeOlderThan))
		if err != nil {
			return fmt.Errorf("purge failed: %w", err)
		}
		color.Green("✓ Purged %d synced records", n)
		return nil
	},
}

var syncReseedCmd = &cobra.Command{
	Use:   "reseed",
	Short: "Queue every local record for upload",
	Long: `Queue an update for every profile, food entry, body stat, and template.

Use this after pointing sync at a new, empty remote. Upserts are idempotent,
so records already on the remote are simply rewritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := db.Reseed(cmd.Context())
		if err != nil {
			return fmt.Errorf("reseed failed: %w", err)
		}

		color.Green("✓ Queued %d records", summary.Total())
		if summary.Profile {
			fmt.Println("  Profile:    1")
		}
		fmt.Printf("  Food logs:  %d\n", summary.FoodLogs)
		fmt.Printf("  Body stats: %d\n", summary.BodyStats)
		fmt.Printf("  Templates:  %d\n", summary.Templates)
		return nil
	},
}

var syncConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change sync settings",
	Long: `Show sync settings, or change them with flags. Settings are stored in
~/.config/macros/sync.json.

EXAMPLES:

  macros sync config                                   # Show settings
  macros sync config --backend charm
  macros sync config --backend redis --redis-url redis://localhost:6379/0
  macros sync config --clear                           # Remove settings`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncCfgClear {
			if err := sync.ClearConfig(); err != nil {
				return fmt.Errorf("failed to clear sync config: %w", err)
			}
			color.Yellow("✗ Sync config removed")
			return nil
		}

		cfg, err := sync.LoadConfig()
		if err != nil {
			return fmt.Errorf("%w (run 'macros sync config --clear' to reset it)", err)
		}

		flags := cmd.Flags()
		changed := false
		if flags.Changed("backend") {
			switch syncCfgFlags.Backend {
			case remote.BackendNone, remote.BackendMemory, remote.BackendRedis, remote.BackendCharm:
			default:
				return fmt.Errorf("unknown backend: %s (use redis, charm, or memory)", syncCfgFlags.Backend)
			}
			cfg.Backend = syncCfgFlags.Backend
			changed = true
		}
		if flags.Changed("redis-url") {
			cfg.RedisURL = syncCfgFlags.RedisURL
			changed = true
		}
		if flags.Changed("key-prefix") {
			cfg.KeyPrefix = syncCfgFlags.KeyPrefix
			changed = true
		}
		if flags.Changed("charm-host") {
			cfg.CharmHost = syncCfgFlags.CharmHost
			changed = true
		}
		if flags.Changed("charm-db") {
			cfg.CharmDB = syncCfgFlags.CharmDB
			changed = true
		}
		if flags.Changed("timeout") {
			cfg.RecordTimeout = syncCfgFlags.RecordTimeout
			if _, err := cfg.Timeout(); err != nil {
				return err
			}
			changed = true
		}

		if changed {
			if err := sync.SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save sync config: %w", err)
			}
			color.Green("✓ Sync config saved to %s", sync.ConfigPath())
		}

		timeout, _ := cfg.Timeout()
		fmt.Printf("  Backend:    %s\n", valueOr(cfg.Backend, "(none)"))
		fmt.Printf("  Redis URL:  %s\n", valueOr(cfg.RedisURL, "-"))
		fmt.Printf("  Key prefix: %s\n", valueOr(cfg.KeyPrefix, remote.DefaultKeyPrefix))
		fmt.Printf("  Charm host: %s\n", valueOr(cfg.CharmHost, remote.DefaultCharmHost))
		fmt.Printf("  Charm DB:   %s\n", valueOr(cfg.CharmDB, remote.DefaultCharmDB))
		fmt.Printf("  Timeout:    %s\n", timeout)
		return nil
	},
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	syncQueueCmd.Flags().BoolVarP(&queueAll, "all", "a", false, "include synced records")
	syncQueueCmd.Flags().IntVarP(&queueLimit, "limit", "n", 50, "max number of records")

	syncPurgeCmd.Flags().DurationVar(&purgeOlderThan, "older-than", 0, "only purge records older than this")

	f := syncConfigCmd.Flags()
	f.StringVar(&syncCfgFlags.Backend, "backend", "", "remote backend: redis, charm, or memory")
	f.StringVar(&syncCfgFlags.RedisURL, "redis-url", "", "redis connection URL")
	f.StringVar(&syncCfgFlags.KeyPrefix, "key-prefix", "", "redis key prefix")
	f.StringVar(&syncCfgFlags.CharmHost, "charm-host", "", "charm server host")
	f.StringVar(&syncCfgFlags.CharmDB, "charm-db", "", "charm kv database name")
	f.StringVar(&syncCfgFlags.RecordTimeout, "timeout", "", "per-record timeout, e.g. 10s")
	f.BoolVar(&syncCfgClear, "clear", false, "remove the sync config file")

	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncQueueCmd)
	syncCmd.AddCommand(syncPurgeCmd)
	syncCmd.AddCommand(syncReseedCmd)
	syncCmd.AddCommand(syncConfigCmd)
	rootCmd.AddCommand(syncCmd)
}
