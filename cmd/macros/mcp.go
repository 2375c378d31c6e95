// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/macros/internal/mcp"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var mcpLogFile string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log meals and read your macros
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "macros": {
        "command": "macros",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_log          Log a food entry
  list_logs        List a day's entries with totals
  delete_log       Delete a food entry
  clear_day        Delete every entry of a day
  update_profile   Replace the profile and targets
  get_profile      Show the profile
  add_body_stat    Record weight and body fat
  list_body_stats  List body stats
  save_template    Save an entry as a meal template
  list_templates   List meal templates
  use_template     Log a meal from a template
  delete_template  Delete a meal template
  sync_now         Push queued changes
  sync_status      Show queued change count

AVAILABLE RESOURCES:

  macros://today   Today's entries, totals, and targets
  macros://queue   Changes waiting to sync

LOGGING:

  stdout carries the protocol, so diagnostics go to a rotating log file,
  mcp.log next to the database unless --log-file is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		path := mcpLogFile
		if path == "" {
			path = filepath.Join(filepath.Dir(db.Path()), "mcp.log")
		}
		var logFile *lumberjack.Logger
		logger, logFile = newFileLogger(path, verbose)
		defer logFile.Close()

		server, err := mcp.NewServer(db, newEngine())
		if err != nil {
			return err
		}

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

// newFileLogger returns a logger writing to a size-rotated file.
func newFileLogger(path string, debug bool) (*log.Logger, *lumberjack.Logger) {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	l := log.NewWithOptions(file, log.Options{
		Prefix:          "macros",
		ReportTimestamp: true,
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l, file
}

func init() {
	mcpCmd.Flags().StringVar(&mcpLogFile, "log-file", "", "diagnostic log path (default: mcp.log beside the database)")
	rootCmd.AddCommand(mcpCmd)
}
