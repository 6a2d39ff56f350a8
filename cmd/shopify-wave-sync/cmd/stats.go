package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/db"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/pathutil"
)

var (
	statsHistoryPath string
	failureLimit     int
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display write history statistics",
	Long: `Display statistics from the write history database.

Shows:
- Total number of write attempts
- Succeeded and failed writes
- Last run timestamp
- The most recent failures

Example:
  shopify-wave-sync stats --history sync.db`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsHistoryPath, "history", "", "SQLite write history path (default $SYNC_DB_PATH)")
	statsCmd.Flags().IntVar(&failureLimit, "failures", 10, "Number of recent failures to show")
}

func runStats(cmd *cobra.Command, args []string) {
	exitOnError(showStats(os.Stdout), "stats failed")
}

func showStats(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath, err := pathutil.HistoryPath(statsHistoryPath, cfg.Sync.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("invalid history path: %w", err)
	}
	if dbPath == "" {
		return errors.New("no history database configured: set SYNC_DB_PATH or pass --history")
	}

	// Open database connection
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	history := db.NewWriteHistory(conn)

	stats, err := history.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	failures, err := history.RecentFailures(failureLimit)
	if err != nil {
		return fmt.Errorf("failed to get recent failures: %w", err)
	}

	printStats(out, stats, failures)

	slog.Info("Statistics displayed successfully")
	return nil
}
