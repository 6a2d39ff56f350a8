package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/db"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/pathutil"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/resolver"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/syncer"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/writer"
)

var (
	dryRun      bool
	useAnchor   bool
	historyPath string
	concurrency int
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Record Shopify product costs as Wave transactions",
	Long: `Record one Wave transaction per priced Shopify product.

This command:
1. Fetches every active product and its variant costs from Shopify
2. Drops products without a cost
3. Resolves the configured business and account names in Wave
4. Creates one transaction per product (failures are logged, not fatal)

Example:
  shopify-wave-sync sync
  shopify-wave-sync sync --dry-run
  shopify-wave-sync sync --anchor --history sync.db`,
	Run: runSync,
}

func init() {
	// Flags
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Dry run mode (print planned transactions, no writes)")
	syncCmd.Flags().BoolVar(&useAnchor, "anchor", false, "Anchor every transaction to the dummy account")
	syncCmd.Flags().StringVar(&historyPath, "history", "", "SQLite write history path (default $SYNC_DB_PATH, empty disables)")
	syncCmd.Flags().IntVar(&concurrency, "concurrency", 1, "Parallel inventory cost lookups")
}

func runSync(cmd *cobra.Command, args []string) {
	exitOnError(syncProducts(cmd.Context(), os.Stdout), "sync failed")
}

// syncProducts runs one sync and prints its summary to out. It returns instead
// of exiting so the history database is closed on every path.
func syncProducts(ctx context.Context, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("Starting sync",
		"shop", cfg.Shopify.ShopName,
		"business", cfg.Wave.BusinessName,
		"amount_source", cfg.Wave.AmountSource,
		"dry_run", dryRun,
	)

	opts := syncer.Options{
		Names: resolver.Names{
			Business: cfg.Wave.BusinessName,
			Debit:    cfg.Wave.DebitAccountName,
			Credit:   cfg.Wave.CreditAccountName,
			Dummy:    cfg.Wave.DummyAccountName,
		},
		UseAnchor:    useAnchor,
		AmountPolicy: writer.AmountPolicy(cfg.Wave.AmountSource),
		ShopName:     cfg.Shopify.ShopName,
		DryRun:       dryRun,
		Concurrency:  concurrency,
		Logger:       slog.Default(),
	}

	// Open history database
	var history *db.WriteHistory
	dbPath, err := pathutil.HistoryPath(historyPath, cfg.Sync.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("invalid history path: %w", err)
	}
	if dbPath != "" && !dryRun {
		conn, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer conn.Close()

		history = db.NewWriteHistory(conn)
		opts.Recorder = history
		slog.Info("Recording write history", "path", conn.Path())
	}

	result, err := syncer.Run(ctx, newShopifyClient(cfg), newWaveClient(cfg), opts)
	if err != nil {
		if result != nil && !dryRun {
			printReport(out, result.Report)
		}
		return err
	}

	if dryRun {
		fmt.Fprintf(out, "[DRY RUN] Would create %d transactions in %q\n", len(result.Plan), result.Resolution.Business.Name)
		if err := writePlanYAML(out, result.Plan); err != nil {
			return fmt.Errorf("failed to render plan: %w", err)
		}
		return nil
	}

	if history != nil {
		if err := history.SetMetadata(db.MetadataLastRun, time.Now().UTC().Format(time.RFC3339)); err != nil {
			slog.Error("Failed to record last run", "error", err)
		}
	}

	printReport(out, result.Report)

	slog.Info("Sync completed",
		"products", len(result.Records),
		"succeeded", result.Report.Succeeded,
		"failed", result.Report.Failed,
	)
	return nil
}
