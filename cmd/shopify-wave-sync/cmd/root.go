// Package cmd provides CLI commands for shopify-wave-sync.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/config"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/shopify"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/wave"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shopify-wave-sync",
	Short: "Sync Shopify product costs into Wave",
	Long: `shopify-wave-sync reads the active products of a Shopify store,
keeps the ones that carry a cost, and records one Wave Accounting
transaction per product between two configured accounts.

It supports:
- Resolving business and account names to Wave ids
- Zero-amount placeholder or cost-valued transactions
- Dry-run mode that prints the planned transactions
- An optional SQLite audit log of write attempts

Example:
  shopify-wave-sync sync
  shopify-wave-sync sync --dry-run
  shopify-wave-sync accounts
  shopify-wave-sync stats --history sync.db`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(statsCmd)
}

func setupLogging(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// loadConfig loads configuration and turns on debug logging when DEBUG=true.
func loadConfig() (*config.Config, error) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Debug && !debug {
		setupLogging(true)
	}
	return cfg, nil
}

func newShopifyClient(cfg *config.Config) *shopify.Client {
	return shopify.NewClient(shopify.ClientConfig{
		BaseURL:     cfg.Shopify.BaseURL,
		APIVersion:  cfg.Shopify.APIVersion,
		APIKey:      cfg.Shopify.APIKey,
		Password:    cfg.Shopify.Password,
		AccessToken: cfg.Shopify.AccessToken,
		Timeout:     cfg.Sync.HTTPTimeout,
	})
}

func newWaveClient(cfg *config.Config) *wave.Client {
	return wave.NewClient(wave.ClientConfig{
		APIURL:      cfg.Wave.APIURL,
		AccessToken: cfg.Wave.AccessToken,
		Timeout:     cfg.Sync.HTTPTimeout,
	})
}

// exit is replaced in tests.
var exit = os.Exit

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		exit(1)
	}
}
