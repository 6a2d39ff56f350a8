package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/resolver"
)

var outputFormat string

// accountsCmd represents the accounts command.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List Wave businesses and their accounts",
	Long: `List the businesses visible to the Wave token and the accounts of each.

Only the first page of businesses is listed, the same page sync resolves
names against. Copy names from here into WAVE_BUSINESS_NAME and the
WAVE_*_ACCOUNT_NAME settings; matching is exact and case-sensitive.

Example:
  shopify-wave-sync accounts
  shopify-wave-sync accounts --output yaml`,
	Run: runAccounts,
}

func init() {
	accountsCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text or yaml)")
}

func runAccounts(cmd *cobra.Command, args []string) {
	if outputFormat != "text" && outputFormat != "yaml" {
		exitOnError(fmt.Errorf("unknown format %q", outputFormat), "invalid --output")
	}

	cfg, err := loadConfig()
	exitOnError(err, "accounts failed")
	if err := cfg.ValidateWave(); err != nil {
		exitOnError(err, "invalid configuration")
	}

	page, err := newWaveClient(cfg).ListBusinesses(cmd.Context(), resolver.Page, resolver.PageSize)
	exitOnError(err, "failed to query businesses")
	slog.Debug("Fetched businesses", "count", len(page.Businesses), "total", page.TotalCount)

	if outputFormat == "yaml" {
		exitOnError(writeBusinessesYAML(os.Stdout, page), "failed to render businesses")
		return
	}
	printBusinesses(os.Stdout, page)
}
