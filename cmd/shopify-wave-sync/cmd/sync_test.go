package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/db"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/fakeapi"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/resolver"
)

// setupSyncEnv points the configuration at fake servers and resets sync flags.
func setupSyncEnv(t *testing.T, waveCfg fakeapi.WaveConfig) *fakeapi.Wave {
	t.Helper()

	shop := fakeapi.NewShopify(fakeapi.ShopifyConfig{
		AccessToken: "shpat",
		Products: []fakeapi.Product{
			{ID: 1, Title: "Widget", Handle: "widget", Status: "active", CreatedAt: "2022-03-01T10:00:00Z",
				Variants: []fakeapi.Variant{{ID: 11, InventoryItemID: 101, Cost: fakeapi.Cost("5.00")}}},
			{ID: 2, Title: "Gadget", Handle: "gadget", Status: "active", CreatedAt: "2022-03-02T10:00:00Z",
				Variants: []fakeapi.Variant{{ID: 21, InventoryItemID: 201}}},
		},
	})
	t.Cleanup(shop.Close)

	waveCfg.AccessToken = "wave-token"
	waveCfg.Businesses = []fakeapi.Business{{ID: "biz-acme", Name: "Acme Corp", Accounts: []fakeapi.Account{
		{ID: "acc-cogs", Name: "COGS"},
		{ID: "acc-inv", Name: "Inventory"},
	}}}
	ledger := fakeapi.NewWave(waveCfg)
	t.Cleanup(ledger.Close)

	env := map[string]string{
		"SHOPIFY_SHOP_NAME":        "acme",
		"SHOPIFY_ACCESS_TOKEN":     "shpat",
		"SHOPIFY_API_KEY":          "",
		"SHOPIFY_PASSWORD":         "",
		"SHOPIFY_API_VERSION":      "",
		"SHOPIFY_BASE_URL":         shop.URL,
		"WAVE_ACCESS_TOKEN":        "wave-token",
		"WAVE_API_URL":             ledger.Endpoint(),
		"WAVE_BUSINESS_NAME":       "Acme Corp",
		"WAVE_DEBIT_ACCOUNT_NAME":  "COGS",
		"WAVE_CREDIT_ACCOUNT_NAME": "Inventory",
		"WAVE_DUMMY_ACCOUNT_NAME":  "",
		"WAVE_AMOUNT_SOURCE":       "",
		"SYNC_DB_PATH":             "",
		"HTTP_TIMEOUT":             "",
		"DEBUG":                    "",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	prevCfg, prevDry, prevAnchor, prevHistory, prevConc := cfgFile, dryRun, useAnchor, historyPath, concurrency
	t.Cleanup(func() {
		cfgFile, dryRun, useAnchor, historyPath, concurrency = prevCfg, prevDry, prevAnchor, prevHistory, prevConc
	})
	cfgFile, dryRun, useAnchor, historyPath, concurrency = "", false, false, "", 1

	return ledger
}

// captureExit replaces the process exit and returns the recorded codes.
func captureExit(t *testing.T) *[]int {
	t.Helper()
	var codes []int
	prev := exit
	exit = func(code int) { codes = append(codes, code) }
	t.Cleanup(func() { exit = prev })
	return &codes
}

func commandWithContext() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestRunSyncExitCodes(t *testing.T) {
	t.Run("accounting query rejected exits 1", func(t *testing.T) {
		ledger := setupSyncEnv(t, fakeapi.WaveConfig{BusinessesStatus: http.StatusBadRequest})
		codes := captureExit(t)

		runSync(commandWithContext(), nil)

		assert.Equal(t, []int{1}, *codes)
		assert.Empty(t, ledger.Transactions())
	})

	t.Run("missing configuration exits 1", func(t *testing.T) {
		ledger := setupSyncEnv(t, fakeapi.WaveConfig{})
		t.Setenv("WAVE_BUSINESS_NAME", "")
		codes := captureExit(t)

		runSync(commandWithContext(), nil)

		assert.Equal(t, []int{1}, *codes)
		assert.Equal(t, 0, ledger.BusinessQueries())
	})

	t.Run("rejected write still exits 0", func(t *testing.T) {
		ledger := setupSyncEnv(t, fakeapi.WaveConfig{RejectDescriptions: map[string]bool{"Widget": true}})
		codes := captureExit(t)

		runSync(commandWithContext(), nil)

		assert.Empty(t, *codes)
		assert.Len(t, ledger.Transactions(), 1)
	})
}

func TestSyncProductsClosesHistoryOnFailure(t *testing.T) {
	setupSyncEnv(t, fakeapi.WaveConfig{BusinessesStatus: http.StatusBadRequest})
	historyPath = filepath.Join(t.TempDir(), "history.db")

	var out bytes.Buffer
	err := syncProducts(context.Background(), &out)

	var resErr *resolver.ResolutionError
	require.True(t, errors.As(err, &resErr))

	_, statErr := os.Stat(historyPath + "-wal")
	assert.True(t, os.IsNotExist(statErr), "WAL is checkpointed away once the connection is closed")

	conn, err := db.Open(historyPath)
	require.NoError(t, err)
	defer conn.Close()
	stats, err := db.NewWriteHistory(conn).GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalWrites)
	assert.False(t, stats.LastRun.Valid, "a failed run does not record a last run")
}

func TestSyncProductsSummary(t *testing.T) {
	setupSyncEnv(t, fakeapi.WaveConfig{})
	historyPath = filepath.Join(t.TempDir(), "history.db")

	var out bytes.Buffer
	require.NoError(t, syncProducts(context.Background(), &out))
	assert.Contains(t, out.String(), "Transactions attempted: 1")
	assert.Contains(t, out.String(), "Succeeded:              1")

	conn, err := db.Open(historyPath)
	require.NoError(t, err)
	defer conn.Close()
	stats, err := db.NewWriteHistory(conn).GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalWrites)
	assert.True(t, stats.LastRun.Valid)
}

func TestSyncProductsDryRun(t *testing.T) {
	ledger := setupSyncEnv(t, fakeapi.WaveConfig{})
	dryRun = true

	var out bytes.Buffer
	require.NoError(t, syncProducts(context.Background(), &out))
	assert.Contains(t, out.String(), `[DRY RUN] Would create 1 transactions in "Acme Corp"`)
	assert.Contains(t, out.String(), "description: Widget")
	assert.Empty(t, ledger.Transactions())
}
