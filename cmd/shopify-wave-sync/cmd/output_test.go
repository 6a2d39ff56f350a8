package cmd

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/db"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/wave"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/writer"
)

func TestWritePlanYAML(t *testing.T) {
	plan := []wave.MoneyTransactionCreateInput{{
		BusinessID:  "biz-1",
		Date:        "2022-03-01",
		Description: "Widget",
		LineItems: []wave.LineItem{
			{Category: wave.Category{Type: wave.CategoryTypeAccountID, AccountID: "acc-cogs"}, Description: "Widget", Amount: decimal.Zero, ItemType: wave.ItemTypeDebit},
			{Category: wave.Category{Type: wave.CategoryTypeAccountID, AccountID: "acc-inv"}, Description: "Widget", Amount: decimal.Zero, ItemType: wave.ItemTypeCredit},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, writePlanYAML(&buf, plan))

	out := buf.String()
	assert.Contains(t, out, "businessId: biz-1")
	assert.Contains(t, out, "accountId: acc-cogs")
	assert.Contains(t, out, "itemType: CREDIT")
	assert.NotContains(t, out, "anchor", "absent anchor is omitted")
	assert.NotContains(t, out, "externalId")

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Widget", decoded[0]["description"])
}

func TestWritePlanYAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlanYAML(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestBusinessesOutput(t *testing.T) {
	page := wave.BusinessPage{
		CurrentPage: 1,
		TotalPages:  2,
		TotalCount:  11,
		Businesses: []wave.Business{{
			ID:       "biz-acme",
			Name:     "Acme Corp",
			Accounts: []wave.Account{{ID: "acc-cogs", Name: "COGS"}},
		}},
	}

	var text bytes.Buffer
	printBusinesses(&text, page)
	assert.Contains(t, text.String(), "Acme Corp (biz-acme)")
	assert.Contains(t, text.String(), "acc-cogs")
	assert.Contains(t, text.String(), "page 1 of 2")

	var out bytes.Buffer
	require.NoError(t, writeBusinessesYAML(&out, page))

	var decoded []businessView
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, businessView{Name: "Acme Corp", ID: "biz-acme", Accounts: []wave.Account{{ID: "acc-cogs", Name: "COGS"}}}, decoded[0])
}

func TestPrintBusinessesEmpty(t *testing.T) {
	var buf bytes.Buffer
	printBusinesses(&buf, wave.BusinessPage{})
	assert.Equal(t, "No businesses found\n", buf.String())
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, writer.Report{Attempted: 3, Succeeded: 1, Failed: 2, FailedHandles: []string{"gadget", "gizmo"}})

	assert.Contains(t, buf.String(), "Transactions attempted: 3")
	assert.Contains(t, buf.String(), "Failed products:        gadget, gizmo")
}

func TestPrintStats(t *testing.T) {
	stats := &db.Stats{TotalWrites: 4, Succeeded: 3, Failed: 1}
	failures := []db.WriteRecord{{
		ProductHandle: "gadget",
		Message:       "rejected",
		WrittenAt:     time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	printStats(&buf, stats, failures)
	assert.Contains(t, buf.String(), "Last run:       (never)")
	assert.Contains(t, buf.String(), "2024-05-01 09:00:00  gadget  rejected")

	stats.LastRun = sql.NullString{String: "2024-05-01T09:00:00Z", Valid: true}
	buf.Reset()
	printStats(&buf, stats, nil)
	assert.Contains(t, buf.String(), "Last run:       2024-05-01T09:00:00Z")
	assert.NotContains(t, buf.String(), "Recent failures")
}
