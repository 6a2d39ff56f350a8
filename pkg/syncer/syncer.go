// Package syncer runs the product-cost sync: extract priced products,
// resolve ledger accounts, then write one transaction per product.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/extractor"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/resolver"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/wave"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/writer"
)

// Accounting is the accounting API surface a run needs.
type Accounting interface {
	resolver.BusinessLister
	writer.TransactionCreator
}

// Options configures a run.
type Options struct {
	Names resolver.Names
	// UseAnchor requires the dummy account and anchors every transaction to it.
	UseAnchor    bool
	AmountPolicy writer.AmountPolicy
	// ShopName, when set, gives every transaction a stable externalId.
	ShopName    string
	DryRun      bool
	Concurrency int
	Recorder    writer.Recorder
	Logger      *slog.Logger
}

// Result describes a finished run.
type Result struct {
	Records    []extractor.ProductCostRecord
	Resolution resolver.Resolution
	// Plan holds the inputs that were built; on a dry run nothing was sent.
	Plan   []wave.MoneyTransactionCreateInput
	Report writer.Report
}

// Run executes the pipeline. Extraction and resolution errors are returned
// before any write is attempted; individual write failures only show up in
// Result.Report. A cancelled ctx is an error, returned with the partial Result.
func Run(ctx context.Context, products extractor.ProductSource, accounting Accounting, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Fetching priced products")
	records, err := extractor.New(products,
		extractor.WithConcurrency(opts.Concurrency),
		extractor.WithLogger(logger),
	).ExtractPricedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract products: %w", err)
	}
	logger.Info("Extracted priced products", "count", len(records))

	logger.Info("Resolving accounts", "business", opts.Names.Business)
	resolution, err := resolver.ResolveAccounts(ctx, accounting, opts.Names, opts.UseAnchor)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved accounts",
		"business_id", resolution.Business.ID,
		"debit_id", resolution.Debit.ID,
		"credit_id", resolution.Credit.ID,
		"dummy_id", resolution.Dummy.ID,
	)

	accounts := writer.Accounts{
		BusinessID: resolution.Business.ID,
		DebitID:    resolution.Debit.ID,
		CreditID:   resolution.Credit.ID,
	}
	if opts.UseAnchor {
		accounts.AnchorID = resolution.Dummy.ID
	}

	policy := opts.AmountPolicy
	if policy == "" {
		policy = writer.AmountZero
	}

	writerOpts := []writer.Option{writer.WithAmountPolicy(policy), writer.WithLogger(logger)}
	if opts.ShopName != "" {
		writerOpts = append(writerOpts, writer.WithExternalIDs(opts.ShopName))
	}
	if opts.Recorder != nil && !opts.DryRun {
		writerOpts = append(writerOpts, writer.WithRecorder(opts.Recorder))
	}
	w := writer.New(accounting, accounts, writerOpts...)

	result := &Result{
		Records:    records,
		Resolution: resolution,
		Plan:       w.Plan(records),
	}

	if opts.DryRun {
		logger.Info("Dry run: no transactions written", "planned", len(result.Plan))
		return result, nil
	}

	result.Report = w.WriteAll(ctx, records)
	logger.Info("Write loop completed",
		"attempted", result.Report.Attempted,
		"succeeded", result.Report.Succeeded,
		"failed", result.Report.Failed,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("sync interrupted after %d of %d products: %w", result.Report.Attempted, len(records), err)
	}

	return result, nil
}
