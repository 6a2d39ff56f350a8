// Package extractor turns storefront products into cost records.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/shopify"
)

// ProductCostRecord is the flat projection of a product that has a cost.
type ProductCostRecord struct {
	Cost        decimal.Decimal
	Title       string
	CreatedAt   time.Time
	ProductType string
	Handle      string
}

// ProductSource is the storefront read surface the extractor needs.
type ProductSource interface {
	ListActiveProducts(ctx context.Context) ([]shopify.Product, error)
	GetInventoryItem(ctx context.Context, id int64) (shopify.InventoryItem, error)
}

// Extractor fetches active products and their inventory costs.
type Extractor struct {
	source      ProductSource
	concurrency int
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConcurrency sets how many inventory lookups may run at once.
// Values below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n < 1 {
			n = 1
		}
		e.concurrency = n
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor reading from source.
func New(source ProductSource, opts ...Option) *Extractor {
	e := &Extractor{source: source, concurrency: 1, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type lookup struct {
	product int
	variant int
	itemID  int64
}

// ExtractPricedProducts returns one record per active product that has a
// non-null cost on at least one variant, in API order. When several variants
// carry a cost, the last one wins. Products without a cost are dropped.
func (e *Extractor) ExtractPricedProducts(ctx context.Context) ([]ProductCostRecord, error) {
	products, err := e.source.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	e.logger.Debug("Fetched active products", "count", len(products))

	costs := make([][]decimal.NullDecimal, len(products))
	var lookups []lookup
	for i, p := range products {
		costs[i] = make([]decimal.NullDecimal, len(p.Variants))
		for j, v := range p.Variants {
			lookups = append(lookups, lookup{product: i, variant: j, itemID: v.InventoryItemID})
		}
	}

	// Each goroutine owns exactly one costs slot, so no locking is needed.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, l := range lookups {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			item, err := e.source.GetInventoryItem(gctx, l.itemID)
			if err != nil {
				return fmt.Errorf("product %q: %w", products[l.product].Handle, err)
			}
			costs[l.product][l.variant] = item.Cost
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Launching stops early on cancellation; a partial set must not look complete.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction interrupted: %w", err)
	}

	var records []ProductCostRecord
	for i, p := range products {
		cost, ok := lastCost(costs[i])
		if !ok {
			e.logger.Debug("Skipping product without cost", "product", p.Handle, "variants", len(p.Variants))
			continue
		}

		createdAt, err := time.Parse(time.RFC3339, p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("product %q has invalid created_at %q: %w", p.Handle, p.CreatedAt, err)
		}

		records = append(records, ProductCostRecord{
			Cost:        cost,
			Title:       p.Title,
			CreatedAt:   createdAt,
			ProductType: p.ProductType,
			Handle:      p.Handle,
		})
	}

	return records, nil
}

// lastCost returns the last present cost in variant order.
func lastCost(costs []decimal.NullDecimal) (decimal.Decimal, bool) {
	var found decimal.NullDecimal
	for _, c := range costs {
		if c.Valid {
			found = c
		}
	}
	return found.Decimal, found.Valid
}
