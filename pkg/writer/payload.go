package writer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/extractor"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/wave"
)

// AmountPolicy selects the amount posted on each line item.
type AmountPolicy string

const (
	// AmountZero posts a zero-amount placeholder transaction.
	AmountZero AmountPolicy = "zero"
	// AmountCost posts the product's extracted cost.
	AmountCost AmountPolicy = "cost"
)

// Accounts holds the resolved identifiers a transaction is written against.
// AnchorID is optional; when set the transaction is anchored to it.
type Accounts struct {
	BusinessID string
	DebitID    string
	CreditID   string
	AnchorID   string
}

// BuildInput builds the moneyTransactionCreate input for one product: a debit
// line and a balancing credit line, dated from the product's creation date.
// externalID may be empty.
func BuildInput(accounts Accounts, record extractor.ProductCostRecord, policy AmountPolicy, externalID string) wave.MoneyTransactionCreateInput {
	amount := decimal.Zero
	if policy == AmountCost {
		amount = record.Cost
	}

	input := wave.MoneyTransactionCreateInput{
		BusinessID:  accounts.BusinessID,
		ExternalID:  externalID,
		Date:        record.CreatedAt.Format("2006-01-02"),
		Description: record.Title,
		LineItems: []wave.LineItem{
			{
				Category:    wave.Category{Type: wave.CategoryTypeAccountID, AccountID: accounts.DebitID},
				Description: record.Title,
				Amount:      amount,
				ItemType:    wave.ItemTypeDebit,
			},
			{
				Category:    wave.Category{Type: wave.CategoryTypeAccountID, AccountID: accounts.CreditID},
				Description: record.Title,
				Amount:      amount,
				ItemType:    wave.ItemTypeCredit,
			},
		},
	}

	if accounts.AnchorID != "" {
		input.Anchor = &wave.Anchor{
			AccountID: accounts.AnchorID,
			Amount:    amount,
			Direction: wave.AnchorDirectionDeposit,
		}
	}

	return input
}

// ExternalID derives a stable reference id for a product of a shop, so that
// repeated runs send the same id for the same product.
func ExternalID(shopName, handle string) string {
	name := fmt.Sprintf("https://%s.myshopify.com/products/%s", shopName, handle)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
