// Package fakeapi provides in-process fake storefront and accounting servers
// for tests. Both servers are chi routers wrapped in httptest servers.
package fakeapi

// Product is a storefront product served by the fake Shopify server.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	ProductType string    `json:"product_type"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	Variants    []Variant `json:"variants"`
}

// Variant is a product variant. Cost is served through its inventory item;
// a nil Cost is returned as JSON null.
type Variant struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"product_id"`
	InventoryItemID int64   `json:"inventory_item_id"`
	Cost            *string `json:"-"`
}

// InventoryItem mirrors the Admin API inventory item shape.
type InventoryItem struct {
	ID   int64   `json:"id"`
	Cost *string `json:"cost"`
}

// Business is an accounting business with its accounts.
type Business struct {
	ID       string
	Name     string
	Accounts []Account
}

// Account is a ledger account.
type Account struct {
	ID   string
	Name string
}

// MoneyTransaction is a recorded moneyTransactionCreate input.
type MoneyTransaction struct {
	BusinessID  string                   `json:"businessId"`
	ExternalID  string                   `json:"externalId,omitempty"`
	Date        string                   `json:"date"`
	Description string                   `json:"description"`
	Anchor      map[string]interface{}   `json:"anchor,omitempty"`
	LineItems   []map[string]interface{} `json:"lineItems"`
}

// Cost returns a pointer to s, for building fixtures.
func Cost(s string) *string {
	return &s
}
