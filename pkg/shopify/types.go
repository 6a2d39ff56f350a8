// Package shopify provides a Shopify Admin REST API client and types.
package shopify

import "github.com/shopspring/decimal"

// Product represents a product in the Shopify Admin API.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	ProductType string    `json:"product_type"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"created_at"` // ISO-8601
	Variants    []Variant `json:"variants"`
}

// Variant represents a purchasable configuration of a product.
type Variant struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	Title           string `json:"title"`
	SKU             string `json:"sku"`
	InventoryItemID int64  `json:"inventory_item_id"`
}

// InventoryItem is the cost-tracking record of a variant.
// Cost is absent (Valid == false) when the merchant never recorded one.
type InventoryItem struct {
	ID      int64               `json:"id"`
	SKU     string              `json:"sku"`
	Cost    decimal.NullDecimal `json:"cost"`
	Tracked bool                `json:"tracked"`
}

// ProductsResponse represents the response from /products.json.
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// InventoryItemResponse represents the response from /inventory_items/{id}.json.
type InventoryItemResponse struct {
	InventoryItem InventoryItem `json:"inventory_item"`
}

// ErrorResponse represents an error response from the Admin API.
// Shopify returns either a string or an object keyed by field.
type ErrorResponse struct {
	Errors interface{} `json:"errors"`
}
