package shopify

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/fakeapi"
)

func fixtureProducts() []fakeapi.Product {
	return []fakeapi.Product{
		{ID: 1, Title: "Widget", Handle: "widget", Status: "active", CreatedAt: "2022-03-01T10:00:00-05:00",
			Variants: []fakeapi.Variant{{ID: 11, InventoryItemID: 101, Cost: fakeapi.Cost("5.00")}}},
		{ID: 2, Title: "Old Thing", Handle: "old-thing", Status: "archived", CreatedAt: "2021-01-01T00:00:00Z"},
		{ID: 3, Title: "Gadget", Handle: "gadget", Status: "active", CreatedAt: "2022-03-02T10:00:00Z",
			Variants: []fakeapi.Variant{{ID: 31, InventoryItemID: 301}}},
		{ID: 4, Title: "Doohickey", Handle: "doohickey", Status: "active", CreatedAt: "2022-03-03T10:00:00Z"},
	}
}

func TestListActiveProductsFollowsLinkPagination(t *testing.T) {
	srv := fakeapi.NewShopify(fakeapi.ShopifyConfig{
		AccessToken: "shpat",
		PageSize:    1,
		Products:    fixtureProducts(),
	})
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, AccessToken: "shpat"})

	products, err := client.ListActiveProducts(context.Background())
	require.NoError(t, err)

	var titles []string
	for _, p := range products {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Widget", "Gadget", "Doohickey"}, titles)
	assert.Equal(t, 3, srv.ProductPages())
	assert.Equal(t, int64(101), products[0].Variants[0].InventoryItemID)
}

func TestBasicAuth(t *testing.T) {
	srv := fakeapi.NewShopify(fakeapi.ShopifyConfig{
		APIKey:   "key",
		Password: "secret",
		Products: fixtureProducts(),
	})
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "key", Password: "secret", AccessToken: "ignored"})
	products, err := client.ListActiveProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)

	bad := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "key", Password: "wrong"})
	_, err = bad.ListActiveProducts(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Invalid API key")
}

func TestGetInventoryItem(t *testing.T) {
	srv := fakeapi.NewShopify(fakeapi.ShopifyConfig{
		AccessToken:        "shpat",
		Products:           fixtureProducts(),
		FailInventoryItems: map[int64]bool{999: true},
	})
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL + "/", AccessToken: "shpat"})
	ctx := context.Background()

	item, err := client.GetInventoryItem(ctx, 101)
	require.NoError(t, err)
	require.True(t, item.Cost.Valid)
	assert.True(t, item.Cost.Decimal.Equal(decimal.RequireFromString("5.00")))

	item, err = client.GetInventoryItem(ctx, 301)
	require.NoError(t, err)
	assert.False(t, item.Cost.Valid, "null cost must decode as absent")

	_, err = client.GetInventoryItem(ctx, 999)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.StatusCode)

	assert.Equal(t, []int64{101, 301, 999}, srv.InventoryRequests())
}

func TestParseLinkHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{"empty", "", map[string]string{}},
		{
			"next only",
			`<https://acme.myshopify.com/admin/api/2022-04/products.json?page_info=abc&limit=250>; rel="next"`,
			map[string]string{"next": "https://acme.myshopify.com/admin/api/2022-04/products.json?page_info=abc&limit=250"},
		},
		{
			"previous and next",
			`<https://x/p?page_info=a>; rel="previous", <https://x/p?page_info=b>; rel="next"`,
			map[string]string{"previous": "https://x/p?page_info=a", "next": "https://x/p?page_info=b"},
		},
		{"missing rel", `<https://x/p>`, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLinkHeader(tt.header))
		})
	}
}

func TestResolveNextRelative(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://acme.myshopify.com", APIVersion: "2023-01"})

	next, err := client.resolveNext(`</admin/api/2023-01/products.json?page_info=x>; rel="next"`)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.myshopify.com/admin/api/2023-01/products.json?page_info=x", next)

	next, err = client.resolveNext("")
	require.NoError(t, err)
	assert.Empty(t, next)
}
