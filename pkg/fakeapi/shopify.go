package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShopifyConfig configures a fake storefront.
type ShopifyConfig struct {
	AccessToken string
	APIKey      string
	Password    string
	PageSize    int // products per page when the client asks for more; default 250
	Products    []Product
	// FailInventoryItems makes GET inventory_items/{id} return 500 for these ids.
	FailInventoryItems map[int64]bool
}

// Shopify is a fake Shopify Admin REST API.
type Shopify struct {
	*httptest.Server

	cfg   ShopifyConfig
	items map[int64]InventoryItem

	mu                sync.Mutex
	productPages      int
	inventoryRequests []int64
}

// NewShopify starts a fake storefront. Call Close when done.
func NewShopify(cfg ShopifyConfig) *Shopify {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 250
	}

	s := &Shopify{cfg: cfg, items: make(map[int64]InventoryItem)}
	for _, p := range cfg.Products {
		for _, v := range p.Variants {
			s.items[v.InventoryItemID] = InventoryItem{ID: v.InventoryItemID, Cost: v.Cost}
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/admin/api/{version}", func(r chi.Router) {
		r.Use(shopAuth(cfg.AccessToken, cfg.APIKey, cfg.Password))
		r.Get("/products.json", s.listProducts)
		r.Get("/inventory_items/{id}.json", s.getInventoryItem)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// ProductPages returns how many product pages were served.
func (s *Shopify) ProductPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productPages
}

// InventoryRequests returns the inventory item ids requested, in arrival order.
func (s *Shopify) InventoryRequests() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.inventoryRequests...)
}

// listProducts handles GET /admin/api/{version}/products.json.
// Cursors are plain offsets carried in page_info.
func (s *Shopify) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := s.cfg.PageSize
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l < limit {
		limit = l
	}

	offset := 0
	if pi := q.Get("page_info"); pi != "" {
		o, err := strconv.Atoi(pi)
		if err != nil || o < 0 {
			writeJSONError(w, http.StatusBadRequest, "Invalid page_info")
			return
		}
		offset = o
	}

	status := q.Get("status")
	var filtered []Product
	for _, p := range s.cfg.Products {
		if status == "" || p.Status == status {
			filtered = append(filtered, p)
		}
	}

	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := []Product{}
	if offset < len(filtered) {
		page = filtered[offset:end]
	}

	s.mu.Lock()
	s.productPages++
	s.mu.Unlock()

	if end < len(filtered) {
		next := fmt.Sprintf("%s?limit=%d&page_info=%d", r.URL.Path, limit, end)
		if status != "" {
			next += "&status=" + status
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s%s>; rel="next"`, r.Host, next))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": page})
}

// getInventoryItem handles GET /admin/api/{version}/inventory_items/{id}.json.
func (s *Shopify) getInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid inventory item id")
		return
	}

	s.mu.Lock()
	s.inventoryRequests = append(s.inventoryRequests, id)
	s.mu.Unlock()

	if s.cfg.FailInventoryItems[id] {
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	item, ok := s.items[id]
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"inventory_item": item})
}
