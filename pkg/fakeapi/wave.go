package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WavePath is the GraphQL endpoint path served by the fake accounting API.
const WavePath = "/graphql/public"

// WaveConfig configures a fake accounting API.
type WaveConfig struct {
	AccessToken string
	Businesses  []Business
	// BusinessesStatus, when non-zero, is returned for every businesses query.
	BusinessesStatus int
	// RejectDescriptions lists transaction descriptions answered with
	// didSucceed=false and an input error.
	RejectDescriptions map[string]bool
}

// Wave is a fake Wave GraphQL API.
type Wave struct {
	*httptest.Server

	cfg WaveConfig

	mu              sync.Mutex
	businessQueries int
	transactions    []MoneyTransaction
}

// NewWave starts a fake accounting API. Call Close when done.
func NewWave(cfg WaveConfig) *Wave {
	wv := &Wave{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.With(bearerAuth(cfg.AccessToken)).Post(WavePath, wv.handleGraphQL)

	wv.Server = httptest.NewServer(r)
	return wv
}

// Endpoint returns the full GraphQL URL.
func (wv *Wave) Endpoint() string {
	return wv.URL + WavePath
}

// BusinessQueries returns how many businesses queries were received.
func (wv *Wave) BusinessQueries() int {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	return wv.businessQueries
}

// Transactions returns every moneyTransactionCreate input received, in order.
func (wv *Wave) Transactions() []MoneyTransaction {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	return append([]MoneyTransaction(nil), wv.transactions...)
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func (wv *Wave) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, graphQLErrors("malformed request body"))
		return
	}

	switch {
	case strings.Contains(req.Query, "moneyTransactionCreate"):
		wv.createMoneyTransaction(w, req)
	case strings.Contains(req.Query, "businesses"):
		wv.listBusinesses(w, req)
	default:
		writeJSON(w, http.StatusBadRequest, graphQLErrors("unsupported operation"))
	}
}

func (wv *Wave) listBusinesses(w http.ResponseWriter, req graphQLRequest) {
	wv.mu.Lock()
	wv.businessQueries++
	wv.mu.Unlock()

	if wv.cfg.BusinessesStatus != 0 {
		writeJSON(w, wv.cfg.BusinessesStatus, graphQLErrors("businesses query rejected"))
		return
	}

	page := intVar(req.Variables, "page", 1)
	pageSize := intVar(req.Variables, "pageSize", 10)

	total := len(wv.cfg.Businesses)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	edges := []interface{}{}
	for _, b := range wv.cfg.Businesses[start:end] {
		accountEdges := []interface{}{}
		for _, a := range b.Accounts {
			accountEdges = append(accountEdges, map[string]interface{}{
				"node": map[string]interface{}{"id": a.ID, "name": a.Name},
			})
		}
		edges = append(edges, map[string]interface{}{
			"node": map[string]interface{}{
				"id":       b.ID,
				"name":     b.Name,
				"accounts": map[string]interface{}{"edges": accountEdges},
			},
		})
	}

	totalPages := (total + pageSize - 1) / pageSize
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"businesses": map[string]interface{}{
				"pageInfo": map[string]interface{}{
					"currentPage": page,
					"totalPages":  totalPages,
					"totalCount":  total,
				},
				"edges": edges,
			},
		},
	})
}

func (wv *Wave) createMoneyTransaction(w http.ResponseWriter, req graphQLRequest) {
	raw, err := json.Marshal(req.Variables["input"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, graphQLErrors("invalid input"))
		return
	}
	var input MoneyTransaction
	if err := json.Unmarshal(raw, &input); err != nil || input.BusinessID == "" {
		writeJSON(w, http.StatusBadRequest, graphQLErrors("variable $input is required"))
		return
	}

	wv.mu.Lock()
	wv.transactions = append(wv.transactions, input)
	seq := len(wv.transactions)
	wv.mu.Unlock()

	result := map[string]interface{}{
		"didSucceed":  true,
		"inputErrors": []interface{}{},
		"transaction": map[string]interface{}{"id": fmt.Sprintf("txn-%d", seq)},
	}
	if wv.cfg.RejectDescriptions[input.Description] {
		result = map[string]interface{}{
			"didSucceed": false,
			"inputErrors": []interface{}{
				map[string]interface{}{
					"path":    []string{"input", "lineItems", "0", "amount"},
					"message": "Amount is invalid",
					"code":    "INVALID",
				},
			},
			"transaction": nil,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"moneyTransactionCreate": result},
	})
}

func graphQLErrors(message string) map[string]interface{} {
	return map[string]interface{}{
		"errors": []interface{}{map[string]interface{}{"message": message}},
	}
}

func intVar(vars map[string]interface{}, key string, def int) int {
	if f, ok := vars[key].(float64); ok && f > 0 {
		return int(f)
	}
	return def
}
