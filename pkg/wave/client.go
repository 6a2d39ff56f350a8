package wave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const businessesQuery = `
query ($page: Int!, $pageSize: Int!) {
  businesses(page: $page, pageSize: $pageSize) {
    pageInfo {
      currentPage
      totalPages
      totalCount
    }
    edges {
      node {
        id
        name
        accounts {
          edges {
            node {
              id
              name
            }
          }
        }
      }
    }
  }
}
`

const moneyTransactionCreateMutation = `
mutation ($input: MoneyTransactionCreateInput!) {
  moneyTransactionCreate(input: $input) {
    didSucceed
    inputErrors {
      path
      message
      code
    }
    transaction {
      id
    }
  }
}
`

// ClientConfig represents the configuration for the Wave API client.
type ClientConfig struct {
	APIURL      string
	AccessToken string
	Timeout     time.Duration // Default: 30 seconds
}

// Client is a Wave GraphQL API client.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
}

// NewClient creates a new Wave API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint:    config.APIURL,
		accessToken: config.AccessToken,
	}
}

// ListBusinesses fetches one page of businesses with their nested accounts.
func (c *Client) ListBusinesses(ctx context.Context, page, pageSize int) (BusinessPage, error) {
	var data businessesData
	vars := map[string]interface{}{"page": page, "pageSize": pageSize}
	if err := c.execute(ctx, businessesQuery, vars, &data); err != nil {
		return BusinessPage{}, fmt.Errorf("failed to query businesses: %w", err)
	}

	info := data.Businesses.PageInfo
	result := BusinessPage{
		CurrentPage: info.CurrentPage,
		TotalPages:  info.TotalPages,
		TotalCount:  info.TotalCount,
	}
	for _, edge := range data.Businesses.Edges {
		business := Business{ID: edge.Node.ID, Name: edge.Node.Name}
		for _, accountEdge := range edge.Node.Accounts.Edges {
			business.Accounts = append(business.Accounts, accountEdge.Node)
		}
		result.Businesses = append(result.Businesses, business)
	}

	return result, nil
}

// CreateMoneyTransaction submits one moneyTransactionCreate mutation.
// A rejected input is not an error: inspect TransactionResult.DidSucceed.
func (c *Client) CreateMoneyTransaction(ctx context.Context, input MoneyTransactionCreateInput) (TransactionResult, error) {
	var data moneyTransactionCreateData
	vars := map[string]interface{}{"input": input}
	if err := c.execute(ctx, moneyTransactionCreateMutation, vars, &data); err != nil {
		return TransactionResult{}, fmt.Errorf("failed to create money transaction: %w", err)
	}

	payload := data.MoneyTransactionCreate
	result := TransactionResult{
		DidSucceed:  payload.DidSucceed,
		InputErrors: payload.InputErrors,
	}
	if payload.Transaction != nil {
		result.TransactionID = payload.Transaction.ID
	}

	return result, nil
}

// execute posts a GraphQL operation and decodes its data into out.
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range envelope.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("response carried no data")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}

	return nil
}
