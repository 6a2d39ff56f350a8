// Package wave provides a Wave Accounting GraphQL API client and types.
package wave

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Business is a Wave business with the accounts it owns.
type Business struct {
	ID       string
	Name     string
	Accounts []Account
}

// Account is a ledger account within a business.
type Account struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// BusinessPage is one page of the businesses query.
type BusinessPage struct {
	CurrentPage int
	TotalPages  int
	TotalCount  int
	Businesses  []Business
}

// ItemType is the balance side of a line item.
type ItemType string

const (
	ItemTypeDebit  ItemType = "DEBIT"
	ItemTypeCredit ItemType = "CREDIT"
)

// CategoryTypeAccountID categorises a line item by account id.
const CategoryTypeAccountID = "ACCOUNT_ID"

// AnchorDirectionDeposit marks money flowing into the anchor account.
const AnchorDirectionDeposit = "DEPOSIT"

// MoneyTransactionCreateInput is the input of the moneyTransactionCreate mutation.
type MoneyTransactionCreateInput struct {
	BusinessID  string     `json:"businessId" yaml:"businessId"`
	ExternalID  string     `json:"externalId,omitempty" yaml:"externalId,omitempty"`
	Date        string     `json:"date" yaml:"date"` // YYYY-MM-DD
	Description string     `json:"description" yaml:"description"`
	Anchor      *Anchor    `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	LineItems   []LineItem `json:"lineItems" yaml:"lineItems"`
}

// Anchor is the account a transaction's net effect is balanced against.
type Anchor struct {
	AccountID string          `json:"accountId" yaml:"accountId"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Direction string          `json:"direction" yaml:"direction"`
}

// LineItem is one debit or credit entry of a transaction.
type LineItem struct {
	Category    Category        `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	ItemType    ItemType        `json:"itemType" yaml:"itemType"`
}

// Category identifies what a line item is posted against.
type Category struct {
	Type      string `json:"type" yaml:"type"`
	AccountID string `json:"accountId" yaml:"accountId"`
}

// InputError is a field-level validation error from a mutation.
type InputError struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

func (e InputError) String() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", strings.Join(e.Path, "."), e.Message, e.Code)
}

// TransactionResult is the outcome of moneyTransactionCreate.
type TransactionResult struct {
	DidSucceed    bool
	InputErrors   []InputError
	TransactionID string
}

// APIError is returned when the endpoint answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wave API error (status %d): %s", e.StatusCode, e.Body)
}

// GraphQLError is returned when a 2xx response carries top-level errors.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "wave GraphQL error: " + strings.Join(e.Messages, "; ")
}

// wire shapes

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type businessesData struct {
	Businesses struct {
		PageInfo struct {
			CurrentPage int `json:"currentPage"`
			TotalPages  int `json:"totalPages"`
			TotalCount  int `json:"totalCount"`
		} `json:"pageInfo"`
		Edges []struct {
			Node struct {
				ID       string `json:"id"`
				Name     string `json:"name"`
				Accounts struct {
					Edges []struct {
						Node Account `json:"node"`
					} `json:"edges"`
				} `json:"accounts"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"businesses"`
}

type moneyTransactionCreateData struct {
	MoneyTransactionCreate struct {
		DidSucceed  bool         `json:"didSucceed"`
		InputErrors []InputError `json:"inputErrors"`
		Transaction *struct {
			ID string `json:"id"`
		} `json:"transaction"`
	} `json:"moneyTransactionCreate"`
}
