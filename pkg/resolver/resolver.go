// Package resolver maps human-readable business and account names to
// Wave identifiers.
//
// Only the first page of businesses is inspected and names are matched by
// exact, case-sensitive equality. Duplicate names resolve to the first match.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/wave"
)

const (
	// Page is the only businesses page that is queried.
	Page = 1
	// PageSize is the businesses page size.
	PageSize = 10
)

// Kind names what failed to resolve.
type Kind string

const (
	KindQuery         Kind = "query"
	KindBusiness      Kind = "business"
	KindDebitAccount  Kind = "debit account"
	KindCreditAccount Kind = "credit account"
	KindDummyAccount  Kind = "dummy account"
)

// ErrEmptyID marks a name that matched but came back without an identifier.
var ErrEmptyID = errors.New("matched without an id")

// ResolutionError reports a lookup that must stop the run before any write.
type ResolutionError struct {
	Kind Kind
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Kind == KindQuery {
		return fmt.Sprintf("failed to query businesses: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to resolve %s %q: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("failed to find a %s named %q", e.Kind, e.Name)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// BusinessLister is the accounting read surface the resolver needs.
type BusinessLister interface {
	ListBusinesses(ctx context.Context, page, pageSize int) (wave.BusinessPage, error)
}

// BusinessRef identifies a business.
type BusinessRef struct {
	ID   string
	Name string
}

// AccountRef identifies an account within a business.
type AccountRef struct {
	ID   string
	Name string
}

// Names holds the configured names to resolve.
type Names struct {
	Business string
	Debit    string
	Credit   string
	Dummy    string
}

// Resolution holds every resolved identifier. Dummy.ID is empty when the
// dummy account was optional and not found.
type Resolution struct {
	Business BusinessRef
	Debit    AccountRef
	Credit   AccountRef
	Dummy    AccountRef
}

// ResolveAccounts issues one businesses query and resolves names against it.
// The dummy account is only required when requireDummy is set.
func ResolveAccounts(ctx context.Context, lister BusinessLister, names Names, requireDummy bool) (Resolution, error) {
	page, err := lister.ListBusinesses(ctx, Page, PageSize)
	if err != nil {
		return Resolution{}, &ResolutionError{Kind: KindQuery, Err: err}
	}

	business, ok := findBusiness(page.Businesses, names.Business)
	if !ok {
		return Resolution{}, &ResolutionError{Kind: KindBusiness, Name: names.Business}
	}
	if business.ID == "" {
		return Resolution{}, &ResolutionError{Kind: KindBusiness, Name: names.Business, Err: ErrEmptyID}
	}

	res := Resolution{Business: BusinessRef{ID: business.ID, Name: business.Name}}

	required := []struct {
		kind Kind
		name string
		dst  *AccountRef
	}{
		{KindDebitAccount, names.Debit, &res.Debit},
		{KindCreditAccount, names.Credit, &res.Credit},
	}
	for _, r := range required {
		account, ok := findAccount(business.Accounts, r.name)
		if !ok {
			return Resolution{}, &ResolutionError{Kind: r.kind, Name: r.name}
		}
		if account.ID == "" {
			return Resolution{}, &ResolutionError{Kind: r.kind, Name: r.name, Err: ErrEmptyID}
		}
		*r.dst = AccountRef{ID: account.ID, Name: account.Name}
	}

	// An optional dummy without an id is treated as not found.
	account, ok := findAccount(business.Accounts, names.Dummy)
	switch {
	case ok && account.ID != "":
		res.Dummy = AccountRef{ID: account.ID, Name: account.Name}
	case ok && requireDummy:
		return Resolution{}, &ResolutionError{Kind: KindDummyAccount, Name: names.Dummy, Err: ErrEmptyID}
	case requireDummy:
		return Resolution{}, &ResolutionError{Kind: KindDummyAccount, Name: names.Dummy}
	}

	return res, nil
}

func findBusiness(businesses []wave.Business, name string) (wave.Business, bool) {
	for _, b := range businesses {
		if b.Name == name {
			return b, true
		}
	}
	return wave.Business{}, false
}

func findAccount(accounts []wave.Account, name string) (wave.Account, bool) {
	if name == "" {
		return wave.Account{}, false
	}
	for _, a := range accounts {
		if a.Name == name {
			return a, true
		}
	}
	return wave.Account{}, false
}
