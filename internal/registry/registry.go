// Package registry keeps one BankAccount per account number for a single parse run.
package registry

import (
	"strings"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// Registry is owned by one parse run and is not safe for concurrent use.
type Registry struct {
	byNumber map[string]*models.BankAccount
	order    []*models.BankAccount
	primary  *models.BankAccount
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byNumber: make(map[string]*models.BankAccount)}
}

// GetOrCreate returns the account registered under number, creating it on
// first sight. Later calls never modify the stored account. An empty number
// returns nil.
func (r *Registry) GetOrCreate(number, bankName, branch string) *models.BankAccount {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil
	}
	if acct, ok := r.byNumber[number]; ok {
		return acct
	}
	acct := &models.BankAccount{
		BankName:      strings.TrimSpace(bankName),
		AccountNumber: number,
		BranchCode:    strings.TrimSpace(branch),
	}
	r.byNumber[number] = acct
	r.order = append(r.order, acct)
	return acct
}

// SetPrimary registers the statement owner's account. Only the first call
// takes effect; later calls return the existing primary.
func (r *Registry) SetPrimary(number, bankName, branch string) *models.BankAccount {
	if r.primary != nil {
		return r.primary
	}
	r.primary = r.GetOrCreate(number, bankName, branch)
	return r.primary
}

// Primary returns the owner's account, or nil if none was registered.
func (r *Registry) Primary() *models.BankAccount {
	return r.primary
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	return len(r.order)
}

// Accounts returns the registered accounts, primary first, then in
// registration order.
func (r *Registry) Accounts() []*models.BankAccount {
	out := make([]*models.BankAccount, 0, len(r.order))
	if r.primary != nil {
		out = append(out, r.primary)
	}
	for _, acct := range r.order {
		if acct != r.primary {
			out = append(out, acct)
		}
	}
	return out
}
