package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement holds the metadata and transactions of one parsed export.
type Statement struct {
	Bank         string           `json:"bank,omitempty"`
	AccountID    string           `json:"accountId,omitempty"`
	Currency     string           `json:"currency"`
	StartDate    *time.Time       `json:"startDate,omitempty"`
	EndDate      *time.Time       `json:"endDate,omitempty"`
	StartBalance *decimal.Decimal `json:"startBalance,omitempty"`
	EndBalance   *decimal.Decimal `json:"endBalance,omitempty"`
	Transactions []Transaction    `json:"transactions"`
	Accounts     []*BankAccount   `json:"accounts,omitempty"`
}

// NewStatement returns an empty statement in the given currency.
func NewStatement(currency string) *Statement {
	return &Statement{
		Currency:     currency,
		Transactions: []Transaction{},
	}
}

// SetAccountID records the owning account. Only the first non-empty id sticks.
func (s *Statement) SetAccountID(id string) bool {
	if id == "" || s.AccountID != "" {
		return false
	}
	s.AccountID = id
	return true
}

// Totals returns the sum of outflows (as a positive number) and inflows.
func (s *Statement) Totals() (debit, credit decimal.Decimal) {
	for _, txn := range s.Transactions {
		if txn.IsDebit() {
			debit = debit.Add(txn.Amount.Neg())
		} else {
			credit = credit.Add(txn.Amount)
		}
	}
	return debit, credit
}

// Net returns the signed sum of all transaction amounts.
func (s *Statement) Net() decimal.Decimal {
	net := decimal.Zero
	for _, txn := range s.Transactions {
		net = net.Add(txn.Amount)
	}
	return net
}
