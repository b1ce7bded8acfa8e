package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single normalized statement line.
type Transaction struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	DateUser  *time.Time      `json:"dateUser,omitempty"`
	Amount    decimal.Decimal `json:"amount"` // negative = outflow
	Currency  string          `json:"currency"`
	Memo      string          `json:"memo,omitempty"`
	Payee     string          `json:"payee,omitempty"`
	Category  Category        `json:"category"`
	CheckNo   string          `json:"checkNo,omitempty"`
	RefNum    string          `json:"refNum,omitempty"`
	AccountTo *BankAccount    `json:"accountTo,omitempty"`
}

// IsDebit reports whether money left the account.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// BankAccount identifies an account at a bank. AccountNumber is the identity.
type BankAccount struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber"`
	BranchCode    string `json:"branchCode,omitempty"`
}

// Category is the semantic kind of a transaction.
type Category string

const (
	CategoryDeposit       Category = "deposit"
	CategoryDebit         Category = "debit"
	CategoryATMWithdrawal Category = "atm_withdrawal"
	CategoryServiceCharge Category = "service_charge"
	CategoryInterest      Category = "interest"
	CategoryPayment       Category = "payment"
	CategoryTransfer      Category = "transfer"
)

var ofxTypes = map[Category]string{
	CategoryDeposit:       "DEP",
	CategoryDebit:         "DEBIT",
	CategoryATMWithdrawal: "ATM",
	CategoryServiceCharge: "SRVCHG",
	CategoryInterest:      "INT",
	CategoryPayment:       "PAYMENT",
	CategoryTransfer:      "XFER",
}

// OFXType returns the OFX TRNTYPE code for the category, or "OTHER".
func (c Category) OFXType() string {
	if code, ok := ofxTypes[c]; ok {
		return code
	}
	return "OTHER"
}
