// Package classify maps bank transaction type codes to categories.
package classify

import (
	"strings"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// MatchMode selects how a rule compares codes.
type MatchMode int

const (
	Exact MatchMode = iota
	Contains
)

// Rule assigns Category to any code matching one of Codes.
type Rule struct {
	Codes        []string
	Match        MatchMode
	Category     models.Category
	CardPurchase bool
}

func (r Rule) matches(code string) bool {
	for _, c := range r.Codes {
		switch r.Match {
		case Contains:
			if strings.Contains(code, c) {
				return true
			}
		default:
			if code == c {
				return true
			}
		}
	}
	return false
}

// Result is the outcome of classifying a code.
type Result struct {
	Category     models.Category
	CardPurchase bool
}

// Table is an ordered rule list. The first matching rule wins.
type Table struct {
	Rules []Rule
}

// Classify returns the category for code. Codes no rule knows fall back to
// debit or deposit by direction.
func (t Table) Classify(code string, debit bool) Result {
	code = strings.TrimSpace(code)
	if code != "" {
		for _, r := range t.Rules {
			if r.matches(code) {
				return Result{Category: r.Category, CardPurchase: r.CardPurchase}
			}
		}
	}
	if debit {
		return Result{Category: models.CategoryDebit}
	}
	return Result{Category: models.CategoryDeposit}
}

var (
	Swedbank = Table{Rules: []Rule{
		{Codes: []string{"KOM"}, Category: models.CategoryServiceCharge},
	}}

	SEB = Table{Rules: []Rule{
		{Codes: []string{"PMNTCCRDCWDL"}, Match: Contains, Category: models.CategoryATMWithdrawal},
		{Codes: []string{"ACMTMDOPFEES"}, Match: Contains, Category: models.CategoryServiceCharge},
		{Codes: []string{"LDASCSLNINTR"}, Match: Contains, Category: models.CategoryInterest},
		{Codes: []string{"PMNTCCRDOTHR"}, Match: Contains, Category: models.CategoryPayment, CardPurchase: true},
		{Codes: []string{"PMNTRCDTESCT", "PMNTICDTESCT"}, Match: Contains, Category: models.CategoryTransfer},
	}}

	Citadele = Table{Rules: []Rule{
		{Codes: []string{"CHOU"}, Category: models.CategoryATMWithdrawal},
		{Codes: []string{"MEMD"}, Category: models.CategoryServiceCharge},
		{Codes: []string{"OUTP"}, Category: models.CategoryPayment},
		{Codes: []string{"INP"}, Category: models.CategoryTransfer},
	}}

	// Fidavista is the FiDAViSta table Swedbank shares with Citadele.
	Fidavista = Citadele

	DNB = Table{Rules: []Rule{
		{Codes: []string{"MEMD"}, Category: models.CategoryServiceCharge},
		{Codes: []string{"OUTP"}, Category: models.CategoryPayment},
	}}
)
