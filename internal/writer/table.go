package writer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

const dateLayout = "2006-01-02"

var columns = []string{
	"Date", "Date User", "ID", "Type", "Category", "Amount", "Currency",
	"Payee", "Memo", "Check No", "Ref Num", "Account To",
}

// amountColumn is the index of "Amount" in columns and in every row.
var amountColumn = columnIndex("Amount")

func columnIndex(name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func row(txn models.Transaction) []string {
	accountTo := ""
	if txn.AccountTo != nil {
		accountTo = txn.AccountTo.AccountNumber
	}
	return []string{
		formatDate(&txn.Date),
		formatDate(txn.DateUser),
		txn.ID,
		txn.Category.OFXType(),
		string(txn.Category),
		txn.Amount.StringFixed(2),
		txn.Currency,
		txn.Payee,
		txn.Memo,
		txn.CheckNo,
		txn.RefNum,
		accountTo,
	}
}

// metadata returns the non-empty statement fields as key/value pairs.
func metadata(stmt *models.Statement) [][]string {
	var out [][]string
	add := func(key, value string) {
		if value != "" {
			out = append(out, []string{key, value})
		}
	}
	add("# Bank", stmt.Bank)
	add("# Account", stmt.AccountID)
	add("# Currency", stmt.Currency)
	if stmt.StartDate != nil || stmt.EndDate != nil {
		add("# Period", formatDate(stmt.StartDate)+" to "+formatDate(stmt.EndDate))
	}
	add("# Start Balance", formatBalance(stmt.StartBalance))
	add("# End Balance", formatBalance(stmt.EndBalance))
	return out
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatBalance(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
