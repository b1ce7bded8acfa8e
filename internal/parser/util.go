package parser

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/classify"
	"github.com/insightdelivered/statement-normalizer/internal/codec"
	"github.com/insightdelivered/statement-normalizer/internal/currency"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

// isDebit reports whether a credit/debit flag marks an outflow.
func isDebit(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "D")
}

// signAmount makes amount negative for debits and positive otherwise.
func signAmount(amount decimal.Decimal, debit bool) decimal.Decimal {
	if debit {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// normalizeAmount converts amount into the statement currency. The row code
// only decides whether the legacy conversion applies; blank codes fall back
// to the statement currency.
func normalizeAmount(amount decimal.Decimal, code, stmtCurrency string) (decimal.Decimal, string) {
	if strings.TrimSpace(code) == "" {
		code = stmtCurrency
	}
	if currency.IsLegacy(code) {
		amount, _ = currency.Normalize(amount, code)
	}
	_, target := currency.Normalize(decimal.Zero, stmtCurrency)
	return amount, target
}

// requireField returns the trimmed field at i or a MissingField error.
func requireField(rec source.Record, i int, name string) (string, error) {
	v := rec.Field(i)
	if v == "" {
		return "", models.MissingField(name, rec.Line, nil)
	}
	return v, nil
}

func requireDecimal(raw, name string, line int) (decimal.Decimal, error) {
	d, err := codec.ParseDecimal(raw)
	if err != nil {
		return decimal.Zero, models.MissingField(name, line, err)
	}
	return d, nil
}

func requireDate(raw, layout, name string, line int) (time.Time, error) {
	t, err := codec.ParseDate(raw, layout)
	if err != nil {
		return time.Time{}, models.MissingField(name, line, err)
	}
	return t, nil
}

func optionalDate(raw, layout, name string, line int) (*time.Time, error) {
	t, err := codec.ParseOptionalDate(raw, layout)
	if err != nil {
		return nil, models.MissingField(name, line, err)
	}
	return t, nil
}

// applyCardPurchase copies what a memo pattern finds onto txn. Values already
// set are kept when the pattern does not provide them.
func applyCardPurchase(txn *models.Transaction, pattern classify.MemoPattern) {
	cp, ok := pattern.Extract(txn.Memo)
	if !ok {
		return
	}
	if cp.Date != nil {
		txn.DateUser = cp.Date
	}
	if cp.CheckNo != "" {
		txn.CheckNo = cp.CheckNo
	}
}
