package parser

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/classify"
	"github.com/insightdelivered/statement-normalizer/internal/codec"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/registry"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

// Swedbank CSV line types.
const (
	swedbankTransaction  = "20"
	swedbankStartBalance = "10"
	swedbankEndBalance   = "86"
)

// Swedbank CSV columns.
const (
	swbAccount = iota
	swbLineType
	swbDate
	swbPayee
	swbMemo
	swbAmount
	swbCurrency
	swbDebitCredit
	swbID
	swbTypeCode
	swbTransactionFields
)

// SwedbankParser handles the Swedbank ";"-separated account export.
//
// Every row starts with the account number and a line type. Type 20 rows are
// transactions, type 10 carries the opening balance and type 86 the closing
// balance; all other line types are ignored.
type SwedbankParser struct {
	stmt     *models.Statement
	accounts *registry.Registry
}

func NewSwedbankParser(stmt *models.Statement, accounts *registry.Registry) *SwedbankParser {
	return &SwedbankParser{stmt: stmt, accounts: accounts}
}

func (p *SwedbankParser) BankName() string {
	return "Swedbank"
}

func (p *SwedbankParser) Split(r io.Reader) (source.Source, error) {
	return source.NewDelimited(r, source.DelimitedSettings{
		Delimiter:  ';',
		Quote:      '"',
		HeaderRows: 1,
		MinFields:  swbAmount + 1,
	})
}

func (p *SwedbankParser) ParseRecord(rec source.Record) (*models.Transaction, error) {
	if len(rec.Fields) <= swbAmount {
		return nil, models.Malformed(rec.Line, "got %d fields, want at least %d", len(rec.Fields), swbAmount+1)
	}

	if p.stmt.SetAccountID(rec.Field(swbAccount)) {
		p.accounts.SetPrimary(p.stmt.AccountID, p.BankName(), "")
	}

	switch rec.Field(swbLineType) {
	case swedbankTransaction:
		return p.parseTransaction(rec)
	case swedbankStartBalance:
		if p.stmt.StartBalance == nil {
			return nil, p.parseBalance(rec, &p.stmt.StartBalance, &p.stmt.StartDate)
		}
	case swedbankEndBalance:
		return nil, p.parseBalance(rec, &p.stmt.EndBalance, &p.stmt.EndDate)
	}
	return nil, nil
}

func (p *SwedbankParser) parseTransaction(rec source.Record) (*models.Transaction, error) {
	if len(rec.Fields) < swbTransactionFields {
		return nil, models.Malformed(rec.Line, "transaction row has %d fields, want %d", len(rec.Fields), swbTransactionFields)
	}

	date, err := requireDate(rec.Field(swbDate), codec.DateDotted, "date", rec.Line)
	if err != nil {
		return nil, err
	}
	raw, err := requireField(rec, swbAmount, "amount")
	if err != nil {
		return nil, err
	}
	amount, err := requireDecimal(raw, "amount", rec.Line)
	if err != nil {
		return nil, err
	}

	amount, code := normalizeAmount(amount, rec.Field(swbCurrency), p.stmt.Currency)
	debit := isDebit(rec.Field(swbDebitCredit))
	result := classify.Swedbank.Classify(rec.Field(swbTypeCode), debit)

	txn := &models.Transaction{
		ID:       rec.Field(swbID),
		Date:     date,
		Amount:   signAmount(amount, debit),
		Currency: code,
		Memo:     rec.Field(swbMemo),
		Payee:    rec.Field(swbPayee),
		Category: result.Category,
	}
	applyCardPurchase(txn, classify.SwedbankCardPurchase)

	return txn, nil
}

func (p *SwedbankParser) parseBalance(rec source.Record, balance **decimal.Decimal, date **time.Time) error {
	raw, err := requireField(rec, swbAmount, "balance")
	if err != nil {
		return err
	}
	amount, err := requireDecimal(raw, "balance", rec.Line)
	if err != nil {
		return err
	}
	d, err := requireDate(rec.Field(swbDate), codec.DateDotted, "date", rec.Line)
	if err != nil {
		return err
	}
	amount, _ = normalizeAmount(amount, rec.Field(swbCurrency), p.stmt.Currency)
	*balance = &amount
	*date = &d
	return nil
}
