package parser

import (
	"io"

	"github.com/insightdelivered/statement-normalizer/internal/classify"
	"github.com/insightdelivered/statement-normalizer/internal/codec"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/registry"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

const (
	sebBankName = `AS "SEB banka"`
	sebBranch   = "UNLALV2X"
)

// SEB CSV columns.
const (
	sebDate            = 1
	sebAmount          = 3
	sebPayee           = 4
	sebCounterAccount  = 6
	sebCounterBankName = 7
	sebCounterBankCode = 8
	sebMemo            = 9
	sebReference       = 10
	sebDateUser        = 11
	sebTypeCode        = 12
	sebDebitCredit     = 14
	sebAccount         = 16
	sebCurrency        = 17
	sebMinFields       = 19
	sebHeaderRows      = 2
)

// SEBParser handles the SEB banka ";"-separated export. The first two rows
// are a header and the account line; rows shorter than 19 columns are
// summaries and carry no transaction.
type SEBParser struct {
	stmt     *models.Statement
	accounts *registry.Registry
}

func NewSEBParser(stmt *models.Statement, accounts *registry.Registry) *SEBParser {
	return &SEBParser{stmt: stmt, accounts: accounts}
}

func (p *SEBParser) BankName() string {
	return "SEB"
}

func (p *SEBParser) Split(r io.Reader) (source.Source, error) {
	return source.NewDelimited(r, source.DelimitedSettings{
		Delimiter:  ';',
		Quote:      '"',
		HeaderRows: sebHeaderRows,
		MinFields:  sebMinFields,
	})
}

func (p *SEBParser) ParseRecord(rec source.Record) (*models.Transaction, error) {
	if len(rec.Fields) < sebMinFields {
		return nil, models.Malformed(rec.Line, "got %d fields, want at least %d", len(rec.Fields), sebMinFields)
	}

	date, err := requireDate(rec.Field(sebDate), codec.DateDotted, "date", rec.Line)
	if err != nil {
		return nil, err
	}
	raw, err := requireField(rec, sebAmount, "amount")
	if err != nil {
		return nil, err
	}
	amount, err := requireDecimal(raw, "amount", rec.Line)
	if err != nil {
		return nil, err
	}
	dateUser, err := optionalDate(rec.Field(sebDateUser), codec.DateDotted, "date_user", rec.Line)
	if err != nil {
		return nil, err
	}

	accountID := rec.Field(sebAccount)
	var own *models.BankAccount
	if p.stmt.SetAccountID(accountID) {
		own = p.accounts.SetPrimary(accountID, sebBankName, sebBranch)
	} else if accountID != "" {
		own = p.accounts.GetOrCreate(accountID, sebBankName, sebBranch)
	}

	counterparty := p.accounts.GetOrCreate(
		rec.Field(sebCounterAccount),
		rec.Field(sebCounterBankName),
		rec.Field(sebCounterBankCode),
	)

	amount, code := normalizeAmount(amount, rec.Field(sebCurrency), p.stmt.Currency)
	debit := isDebit(rec.Field(sebDebitCredit))
	result := classify.SEB.Classify(rec.Field(sebTypeCode), debit)

	txn := &models.Transaction{
		ID:        rec.Field(sebReference),
		Date:      date,
		DateUser:  dateUser,
		Amount:    signAmount(amount, debit),
		Currency:  code,
		Memo:      rec.Field(sebMemo),
		Payee:     rec.Field(sebPayee),
		Category:  result.Category,
		RefNum:    rec.Field(sebReference),
		AccountTo: own,
	}
	if debit {
		txn.AccountTo = counterparty
	}
	if result.CardPurchase {
		applyCardPurchase(txn, classify.SEBCardPurchase)
	}

	return txn, nil
}
