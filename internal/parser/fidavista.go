package parser

import (
	"io"

	"github.com/insightdelivered/statement-normalizer/internal/classify"
	"github.com/insightdelivered/statement-normalizer/internal/codec"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/registry"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

// fidavistaParser reads the FiDAViSta XML layout shared by the Latvian banks:
// Statement/AccountSet/CcyStmt/TrxSet.
type fidavistaParser struct {
	bank      string
	stmt      *models.Statement
	accounts  *registry.Registry
	table     classify.Table
	memo      *classify.MemoPattern // applied to every transaction when set
	valueDate bool
	currency  string
}

func (p *fidavistaParser) BankName() string {
	return p.bank
}

func (p *fidavistaParser) Split(r io.Reader) (source.Source, error) {
	src, err := source.NewXML(r, p.stmt, source.XMLSettings{DateLayout: codec.DateISO})
	if err != nil {
		return nil, err
	}
	p.currency = src.Currency()
	if p.stmt.AccountID != "" {
		p.accounts.SetPrimary(p.stmt.AccountID, p.bank, "")
	}
	return src, nil
}

func (p *fidavistaParser) ParseRecord(rec source.Record) (*models.Transaction, error) {
	el := rec.Element
	if el == nil {
		return nil, models.Malformed(rec.Line, "record has no XML element")
	}

	typeCode, err := requireText(el, rec.Line, "TypeCode")
	if err != nil {
		return nil, err
	}
	rawDate, err := requireText(el, rec.Line, "BookDate")
	if err != nil {
		return nil, err
	}
	date, err := requireDate(rawDate, codec.DateISO, "BookDate", rec.Line)
	if err != nil {
		return nil, err
	}
	flag, err := requireText(el, rec.Line, "CorD")
	if err != nil {
		return nil, err
	}
	rawAmount, err := requireText(el, rec.Line, "AccAmt")
	if err != nil {
		return nil, err
	}
	amount, err := requireDecimal(rawAmount, "AccAmt", rec.Line)
	if err != nil {
		return nil, err
	}

	id, _ := el.Text("BankRef")
	memo, _ := el.Text("PmtInfo")
	payee, _ := el.Text("CPartySet", "AccHolder", "Name")

	counterparty := p.counterparty(el)
	amount, code := normalizeAmount(amount, p.currency, p.stmt.Currency)
	debit := isDebit(flag)
	result := p.table.Classify(typeCode, debit)

	txn := &models.Transaction{
		ID:        id,
		Date:      date,
		Amount:    signAmount(amount, debit),
		Currency:  code,
		Memo:      memo,
		Payee:     payee,
		Category:  result.Category,
		RefNum:    id,
		AccountTo: p.accounts.Primary(),
	}

	if p.valueDate {
		raw, _ := el.Text("ValueDate")
		txn.DateUser, err = optionalDate(raw, codec.DateISO, "ValueDate", rec.Line)
		if err != nil {
			return nil, err
		}
	}

	if debit {
		txn.AccountTo = counterparty
	}

	if p.memo != nil {
		applyCardPurchase(txn, *p.memo)
	}

	return txn, nil
}

func (p *fidavistaParser) counterparty(el *source.Element) *models.BankAccount {
	number, _ := el.Text("CPartySet", "AccNo")
	bankName, _ := el.Text("CPartySet", "BankName")
	bankCode, _ := el.Text("CPartySet", "BankCode")
	return p.accounts.GetOrCreate(number, bankName, bankCode)
}

func requireText(el *source.Element, line int, name string) (string, error) {
	text, ok := el.Text(name)
	if !ok || text == "" {
		return "", models.MissingField(name, line, nil)
	}
	return text, nil
}

// CitadeleParser handles Citadele FiDAViSta exports.
type CitadeleParser struct {
	fidavistaParser
}

func NewCitadeleParser(stmt *models.Statement, accounts *registry.Registry) *CitadeleParser {
	return &CitadeleParser{fidavistaParser{
		bank:     "Citadele",
		stmt:     stmt,
		accounts: accounts,
		table:    classify.Citadele,
	}}
}

// SwedbankFidavistaParser handles Swedbank FiDAViSta exports, which add a
// value date per transaction.
type SwedbankFidavistaParser struct {
	fidavistaParser
}

func NewSwedbankFidavistaParser(stmt *models.Statement, accounts *registry.Registry) *SwedbankFidavistaParser {
	return &SwedbankFidavistaParser{fidavistaParser{
		bank:      "Swedbank",
		stmt:      stmt,
		accounts:  accounts,
		table:     classify.Fidavista,
		valueDate: true,
	}}
}

// DNBParser handles DNB FiDAViSta exports. Card purchases carry the purchase
// date in the memo.
type DNBParser struct {
	fidavistaParser
}

func NewDNBParser(stmt *models.Statement, accounts *registry.Registry) *DNBParser {
	return &DNBParser{fidavistaParser{
		bank:     "DNB",
		stmt:     stmt,
		accounts: accounts,
		table:    classify.DNB,
		memo:     &classify.DNBCardPurchase,
	}}
}
