package source

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/codec"
	"github.com/insightdelivered/statement-normalizer/internal/currency"
	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// Element is a generic XML node. Lookups match local names within the
// element's own namespace, so the document's default namespace never has to
// be known in advance.
type Element struct {
	XMLName  xml.Name
	Content  string     `xml:",chardata"`
	Nodes    []*Element `xml:",any"`
}

// Child returns the first direct child called name.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Nodes {
		if c.XMLName.Local == name && c.XMLName.Space == e.XMLName.Space {
			return c
		}
	}
	return nil
}

// Children returns every direct child called name, in document order.
func (e *Element) Children(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Nodes {
		if c.XMLName.Local == name && c.XMLName.Space == e.XMLName.Space {
			out = append(out, c)
		}
	}
	return out
}

// Find walks a path of child names.
func (e *Element) Find(path ...string) *Element {
	cur := e
	for _, name := range path {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Text returns the trimmed text at path and whether the element exists.
func (e *Element) Text(path ...string) (string, bool) {
	el := e.Find(path...)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Content), true
}

// XMLSettings describes a namespaced XML statement export.
type XMLSettings struct {
	DateLayout string
}

// XML iterates the TrxSet elements of a statement document.
type XML struct {
	records  []*Element
	pos      int
	currency string
}

// NewXML decodes the whole document from r and records the statement-level
// metadata on stmt. Statement, AccountSet and CcyStmt are required.
func NewXML(r io.Reader, stmt *models.Statement, settings XMLSettings) (*XML, error) {
	if settings.DateLayout == "" {
		settings.DateLayout = codec.DateISO
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var root Element
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}

	st := root.Child("Statement")
	if st == nil {
		return nil, models.MissingField("Statement", 0, nil)
	}

	if period := st.Child("Period"); period != nil {
		start, err := optionalDate(period, "StartDate", settings.DateLayout)
		if err != nil {
			return nil, err
		}
		end, err := optionalDate(period, "EndDate", settings.DateLayout)
		if err != nil {
			return nil, err
		}
		stmt.StartDate, stmt.EndDate = start, end
	}

	account := st.Child("AccountSet")
	if account == nil {
		return nil, models.MissingField("AccountSet", 0, nil)
	}
	if accNo, ok := account.Text("AccNo"); ok {
		stmt.SetAccountID(accNo)
	}

	ccyStmt := account.Child("CcyStmt")
	if ccyStmt == nil {
		return nil, models.MissingField("CcyStmt", 0, nil)
	}

	code := stmt.Currency
	if ccy, ok := ccyStmt.Text("Ccy"); ok && ccy != "" {
		code = ccy
		_, stmt.Currency = currency.Normalize(decimal.Zero, ccy)
	}

	open, err := optionalBalance(ccyStmt, "OpenBal", code)
	if err != nil {
		return nil, err
	}
	closing, err := optionalBalance(ccyStmt, "CloseBal", code)
	if err != nil {
		return nil, err
	}
	stmt.StartBalance, stmt.EndBalance = open, closing

	return &XML{records: ccyStmt.Children("TrxSet"), pos: -1, currency: code}, nil
}

func (x *XML) Next() bool {
	if x.pos+1 >= len(x.records) {
		x.pos = len(x.records)
		return false
	}
	x.pos++
	return true
}

func (x *XML) Record() Record {
	if x.pos < 0 || x.pos >= len(x.records) {
		return Record{}
	}
	return Record{Line: x.pos + 1, Element: x.records[x.pos]}
}

func (x *XML) Err() error {
	return nil
}

// Currency returns the document's account currency as written, before any
// legacy conversion. It falls back to the statement currency.
func (x *XML) Currency() string {
	return x.currency
}

func optionalDate(parent *Element, name, layout string) (*time.Time, error) {
	text, _ := parent.Text(name)
	d, err := codec.ParseOptionalDate(text, layout)
	if err != nil {
		return nil, models.MissingField(name, 0, err)
	}
	return d, nil
}

func optionalBalance(parent *Element, name, code string) (*decimal.Decimal, error) {
	text, ok := parent.Text(name)
	if !ok || text == "" {
		return nil, nil
	}
	amount, err := codec.ParseDecimal(text)
	if err != nil {
		return nil, models.MissingField(name, 0, err)
	}
	amount, _ = currency.Normalize(amount, code)
	return &amount, nil
}
