package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/registry"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

const swedbankCSV = `"Klienta konts";"Ieraksta tips";"Datums";"Saņēmējs/Maksātājs";"Informācija saņēmējam";"Summa";"Valūta";"Debets/Kredīts";"Arhīva kods";"Maksājuma veids";"Refernces numurs";"Dokumenta numurs";
"LV80HABA0001234567890";"10";"01.05.2021";"";"Sākuma atlikums";"1000,00";"EUR";"K";"";"AS";"";"";
"LV80HABA0001234567890";"20";"03.05.2021";"";"PIRKUMS 123 2021.05.01 RIMI RIGA (456)";"12,34";"EUR";"D";"2021050300001";"CTX";"";"";
"LV80HABA0001234567890";"20";"04.05.2021";"SIA Darbs";"Alga";"1500,00";"EUR";"K";"2021050400002";"INB";"";"";
"LV80HABA0001234567890";"20";"05.05.2021";"";"Konta apkalpošanas komisija";"1,50";"EUR";"D";"2021050500003";"KOM";"";"";
"LV80HABA0001234567890";"10";"05.05.2021";"";"Sākuma atlikums";"9999,00";"EUR";"K";"";"AS";"";"";
"LV80HABA0001234567890";"82";"31.05.2021";"";"Apgrozījums";"1513,84";"EUR";"D";"";"DT";"";"";
"LV80HABA0001234567890";"86";"31.05.2021";"";"Beigu atlikums";"2486,16";"EUR";"K";"";"LS";"";"";
`

func TestSwedbankParser_Parse(t *testing.T) {
	stmt := models.NewStatement("EUR")
	accounts := registry.New()
	p := NewSwedbankParser(stmt, accounts)

	src, err := p.Split(strings.NewReader(swedbankCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txns := parseAll(t, p, src)

	if stmt.AccountID != "LV80HABA0001234567890" {
		t.Errorf("account id: got %q, want %q", stmt.AccountID, "LV80HABA0001234567890")
	}
	if accounts.Primary() == nil || accounts.Primary().AccountNumber != stmt.AccountID {
		t.Errorf("primary account not registered: %+v", accounts.Primary())
	}

	if len(txns) != 3 {
		t.Fatalf("transactions: got %d, want 3", len(txns))
	}

	// Card purchase
	txn := txns[0]
	if !txn.Amount.Equal(dec("-12.34")) {
		t.Errorf("txn[0].Amount: got %s, want -12.34", txn.Amount)
	}
	if txn.Category != models.CategoryDebit {
		t.Errorf("txn[0].Category: got %q, want %q", txn.Category, models.CategoryDebit)
	}
	if txn.DateUser == nil || !txn.DateUser.Equal(time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("txn[0].DateUser: got %v, want 2021-05-01", txn.DateUser)
	}
	if txn.CheckNo != "456" {
		t.Errorf("txn[0].CheckNo: got %q, want %q", txn.CheckNo, "456")
	}
	if txn.ID != "2021050300001" {
		t.Errorf("txn[0].ID: got %q", txn.ID)
	}
	if !txn.Date.Equal(time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("txn[0].Date: got %v", txn.Date)
	}

	// Salary
	txn = txns[1]
	if !txn.Amount.Equal(dec("1500")) || txn.Category != models.CategoryDeposit {
		t.Errorf("txn[1]: got %s %q, want 1500 deposit", txn.Amount, txn.Category)
	}
	if txn.Payee != "SIA Darbs" || txn.Memo != "Alga" {
		t.Errorf("txn[1]: payee %q memo %q", txn.Payee, txn.Memo)
	}
	if txn.DateUser != nil {
		t.Errorf("txn[1].DateUser: got %v, want nil", txn.DateUser)
	}

	// Fee
	txn = txns[2]
	if txn.Category != models.CategoryServiceCharge || !txn.Amount.Equal(dec("-1.5")) {
		t.Errorf("txn[2]: got %s %q, want -1.50 service_charge", txn.Amount, txn.Category)
	}

	// Only the first opening balance counts.
	if stmt.StartBalance == nil || !stmt.StartBalance.Equal(dec("1000")) {
		t.Errorf("start balance: got %v, want 1000", stmt.StartBalance)
	}
	if stmt.StartDate == nil || stmt.StartDate.Day() != 1 {
		t.Errorf("start date: got %v, want 2021-05-01", stmt.StartDate)
	}
	if stmt.EndBalance == nil || !stmt.EndBalance.Equal(dec("2486.16")) {
		t.Errorf("end balance: got %v, want 2486.16", stmt.EndBalance)
	}
	if stmt.EndDate == nil || stmt.EndDate.Day() != 31 {
		t.Errorf("end date: got %v, want 2021-05-31", stmt.EndDate)
	}
}

func TestSwedbankParser_LegacyCurrency(t *testing.T) {
	stmt := models.NewStatement("EUR")
	p := NewSwedbankParser(stmt, registry.New())

	txn, err := p.ParseRecord(source.Record{Line: 2, Fields: strings.Split(
		"LV01;20;03.05.2013;;Pārskaitījums;10,00;LVL;D;1;MB", ";")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !txn.Amount.Equal(dec("-14.23")) {
		t.Errorf("amount: got %s, want -14.23", txn.Amount)
	}
	if txn.Currency != "EUR" {
		t.Errorf("currency: got %q, want EUR", txn.Currency)
	}
}

func TestSwedbankParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr error
	}{
		{"short transaction row", "LV01;20;03.05.2021;;memo;1,00", models.ErrMalformedRecord},
		{"row shorter than amount", "LV01;20;03.05.2021", models.ErrMalformedRecord},
		{"bad date", "LV01;20;2021-05-03;;memo;1,00;EUR;D;1;MB", models.ErrMissingField},
		{"blank amount", "LV01;20;03.05.2021;;memo;;EUR;D;1;MB", models.ErrMissingField},
		{"bad balance", "LV01;86;31.05.2021;;;abc", models.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSwedbankParser(models.NewStatement("EUR"), registry.New())
			_, err := p.ParseRecord(source.Record{Line: 5, Fields: strings.Split(tt.row, ";")})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSwedbankParser_IgnoresOtherLineTypes(t *testing.T) {
	p := NewSwedbankParser(models.NewStatement("EUR"), registry.New())
	txn, err := p.ParseRecord(source.Record{Line: 3, Fields: strings.Split("LV01;82;31.05.2021;;;1,00", ";")})
	if err != nil || txn != nil {
		t.Errorf("got %v, %v; want nil, nil", txn, err)
	}
}
