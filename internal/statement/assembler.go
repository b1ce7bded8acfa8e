// Package statement drives a bank parser over an export and assembles the
// resulting Statement.
package statement

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/config"
	"github.com/insightdelivered/statement-normalizer/internal/currency"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/parser"
	"github.com/insightdelivered/statement-normalizer/internal/registry"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Assembler) {
		a.log = log
	}
}

// WithObserver registers fn to be called with every transaction, in order.
func WithObserver(fn func(models.Transaction)) Option {
	return func(a *Assembler) {
		a.observe = fn
	}
}

// Assembler parses exports into statements. Each Assemble call is an
// independent run with its own statement and account registry.
type Assembler struct {
	settings config.Settings
	log      zerolog.Logger
	observe  func(models.Transaction)
}

// New returns an Assembler for the given settings.
func New(settings config.Settings, opts ...Option) *Assembler {
	if settings.Currency == "" {
		settings.Currency = config.DefaultCurrency
	}
	if settings.Charset == "" {
		settings.Charset = config.DefaultCharset
	}
	a := &Assembler{settings: settings, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result carries run details alongside the statement.
type Result struct {
	RunID     string
	Statement *models.Statement
	Skipped   int
}

// Assemble parses r as format and returns the finished statement. Malformed
// records are skipped; any other record error aborts the run.
func (a *Assembler) Assemble(ctx context.Context, format models.Format, r io.Reader) (*models.Statement, error) {
	res, err := a.Run(ctx, format, r)
	if err != nil {
		return nil, err
	}
	return res.Statement, nil
}

// Run is Assemble with run details.
func (a *Assembler) Run(ctx context.Context, format models.Format, r io.Reader) (*Result, error) {
	runID := uuid.NewString()
	log := a.log.With().Str("run_id", runID).Str("format", string(format)).Logger()

	stmt := models.NewStatement(a.settings.Currency)
	accounts := registry.New()

	p, err := parser.New(format, stmt, accounts)
	if err != nil {
		return nil, err
	}

	input := r
	if !format.IsXML() {
		input, err = source.Decode(r, a.settings.Charset)
		if err != nil {
			return nil, err
		}
	}

	src, err := p.Split(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s statement: %w", p.BankName(), err)
	}

	skipped := 0
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := src.Record()
		txn, err := p.ParseRecord(rec)
		if errors.Is(err, models.ErrMalformedRecord) {
			skipped++
			log.Debug().Err(err).Int("line", rec.Line).Msg("skipping record")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s statement: %w", p.BankName(), err)
		}
		if txn == nil {
			continue
		}

		stmt.Transactions = append(stmt.Transactions, *txn)
		log.Debug().
			Int("line", rec.Line).
			Str("id", txn.ID).
			Time("date", txn.Date).
			Str("amount", txn.Amount.StringFixed(2)).
			Str("category", string(txn.Category)).
			Msg("transaction")
		if a.observe != nil {
			a.observe(*txn)
		}
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s statement: %w", p.BankName(), err)
	}
	// Rows too short for the format never reach the parser.
	if counter, ok := src.(interface{ Skipped() int }); ok {
		skipped += counter.Skipped()
	}

	stmt.Bank = p.BankName()
	finalize(stmt, accounts)

	log.Info().
		Str("account", stmt.AccountID).
		Int("transactions", len(stmt.Transactions)).
		Int("skipped", skipped).
		Int("accounts", accounts.Len()).
		Msg("statement assembled")

	return &Result{RunID: runID, Statement: stmt, Skipped: skipped}, nil
}

// finalize fills what the export left out: the period from booking dates and
// one balance from the other.
func finalize(stmt *models.Statement, accounts *registry.Registry) {
	_, stmt.Currency = currency.Normalize(decimal.Zero, stmt.Currency)
	stmt.Accounts = accounts.Accounts()

	if len(stmt.Transactions) > 0 {
		first, last := stmt.Transactions[0].Date, stmt.Transactions[0].Date
		for _, txn := range stmt.Transactions[1:] {
			if txn.Date.Before(first) {
				first = txn.Date
			}
			if txn.Date.After(last) {
				last = txn.Date
			}
		}
		if stmt.StartDate == nil {
			stmt.StartDate = &first
		}
		if stmt.EndDate == nil {
			stmt.EndDate = &last
		}
	}

	net := stmt.Net()
	switch {
	case stmt.StartBalance != nil && stmt.EndBalance == nil:
		end := stmt.StartBalance.Add(net)
		stmt.EndBalance = &end
	case stmt.StartBalance == nil && stmt.EndBalance != nil:
		start := stmt.EndBalance.Sub(net)
		stmt.StartBalance = &start
	}
}
