package parser

import (
	"fmt"
	"io"

	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/registry"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

// Parser turns one bank's export into normalized transactions.
type Parser interface {
	// BankName returns the human-readable bank name.
	BankName() string
	// Split opens the export and records any statement-level metadata.
	Split(r io.Reader) (source.Source, error)
	// ParseRecord converts one record. It returns (nil, nil) for records that
	// carry no transaction, such as balance rows.
	ParseRecord(rec source.Record) (*models.Transaction, error)
}

// New returns the parser for format. The parser writes statement metadata to
// stmt and registers counterparty accounts in accounts.
func New(format models.Format, stmt *models.Statement, accounts *registry.Registry) (Parser, error) {
	if stmt == nil || accounts == nil {
		return nil, fmt.Errorf("parser for %q needs a statement and an account registry", format)
	}
	switch format {
	case models.FormatSwedbank:
		return NewSwedbankParser(stmt, accounts), nil
	case models.FormatSwedbankFidavista:
		return NewSwedbankFidavistaParser(stmt, accounts), nil
	case models.FormatSEB:
		return NewSEBParser(stmt, accounts), nil
	case models.FormatDNB:
		return NewDNBParser(stmt, accounts), nil
	case models.FormatCitadele:
		return NewCitadeleParser(stmt, accounts), nil
	default:
		return nil, fmt.Errorf("unsupported bank format: %q", format)
	}
}
