package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

const (
	transactionsSheet = "Transactions"
	statementSheet    = "Statement"
)

// XLSXWriter writes a statement as a workbook with a Transactions sheet and,
// optionally, a Statement sheet holding the metadata.
type XLSXWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the workbook to path.
func (w *XLSXWriter) WriteToFile(path string, stmt *models.Statement) error {
	f, err := w.build(stmt)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

// Write writes the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, stmt *models.Statement) error {
	f, err := w.build(stmt)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) build(stmt *models.Statement) (*excelize.File, error) {
	f := excelize.NewFile()

	// NewFile starts with "Sheet1".
	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, transactionsSheet, 1, columns); err != nil {
		f.Close()
		return nil, err
	}
	for i, txn := range stmt.Transactions {
		cells := row(txn)
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		// Amount as a number so spreadsheets can sum it.
		if amountColumn >= 0 {
			values[amountColumn] = txn.Amount.InexactFloat64()
		}
		if err := setRow(f, transactionsSheet, i+2, values); err != nil {
			f.Close()
			return nil, err
		}
	}

	if w.IncludeHeader {
		if _, err := f.NewSheet(statementSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		for i, kv := range metadata(stmt) {
			if err := writeRow(f, statementSheet, i+1, kv); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return setRow(f, sheet, rowNum, values)
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}
