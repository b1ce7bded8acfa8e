package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/statement"
	"github.com/insightdelivered/statement-normalizer/internal/writer"
)

var (
	bankFlag   string
	outputFlag string
	asFlag     string
	noHeader   bool
)

// statementWriter is implemented by every output writer.
type statementWriter interface {
	Write(out io.Writer, stmt *models.Statement) error
	WriteToFile(path string, stmt *models.Statement) error
}

var convertCmd = &cobra.Command{
	Use:   "convert --bank <format> <export> [export2 ...]",
	Short: "Convert bank exports into normalized statements",
	Long: `Convert parses each export with the selected bank format and writes the
normalized statement next to the input, or to --output.

Examples:
  # Swedbank CSV to CSV
  statement-normalizer convert --bank=swedbank konts.csv

  # Citadele XML to a spreadsheet
  statement-normalizer convert --bank=citadele --as=xlsx izraksts.xml

  # SEB export as JSON on stdout
  statement-normalizer convert --bank=seb --as=json --output=- seb.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := models.ParseFormat(bankFlag)
		if err != nil {
			return err
		}
		w, ext, err := newWriter(asFlag, !noHeader)
		if err != nil {
			return err
		}
		if outputFlag != "" && len(args) > 1 {
			return errors.New("--output can only be used with a single input file")
		}

		progress := cmd.OutOrStdout()
		if outputFlag == "-" {
			progress = cmd.ErrOrStderr()
		}

		for _, inputPath := range args {
			out := outputFlag
			if out == "" {
				out = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext
			}
			if err := convertFile(cmd, progress, inputPath, format, w, out); err != nil {
				return fmt.Errorf("error processing %s: %w", inputPath, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&bankFlag, "bank", "b", "", "Bank format: swedbank, swedbank-fidavista, seb, dnb, citadele")
	convertCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output path, or - for stdout (defaults to the input name with a new extension)")
	convertCmd.Flags().StringVar(&asFlag, "as", "csv", "Output format: csv, xlsx or json")
	convertCmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit statement metadata from the output")
	convertCmd.MarkFlagRequired("bank")
}

func newWriter(kind string, includeHeader bool) (statementWriter, string, error) {
	switch strings.ToLower(kind) {
	case "csv":
		return &writer.CSVWriter{IncludeHeader: includeHeader}, ".csv", nil
	case "xlsx":
		return &writer.XLSXWriter{IncludeHeader: includeHeader}, ".xlsx", nil
	case "json":
		return &writer.JSONWriter{Indent: true}, ".json", nil
	}
	return nil, "", fmt.Errorf("unknown output format %q (want csv, xlsx or json)", kind)
}

func convertFile(cmd *cobra.Command, progress io.Writer, inputPath string, format models.Format, w statementWriter, outPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("input file not found: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(progress, "Processing: %s\n", inputPath)

	a := statement.New(cfg.For(format), statement.WithLogger(log))
	res, err := a.Run(cmd.Context(), format, f)
	if err != nil {
		return err
	}
	stmt := res.Statement

	fmt.Fprintf(progress, "  Found %d transaction(s)\n", len(stmt.Transactions))
	if res.Skipped > 0 {
		fmt.Fprintf(progress, "  Skipped %d malformed row(s)\n", res.Skipped)
	}
	if len(stmt.Transactions) == 0 {
		fmt.Fprintln(progress, "  Warning: No transactions found. Check that --bank matches the export.")
	}

	if outPath == "-" {
		if err := w.Write(cmd.OutOrStdout(), stmt); err != nil {
			return err
		}
	} else {
		if err := w.WriteToFile(outPath, stmt); err != nil {
			return err
		}
		fmt.Fprintf(progress, "  Output: %s\n", outPath)
	}

	if stmt.AccountID != "" {
		fmt.Fprintf(progress, "  Account: %s (%s)\n", stmt.AccountID, stmt.Currency)
	}
	if stmt.StartDate != nil && stmt.EndDate != nil {
		fmt.Fprintf(progress, "  Period: %s to %s\n", stmt.StartDate.Format("2006-01-02"), stmt.EndDate.Format("2006-01-02"))
	}
	debit, credit := stmt.Totals()
	fmt.Fprintf(progress, "  Debits: %s  Credits: %s\n", debit.StringFixed(2), credit.StringFixed(2))

	fmt.Fprintln(progress, "  Done.")
	return nil
}
