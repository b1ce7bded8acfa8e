package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// JSONWriter writes the whole statement as a JSON document.
type JSONWriter struct {
	Indent bool
}

// WriteToFile writes the statement as JSON to the given path.
func (w *JSONWriter) WriteToFile(path string, stmt *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, stmt); err != nil {
		return err
	}
	return f.Close()
}

// Write writes the statement as JSON to out.
func (w *JSONWriter) Write(out io.Writer, stmt *models.Statement) error {
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(stmt); err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}
	return nil
}
