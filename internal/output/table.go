// Package output provides tabular and VCF export formatters.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/hammerlab/gocohorts/internal/cohort"
)

// TableWriter writes a cohort table in tab-delimited format.
type TableWriter struct {
	w *bufio.Writer
}

// NewTableWriter creates a new tab-delimited table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{w: bufio.NewWriter(w)}
}

// Write writes the header row followed by one row per patient.
func (tw *TableWriter) Write(t *cohort.Table) error {
	if _, err := tw.w.WriteString(strings.Join(t.Columns, "\t") + "\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := tw.w.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TableWriter) Flush() error {
	return tw.w.Flush()
}
