package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vitos/crypto_volatility/internal/domain"
)

// CSVWriter writes a comma-separated file with a header row. The report is
// written to a temporary file next to path and renamed into place, so an
// existing file is only replaced by a complete report.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Path() string { return w.path }

func (w *CSVWriter) Write(ctx context.Context, report *domain.Report) error {
	f, err := os.CreateTemp(filepath.Dir(w.path), ".volatility-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrOutputWrite, w.path, err)
	}
	tmp := f.Name()

	if err := writeCSV(f, report); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", domain.ErrOutputWrite, w.path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", domain.ErrOutputWrite, w.path, err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", domain.ErrOutputWrite, w.path, err)
	}
	return nil
}

func writeCSV(out io.Writer, report *domain.Report) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(domain.ReportColumns); err != nil {
		return err
	}
	for _, r := range report.Rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
