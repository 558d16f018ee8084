// Package report renders volatility reports to the console, CSV and XLSX files,
// and hands the SQLite archive mode over to the storage package.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vitos/crypto_volatility/internal/domain"
	"github.com/vitos/crypto_volatility/internal/infrastructure/storage"
)

type Mode string

const (
	ModeConsole Mode = "console"
	ModeCSV     Mode = "csv"
	ModeXLSX    Mode = "xlsx"
	ModeSQLite  Mode = "sqlite"
)

var defaultPaths = map[Mode]string{
	ModeCSV:    "volatility_output.csv",
	ModeXLSX:   "volatility_output.xlsx",
	ModeSQLite: "volatility.db",
}

// ParseMode validates an output mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeConsole, ModeCSV, ModeXLSX, ModeSQLite:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (supported: console, csv, xlsx, sqlite)", domain.ErrUnsupportedOutput, s)
}

// DefaultPath is the file used by mode when no path is given. Console has none.
func DefaultPath(m Mode) string {
	return defaultPaths[m]
}

// NewWriter selects the sink for mode. out is only used by console mode and
// defaults to stdout.
func NewWriter(m Mode, path string, out io.Writer) (domain.ReportWriter, error) {
	if path == "" {
		path = DefaultPath(m)
	}
	switch m {
	case ModeConsole:
		if out == nil {
			out = os.Stdout
		}
		return NewConsoleWriter(out), nil
	case ModeCSV:
		return NewCSVWriter(path), nil
	case ModeXLSX:
		return NewXLSXWriter(path), nil
	case ModeSQLite:
		return storage.NewArchiveWriter(path), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedOutput, m)
}

// record projects a row onto domain.ReportColumns; the close series is dropped.
func record(r domain.ReportRow) []string {
	return []string{
		r.Base,
		r.Quote,
		formatFloat(r.DailyVolatility),
		formatFloat(r.LastPrice),
		formatFloat(r.AverageVolume),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
