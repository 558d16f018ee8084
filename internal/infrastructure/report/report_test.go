package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/crypto_volatility/internal/domain"
	"github.com/vitos/crypto_volatility/internal/infrastructure/storage"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Exchange:     "bybit",
		FiatCurrency: "USD",
		Days:         4,
		GeneratedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Rows: []domain.ReportRow{
			{MarketRow: domain.MarketRow{Base: "BTC", Quote: "USD", LastPrice: 100, AverageVolume: 25, ClosePrices: []float64{100, 102, 98, 100}}, DailyVolatility: 1.5},
			{MarketRow: domain.MarketRow{Base: "ETH", Quote: "USD", LastPrice: 7, AverageVolume: 4.5, ClosePrices: []float64{5, 6, 7}}, DailyVolatility: 0.25},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, NewCSVWriter(path).Write(context.Background(), sampleReport()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"base", "quote", "daily_volatility", "last_price", "average_volume"},
		{"BTC", "USD", "1.5", "100", "25"},
		{"ETH", "USD", "0.25", "7", "4.5"},
	}, records)
}

func TestCSVWriter_TruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o644))

	require.NoError(t, NewCSVWriter(path).Write(context.Background(), sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestCSVWriter_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")

	err := NewCSVWriter(path).Write(context.Background(), sampleReport())
	require.ErrorIs(t, err, domain.ErrOutputWrite)
}

func TestCSVWriter_FailedWriteLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes the final rename fail.
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("previous"), 0o644))

	err := NewCSVWriter(path).Write(context.Background(), sampleReport())
	require.ErrorIs(t, err, domain.ErrOutputWrite)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(path, "keep"))
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, os.ErrClosed }

func TestWriteCSV_PropagatesWriterError(t *testing.T) {
	err := writeCSV(failingWriter{}, sampleReport())
	require.ErrorIs(t, err, os.ErrClosed)
}

func TestXLSXWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, NewXLSXWriter(path).Write(context.Background(), sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.ReportColumns, rows[0])
	assert.Equal(t, []string{"BTC", "USD"}, rows[1][:2])
	assert.Equal(t, "100", rows[1][3])
	assert.Equal(t, "ETH", rows[2][0])
}

func TestXLSXWriter_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.xlsx")

	err := NewXLSXWriter(path).Write(context.Background(), sampleReport())
	require.ErrorIs(t, err, domain.ErrOutputWrite)
}

func TestConsoleWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleWriter(&buf).Write(context.Background(), sampleReport()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, domain.ReportColumns, strings.Fields(lines[0]))
	assert.Equal(t, []string{"BTC", "USD", "1.5", "100", "25"}, strings.Fields(lines[1]))
	assert.NotContains(t, buf.String(), "102", "close prices are not rendered")
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"console", "CSV", " xlsx ", "sqlite"} {
		_, err := ParseMode(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseMode("pdf")
	require.ErrorIs(t, err, domain.ErrUnsupportedOutput)
}

func TestNewWriter(t *testing.T) {
	w, err := NewWriter(ModeConsole, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleWriter{}, w)

	w, err = NewWriter(ModeCSV, "", nil)
	require.NoError(t, err)
	require.IsType(t, &CSVWriter{}, w)
	assert.Equal(t, "volatility_output.csv", w.(*CSVWriter).Path())

	w, err = NewWriter(ModeXLSX, "custom.xlsx", nil)
	require.NoError(t, err)
	require.IsType(t, &XLSXWriter{}, w)
	assert.Equal(t, "custom.xlsx", w.(*XLSXWriter).Path())

	w, err = NewWriter(ModeSQLite, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.ArchiveWriter{}, w)

	_, err = NewWriter(Mode("pdf"), "", nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedOutput)
}
