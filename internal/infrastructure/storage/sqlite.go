package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/crypto_volatility/internal/domain"
)

// SQLiteStore archives finished reports.
type SQLiteStore struct {
	db *sql.DB
}

// ReportRun is one archived report header.
type ReportRun struct {
	ID           int64
	Exchange     string
	FiatCurrency string
	Days         int
	GeneratedAt  time.Time
	RowCount     int
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			exchange TEXT NOT NULL,
			fiat_currency TEXT NOT NULL,
			days INTEGER NOT NULL,
			generated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS report_rows (
			run_id INTEGER NOT NULL REFERENCES report_runs(id),
			position INTEGER NOT NULL,
			base TEXT NOT NULL,
			quote TEXT NOT NULL,
			daily_volatility REAL NOT NULL,
			last_price REAL NOT NULL,
			average_volume REAL NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_report_rows_base ON report_rows(base, quote);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

// SaveReport stores the header and all rows in one transaction and returns the run id.
func (s *SQLiteStore) SaveReport(ctx context.Context, report *domain.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO report_runs (exchange, fiat_currency, days, generated_at) VALUES (?, ?, ?, ?)`,
		report.Exchange, report.FiatCurrency, report.Days, report.GeneratedAt)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO report_rows (run_id, position, base, quote, daily_volatility, last_price, average_volume)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, r := range report.Rows {
		if _, err := stmt.ExecContext(ctx, runID, i, r.Base, r.Quote, r.DailyVolatility, r.LastPrice, r.AverageVolume); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*ReportRun, error) {
	query := `SELECT r.id, r.exchange, r.fiat_currency, r.days, r.generated_at, COUNT(w.run_id)
			  FROM report_runs r LEFT JOIN report_rows w ON w.run_id = r.id
			  GROUP BY r.id ORDER BY r.id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*ReportRun
	for rows.Next() {
		var r ReportRun
		if err := rows.Scan(&r.ID, &r.Exchange, &r.FiatCurrency, &r.Days, &r.GeneratedAt, &r.RowCount); err != nil {
			return nil, err
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// ListRows returns the rows of one run in report order. Close prices are not archived.
func (s *SQLiteStore) ListRows(ctx context.Context, runID int64) ([]domain.ReportRow, error) {
	query := `SELECT base, quote, daily_volatility, last_price, average_volume
			  FROM report_rows WHERE run_id = ? ORDER BY position`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReportRow
	for rows.Next() {
		var r domain.ReportRow
		if err := rows.Scan(&r.Base, &r.Quote, &r.DailyVolatility, &r.LastPrice, &r.AverageVolume); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ArchiveWriter appends each report to a SQLite database file.
type ArchiveWriter struct {
	path string
}

func NewArchiveWriter(path string) *ArchiveWriter {
	return &ArchiveWriter{path: path}
}

func (w *ArchiveWriter) Write(ctx context.Context, report *domain.Report) error {
	store, err := NewSQLiteStore(w.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrOutputWrite, w.path, err)
	}
	defer store.Close()

	if _, err := store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("%w: archive %s: %v", domain.ErrOutputWrite, w.path, err)
	}
	return nil
}
