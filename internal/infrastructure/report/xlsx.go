package report

import (
	"context"
	"fmt"

	"github.com/vitos/crypto_volatility/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the report table.
const SheetName = "volatility"

// XLSXWriter saves the report as a single-sheet workbook.
type XLSXWriter struct {
	path string
}

func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

func (w *XLSXWriter) Path() string { return w.path }

func (w *XLSXWriter) Write(ctx context.Context, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("%w: xlsx sheet: %v", domain.ErrOutputWrite, err)
	}

	header := make([]interface{}, len(domain.ReportColumns))
	for i, c := range domain.ReportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("%w: xlsx header: %v", domain.ErrOutputWrite, err)
	}

	for i, r := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: xlsx row %d: %v", domain.ErrOutputWrite, i, err)
		}
		values := []interface{}{r.Base, r.Quote, r.DailyVolatility, r.LastPrice, r.AverageVolume}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("%w: xlsx row %d: %v", domain.ErrOutputWrite, i, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("%w: save %s: %v", domain.ErrOutputWrite, w.path, err)
	}
	return nil
}
