package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vitos/crypto_volatility/internal/domain"
)

// ConsoleWriter prints an aligned table.
type ConsoleWriter struct {
	out io.Writer
}

func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

func (w *ConsoleWriter) Write(ctx context.Context, report *domain.Report) error {
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(domain.ReportColumns, "\t")+"\t")
	for _, r := range report.Rows {
		fmt.Fprintln(tw, strings.Join(record(r), "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: console: %v", domain.ErrOutputWrite, err)
	}
	return nil
}
