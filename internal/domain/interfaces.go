package domain

import "context"

// MarketDataProvider is the read-only capability the pipeline needs from an exchange.
type MarketDataProvider interface {
	Name() string
	ListMarkets(ctx context.Context) ([]Market, error)
	// GetDailyCandles returns up to limit most recent daily candles, oldest first.
	GetDailyCandles(ctx context.Context, symbol string, limit int) ([]Candle, error)
}

// MaxCandleLimit is the largest daily window a single provider request returns.
const MaxCandleLimit = 1000

// Candle is one daily OHLCV observation. Time is in unix seconds.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// ReportWriter emits a finished report to some destination.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) error
}
