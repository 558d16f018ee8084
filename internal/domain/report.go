package domain

import "time"

// Config is the validated run configuration. It is not modified after loading.
type Config struct {
	ExchangeName string `yaml:"exchange_name" validate:"required"`
	FiatCurrency string `yaml:"fiat_currency" validate:"required"`
	Days         int    `yaml:"days" validate:"gt=0"`
}

type MarketRow struct {
	Base          string
	Quote         string
	LastPrice     float64
	AverageVolume float64
	ClosePrices   []float64 // chronological, len <= Config.Days
}

type ReportRow struct {
	MarketRow
	DailyVolatility float64
}

// Report is the final table handed to writers.
type Report struct {
	Exchange     string
	FiatCurrency string
	Days         int
	GeneratedAt  time.Time
	Rows         []ReportRow
}

// ReportColumns is the projection written by every report sink.
var ReportColumns = []string{"base", "quote", "daily_volatility", "last_price", "average_volume"}
