package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vitos/crypto_volatility/internal/config"
	"github.com/vitos/crypto_volatility/internal/infrastructure/exchange"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the configuration file")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Printf("Failed to load settings: %v\n", err)
		os.Exit(1)
	}

	provider, err := exchange.NewRegistry().New(cfg.ExchangeName, exchange.Options{
		BaseURL:           settings.BaseURL,
		Timeout:           settings.RequestTimeout,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Testing %s market data...\n", provider.Name())
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// 2. Market catalog
	markets, err := provider.ListMarkets(ctx)
	if err != nil {
		fmt.Printf("❌ Failed to list markets: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Markets listed: %d\n", len(markets))

	var symbol string
	matched := 0
	for _, m := range markets {
		if m.QuotedIn(cfg.FiatCurrency) {
			if symbol == "" {
				symbol = m.Symbol
			}
			matched++
		}
	}
	if matched == 0 {
		fmt.Printf("❌ No markets quoted in %s\n", cfg.FiatCurrency)
		os.Exit(1)
	}
	fmt.Printf("✅ Markets quoted in %s: %d\n", cfg.FiatCurrency, matched)

	// 3. Daily candles for the first match
	candles, err := provider.GetDailyCandles(ctx, symbol, cfg.Days)
	if err != nil {
		fmt.Printf("❌ Failed to get candles for %s: %v\n", symbol, err)
		os.Exit(1)
	}
	if len(candles) == 0 {
		fmt.Printf("❌ No candles for %s\n", symbol)
		os.Exit(1)
	}
	last := candles[len(candles)-1]
	fmt.Printf("✅ Candles (%s): %d/%d, last close=%f at %s\n",
		symbol, len(candles), cfg.Days, last.Close, time.Unix(last.Time, 0).UTC().Format("2006-01-02"))
}
