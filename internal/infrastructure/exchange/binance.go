package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vitos/crypto_volatility/internal/domain"
)

const (
	BinanceBaseURL = "https://api.binance.com"

	binanceDailyInterval = "1d"
	binanceStatusTrading = "TRADING"
)

// BinanceAdapter reads the public spot REST endpoints.
type BinanceAdapter struct {
	rest *restClient
}

func NewBinanceAdapter(opts Options) *BinanceAdapter {
	return &BinanceAdapter{rest: newRestClient("binance", BinanceBaseURL, opts)}
}

func (b *BinanceAdapter) Name() string { return "binance" }

func (b *BinanceAdapter) ListMarkets(ctx context.Context) ([]domain.Market, error) {
	var result struct {
		Symbols []struct {
			Symbol     string `json:"symbol"`
			Status     string `json:"status"`
			BaseAsset  string `json:"baseAsset"`
			QuoteAsset string `json:"quoteAsset"`
		} `json:"symbols"`
	}

	if err := b.rest.getJSON(ctx, "/api/v3/exchangeInfo", nil, &result); err != nil {
		return nil, err
	}

	markets := make([]domain.Market, 0, len(result.Symbols))
	for _, s := range result.Symbols {
		if s.Status != binanceStatusTrading {
			continue
		}
		markets = append(markets, domain.Market{
			Symbol: s.Symbol,
			Base:   s.BaseAsset,
			Quote:  s.QuoteAsset,
			Status: s.Status,
		})
	}
	return markets, nil
}

// GetDailyCandles returns klines in the order Binance serves them, which is oldest first.
func (b *BinanceAdapter) GetDailyCandles(ctx context.Context, symbol string, limit int) ([]domain.Candle, error) {
	var rows [][]json.RawMessage

	query := url.Values{
		"symbol":   {symbol},
		"interval": {binanceDailyInterval},
		"limit":    {strconv.Itoa(clampLimit(limit))},
	}
	if err := b.rest.getJSON(ctx, "/api/v3/klines", query, &rows); err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		// [openTime, open, high, low, close, volume, closeTime, ...]
		if len(row) < 6 {
			return nil, fmt.Errorf("%w: binance kline %s: row has %d fields, want at least 6", domain.ErrProviderRequest, symbol, len(row))
		}
		c, err := parseBinanceKline(row)
		if err != nil {
			return nil, fmt.Errorf("%w: binance kline %s: %v", domain.ErrProviderRequest, symbol, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseBinanceKline(row []json.RawMessage) (domain.Candle, error) {
	var openTime int64
	if err := json.Unmarshal(row[0], &openTime); err != nil {
		return domain.Candle{}, fmt.Errorf("open time: %w", err)
	}

	fields := make([]string, 6)
	fields[0] = strconv.FormatInt(openTime/1000, 10)
	for i := 1; i < 6; i++ {
		if err := json.Unmarshal(row[i], &fields[i]); err != nil {
			return domain.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
	}
	return parseStringCandle(fields)
}
