package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vitos/crypto_volatility/internal/domain"
)

const (
	BybitBaseURL = "https://api.bybit.com"

	bybitCategory      = "spot"
	bybitDailyInterval = "D"
	bybitStatusTrading = "Trading"
)

// BybitAdapter reads the public V5 spot market endpoints.
type BybitAdapter struct {
	rest *restClient
}

func NewBybitAdapter(opts Options) *BybitAdapter {
	return &BybitAdapter{rest: newRestClient("bybit", BybitBaseURL, opts)}
}

func (b *BybitAdapter) Name() string { return "bybit" }

type bybitEnvelope struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
}

func (e bybitEnvelope) err(op string) error {
	if e.RetCode != 0 {
		return fmt.Errorf("%w: bybit %s error %d: %s", domain.ErrProviderRequest, op, e.RetCode, e.RetMsg)
	}
	return nil
}

func (b *BybitAdapter) ListMarkets(ctx context.Context) ([]domain.Market, error) {
	var result struct {
		bybitEnvelope
		Result struct {
			List []struct {
				Symbol    string `json:"symbol"`
				BaseCoin  string `json:"baseCoin"`
				QuoteCoin string `json:"quoteCoin"`
				Status    string `json:"status"`
			} `json:"list"`
		} `json:"result"`
	}

	query := url.Values{"category": {bybitCategory}}
	if err := b.rest.getJSON(ctx, "/v5/market/instruments-info", query, &result); err != nil {
		return nil, err
	}
	if err := result.err("instruments"); err != nil {
		return nil, err
	}

	markets := make([]domain.Market, 0, len(result.Result.List))
	for _, item := range result.Result.List {
		if item.Status != bybitStatusTrading {
			continue
		}
		markets = append(markets, domain.Market{
			Symbol: item.Symbol,
			Base:   item.BaseCoin,
			Quote:  item.QuoteCoin,
			Status: item.Status,
		})
	}
	return markets, nil
}

func (b *BybitAdapter) GetDailyCandles(ctx context.Context, symbol string, limit int) ([]domain.Candle, error) {
	var result struct {
		bybitEnvelope
		Result struct {
			List [][]string `json:"list"`
		} `json:"result"`
	}

	query := url.Values{
		"category": {bybitCategory},
		"symbol":   {symbol},
		"interval": {bybitDailyInterval},
		"limit":    {strconv.Itoa(clampLimit(limit))},
	}
	if err := b.rest.getJSON(ctx, "/v5/market/kline", query, &result); err != nil {
		return nil, err
	}
	if err := result.err("kline"); err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(result.Result.List))
	for _, raw := range result.Result.List {
		// [startTime, open, high, low, close, volume, turnover]
		if len(raw) < 6 {
			return nil, fmt.Errorf("%w: bybit kline %s: row has %d fields, want at least 6", domain.ErrProviderRequest, symbol, len(raw))
		}
		c, err := parseStringCandle(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bybit kline %s: %v", domain.ErrProviderRequest, symbol, err)
		}
		c.Time /= 1000
		candles = append(candles, c)
	}

	// Bybit lists newest first.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

// parseStringCandle reads [time, open, high, low, close, volume, ...] with every field a string.
func parseStringCandle(raw []string) (domain.Candle, error) {
	ts, err := strconv.ParseInt(raw[0], 10, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("time %q: %w", raw[0], err)
	}
	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(raw[i+1], 64)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("field %d %q: %w", i+1, raw[i+1], err)
		}
		vals[i] = v
	}
	return domain.Candle{
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
