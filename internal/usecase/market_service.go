package usecase

import (
	"context"
	"fmt"

	"github.com/vitos/crypto_volatility/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MarketService assembles per-asset rows from a market data provider.
type MarketService struct {
	provider    domain.MarketDataProvider
	logger      *zap.Logger
	concurrency int
}

// NewMarketService fetches candles sequentially unless concurrency > 1.
func NewMarketService(provider domain.MarketDataProvider, logger *zap.Logger, concurrency int) *MarketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &MarketService{
		provider:    provider,
		logger:      logger,
		concurrency: concurrency,
	}
}

// FetchMarketRows returns one row per market quoted in fiat, in provider listing order.
// Markets without any candle are skipped. It fails with ErrNoMarketsFound
// rather than returning an empty slice.
func (s *MarketService) FetchMarketRows(ctx context.Context, fiat string, days int) ([]domain.MarketRow, error) {
	markets, err := s.provider.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}

	var matched []domain.Market
	for _, m := range markets {
		if m.QuotedIn(fiat) {
			matched = append(matched, m)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w for the specified fiat currency: %s", domain.ErrNoMarketsFound, fiat)
	}

	if days > domain.MaxCandleLimit {
		s.logger.Warn(fmt.Sprintf("Requested %d days, providers serve at most %d daily candles per market", days, domain.MaxCandleLimit))
	}

	// Slots are indexed by listing position so parallel fetches keep the order.
	slots := make([]*domain.MarketRow, len(matched))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, m := range matched {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := s.fetchRow(gctx, m, fiat, days)
			if err != nil {
				return err
			}
			slots[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]domain.MarketRow, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			rows = append(rows, *r)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no %s market returned candle data", domain.ErrNoMarketsFound, fiat)
	}

	s.logger.Info(fmt.Sprintf("Fetched data for %d cryptocurrencies", len(rows)))
	return rows, nil
}

func (s *MarketService) fetchRow(ctx context.Context, m domain.Market, fiat string, days int) (*domain.MarketRow, error) {
	candles, err := s.provider.GetDailyCandles(ctx, m.Symbol, days)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", m.Pair(), err)
	}

	pair := m.Base + "/" + fiat
	s.logger.Info(fmt.Sprintf("Fetched %d data points for %s", len(candles), pair))

	if len(candles) == 0 {
		s.logger.Warn(fmt.Sprintf("Skipping %s: no candle data", pair), zap.String("symbol", m.Symbol))
		return nil, nil
	}
	if len(candles) < days {
		s.logger.Debug("Shorter history than requested",
			zap.String("symbol", m.Symbol),
			zap.Int("requested", days),
			zap.Int("received", len(candles)))
	}

	row := BuildMarketRow(m.Base, fiat, candles)
	return &row, nil
}

// BuildMarketRow derives the close series, mean volume and last close from
// chronological candles. candles must not be empty.
func BuildMarketRow(base, quote string, candles []domain.Candle) domain.MarketRow {
	closes := make([]float64, len(candles))
	var volumeSum float64
	for i, c := range candles {
		closes[i] = c.Close
		volumeSum += c.Volume
	}
	return domain.MarketRow{
		Base:          base,
		Quote:         quote,
		LastPrice:     closes[len(closes)-1],
		AverageVolume: volumeSum / float64(len(candles)),
		ClosePrices:   closes,
	}
}
