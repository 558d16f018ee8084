package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/vitos/crypto_volatility/internal/domain"
	"go.uber.org/zap"
)

// VolatilityService runs Fetch -> Compute -> Report for one configuration.
type VolatilityService struct {
	markets *MarketService
	writer  domain.ReportWriter
	logger  *zap.Logger
	timeNow func() time.Time // For testing
}

func NewVolatilityService(markets *MarketService, writer domain.ReportWriter, logger *zap.Logger) *VolatilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VolatilityService{
		markets: markets,
		writer:  writer,
		logger:  logger,
		timeNow: time.Now,
	}
}

// Run executes the pipeline. Nothing is written when any stage fails.
func (s *VolatilityService) Run(ctx context.Context, cfg *domain.Config) (*domain.Report, error) {
	s.logger.Info(fmt.Sprintf("Fetching data from %s for %s", cfg.ExchangeName, cfg.FiatCurrency))
	rows, err := s.markets.FetchMarketRows(ctx, cfg.FiatCurrency, cfg.Days)
	if err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("Calculating volatility over %d days", cfg.Days))
	report := &domain.Report{
		Exchange:     cfg.ExchangeName,
		FiatCurrency: cfg.FiatCurrency,
		Days:         cfg.Days,
		GeneratedAt:  s.timeNow().UTC(),
		Rows:         s.computeVolatility(rows),
	}

	s.logger.Info("Outputting results")
	if err := s.writer.Write(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *VolatilityService) computeVolatility(rows []domain.MarketRow) []domain.ReportRow {
	out := make([]domain.ReportRow, 0, len(rows))
	for _, r := range rows {
		s.logger.Debug(fmt.Sprintf("Calculating volatility for %s/%s", r.Base, r.Quote))
		out = append(out, domain.ReportRow{
			MarketRow:       r,
			DailyVolatility: Volatility(r.ClosePrices),
		})
	}
	return out
}
