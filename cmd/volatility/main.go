package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitos/crypto_volatility/internal/config"
	"github.com/vitos/crypto_volatility/internal/domain"
	"github.com/vitos/crypto_volatility/internal/infrastructure/exchange"
	"github.com/vitos/crypto_volatility/internal/infrastructure/logger"
	"github.com/vitos/crypto_volatility/internal/infrastructure/report"
	"github.com/vitos/crypto_volatility/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("volatility", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config.json", "path to the JSON or YAML configuration file")
	outputMode := fs.String("output", string(report.ModeCSV), "console | csv | xlsx | sqlite")
	outPath := fs.String("out", "", "output file (defaults depend on -output)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	mode, err := report.ParseMode(*outputMode)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid output mode: %v\n", err)
		return 2
	}

	// 1. Runtime settings
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load settings: %v\n", err)
		return 1
	}

	// 2. Init Logger
	log := logger.NewLogger(stdout, settings.LogLevel)
	defer log.Sync()

	// 3. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error(fmt.Sprintf("Error reading configuration file: %v", err))
		return 1
	}

	// 4. Init Exchange
	provider, err := exchange.NewRegistry().New(cfg.ExchangeName, exchange.Options{
		BaseURL:           settings.BaseURL,
		Timeout:           settings.RequestTimeout,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if err != nil {
		log.Error(fmt.Sprintf("Error selecting exchange: %v", err))
		return 1
	}

	// 5. Init Output
	writer, err := report.NewWriter(mode, *outPath, stdout)
	if err != nil {
		log.Error(fmt.Sprintf("Error preparing output: %v", err))
		return 1
	}

	// 6. Run
	markets := usecase.NewMarketService(provider, log, settings.Concurrency)
	svc := usecase.NewVolatilityService(markets, writer, log)
	rep, err := svc.Run(ctx, cfg)
	if err != nil {
		stage := "Error fetching data"
		if errors.Is(err, domain.ErrOutputWrite) {
			stage = "Error writing results"
		}
		log.Error(fmt.Sprintf("%s: %v", stage, err))
		return 1
	}

	if path := *outPath; mode != report.ModeConsole {
		if path == "" {
			path = report.DefaultPath(mode)
		}
		log.Info(fmt.Sprintf("Results saved to %s", path), zap.Int("rows", len(rep.Rows)))
	}
	return 0
}
