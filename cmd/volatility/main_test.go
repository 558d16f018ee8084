package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBybit serves two USD spot markets and one EUR market.
func fakeBybit(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v5/market/instruments-info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
			{"symbol":"BTCUSD","baseCoin":"BTC","quoteCoin":"USD","status":"Trading"},
			{"symbol":"ETHEUR","baseCoin":"ETH","quoteCoin":"EUR","status":"Trading"},
			{"symbol":"SOLUSD","baseCoin":"SOL","quoteCoin":"USD","status":"Trading"}
		]}}`))
	})
	mux.HandleFunc("/v5/market/kline", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "BTCUSD":
			// newest first: closes 100, 102, 98, 100 oldest->newest
			_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
				["1700259200000","0","0","0","100","40","0"],
				["1700172800000","0","0","0","98","30","0"],
				["1700086400000","0","0","0","102","20","0"],
				["1700000000000","0","0","0","100","10","0"]
			]}}`))
		case "SOLUSD":
			_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
				["1700000000000","0","0","0","20","8","0"]
			]}}`))
		default:
			_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[]}}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_WritesCSV(t *testing.T) {
	srv := fakeBybit(t)
	t.Setenv("VOLATILITY_BASE_URL", srv.URL)
	t.Setenv("VOLATILITY_REQUESTS_PER_SECOND", "1000")

	dir := t.TempDir()
	cfgPath := writeConfigFile(t, dir, "config.json", `{"exchange_name": "bybit", "fiat_currency": "USD", "days": 4}`)
	outPath := filepath.Join(dir, "report.csv")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgPath, "-out", outPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stdout.String()+stderr.String())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t,
		"base,quote,daily_volatility,last_price,average_volume\n"+
			"BTC,USD,1.4142135623730951,100,25\n"+
			"SOL,USD,0,20,8\n",
		string(data))

	assert.Contains(t, stdout.String(), "Fetching data from bybit for USD")
	assert.Contains(t, stdout.String(), "Results saved to "+outPath)
}

func TestRun_ConsoleOutput(t *testing.T) {
	srv := fakeBybit(t)
	t.Setenv("VOLATILITY_BASE_URL", srv.URL)
	t.Setenv("VOLATILITY_CONCURRENCY", "2")

	cfgPath := writeConfigFile(t, t.TempDir(), "config.yaml", "exchange_name: Bybit\nfiat_currency: usd\ndays: 4\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgPath, "-output", "console"}, &stdout, &stderr)
	require.Equal(t, 0, code, stdout.String()+stderr.String())
	assert.Contains(t, stdout.String(), "daily_volatility")
	assert.Contains(t, stdout.String(), "1.4142135623730951")
	assert.NotContains(t, stdout.String(), "Results saved to")
}

func TestRun_EmptyCandlesOnlyIsAnError(t *testing.T) {
	srv := fakeBybit(t)
	t.Setenv("VOLATILITY_BASE_URL", srv.URL)

	cfgPath := writeConfigFile(t, t.TempDir(), "config.json", `{"exchange_name": "bybit", "fiat_currency": "EUR", "days": 4}`)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgPath, "-output", "console"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Skipping ETH/EUR: no candle data")
	assert.Contains(t, stdout.String(), "no markets found")
}

func TestRun_Failures(t *testing.T) {
	srv := fakeBybit(t)
	t.Setenv("VOLATILITY_BASE_URL", srv.URL)

	tests := []struct {
		name    string
		cfgName string
		config  string
		args    []string
		code    int
		logged  string
	}{
		{"wrong extension", "config.txt", `{}`, nil, 1, "Error reading configuration file"},
		{"invalid days", "config.json", `{"exchange_name": "bybit", "fiat_currency": "USD", "days": 0}`, nil, 1, "Error reading configuration file"},
		{"unsupported exchange", "config.json", `{"exchange_name": "kraken", "fiat_currency": "USD", "days": 3}`, nil, 1, `Error selecting exchange: unsupported exchange: "kraken" (supported: binance, bybit)`},
		{"no markets", "config.json", `{"exchange_name": "bybit", "fiat_currency": "JPY", "days": 3}`, nil, 1, "Error fetching data: no markets found"},
		{"bad output mode", "config.json", `{"exchange_name": "bybit", "fiat_currency": "USD", "days": 3}`, []string{"-output", "pdf"}, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := writeConfigFile(t, dir, tt.cfgName, tt.config)
			outPath := filepath.Join(dir, "report.csv")

			var stdout, stderr bytes.Buffer
			args := append([]string{"-config", cfgPath, "-out", outPath}, tt.args...)
			code := run(context.Background(), args, &stdout, &stderr)

			assert.Equal(t, tt.code, code)
			assert.Contains(t, stdout.String(), tt.logged)
			assert.NoFileExists(t, outPath, "no report on failure")
		})
	}
}
