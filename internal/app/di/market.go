// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"crypto_board/internal/feature/rankings/usecase"
	"crypto_board/internal/platform/externalapi/binance"
	infrahttp "crypto_board/internal/platform/http"
	"crypto_board/internal/shared/ratelimiter"
)

// Per-minute budget for kline fetches in the 7-day view. Well under the
// exchange's published request-weight limit.
const candleCallsPerMinute = 300

// NewMarket creates a fully configured exchange client with its HTTP client.
func NewMarket() (*binance.Client, binance.Config, error) {
	cfg, err := binance.LoadConfig()
	if err != nil {
		return nil, binance.Config{}, err
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return binance.NewClient(cfg, httpClient), cfg, nil
}

// NewRankings wires the full ranking pipeline for the configured variant.
func NewRankings() (usecase.Rankings, binance.Config, error) {
	market, cfg, err := NewMarket()
	if err != nil {
		return nil, binance.Config{}, err
	}

	rules := usecase.SymbolRules{
		QuoteSuffixes: cfg.Variant.QuoteSuffixes,
		Perpetuals:    cfg.Variant.Perpetuals,
	}
	rl := ratelimiter.NewRateLimiter(candleCallsPerMinute, time.Minute)
	return usecase.NewRankingsUsecase(market, rules, rl), cfg, nil
}
