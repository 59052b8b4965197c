package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"crypto_board/internal/feature/rankings/domain"
	"crypto_board/internal/feature/rankings/domain/entity"
	"crypto_board/internal/feature/rankings/usecase"
	"crypto_board/internal/platform/externalapi/binance/dto"
)

// Client talks to exactly one Binance API surface, selected by the
// configured Variant. Each call is stateless and returns freshly
// allocated data; failures are returned as *domain.Failure values,
// never raised past this boundary.
type Client struct {
	cfg    Config
	client *http.Client
}

// Client satisfies the pipeline's MarketRepository interface.
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient creates a Client for the configured variant with the given
// HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// TickerSnapshot fetches the full 24-hour statistics snapshot for all
// listed symbols. Rows keep their wire-level string fields; numeric
// coercion is the pipeline's job.
func (c *Client) TickerSnapshot(ctx context.Context) ([]entity.RawTicker, error) {
	body, err := c.get(ctx, "/ticker/24hr", nil)
	if err != nil {
		return nil, err
	}

	var tickers []dto.Ticker
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, domain.NewFailure(domain.FailureParse, "decode ticker snapshot", err)
	}

	rows := make([]entity.RawTicker, 0, len(tickers))
	for _, t := range tickers {
		vol := t.Volume
		// Futures reports base-currency turnover as baseVolume.
		if c.cfg.Variant.BaseVolumeAlias && vol == "" {
			vol = t.BaseVolume
		}
		rows = append(rows, entity.RawTicker{
			Symbol:             t.Symbol,
			LastPrice:          t.LastPrice,
			PriceChangePercent: t.PriceChangePercent,
			QuoteVolume:        t.QuoteVolume,
			Volume:             vol,
		})
	}
	return rows, nil
}

// Candles fetches the limit most-recent candles of width interval for
// symbol, oldest first. The wire format is an array of arrays with the
// close price at index 4 and the volume at index 5.
func (c *Client) Candles(ctx context.Context, symbol, interval string, limit int) ([]entity.Candle, error) {
	if symbol == "" {
		return nil, domain.Failuref(domain.FailureParse, "candles: empty symbol")
	}
	if limit < 1 {
		return nil, domain.Failuref(domain.FailureParse, "candles: limit %d out of range", limit)
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/klines", q)
	if err != nil {
		return nil, err
	}

	var klines [][]any
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, domain.NewFailure(domain.FailureParse, "decode klines", err)
	}

	candles := make([]entity.Candle, 0, len(klines))
	for i, k := range klines {
		closePrice, err := klineField(k, 4)
		if err != nil {
			return nil, domain.NewFailure(domain.FailureParse, fmt.Sprintf("kline %d close", i), err)
		}
		volume, err := klineField(k, 5)
		if err != nil {
			return nil, domain.NewFailure(domain.FailureParse, fmt.Sprintf("kline %d volume", i), err)
		}
		candles = append(candles, entity.Candle{Close: closePrice, Volume: volume})
	}
	return candles, nil
}

// ExchangeInfo fetches tradable-symbol metadata. It is an exposed
// capability of the client; ranking does not depend on it.
func (c *Client) ExchangeInfo(ctx context.Context) (*entity.ExchangeInfo, error) {
	body, err := c.get(ctx, "/exchangeInfo", nil)
	if err != nil {
		return nil, err
	}

	var resp dto.ExchangeInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewFailure(domain.FailureParse, "decode exchange info", err)
	}

	info := &entity.ExchangeInfo{Timezone: resp.Timezone}
	info.Symbols = make([]entity.SymbolInfo, 0, len(resp.Symbols))
	for _, s := range resp.Symbols {
		info.Symbols = append(info.Symbols, entity.SymbolInfo{
			Symbol:     s.Symbol,
			Status:     s.Status,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
		})
	}
	return info, nil
}

// get performs one GET against the variant's surface and returns the
// response body. Signed variants fail fast with an auth failure when
// credentials are absent, before any network I/O.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}

	query := params.Encode()
	if c.cfg.Variant.Signed {
		if c.cfg.APIKey == "" || c.cfg.APISecret == "" {
			return nil, domain.Failuref(domain.FailureAuth,
				"variant %s requires credentials", c.cfg.Variant.Name)
		}
		query = signedQuery(c.cfg.APISecret, params)
	}

	u := c.cfg.Variant.BaseURL + path
	if query != "" {
		u += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureParse, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Variant.Signed {
		req.Header.Set("X-MBX-APIKEY", c.cfg.APIKey)
	}

	slog.Info("fetching market data", "variant", c.cfg.Variant.Name, "path", path)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureNetwork, "request "+path, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	slog.Info("market data response", "path", path, "status", res.StatusCode)

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureNetwork, "read response "+path, err)
	}

	if res.StatusCode >= 400 {
		detail := fmt.Sprintf("%s http %d", path, res.StatusCode)
		var apiErr dto.ErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
			detail = fmt.Sprintf("%s: %s (code %d)", detail, apiErr.Msg, apiErr.Code)
		}
		kind := domain.FailureAPI
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			// The exchange rejected the credentials themselves.
			kind = domain.FailureAuth
		}
		return nil, domain.Failuref(kind, "%s", detail)
	}

	return body, nil
}

// klineField extracts one numeric field from a kline array. Binance
// encodes prices and volumes as strings but timestamps as numbers, so
// both representations are accepted.
func klineField(k []any, idx int) (float64, error) {
	if idx >= len(k) {
		return 0, fmt.Errorf("kline has %d fields, want index %d", len(k), idx)
	}
	switch v := k[idx].(type) {
	case string:
		return strconv.ParseFloat(v, 64)
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected kline field type %T", v)
	}
}
