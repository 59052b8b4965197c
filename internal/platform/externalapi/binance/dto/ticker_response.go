// Package dto defines data transfer objects for Binance API responses.
package dto

// Ticker represents one row of the /ticker/24hr response. Numeric fields
// arrive as strings; the futures surface reports base-currency turnover
// as baseVolume where spot uses volume.
type Ticker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	QuoteVolume        string `json:"quoteVolume"`
	Volume             string `json:"volume"`
	BaseVolume         string `json:"baseVolume"`
}

// ExchangeInfoResponse represents the /exchangeInfo response, reduced to
// the fields the symbol-metadata capability exposes.
type ExchangeInfoResponse struct {
	Timezone string `json:"timezone"`
	Symbols  []struct {
		Symbol     string `json:"symbol"`
		Status     string `json:"status"`
		BaseAsset  string `json:"baseAsset"`
		QuoteAsset string `json:"quoteAsset"`
	} `json:"symbols"`
}

// ErrorResponse is the JSON error body Binance returns with non-2xx
// statuses (e.g., {"code":-1121,"msg":"Invalid symbol."}).
type ErrorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
