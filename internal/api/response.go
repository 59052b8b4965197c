// Package api defines the shared HTTP response shapes of the service.
package api

// ErrorResponse is the JSON body returned for failed requests. The
// consumer must render this as a visible error and must not attempt to
// index into a ranking table that is not there.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RankingRow is one display-ready row of a ranking table. ChangePct and
// QuoteVolume refer to the view's window (24h or 7d); BaseVolume is
// present only in the 24-hour top-volume view.
type RankingRow struct {
	Coin        string  `json:"coin"`
	Price       float64 `json:"price"`
	ChangePct   float64 `json:"change_pct"`
	QuoteVolume float64 `json:"quote_volume"`
	BaseVolume  float64 `json:"base_volume,omitempty"`
	Symbol      string  `json:"symbol"`
}

// AdjustmentResponse reports a data-driven substitution of the caller's
// minimum-volume threshold.
type AdjustmentResponse struct {
	RequestedThreshold float64 `json:"requested_threshold"`
	AppliedThreshold   float64 `json:"applied_threshold"`
	WasAdjusted        bool    `json:"was_adjusted"`
}

// RankingResponse is the ranking table plus its metadata. NoData marks
// the empty-but-successful outcome, which the consumer renders as a
// neutral notice, never as an error.
type RankingResponse struct {
	View       string              `json:"view"`
	Period     string              `json:"period,omitempty"`
	NoData     bool                `json:"no_data"`
	Rows       []RankingRow        `json:"rows"`
	Adjustment *AdjustmentResponse `json:"adjustment,omitempty"`
}
