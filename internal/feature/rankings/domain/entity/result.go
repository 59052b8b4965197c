package entity

// View identifies which ranking the pipeline produced.
type View string

const (
	ViewTopVolume        View = "top_volume"
	ViewHighVolumeMovers View = "high_volume_movers"
)

// Period is the lookback window of a TopVolume ranking.
type Period string

const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
)

// RankedRow is one row of the display-ready ranking table.
// ChangePct and QuoteVolume refer to the view's window (24h or 7d,
// mutually exclusive); BaseVolume is populated only by the 24-hour
// TopVolume view.
type RankedRow struct {
	Symbol      string  `json:"symbol"`
	Coin        string  `json:"coin"` // Base asset (e.g., "BTC")
	Price       float64 `json:"price"`
	ChangePct   float64 `json:"change_pct"`
	QuoteVolume float64 `json:"quote_volume"`
	BaseVolume  float64 `json:"base_volume,omitempty"`
}

// AdjustmentNote records a data-driven substitution of the caller's
// minimum-volume threshold. It is attached metadata, not a row.
type AdjustmentNote struct {
	RequestedThreshold float64 `json:"requested_threshold"`
	AppliedThreshold   float64 `json:"applied_threshold"`
	WasAdjusted        bool    `json:"was_adjusted"`
}

// RankedResult is the pipeline's output table: rows sorted by the
// view's ranking key, descending, truncated to the requested limit.
// An empty Rows with no error is the "no data" outcome, distinct from
// a transport failure.
type RankedResult struct {
	View   View        `json:"view"`
	Period Period      `json:"period,omitempty"`
	Rows   []RankedRow `json:"rows"`
	// Note is set when the movers view substituted a feasible threshold
	// for an infeasible requested one.
	Note *AdjustmentNote `json:"note,omitempty"`
}

// NoData reports whether the result is the empty-but-successful outcome.
func (r *RankedResult) NoData() bool { return r == nil || len(r.Rows) == 0 }
