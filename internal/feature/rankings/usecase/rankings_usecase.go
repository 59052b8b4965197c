package usecase

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"crypto_board/internal/feature/rankings/domain"
	"crypto_board/internal/feature/rankings/domain/entity"
	"crypto_board/internal/shared/ratelimiter"
)

const (
	// DefaultLimit はランキングのデフォルト行数です。
	DefaultLimit = 20
	// MinLimit はランキング行数の推奨下限です（強制はしません）。
	MinLimit = 5
	// MaxLimit はランキング行数の上限です。
	MaxLimit = 50

	// weeklyInterval は7日集計に使う日足インターバルです。
	weeklyInterval = "1d"
	// weeklyWindow は7日集計のローソク足本数です。
	weeklyWindow = 7
	// moversFallbackSize は閾値調整後もフィルタ結果が空の場合に
	// 出来高順で採用する行数です。
	moversFallbackSize = 20
)

// MarketRepository は取引所の市場データを取得するリポジトリのインターフェイスです。
// 外部APIの実装を抽象化します。Goの慣例に従い、インターフェースは
// 利用者（usecase）側で定義します。
type MarketRepository interface {
	// TickerSnapshot は全シンボルの24時間統計スナップショットを取得します。
	TickerSnapshot(ctx context.Context) ([]entity.RawTicker, error)
	// Candles は指定シンボルの直近limit本のローソク足を古い順で取得します。
	Candles(ctx context.Context, symbol, interval string, limit int) ([]entity.Candle, error)
}

// Rankings は1リクエスト分のランキングテーブルを生成するパイプラインの
// 公開インターフェイスです。配線（DIとキャッシュデコレータ）のための名前で、
// 実装はrankingsUsecaseだけです。
type Rankings interface {
	TopVolume(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error)
	HighVolumeMovers(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error)
}

// rankingsUsecase はランキングパイプラインのユースケースを定義します。
// 状態はリクエストスコープのみで、リクエストをまたいで保持されません。
type rankingsUsecase struct {
	market      MarketRepository
	rules       SymbolRules
	rateLimiter ratelimiter.RateLimiterInterface
}

// rankingsUsecaseがRankingsを実装していることをコンパイル時に検証します。
var _ Rankings = (*rankingsUsecase)(nil)

// NewRankingsUsecase はrankingsUsecaseの新しいインスタンスを生成します。
func NewRankingsUsecase(market MarketRepository, rules SymbolRules, rl ratelimiter.RateLimiterInterface) *rankingsUsecase {
	return &rankingsUsecase{market: market, rules: rules, rateLimiter: rl}
}

// clampLimit は不正なlimitを丸めます。推奨範囲は[MinLimit, MaxLimit]ですが、
// 正の小さいlimitはそのまま尊重します（丸めるのは非正値と上限超過のみ）。
func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// snapshot はスナップショットを取得して正規化します。クライアントの失敗は
// パイプライン自身のFailureに変換して返します（自動リトライはしません）。
func (u *rankingsUsecase) snapshot(ctx context.Context) ([]entity.TickerRow, error) {
	raw, err := u.market.TickerSnapshot(ctx)
	if err != nil {
		if _, ok := domain.KindOf(err); ok {
			return nil, err
		}
		return nil, domain.NewFailure(domain.FailureNetwork, "ticker snapshot", err)
	}
	return Normalize(raw, u.rules), nil
}

// TopVolume は出来高ランキングを返します。periodが7dの場合は
// 二段階ランキング（24h出来高で候補を絞ってから7日集計で再ランク）を行います。
func (u *rankingsUsecase) TopVolume(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error) {
	limit = clampLimit(limit)
	if period != entity.Period7d {
		period = entity.Period24h
	}

	rows, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// ランキングフィールド（quoteVolume）が欠損した行は除外する
	ranked := withQuoteVolume(rows)
	sortByQuoteVolume(ranked)

	result := &entity.RankedResult{View: entity.ViewTopVolume, Period: period}
	if len(ranked) == 0 {
		// 成功したが対象行なし: エラーではなく「データなし」
		return result, nil
	}

	if period == entity.Period7d {
		return u.topVolume7d(ctx, ranked, limit)
	}

	for _, r := range top(ranked, limit) {
		result.Rows = append(result.Rows, entity.RankedRow{
			Symbol:      r.Symbol,
			Coin:        r.BaseAsset,
			Price:       zeroIfMissing(r.LastPrice),
			ChangePct:   zeroIfMissing(r.PriceChangePercent),
			QuoteVolume: r.QuoteVolume,
			BaseVolume:  zeroIfMissing(r.Volume),
		})
	}
	return result, nil
}

// topVolume7d は7日ランキングの二段階処理です。全シンボルのローソク足取得は
// ラウンドトリップが多すぎるため、24hスナップショットを安価な事前フィルタとして
// 使います。24h出来高が低いのに7日間だけ急騰したシンボルを取りこぼしうる
// 近似ですが、これは受け入れ済みの仕様です。
func (u *rankingsUsecase) topVolume7d(ctx context.Context, ranked []entity.TickerRow, limit int) (*entity.RankedResult, error) {
	candidates := top(ranked, limit)

	// 候補シンボルごとに逐次フェッチ。1件の失敗はリクエスト全体を
	// 失敗させず、そのシンボルを結果から外すだけにとどめます。
	aggregates := make(map[string]entity.WeeklyAggregate, len(candidates))
	for _, r := range candidates {
		u.rateLimiter.WaitIfNeeded()

		candles, err := u.market.Candles(ctx, r.Symbol, weeklyInterval, weeklyWindow)
		if err != nil {
			slog.Warn("skipping symbol: weekly candles unavailable", "symbol", r.Symbol, "error", err)
			continue
		}
		agg, ok := entity.NewWeeklyAggregate(r.Symbol, candles)
		if !ok {
			slog.Warn("skipping symbol: empty candle series", "symbol", r.Symbol)
			continue
		}
		aggregates[r.Symbol] = agg
	}

	// シンボルで内部結合し、7日出来高で再ランクする
	joined := make([]entity.TickerRow, 0, len(candidates))
	for _, r := range candidates {
		if _, ok := aggregates[r.Symbol]; ok {
			joined = append(joined, r)
		}
	}
	sort.SliceStable(joined, func(i, j int) bool {
		return aggregates[joined[i].Symbol].Volume7d > aggregates[joined[j].Symbol].Volume7d
	})

	result := &entity.RankedResult{View: entity.ViewTopVolume, Period: entity.Period7d}
	for _, r := range top(joined, limit) {
		agg := aggregates[r.Symbol]
		result.Rows = append(result.Rows, entity.RankedRow{
			Symbol:      r.Symbol,
			Coin:        r.BaseAsset,
			Price:       zeroIfMissing(r.LastPrice),
			ChangePct:   agg.PriceChange7d,
			QuoteVolume: agg.Volume7d,
		})
	}
	return result, nil
}

// HighVolumeMovers は最低出来高閾値を満たすペアを24h変化率の降順で返します。
// 閾値が現在の市場で満たせない場合は、全行のquoteVolumeの75パーセンタイルを
// 調整後閾値として代用し、AdjustmentNoteに記録します。
func (u *rankingsUsecase) HighVolumeMovers(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error) {
	limit = clampLimit(limit)

	rows, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	volRows := withQuoteVolume(rows)
	result := &entity.RankedResult{View: entity.ViewHighVolumeMovers, Period: entity.Period24h}
	if len(volRows) == 0 {
		return result, nil
	}

	volumes := make([]float64, 0, len(volRows))
	for _, r := range volRows {
		volumes = append(volumes, r.QuoteVolume)
	}
	sort.Float64s(volumes)
	maxVolume := volumes[len(volumes)-1]

	slog.Info("movers volume statistics",
		"pairs", len(volRows),
		"max_volume", maxVolume,
		"min_volume", volumes[0],
		"median_volume", percentile(volumes, 0.5),
		"threshold", minVolume,
	)

	note := &entity.AdjustmentNote{RequestedThreshold: minVolume, AppliedThreshold: minVolume}
	threshold := minVolume
	if maxVolume < minVolume {
		// 要求閾値が市場の最大出来高を上回る: データ駆動の閾値に置き換える
		threshold = percentile(volumes, 0.75)
		note.AppliedThreshold = threshold
		note.WasAdjusted = true
		slog.Warn("requested min volume exceeds market maximum; using 75th percentile",
			"requested", minVolume, "applied", threshold)
	}

	filtered := make([]entity.TickerRow, 0, len(volRows))
	for _, r := range volRows {
		if r.QuoteVolume >= threshold {
			filtered = append(filtered, r)
		}
	}

	// パーセンタイル調整が縮退した場合（全出来高が同値で閾値未満など）は
	// 出来高上位にフォールバックし、調整済みフラグは立てたままにする
	if len(filtered) == 0 {
		sorted := make([]entity.TickerRow, len(volRows))
		copy(sorted, volRows)
		sortByQuoteVolume(sorted)
		filtered = top(sorted, moversFallbackSize)
		note.WasAdjusted = true
		slog.Warn("no pairs above adjusted threshold; falling back to top volume", "size", len(filtered))
	}

	// ランキングフィールド（priceChangePercent）が欠損した行は除外する
	movers := filtered[:0:0]
	for _, r := range filtered {
		if !entity.Missing(r.PriceChangePercent) {
			movers = append(movers, r)
		}
	}
	// 符号付き変化率の降順（上昇率最大が先頭）。同値は入力順を保つ。
	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].PriceChangePercent > movers[j].PriceChangePercent
	})

	result.Note = note
	for _, r := range top(movers, limit) {
		result.Rows = append(result.Rows, entity.RankedRow{
			Symbol:      r.Symbol,
			Coin:        r.BaseAsset,
			Price:       zeroIfMissing(r.LastPrice),
			ChangePct:   r.PriceChangePercent,
			QuoteVolume: r.QuoteVolume,
		})
	}
	return result, nil
}

// withQuoteVolume はquoteVolumeが欠損していない行だけを返します。
func withQuoteVolume(rows []entity.TickerRow) []entity.TickerRow {
	out := make([]entity.TickerRow, 0, len(rows))
	for _, r := range rows {
		if !entity.Missing(r.QuoteVolume) {
			out = append(out, r)
		}
	}
	return out
}

// sortByQuoteVolume はquoteVolumeの降順で安定ソートします。
func sortByQuoteVolume(rows []entity.TickerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].QuoteVolume > rows[j].QuoteVolume
	})
}

// top は先頭n行を返します。
func top(rows []entity.TickerRow, n int) []entity.TickerRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// percentile は昇順ソート済みスライスのqパーセンタイルを線形補間で求めます。
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// zeroIfMissing は表示用の射影で欠損値を0に落とします。
// ランキング判定には使いません（欠損行は射影前に除外済み）。
func zeroIfMissing(v float64) float64 {
	if entity.Missing(v) {
		return 0
	}
	return v
}
