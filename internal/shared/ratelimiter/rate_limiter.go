package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface は、取引所API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter は固定ウィンドウ方式で呼び出し頻度を制限します。
// 7日ランキングのシンボルごとのローソク足取得の合間に挟んで、
// 取引所のリクエスト重み制限を超えないようにします。
type RateLimiter struct {
	limit     int           // ウィンドウあたりの呼び出し上限
	interval  time.Duration // ウィンドウ幅
	count     int
	lastReset time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded は上限に達している場合、ウィンドウの残り時間だけ待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Info("rate limit reached, sleeping", "calls", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
