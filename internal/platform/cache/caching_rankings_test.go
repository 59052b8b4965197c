package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"crypto_board/internal/feature/rankings/domain"
	"crypto_board/internal/feature/rankings/domain/entity"
)

// mockRankingsSource はテスト用のRankingsSourceモック実装です。
type mockRankingsSource struct {
	topFn       func(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error)
	moversFn    func(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error)
	topCalls    int
	moversCalls int
}

func (m *mockRankingsSource) TopVolume(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error) {
	m.topCalls++
	if m.topFn != nil {
		return m.topFn(ctx, period, limit)
	}
	return nil, nil
}

func (m *mockRankingsSource) HighVolumeMovers(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error) {
	m.moversCalls++
	if m.moversFn != nil {
		return m.moversFn(ctx, minVolume, limit)
	}
	return nil, nil
}

func sampleResult() *entity.RankedResult {
	return &entity.RankedResult{
		View:   entity.ViewTopVolume,
		Period: entity.Period24h,
		Rows: []entity.RankedRow{
			{Symbol: "BTCUSDT", Coin: "BTC", Price: 50000, ChangePct: 2.5, QuoteVolume: 5e8},
		},
	}
}

// TestNewCachingRankings_Defaults はデフォルト値（TTLとnamespace）の適用を検証します。
func TestNewCachingRankings_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"defaults when zero/empty", 0, "", time.Minute, "rankings"},
		{"negative ttl uses default", -time.Minute, "", time.Minute, "rankings"},
		{"custom values preserved", 5 * time.Minute, "custom", 5 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCachingRankings(nil, tt.ttl, &mockRankingsSource{}, tt.namespace)

			if c.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, c.ttl)
			}
			if c.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, c.namespace)
			}
		})
	}
}

// TestCachingRankings_NilRedisBypass はRedis未設定時のパススルーを検証します。
func TestCachingRankings_NilRedisBypass(t *testing.T) {
	t.Parallel()

	src := &mockRankingsSource{
		topFn: func(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error) {
			return sampleResult(), nil
		},
	}
	c := NewCachingRankings(nil, time.Minute, src, "rankings")

	result, err := c.TopVolume(context.Background(), entity.Period24h, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 || src.topCalls != 1 {
		t.Errorf("expected direct pipeline call, got calls=%d", src.topCalls)
	}
}

// TestCachingRankings_MissThenStore はキャッシュミス時のパイプライン呼び出しと
// ベストエフォート保存を検証します。
func TestCachingRankings_MissThenStore(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	expected := sampleResult()
	payload, _ := json.Marshal(expected)

	mock.ExpectGet("rankings:top:24h:20").RedisNil()
	mock.ExpectSet("rankings:top:24h:20", payload, time.Minute).SetVal("OK")

	src := &mockRankingsSource{
		topFn: func(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error) {
			return expected, nil
		},
	}
	c := NewCachingRankings(rdb, time.Minute, src, "rankings")

	result, err := c.TopVolume(context.Background(), entity.Period24h, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rows[0].Coin != "BTC" {
		t.Errorf("unexpected result: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// TestCachingRankings_Hit はキャッシュヒット時にパイプラインを呼ばないことを検証します。
func TestCachingRankings_Hit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	payload, _ := json.Marshal(sampleResult())
	mock.ExpectGet("rankings:top:24h:20").SetVal(string(payload))

	src := &mockRankingsSource{}
	c := NewCachingRankings(rdb, time.Minute, src, "rankings")

	result, err := c.TopVolume(context.Background(), entity.Period24h, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rows[0].Coin != "BTC" {
		t.Errorf("unexpected cached result: %+v", result)
	}
	if src.topCalls != 0 {
		t.Errorf("pipeline must not run on cache hit, got %d calls", src.topCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// TestCachingRankings_CorruptedEntry は壊れたエントリの破棄とフォールバックを検証します。
func TestCachingRankings_CorruptedEntry(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	expected := sampleResult()
	payload, _ := json.Marshal(expected)

	mock.ExpectGet("rankings:top:24h:20").SetVal("{broken json")
	mock.ExpectDel("rankings:top:24h:20").SetVal(1)
	mock.ExpectSet("rankings:top:24h:20", payload, time.Minute).SetVal("OK")

	src := &mockRankingsSource{
		topFn: func(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error) {
			return expected, nil
		},
	}
	c := NewCachingRankings(rdb, time.Minute, src, "rankings")

	result, err := c.TopVolume(context.Background(), entity.Period24h, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.topCalls != 1 {
		t.Errorf("expected pipeline fallback, got %d calls", src.topCalls)
	}
	if result.Rows[0].Coin != "BTC" {
		t.Errorf("unexpected result: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// TestCachingRankings_FailureNotCached は失敗が保存されないことを検証します。
func TestCachingRankings_FailureNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("rankings:movers:100000000:20").RedisNil()

	failure := domain.Failuref(domain.FailureNetwork, "connect")
	src := &mockRankingsSource{
		moversFn: func(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error) {
			return nil, failure
		},
	}
	c := NewCachingRankings(rdb, time.Minute, src, "rankings")

	_, err := c.HighVolumeMovers(context.Background(), 1e8, 20)
	if !errors.Is(err, failure) {
		t.Fatalf("expected the pipeline failure, got %v", err)
	}
	// SETが期待に含まれていないので、保存されれば検証で失敗する
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// TestCachingRankings_MoversKey は閾値とlimitがキーに含まれることを検証します。
func TestCachingRankings_MoversKey(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	expected := &entity.RankedResult{View: entity.ViewHighVolumeMovers, Period: entity.Period24h}
	payload, _ := json.Marshal(expected)

	mock.ExpectGet("rankings:movers:2500000.5:10").RedisNil()
	mock.ExpectSet("rankings:movers:2500000.5:10", payload, time.Minute).SetVal("OK")

	src := &mockRankingsSource{
		moversFn: func(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error) {
			return expected, nil
		},
	}
	c := NewCachingRankings(rdb, time.Minute, src, "rankings")

	if _, err := c.HighVolumeMovers(context.Background(), 2500000.5, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
