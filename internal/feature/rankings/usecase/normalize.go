// Package usecase はランキングパイプラインのビジネスロジックを実装します。
package usecase

import (
	"math"
	"strconv"
	"strings"

	"crypto_board/internal/feature/rankings/domain/entity"
)

// SymbolRules は取引ペアの選別ルールです。取引所バリアントごとの設定値であり、
// ビジネスロジックにハードコードしません。
type SymbolRules struct {
	// QuoteSuffixes は採用するクォート通貨サフィックスです（例: "USDT", "BUSD"）。
	QuoteSuffixes []string
	// Perpetuals は "SUFFIX_" 区切りの無期限契約命名（例: "BTCUSDT_PERP"）も
	// 受け入れるかどうかです。
	Perpetuals bool
}

// Match はシンボルがルールに合致するかを判定し、合致した場合は
// クォートサフィックス（および無期限契約の末尾）を取り除いたベースアセットを返します。
// サフィックス除去は全域的かつ冪等です: 返されるベースアセットはシンボルの
// 真の接頭辞で、クォートサフィックス文字は残りません。
func (r SymbolRules) Match(symbol string) (string, bool) {
	for _, suf := range r.QuoteSuffixes {
		if strings.HasSuffix(symbol, suf) {
			return strings.TrimSuffix(symbol, suf), true
		}
	}
	if r.Perpetuals {
		for _, suf := range r.QuoteSuffixes {
			if i := strings.Index(symbol, suf+"_"); i >= 0 {
				return symbol[:i], true
			}
		}
	}
	return "", false
}

// coerce は文字列の数値フィールドをfloat64に変換します。変換に失敗した
// フィールドは「欠損」（NaN）であり、ゼロではありません。欠損したランキング
// フィールドを持つ行は後段で除外されます。
func coerce(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Normalize は生のティッカー行を正規化してTickerRowを構築します。
// ルールは順に適用されます:
//  1. 数値フィールドの変換（失敗は欠損扱い）
//  2. クォートサフィックス規約に合致する行のみ残す
//  3. サフィックスを取り除いてベースアセットを導出する
//  4. quoteVolumeが欠損でvolumeとlastPriceが存在する場合、
//     quoteVolume = volume × lastPrice を導出する
func Normalize(raw []entity.RawTicker, rules SymbolRules) []entity.TickerRow {
	rows := make([]entity.TickerRow, 0, len(raw))
	for _, t := range raw {
		base, ok := rules.Match(t.Symbol)
		if !ok {
			continue
		}

		row := entity.TickerRow{
			Symbol:             t.Symbol,
			BaseAsset:          base,
			LastPrice:          coerce(t.LastPrice),
			PriceChangePercent: coerce(t.PriceChangePercent),
			QuoteVolume:        coerce(t.QuoteVolume),
			Volume:             coerce(t.Volume),
		}
		if entity.Missing(row.QuoteVolume) && !entity.Missing(row.Volume) && !entity.Missing(row.LastPrice) {
			row.QuoteVolume = row.Volume * row.LastPrice
		}
		rows = append(rows, row)
	}
	return rows
}
