// Package handler はrankingsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crypto_board/internal/api"
	"crypto_board/internal/feature/rankings/domain"
	"crypto_board/internal/feature/rankings/domain/entity"
)

// DefaultMinVolume はmoversビューのデフォルト最低出来高（クォート通貨建て）です。
const DefaultMinVolume = 100_000_000

// RankingsUsecase はランキングパイプラインのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RankingsUsecase interface {
	TopVolume(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error)
	HighVolumeMovers(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error)
}

// RankingsHandler はランキングビューのHTTPリクエストを処理します。
type RankingsHandler struct {
	uc RankingsUsecase
}

// NewRankingsHandler は指定されたusecaseでRankingsHandlerの新しいインスタンスを生成します。
func NewRankingsHandler(uc RankingsUsecase) *RankingsHandler {
	return &RankingsHandler{uc: uc}
}

// TopVolume は出来高ランキングをJSONで返します。
//
// エンドポイント例:
// GET /rankings/top-volume?period=24h&limit=20
func (h *RankingsHandler) TopVolume(c *gin.Context) {
	period := entity.Period(c.DefaultQuery("period", string(entity.Period24h)))
	// 変換に失敗した場合は0になり、usecase側でデフォルト値に丸められる
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.uc.TopVolume(c.Request.Context(), period, limit)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(result))
}

// Movers は最低出来高を満たすペアの変化率ランキングをJSONで返します。
//
// エンドポイント例:
// GET /rankings/movers?min_volume=100000000&limit=20
func (h *RankingsHandler) Movers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	minVolumeStr := c.DefaultQuery("min_volume", "")
	minVolume := float64(DefaultMinVolume)
	if minVolumeStr != "" {
		v, err := strconv.ParseFloat(minVolumeStr, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "min_volume must be a non-negative number"})
			return
		}
		minVolume = v
	}

	result, err := h.uc.HighVolumeMovers(c.Request.Context(), minVolume, limit)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(result))
}

// respondFailure はパイプラインのFailureをHTTPステータスに対応付けます。
// 認証の設定不備はサーバー側の問題、それ以外は上流取引所の問題として扱います。
func respondFailure(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if kind, ok := domain.KindOf(err); ok && kind == domain.FailureAuth {
		status = http.StatusInternalServerError
	}
	c.JSON(status, api.ErrorResponse{Error: err.Error()})
}

// toResponse はRankedResultを表示用DTOに変換します。
// 空の成功結果は「データなし」としてマークされ、エラーとは混同されません。
func toResponse(result *entity.RankedResult) api.RankingResponse {
	resp := api.RankingResponse{
		View:   string(result.View),
		Period: string(result.Period),
		NoData: result.NoData(),
		Rows:   make([]api.RankingRow, 0, len(result.Rows)),
	}
	for _, r := range result.Rows {
		resp.Rows = append(resp.Rows, api.RankingRow{
			Coin:        r.Coin,
			Price:       r.Price,
			ChangePct:   r.ChangePct,
			QuoteVolume: r.QuoteVolume,
			BaseVolume:  r.BaseVolume,
			Symbol:      r.Symbol,
		})
	}
	if result.Note != nil {
		resp.Adjustment = &api.AdjustmentResponse{
			RequestedThreshold: result.Note.RequestedThreshold,
			AppliedThreshold:   result.Note.AppliedThreshold,
			WasAdjusted:        result.Note.WasAdjusted,
		}
	}
	return resp
}
