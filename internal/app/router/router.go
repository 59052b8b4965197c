package router

import (
	"os"

	"github.com/gin-gonic/gin"

	rankingshandler "crypto_board/internal/feature/rankings/transport/handler"
	platformhandler "crypto_board/internal/platform/http/handler"
	jwtmw "crypto_board/internal/platform/jwt"
)

// NewRouter builds the HTTP surface of the service. When
// DASHBOARD_JWT_SECRET is set the ranking endpoints require a bearer
// token; without it the API is open, matching a public dashboard.
func NewRouter(rankings *rankingshandler.RankingsHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	views := r.Group("/rankings")
	if os.Getenv(jwtmw.EnvKeyJWTSecret) != "" {
		views.Use(jwtmw.AuthRequired())
	}
	{
		views.GET("/top-volume", rankings.TopVolume)
		views.GET("/movers", rankings.Movers)
	}

	return r
}
