package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"crypto_board/internal/app/di"
	"crypto_board/internal/app/router"
	rankingshandler "crypto_board/internal/feature/rankings/transport/handler"
	"crypto_board/internal/platform/cache"
	infraredis "crypto_board/internal/platform/redis"
)

// resultTTL is how long a completed ranking is memoized. The dashboard
// refreshes once a minute, so one minute of staleness is invisible.
const resultTTL = time.Minute

func main() {
	// .env はローカル開発用。無くても環境変数があれば動く
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using environment variables")
	}

	rankingsUC, cfg, err := di.NewRankings()
	if err != nil {
		log.Fatal("failed to configure exchange client:", err)
	}
	log.Printf("exchange variant: %s (%s)", cfg.Variant.Name, cfg.Variant.BaseURL)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Redisキャッシュでラップ
	cachedUC := cache.NewCachingRankings(rdb, resultTTL, rankingsUC, "rankings")

	// Handler
	rankingsH := rankingshandler.NewRankingsHandler(cachedUC)

	// ルータ生成
	router := router.NewRouter(rankingsH)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
