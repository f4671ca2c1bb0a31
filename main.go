package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mklshane/pictionary/config"
	"github.com/mklshane/pictionary/game"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	if len(allowedOrigins) == 0 {
		return r
	}

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		// Requests without an Origin are not browser cross-origin calls.
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg := config.Load()

	store := game.NewStore()
	timers := game.NewRoundTimer()
	coordinator := game.NewCoordinator(store, timers, game.Settings{
		RoundDuration: cfg.RoundDuration,
		RevealDelay:   cfg.RevealDelay,
		FirstWords:    cfg.FirstWords,
		NextWords:     cfg.NextWords,
	}, log.Logger)

	started := make(chan struct{})
	go coordinator.Run(context.Background(), started)
	<-started

	r := CreateServer(cfg.AllowedOrigins)
	game.NewHandler(coordinator, log.Logger).RegisterRoutes(r)

	log.Info().Str("addr", cfg.Addr).Msg("pictionary server listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
