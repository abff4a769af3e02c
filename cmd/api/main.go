package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"econsim/internal/api"
	"econsim/internal/api/handlers"
	"econsim/internal/cache"
	"econsim/internal/logging"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
)

type serverConfig struct {
	Port           string        `env:"API_PORT" envDefault:"8080"`
	Env            string        `env:"API_ENV" envDefault:"development"`
	LogLevel       string        `env:"ECONSIM_LOG_LEVEL" envDefault:"info"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	MaxSteps       int           `env:"MAX_STEPS" envDefault:"100000"`
	AllowedOrigins []string      `env:"CORS_ORIGINS" envSeparator:","`
}

func main() {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel, os.Stderr)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	runs := cache.New[*handlers.Run](cfg.CacheTTL)
	defer runs.Close()

	router := api.NewRouter(api.Options{
		Logger:         logger,
		Runs:           runs,
		MaxSteps:       cfg.MaxSteps,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("starting API server", "addr", srv.Addr, "env", cfg.Env, "cache_ttl", cfg.CacheTTL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
