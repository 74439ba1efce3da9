// Command server runs the survey generation API.
//
//	@title			Survey Generator API
//	@version		1.0
//	@description	Generates structured surveys from a title and description, caching each distinct brief.
//	@BasePath		/api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-survey-backend/internal/cache"
	"github.com/tbourn/go-survey-backend/internal/config"
	httpapi "github.com/tbourn/go-survey-backend/internal/http"
	"github.com/tbourn/go-survey-backend/internal/llm"
	"github.com/tbourn/go-survey-backend/internal/observability"
	"github.com/tbourn/go-survey-backend/internal/repo"
	"github.com/tbourn/go-survey-backend/internal/services"
	"github.com/tbourn/go-survey-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	config.LoadDotEnv()
	cfg := config.MustLoad()

	logger := sysutil.SetupLogging(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)
	ver := sysutil.FirstNonEmpty(os.Getenv("SERVICE_VERSION"), version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database failed")
	}
	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
	}
	store := repo.NewStore(db)

	hot, hotCloser, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Cache.Backend).Msg("hot cache setup failed")
	}
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := cache.Check(pingCtx, hot); err != nil {
		// lookups fall back to the store, so an unreachable cache is not fatal
		log.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("hot cache unreachable")
	}
	cancelPing()

	backend := llm.New(cfg.LLM)
	if !backend.Available() {
		log.Warn().Str("provider", cfg.LLM.Provider).Msg("generation backend not configured; only stored surveys will be served")
	}

	svc := services.NewSurveyService(
		cache.NewCachedStore(store, hot, cfg.Cache.TTL, logger.With().Str("component", "hot_cache").Logger()),
		store,
		backend,
		logger.With().Str("component", "survey_service").Logger(),
	)
	svc.StrictPersistence = cfg.StrictPersistence
	svc.MaxTitleRunes = cfg.MaxTitleRunes
	svc.MaxDescriptionRunes = cfg.MaxDescriptionRunes

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, store, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", ver).
			Str("db_driver", cfg.DB.Driver).
			Str("llm_provider", cfg.LLM.Provider).
			Str("llm_model", backend.Model()).
			Str("cache_backend", cfg.Cache.Backend).
			Bool("strict_persistence", cfg.StrictPersistence).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if hotCloser != nil {
		if err := hotCloser.Close(); err != nil {
			log.Warn().Err(err).Msg("hot cache close")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("server exited")
}
