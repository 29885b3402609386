package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chatterdesk/searchcore/internal/config"
	dbRedis "github.com/chatterdesk/searchcore/internal/db/redis"
	logpkg "github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
	catalogrepo "github.com/chatterdesk/searchcore/internal/repository/catalog"
	interactionsrepo "github.com/chatterdesk/searchcore/internal/repository/interactions"
	pagesrepo "github.com/chatterdesk/searchcore/internal/repository/pages"
	searchrepo "github.com/chatterdesk/searchcore/internal/repository/search"
	chiTransport "github.com/chatterdesk/searchcore/internal/transport/chi"
	openaiEmb "github.com/chatterdesk/searchcore/internal/transport/openai"
	"github.com/chatterdesk/searchcore/internal/usecase/consolidate"
	"github.com/chatterdesk/searchcore/internal/usecase/conversation"
	"github.com/chatterdesk/searchcore/internal/usecase/exact"
	"github.com/chatterdesk/searchcore/internal/usecase/fts"
	"github.com/chatterdesk/searchcore/internal/usecase/hybrid"
	"github.com/chatterdesk/searchcore/internal/usecase/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/refine"
	"github.com/chatterdesk/searchcore/internal/usecase/vector"
	"github.com/chatterdesk/searchcore/internal/version"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchcore API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init() in the domain collectors)
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
	})
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	prefix := cfg.Database.KeyPrefix
	contentRepo := searchrepo.New(store, prefix)
	catRepo := catalogrepo.New(store, prefix)
	pageRepo := pagesrepo.New(store, prefix)
	intRepo := interactionsrepo.New(store, prefix)

	// Use case services — composition root
	ftsSvc := fts.New(contentRepo)
	hybridSvc := hybrid.New(
		ftsSvc, contentRepo, embedder,
		hybrid.Weights{FTS: cfg.Search.FTSWeight, Semantic: cfg.Search.SemanticWeight},
		time.Duration(cfg.Search.EngineTimeoutSec)*time.Second,
		cfg.Search.IntentThreshold,
	)
	exactSvc := exact.New(catRepo, pageRepo, cfg.Search.SKUContextRadius)
	vecSvc := vector.New(catRepo, intRepo, embedder, vector.Thresholds{
		Reference: cfg.Search.ReferenceThreshold,
		Intent:    cfg.Search.IntentThreshold,
	}, cfg.Recommend.PopularityDivisor)

	consSvc := consolidate.New(cfg.Search.RelatedPageThreshold)
	refSvc := refine.New(refine.Config{
		MinResults:        cfg.Refine.MinResults,
		HomogeneitySpread: cfg.Refine.HomogeneitySpread,
		PriceBandLow:      cfg.Refine.PriceBandLow,
		PriceBandHigh:     cfg.Refine.PriceBandHigh,
		RankingCutoff:     cfg.Refine.RankingCutoff,
	})
	recSvc := recommend.New(intRepo, catRepo, recommend.Config{
		JaccardThreshold:   cfg.Recommend.JaccardThreshold,
		MaxSimilarSessions: cfg.Recommend.MaxSimilarSessions,
	})
	convSvc := conversation.New(
		hybridSvc, exactSvc, catRepo, consSvc, refSvc, embedder,
		cfg.Search.IntentThreshold,
	)

	server := chiTransport.NewServer(convSvc, recSvc, vecSvc, intRepo, store, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
