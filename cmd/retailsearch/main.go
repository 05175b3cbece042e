package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/config"
	dbRedis "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/db/redis"
	logpkg "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/logger"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/metrics"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/repository/embcache"
	indexrepo "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/repository/index"
	schemacache "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/schema"
	chiTransport "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/transport/chi"
	openaiTransport "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/transport/openai"
	extractuc "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/usecase/extract"
	healthuc "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/usecase/health"
	searchuc "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/usecase/search"
	sessionuc "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/usecase/session"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting retail search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Name),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterExtractionMetrics()

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embed.APIKey,
		BaseURL:    cfg.Embed.BaseURL,
		Model:      cfg.Embed.Model,
		Dimensions: cfg.Embed.Dimensions,
		Provider:   "embedding",
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("model", cfg.Embed.Model),
		zap.Int("dimensions", cfg.Embed.Dimensions))

	completer := openaiTransport.NewChatCompleter(&openaiTransport.ChatConfig{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		Provider:        "llm",
		MaxRetries:      cfg.LLM.MaxRetries,
		RetryBackoffSec: cfg.LLM.RetryBackoffSec,
		Logger:          logger,
	})
	logger.Info("Chat completer created", zap.String("model", cfg.LLM.Model))

	// Query embeddings cached in the store; health checks keep the raw embedder
	queryEmbedder := embcache.New(embedder, store, cfg.Storage.KeyPrefix,
		time.Duration(cfg.Embed.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger)

	// Schema cache owned here, passed by reference to consumers
	schemas := schemacache.NewCache(cfg.Catalog.SchemaDir, logger)

	repo := indexrepo.New(store, cfg.Storage.KeyPrefix)
	extractor := extractuc.New(completer)

	searchSvc := searchuc.New(extractor, queryEmbedder, repo, schemas, searchuc.Config{
		Catalog:        cfg.Catalog.Name,
		DocumentFields: cfg.Catalog.DocumentFields,
	})
	sessions := sessionuc.NewManager(cfg.Session.HistoryWindow)
	healthSvc := healthuc.New(store, embedder, schemas, cfg.Catalog.Name)

	server := chiTransport.NewServer(
		searchSvc, sessions, healthSvc, schemas,
		cfg.Catalog.Name, cfg.Auth.APIKeys, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
