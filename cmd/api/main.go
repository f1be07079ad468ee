package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatledger/internal/annotate"
	"chatledger/internal/auth"
	"chatledger/internal/config"
	"chatledger/internal/db"
	"chatledger/internal/events"
	"chatledger/internal/httpserver"
	"chatledger/internal/labels"
	"chatledger/internal/matching"
	"chatledger/internal/messages"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := newLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sizing, err := decimal.NewFromString(cfg.Sizing)
	if err != nil {
		logger.Fatal("invalid SIZING", zap.String("sizing", cfg.Sizing), zap.Error(err))
	}

	corpus, err := messages.Load(cfg.MessagesFile)
	if err != nil {
		logger.Fatal("load message corpus", zap.String("path", cfg.MessagesFile), zap.Error(err))
	}
	logger.Info("corpus loaded", zap.Int("messages", corpus.Len()))

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	labelStore := labels.NewStore(pool)
	if err := labelStore.EnsureSchema(ctx); err != nil {
		logger.Fatal("label schema", zap.Error(err))
	}
	authSvc := auth.NewService(pool, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL)
	if err := authSvc.EnsureSchema(ctx); err != nil {
		logger.Fatal("auth schema", zap.Error(err))
	}

	bus := events.NewBus()
	engine := matching.NewEngine(cfg.MatchPolicy, cfg.HoldDays, logger)
	svc := annotate.NewService(labelStore, corpus, engine, sizing, bus, logger)

	authHandler := auth.NewHandler(authSvc)
	annotateHandler := annotate.NewHandler(svc)
	wsHandler := httpserver.NewWSHandler(bus, authSvc, svc, cfg.WebSocketOrigin, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:     authHandler,
		AnnotateHandler: annotateHandler,
		AuthService:     authSvc,
		WSHandler:       wsHandler,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	logger.Info("server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("match_policy", string(cfg.MatchPolicy)),
		zap.Int("hold_days", cfg.HoldDays))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
