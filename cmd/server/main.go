package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/armadagame/armada-server/internal/ai"
	"github.com/armadagame/armada-server/internal/card"
	"github.com/armadagame/armada-server/internal/config"
	"github.com/armadagame/armada-server/internal/game"
	"github.com/armadagame/armada-server/internal/hub"
	"github.com/armadagame/armada-server/internal/repository"
	"github.com/armadagame/armada-server/internal/session"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Armada server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	stats := db.Stats()
	logger.Info("database connection pool initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("idle_conns", stats.IdleConns()),
	)

	gameRepo := repository.NewGameRepository(db)
	userRepo := repository.NewUserRepository(db)

	catalog, err := loadCatalog(cfg.Cards)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	logger.Info("card catalog loaded", zap.Int("templates", catalog.Size()))

	sessionMgr := session.NewManager(logger)
	logger.Info("session manager initialized")

	// The decision engine and the hub each guard their own random source,
	// so they must not share one.
	engine := game.NewEngine(logger)
	decider := ai.NewEngine(logger, rand.New(rand.NewSource(time.Now().UnixNano())))

	gameHub := hub.New(hub.Options{
		Logger:   logger,
		Engine:   engine,
		Decider:  decider,
		Games:    gameRepo,
		Users:    userRepo,
		Sessions: sessionMgr,
		Catalog:  catalog,
		DeckSize: cfg.Cards.DeckSize,
		Delays: map[ai.Difficulty]ai.DelayRange{
			ai.DifficultyEasy:   {Min: cfg.AI.Easy.Min, Max: cfg.AI.Easy.Max},
			ai.DifficultyMedium: {Min: cfg.AI.Medium.Min, Max: cfg.AI.Medium.Max},
			ai.DifficultyHard:   {Min: cfg.AI.Hard.Min, Max: cfg.AI.Hard.Max},
		},
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	logger.Info("game hub initialized")

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gameHub.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	go func() {
		logger.Info("starting websocket server", zap.String("address", cfg.Server.Address))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("websocket server error", zap.Error(serveErr))
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("Armada server stopped")
}

func loadCatalog(cfg config.CardsConfig) (*card.Catalog, error) {
	if cfg.CatalogPath == "" {
		return card.DefaultCatalog(), nil
	}
	return card.LoadCatalog(cfg.CatalogPath)
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
