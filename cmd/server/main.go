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

	"github.com/jason-s-yu/stack/internal/auth"
	"github.com/jason-s-yu/stack/internal/cache"
	"github.com/jason-s-yu/stack/internal/config"
	"github.com/jason-s-yu/stack/internal/database"
	"github.com/jason-s-yu/stack/internal/game"
	"github.com/jason-s-yu/stack/internal/room"
	"github.com/jason-s-yu/stack/internal/server"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := initLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func initLogger(cfg config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func run(ctx context.Context, cfg config.Config) error {
	var historian game.ActionPublisher
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		historian = cache.NewHistorian(rdb, cfg.HistorianKey)
		logrus.WithField("addr", cfg.RedisAddr).Info("action historian enabled")
	} else {
		logrus.Warn("REDIS_ADDR not set; action history disabled")
	}

	var archive game.GameArchive
	if cfg.DatabaseURL != "" {
		store, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		archive = store
		logrus.Info("game archive enabled")
	} else {
		logrus.Warn("DATABASE_URL not set; game archive disabled")
	}

	sessions, err := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET not set; sessions will not survive a restart")
	}

	rules := game.HouseRules{
		PhaseOneDuration:    cfg.PhaseOneDuration,
		PeekDuration:        cfg.PeekDuration,
		StackWindowDuration: cfg.StackWindowDuration,
		ForfeitOnDisconnect: cfg.ForfeitOnDisconnect,
	}
	hub := server.NewHub()
	rooms := room.NewStore(func(roomID string) *game.StackGame {
		g := game.NewStackGame(roomID, rules)
		g.BroadcastToPlayerFn = hub.SendTo
		g.Historian = historian
		g.Archive = archive
		return g
	})
	defer rooms.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewServer(rooms, hub, sessions).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logrus.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
