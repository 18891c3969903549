package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memory/internal/config"
	"github.com/robalobadob/memory/internal/events"
	"github.com/robalobadob/memory/internal/httpserver"
	"github.com/robalobadob/memory/internal/janitor"
	"github.com/robalobadob/memory/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open store")
	}
	defer closeKV()

	pub := events.NewLog()
	if cfg.NatsURL != "" {
		if pub, err = events.ConnectNATS(cfg.NatsURL, events.DefaultPrefix); err != nil {
			log.Fatal().Err(err).Msg("connect nats")
		}
	}

	srv := httpserver.New(httpserver.Options{
		KV:           kv,
		Events:       pub,
		Secret:       cfg.PlayerSecret,
		ClientOrigin: cfg.ClientOrigin,
	})
	defer srv.Close()

	jan, err := janitor.Start(srv, cfg.SweepInterval, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("start janitor")
	}
	defer func() { _ = jan.Stop() }()

	httpSrv := &http.Server{Addr: cfg.Addr(), Handler: srv.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("starting memory server")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server exited")
	}
	log.Info().Msg("shut down")
}

func setupLogger(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	var out io.Writer = os.Stderr
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// openKV builds the configured records backend and its cleanup.
func openKV(ctx context.Context, cfg *config.Config) (store.KV, func(), error) {
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store.NewSQLite(db), func() { _ = db.Close() }, nil
	case "redis":
		rdb, err := store.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(rdb, "memory:"), func() { _ = rdb.Close() }, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}
