package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
	"github.com/oussamaessid/brainbox-server/internal/config"
	"github.com/oussamaessid/brainbox-server/internal/httpserver"
	"github.com/oussamaessid/brainbox-server/internal/session"
	"github.com/oussamaessid/brainbox-server/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// SQLite always backs users + game history; progress is selectable.
	db, err := openDB(cfg.Store.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	var progress store.Store
	switch cfg.Store.Backend {
	case "memory":
		progress = store.NewMemoryStore()
	case "redis":
		progress, err = store.NewRedisStore(context.Background(), cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	default:
		progress = store.NewSQLiteStore(db)
	}
	log.Info().Str("backend", cfg.Store.Backend).Msg("progress store ready")

	epoch, err := cfg.Game.EpochTime()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid epoch")
	}

	fetcher := catalog.NewFetcher(cfg.Catalog.BaseURL)
	fetcher.Client = &http.Client{Timeout: time.Duration(cfg.Catalog.FetchTimeout)}
	loader := catalog.NewLoader(fetcher)

	mgr := session.New(loader, progress, epoch, cfg.Game.LookaheadDays)
	mgr.Subscribe(func(ev session.Event) {
		log.Debug().
			Str("lang", string(ev.Language)).
			Str("date", ev.Date).
			Str("state", string(ev.State)).
			Int("lives", ev.Lives).
			Msg("session state")
	})

	srv := httpserver.New(mgr, progress, db, httpserver.Config{
		ClientOrigin:   cfg.Server.ClientOrigin,
		JWTSecret:      cfg.Auth.JWTSecret,
		CookieName:     cfg.Auth.CookieName,
		TokenDays:      cfg.Auth.TokenDays,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Str("epoch", cfg.Game.Epoch).Int("lookahead", cfg.Game.LookaheadDays).Msg("starting brainbox-server")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
