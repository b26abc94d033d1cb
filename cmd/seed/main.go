package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/config"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/notemaster-api/internal/infrastructure/postgres"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

// Seeds the demo dataset into Postgres. Records that already exist are left alone,
// so running it twice is harmless.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	seed, err := memory.DemoSeed(cfg.DemoPass)
	if err != nil {
		logger.Fatalf("failed to build demo data: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	verticals := pginfra.NewVerticalRepository(pool)
	subtitles := pginfra.NewSubtitleRepository(pool)
	notes := pginfra.NewNoteRepository(pool)

	count := func(kind, id string, err error) {
		switch {
		case err == nil:
			logger.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("seeded")
		case errors.Is(err, apperror.ErrConflict):
			logger.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("already present, skipped")
		default:
			logger.WithError(err).WithFields(logrus.Fields{"kind": kind, "id": id}).Fatal("seed failed")
		}
	}

	for _, u := range seed.Users {
		count("user", u.ID, users.Create(ctx, u))
	}
	for _, v := range seed.Verticals {
		count("vertical", v.ID, verticals.Create(ctx, v))
	}
	for _, s := range seed.Subtitles {
		count("subtitle", s.ID, subtitles.Create(ctx, s))
	}
	for _, n := range seed.Notes {
		count("note", n.ID, notes.Create(ctx, n))
	}
	logger.Infof("demo data ready; every demo account uses password %q", cfg.DemoPass)
}
