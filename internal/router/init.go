package router

import (
	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/internal/container"
	repo "github.com/oksasatya/notemaster-api/internal/domain/repository"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/notemaster-api/internal/infrastructure/postgres"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/rediscache"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/notemaster-api/internal/interface/http"
	"github.com/oksasatya/notemaster-api/internal/router/modules"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

type Repos struct {
	Users     repo.UserRepository
	Verticals repo.VerticalRepository
	Subtitles repo.SubtitleRepository
	Notes     repo.NoteRepository
}

// buildRepos picks Postgres when a pool is registered, the in-memory store otherwise,
// and puts the Redis taxonomy cache in front of either.
func buildRepos() Repos {
	var r Repos
	if pool := container.GetPGPool(); pool != nil {
		r = Repos{
			Users:     pginfra.NewUserRepository(pool),
			Verticals: pginfra.NewVerticalRepository(pool),
			Subtitles: pginfra.NewSubtitleRepository(pool),
			Notes:     pginfra.NewNoteRepository(pool),
		}
	} else {
		store := container.GetMemoryStore()
		if store == nil {
			store = memory.New(memory.Seed{}, 0)
			container.SetMemoryStore(store)
		}
		r = Repos{
			Users:     store.UserRepository(),
			Verticals: store.VerticalRepository(),
			Subtitles: store.SubtitleRepository(),
			Notes:     store.NoteRepository(),
		}
	}
	if rdb := container.GetRedis(); rdb != nil {
		ttl := container.GetConfig().TaxonomyCacheTTL
		r.Verticals = rediscache.NewVerticalRepository(r.Verticals, rdb, ttl, container.GetLogger())
		r.Subtitles = rediscache.NewSubtitleRepository(r.Subtitles, rdb, ttl, container.GetLogger())
	}
	return r
}

type Services struct {
	Auth      *application.AuthService
	Users     *application.UserService
	Verticals *application.VerticalService
	Subtitles *application.SubtitleService
	Notes     *application.NoteService
	Dashboard *application.DashboardService
}

func buildServices(r Repos) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var searcher application.NoteSearcher
	if es := container.GetES(); es != nil {
		searcher = search.NewNoteIndex(es, cfg.ESNotesIndex)
	}
	var events application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}
	var uploader application.ObjectUploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	return Services{
		Auth:      application.NewAuthService(r.Users, container.GetJWT(), container.GetRedis(), logger),
		Users:     application.NewUserService(r.Users, logger),
		Verticals: application.NewVerticalService(r.Verticals, uploader, logger),
		Subtitles: application.NewSubtitleService(r.Subtitles, r.Verticals, logger),
		Notes:     application.NewNoteService(r.Notes, r.Subtitles, r.Users, searcher, events, logger),
		Dashboard: application.NewDashboardService(r.Users, r.Verticals, r.Subtitles, r.Notes),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svc := buildServices(buildRepos())
	guard := modules.Guard{JWT: jwt, Loader: svc.Auth}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger, cfg.CookieDomain, cfg.CookieSecure), guard))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger), guard))
	r.Add(modules.NewTaxonomyModule(
		handlers.NewVerticalHandler(svc.Verticals, logger),
		handlers.NewSubtitleHandler(svc.Subtitles, logger),
		guard,
	))
	r.Add(modules.NewNoteModule(handlers.NewNoteHandler(svc.Notes, logger), guard))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(svc.Dashboard, logger), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
