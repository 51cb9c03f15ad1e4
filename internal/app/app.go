package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/db"
	apphttp "github.com/starsignlabs/zodiac-backend/internal/http"
	"github.com/starsignlabs/zodiac-backend/internal/observability"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "zodiac-backend",
		Environment: cfg.Environment,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	if cfg.SeedFile != "" {
		if err := db.Seed(theDB, log, cfg.SeedFile); err != nil {
			log.Sync()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet)
	handlerset := wireHandlers(theDB, log, serviceset)

	server := apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		ServiceName:     "zodiac-backend",
		AllowedOrigins:  cfg.AllowedOrigins,
		Redis:           rdb,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		QueryTimeout:    cfg.Survey.QueryTimeout,
		SessionHandler:  handlerset.Session,
		ResponseHandler: handlerset.Response,
		ZodiacHandler:   handlerset.Zodiac,
		CategoryHandler: handlerset.Category,
		QuestionHandler: handlerset.Question,
		HealthHandler:   handlerset.Health,
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Router:       server.Engine,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background workers. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Services.Session.StartCleanupWorker(ctx)
}

func (a *App) Run() error {
	a.Log.Info("Starting HTTP server", "port", a.Cfg.Port)
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Shutdown(ctx context.Context) {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
