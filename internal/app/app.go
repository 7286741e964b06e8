package app

import (
	"context"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/content"
	"learnpath_backend/internal/controller"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/schema"
	"learnpath_backend/internal/service"
	"learnpath_backend/pkg/configwatcher"
	"learnpath_backend/pkg/database"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"
	"learnpath_backend/pkg/security"
	"learnpath_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	Content *content.Store

	services    *services
	controllers *controllers
}

type services struct {
	progress     *service.ProgressService
	achievements *service.AchievementService
	sessions     *service.SessionService
	query        *service.QueryService
	state        *service.StateManager
}

type controllers struct {
	progress     *controller.ProgressController
	achievements *controller.AchievementController
	sessions     *controller.SessionController
	content      *controller.ContentController
	health       *controller.HealthController
}

func (a *App) initContent(cfg *config.Config) *content.Store {
	catalog := content.Default()

	if cfg.Content.File != "" {
		loaded, err := content.LoadFile(cfg.Content.File)
		if err != nil {
			logger.Log.Fatal("Failed to load content catalog", zap.Error(err))
		}
		catalog = loaded
	}

	store := content.NewStore(catalog)

	if cfg.Content.File != "" && cfg.Content.Watch {
		err := configwatcher.WatchFile(cfg.Content.File, func(path string) {
			reloaded, err := content.LoadFile(path)
			if err != nil {
				logger.Log.Error("Content catalog reload failed, keeping previous catalog", zap.Error(err))
				return
			}
			store.Replace(reloaded)
			logger.Log.Info("Content catalog reloaded", zap.String("path", path))
		})
		if err != nil {
			logger.Log.Error("Failed to watch content catalog", zap.Error(err))
		}
	}

	return store
}

func (a *App) initStore(cfg *config.Config) repository.KVStore {
	switch cfg.Storage.Backend {
	case "mysql":
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
		return repository.NewGormStore(db)
	case "memory":
		logger.Log.Warn("Using in-memory storage, progress will not survive a restart")
		return repository.NewMemoryStore()
	default:
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		return repository.NewRedisStore(rdb)
	}
}

func (a *App) initServices(repo *repository.ProgressRepository, contentStore *content.Store) *services {
	s := &services{}

	s.progress = service.NewProgressService(contentStore)
	s.achievements = service.NewAchievementService(contentStore)
	s.sessions = service.NewSessionService()
	s.query = service.NewQueryService(contentStore)
	s.state = service.NewStateManager(repo, s.progress)

	return s
}

func (a *App) initControllers(s *services, store repository.KVStore, cfg *config.Config, contentStore *content.Store) *controllers {
	return &controllers{
		progress:     controller.NewProgressController(s.state, s.progress, s.sessions, s.query),
		achievements: controller.NewAchievementController(s.state, s.achievements, contentStore),
		sessions:     controller.NewSessionController(s.state, s.sessions),
		content:      controller.NewContentController(contentStore),
		health:       controller.NewHealthController(store, cfg.Storage.Backend, s.state),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{Config: cfg}

	contentStore := app.initContent(cfg)
	app.Content = contentStore

	store := app.initStore(cfg)

	validator := schema.NewValidator(contentStore.Catalog().ModuleIDs())
	migrator := schema.NewMigrator()
	repo := repository.NewProgressRepository(store, validator, migrator)

	services := app.initServices(repo, contentStore)
	app.services = services

	if err := services.state.Init(context.Background(), model.VariantA); err != nil {
		logger.Log.Fatal("Failed to initialize progress state", zap.Error(err))
	}

	app.controllers = app.initControllers(services, store, cfg, contentStore)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("learnpath-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, app.controllers)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
