package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"studyforge_backend/internal/config"
	"studyforge_backend/internal/controller"
	"studyforge_backend/internal/realtime"
	"studyforge_backend/internal/repository"
	"studyforge_backend/internal/service"
	"studyforge_backend/pkg/database"
	"studyforge_backend/pkg/logger"
	"studyforge_backend/pkg/monitoring"
	"studyforge_backend/pkg/security"
	"studyforge_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	artifact    *repository.ArtifactRepository
	quizAttempt *repository.QuizAttemptRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	user       *service.UserService
	artifact   *service.ArtifactService
	generation *service.GenerationService
	scoring    *service.ScoringService
	hub        *realtime.Hub
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	artifact *controller.ArtifactController
	dispatch *controller.DispatchController
	scoring  *controller.ScoringController
	events   *controller.EventsController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		artifact:    repository.NewArtifactRepository(db),
		quizAttempt: repository.NewQuizAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.hub = realtime.NewHub(rdb)
	go s.hub.Run()

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)

	ai := service.NewAIService(cfg.AI)
	s.generation = service.NewGenerationService(repos.artifact, ai, s.hub)

	s.artifact = service.NewArtifactService(repos.artifact, s.hub, cfg)
	s.artifact.EnableInternalDispatch(s.generation)

	s.scoring = service.NewScoringService(repos.quizAttempt, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		user:     controller.NewUserController(s.user),
		artifact: controller.NewArtifactController(s.artifact),
		dispatch: controller.NewDispatchController(s.generation),
		scoring:  controller.NewScoringController(s.scoring),
		events:   controller.NewEventsController(s.hub),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
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

func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			// Re-read each tick so a config reload can retune or disable
			// the sweep.
			maxAge := a.Config.RequeueMaxAge()
			if maxAge <= 0 {
				continue
			}
			if err := s.generation.RequeueStale(context.Background(), maxAge); err != nil {
				logger.Log.Error("stale pending sweep failed", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("studyforge", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

// ApplyConfig installs the hot-reloadable settings from a freshly loaded
// config: secret rotation, the internal dispatch toggle, and the requeue
// sweep age. The write is synchronized inside ApplyReloadable; request
// handlers and the sweep read the same fields through the locked accessors.
func (a *App) ApplyConfig(newCfg *config.Config) {
	a.Config.ApplyReloadable(newCfg)
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

	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
