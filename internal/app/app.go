package app

import (
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/internal/controller"
	"elearning_backend/internal/middleware"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/service"
	"elearning_backend/pkg/configwatcher"
	"elearning_backend/pkg/database"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/mailer"
	"elearning_backend/pkg/monitoring"
	"elearning_backend/pkg/security"
	"elearning_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)

	ctx       context.Context
	cancel    context.CancelFunc
	scheduler *cron.Cron
	tracer    *sdktrace.TracerProvider
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	content      *repository.ContentRepository
	enrollment   *repository.EnrollmentRepository
	progress     *repository.ProgressRepository
	notification *repository.NotificationRepository
}

type services struct {
	settings     *service.AnalyticsSettings
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	course       *service.CourseService
	content      *service.ContentService
	enrollment   *service.EnrollmentService
	progress     *service.ProgressService
	notification *service.NotificationService
	analytics    *service.AnalyticsService
	snapshot     *service.AnalyticsSnapshot
	dashboard    *service.DashboardService
	emailQueue   *service.RedisEmailQueue
}

type controllers struct {
	health       *controller.HealthController
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	content      *controller.ContentController
	enrollment   *controller.EnrollmentController
	progress     *controller.ProgressController
	notification *controller.NotificationController
	analytics    *controller.AnalyticsController
	dashboard    *controller.DashboardController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		content:      repository.NewContentRepository(db),
		enrollment:   repository.NewEnrollmentRepository(db),
		progress:     repository.NewProgressRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.settings = service.NewAnalyticsSettings(cfg.Analytics)
	s.storage = service.NewStorageService(a.ctx, cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.course = service.NewCourseService(repos.course, s.settings)
	s.content = service.NewContentService(repos.content, repos.course, s.storage)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.user, repos.course)
	s.progress = service.NewProgressService(repos.progress, repos.content)

	// Redis 可用时邮件走队列，否则直接异步发送
	m := mailer.New(&cfg.Mail)
	var emails service.EmailDispatcher = service.NewDirectEmailDispatcher(m)
	if rdb != nil {
		s.emailQueue = service.NewRedisEmailQueue(rdb, cfg.Redis.EmailQueue, m)
		emails = s.emailQueue
	}
	s.notification = service.NewNotificationService(repos.notification, repos.user, emails)

	s.analytics = service.NewAnalyticsService(repos.progress, repos.enrollment, repos.content, repos.user, s.settings)
	s.snapshot = service.NewAnalyticsSnapshot(s.analytics)
	s.dashboard = service.NewDashboardService(repos.enrollment, repos.notification, repos.progress, s.analytics)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:       controller.NewHealthController(db, rdb),
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		course:       controller.NewCourseController(s.course),
		content:      controller.NewContentController(s.content),
		enrollment:   controller.NewEnrollmentController(s.enrollment),
		progress:     controller.NewProgressController(s.progress),
		notification: controller.NewNotificationController(s.notification),
		analytics:    controller.NewAnalyticsController(s.analytics),
		dashboard:    controller.NewDashboardController(s.dashboard),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	if s.emailQueue != nil {
		go s.emailQueue.Run(a.ctx)
	}

	scheduler, err := s.snapshot.Schedule(cfg.Analytics.SnapshotCron)
	if err != nil {
		logger.Log.Error("Failed to schedule analytics snapshot", zap.Error(err))
	} else {
		a.scheduler = scheduler
		a.scheduler.Start()
	}

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.settings.Apply(newCfg.Analytics)
		logger.Log.Info("Analytics settings reloaded",
			zap.Int("active_window_days", newCfg.Analytics.ActiveWindowDays),
			zap.Int("top_courses_limit", newCfg.Analytics.TopCoursesLimit),
		)
	})

	go func() {
		err := configwatcher.WatchConfig(a.ctx, cfg.ConfigFile(), func(newCfg *config.Config) {
			for _, callback := range a.configCallbacks {
				callback(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式下默认不迁移，需显式 -migrate
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		ctx:    ctx,
		cancel: cancel,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	// 监控初始化
	monitoring.Init()

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	// MinIO 初始化失败时也会回退到本地目录
	if disk, ok := services.storage.Store.(*service.DiskAssetStore); ok {
		router.Static("/uploads", disk.Root)
	}

	app.startBackgroundTasks(services, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 停止后台任务并释放连接
func (a *App) Close(ctx context.Context) {
	a.cancel()

	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

