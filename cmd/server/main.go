package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backupapp "github.com/mecanicpro/backend/internal/application/backup"
	financeapp "github.com/mecanicpro/backend/internal/application/finance"
	identityapp "github.com/mecanicpro/backend/internal/application/identity"
	inventoryapp "github.com/mecanicpro/backend/internal/application/inventory"
	"github.com/mecanicpro/backend/internal/application/maintenance"
	mediaapp "github.com/mecanicpro/backend/internal/application/media"
	partnerapp "github.com/mecanicpro/backend/internal/application/partner"
	reportapp "github.com/mecanicpro/backend/internal/application/report"
	settingsapp "github.com/mecanicpro/backend/internal/application/settings"
	workshopapp "github.com/mecanicpro/backend/internal/application/workshop"
	"github.com/mecanicpro/backend/internal/infrastructure/auth"
	"github.com/mecanicpro/backend/internal/infrastructure/cache"
	"github.com/mecanicpro/backend/internal/infrastructure/config"
	"github.com/mecanicpro/backend/internal/infrastructure/event"
	"github.com/mecanicpro/backend/internal/infrastructure/logger"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence/sync"
	"github.com/mecanicpro/backend/internal/infrastructure/scheduler"
	"github.com/mecanicpro/backend/internal/infrastructure/storage"
	"github.com/mecanicpro/backend/internal/infrastructure/telemetry"
	"github.com/mecanicpro/backend/internal/interfaces/http/handler"
	"github.com/mecanicpro/backend/internal/interfaces/http/middleware"
	"github.com/mecanicpro/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/mecanicpro/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			MecanicPro API
//	@version		1.0
//	@description	Workshop management backend for customers, service orders, inventory and cash flow
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/mecanicpro/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting MecanicPro backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Remote database (Postgres) - schema managed by versioned migrations
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Local mirror (SQLite) keeps the workshop usable when the remote
	// store is unreachable, and holds the replication journal
	localDB, err := persistence.NewLocalDatabase(cfg.Sync.LocalPath)
	if err != nil {
		log.Fatal("Failed to open local mirror", zap.Error(err))
	}
	defer func() {
		if err := localDB.Close(); err != nil {
			log.Error("Error closing local mirror", zap.Error(err))
		}
	}()
	if err := persistence.AutoMigrateLocal(localDB.DB); err != nil {
		log.Fatal("Failed to migrate local mirror", zap.Error(err))
	}
	log.Info("Local mirror ready", zap.String("path", cfg.Sync.LocalPath))

	// Telemetry (OTLP traces and metrics)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Optional OTLP log export: tee zap entries into the collector
	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, logsProvider, zapcore.InfoLevel)
		log = telemetry.NewBridgedLogger(log.Core(), otelCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// Continuous profiling (Pyroscope)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilerEnabled,
		ServerAddress:     cfg.Telemetry.ProfilerServerAddress,
		ApplicationName:   cfg.Telemetry.ProfilerAppName,
		ProfileCPU:        true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Database query tracing (otel spans per query)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := db.DB.Use(dbTracing); err != nil {
			log.Warn("Failed to install database tracing plugin", zap.Error(err))
		}
	}

	// Database query and pool metrics on the remote store
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.DBMetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	} else if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(context.Background())
		defer dbMetrics.Stop()
	}

	// Remote repositories (Postgres)
	remoteCustomerRepo := persistence.NewGormCustomerRepository(db.DB)
	remoteOrderRepo := persistence.NewGormServiceOrderRepository(db.DB)
	remoteTransactionRepo := persistence.NewGormTransactionRepository(db.DB)
	remoteItemRepo := persistence.NewGormItemRepository(db.DB)
	remoteSettingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// Local repositories (SQLite mirror)
	localCustomerRepo := persistence.NewGormCustomerRepository(localDB.DB)
	localOrderRepo := persistence.NewGormServiceOrderRepository(localDB.DB)
	localTransactionRepo := persistence.NewGormTransactionRepository(localDB.DB)
	localItemRepo := persistence.NewGormItemRepository(localDB.DB)
	localSettingsRepo := persistence.NewGormSettingsRepository(localDB.DB)

	// Mirrored repositories write to both stores and journal the write
	// for replay when the remote store was down
	journal := sync.NewJournal(localDB.DB)
	customerRepo := sync.NewMirroredCustomerRepository(remoteCustomerRepo, localCustomerRepo, journal, log)
	orderRepo := sync.NewMirroredServiceOrderRepository(remoteOrderRepo, localOrderRepo, journal, log)
	transactionRepo := sync.NewMirroredTransactionRepository(remoteTransactionRepo, localTransactionRepo, journal, log)
	itemRepo := sync.NewMirroredItemRepository(remoteItemRepo, localItemRepo, journal, log)
	settingsRepo := sync.NewMirroredSettingsRepository(remoteSettingsRepo, localSettingsRepo, journal, log)

	// Operator accounts live only in the remote store; they are not
	// part of the workshop snapshot
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Background syncer drains the journal against the remote store
	applier := sync.NewRemoteApplier(remoteCustomerRepo, remoteOrderRepo, remoteTransactionRepo, remoteItemRepo, remoteSettingsRepo)
	syncer := sync.NewSyncer(journal, applier, sync.SyncerConfig{
		Interval:      cfg.Sync.Interval,
		BatchSize:     cfg.Sync.BatchSize,
		MaxAttempts:   cfg.Sync.MaxAttempts,
		RetentionTime: cfg.Sync.Retention,
	}, log)
	syncer.Start(context.Background())
	defer syncer.Stop()

	// Idempotency store guards settlement retries and deduplicates
	// event deliveries; Redis when available, in-memory otherwise
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	lowStockAlertHandler := inventoryapp.NewLowStockAlertHandler(log)
	eventBus.Subscribe(event.NewIdempotentHandler(lowStockAlertHandler, idempotencyStore, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Object storage for vehicle, order and logo images
	var objectStorage mediaapp.ObjectStorageService
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("S3 object storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorageFromConfig(&cfg.Storage)
		log.Info("Stub object storage configured", zap.String("dir", cfg.Storage.LocalDir))
	}

	// Initialize application services
	customerService := partnerapp.NewCustomerService(customerRepo, eventBus)
	orderService := workshopapp.NewServiceOrderService(orderRepo, customerRepo, settingsRepo, eventBus)
	paymentService := workshopapp.NewPaymentService(orderRepo, transactionRepo, settingsRepo, idempotencyStore, eventBus)
	itemService := inventoryapp.NewItemService(itemRepo, eventBus)
	transactionService := financeapp.NewTransactionService(transactionRepo, eventBus)
	analyticsService := financeapp.NewAnalyticsService(transactionRepo, orderRepo)
	settingsService := settingsapp.NewService(settingsRepo)
	dashboardService := reportapp.NewDashboardService(orderRepo, transactionRepo, itemRepo, settingsRepo)
	mediaService := mediaapp.NewService(objectStorage, log)

	// Backup works through the mirrored repositories so an import
	// reaches both stores; the wiper clears both up front, and each
	// store wraps the wipe and restore in its own transaction
	wiper := backupapp.FanOutWiper{
		persistence.NewGormWiper(db.DB),
		persistence.NewGormWiper(localDB.DB),
	}
	atomicStores := backupapp.NestedAtomic{db, localDB}
	backupService := backupapp.NewService(customerRepo, orderRepo, transactionRepo, itemRepo, settingsRepo, wiper, atomicStores, log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err == nil {
		defer redisBlacklist.Close()
		tokenBlacklist = redisBlacklist
		log.Info("Using Redis token blacklist")
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)

	if cfg.Bootstrap.AdminPassword != "" {
		if err := userService.EnsureDefaultUser(context.Background(), cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
			log.Fatal("Failed to ensure default operator account", zap.Error(err))
		}
	} else {
		log.Warn("No bootstrap password configured; skipping default operator account")
	}

	// One-time migration of a legacy local snapshot into an empty database
	snapshotSource := persistence.NewLocalSnapshotStore(localDB.DB)
	if err := backupService.MigrateIfEmpty(context.Background(), snapshotSource); err != nil {
		log.Fatal("Failed to migrate legacy snapshot", zap.Error(err))
	}

	// Business metrics: order and payment counters plus periodic
	// low-stock and pending-cheque gauges
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("mecanicpro-backend"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
		defer businessMetrics.Stop()

		orderService.SetBusinessMetrics(businessMetrics)
		paymentService.SetBusinessMetrics(businessMetrics)
	}

	// Daily maintenance: counter reset, cheque due reminders, low
	// stock scan
	if cfg.Scheduler.Enabled {
		executor := maintenance.NewExecutor(settingsService, transactionRepo, itemRepo, log)
		maintenanceScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, executor, log)
		if err := maintenanceScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()

		hour, minute, err := scheduler.ParseDailySchedule(cfg.Scheduler.DailyCronSchedule)
		if err != nil {
			log.Fatal("Invalid daily cron schedule",
				zap.String("schedule", cfg.Scheduler.DailyCronSchedule),
				zap.Error(err),
			)
		}
		trigger := scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			DailyHour:     hour,
			DailyMinute:   minute,
			CheckInterval: time.Minute,
		}, maintenanceScheduler, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start daily maintenance trigger", zap.Error(err))
		}
		defer trigger.Stop()
	}

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	serviceOrderHandler := handler.NewServiceOrderHandler(orderService, paymentService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	inventoryHandler := handler.NewInventoryHandler(itemService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	backupHandler := handler.NewBackupHandler(backupService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	authHandler := handler.NewAuthHandler(authService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - Telemetry per request (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("http"), true))
	}
	if cfg.Telemetry.ProfilerEnabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		swaggerProtection := middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddleware(jwtService))
		engine.GET("/swagger/*any", swaggerProtection, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Stricter rate limit on login to slow down credential stuffing
	var loginHandlers []gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		loginHandlers = append(loginHandlers, middleware.AuthRateLimit(authLimiter))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}
	loginHandlers = append(loginHandlers, authHandler.Login)

	// Identity (authentication)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", loginHandlers...)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Partner domain (customers and their vehicles)
	partnerRoutes := router.NewDomainGroup("partner", "/customers")
	partnerRoutes.POST("", customerHandler.Create)
	partnerRoutes.GET("", customerHandler.List)
	partnerRoutes.GET("/by-plate/:plate", customerHandler.GetByPlate)
	partnerRoutes.GET("/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/:id", customerHandler.Update)
	partnerRoutes.DELETE("/:id", customerHandler.Delete)
	partnerRoutes.POST("/:id/vehicles", customerHandler.AddVehicle)
	partnerRoutes.PUT("/:id/vehicles/:vehicleId", customerHandler.UpdateVehicle)
	partnerRoutes.DELETE("/:id/vehicles/:vehicleId", customerHandler.RemoveVehicle)

	// Workshop domain (service order lifecycle)
	workshopRoutes := router.NewDomainGroup("workshop", "/service-orders")
	workshopRoutes.POST("", serviceOrderHandler.Create)
	workshopRoutes.GET("", serviceOrderHandler.ListActive)
	workshopRoutes.GET("/history", serviceOrderHandler.ListHistory)
	workshopRoutes.GET("/:id", serviceOrderHandler.GetByID)
	workshopRoutes.PUT("/:id/budget", serviceOrderHandler.UpdateBudget)
	workshopRoutes.POST("/:id/approve", serviceOrderHandler.Approve)
	workshopRoutes.PUT("/:id/execution", serviceOrderHandler.UpdateExecution)
	workshopRoutes.POST("/:id/settle", serviceOrderHandler.Settle)
	workshopRoutes.DELETE("/:id", serviceOrderHandler.Delete)

	// Finance domain (manual expenses/incomes and cheque lifecycle)
	financeRoutes := router.NewDomainGroup("finance", "/transactions")
	financeRoutes.POST("/expenses", transactionHandler.RecordExpense)
	financeRoutes.POST("/incomes", transactionHandler.RecordIncome)
	financeRoutes.GET("", transactionHandler.List)
	financeRoutes.GET("/:id", transactionHandler.GetByID)
	financeRoutes.POST("/:id/clear", transactionHandler.ClearCheque)
	financeRoutes.POST("/:id/bounce", transactionHandler.BounceCheque)
	financeRoutes.DELETE("/:id", transactionHandler.Delete)

	// Cash-flow analytics
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.GET("", analyticsHandler.Compute)

	// Inventory domain
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("", inventoryHandler.Create)
	inventoryRoutes.GET("", inventoryHandler.List)
	inventoryRoutes.GET("/low-stock", inventoryHandler.ListLowStock)
	inventoryRoutes.GET("/:id", inventoryHandler.GetByID)
	inventoryRoutes.PUT("/:id", inventoryHandler.Update)
	inventoryRoutes.POST("/:id/adjust", inventoryHandler.AdjustQuantity)
	inventoryRoutes.PUT("/:id/quantity", inventoryHandler.SetQuantity)
	inventoryRoutes.DELETE("/:id", inventoryHandler.Delete)

	// Settings and daily counters
	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.GET("", settingsHandler.Get)
	settingsRoutes.PUT("/workshop", settingsHandler.UpdateWorkshopInfo)
	settingsRoutes.POST("/reset-counters", settingsHandler.ResetDailyCounters)

	// Backup export/import
	backupRoutes := router.NewDomainGroup("backup", "/backup")
	backupRoutes.GET("/export", backupHandler.Export)
	backupRoutes.POST("/import", backupHandler.Import)

	// Landing-screen dashboard
	reportRoutes := router.NewDomainGroup("report", "/dashboard")
	reportRoutes.GET("", dashboardHandler.Summary)

	// Media uploads (presigned URLs)
	mediaRoutes := router.NewDomainGroup("media", "/media")
	mediaRoutes.POST("/uploads", mediaHandler.RequestUpload)
	mediaRoutes.GET("/download-url", mediaHandler.ResolveDownloadURL)
	mediaRoutes.DELETE("", mediaHandler.DeleteImage)

	// Register all domain groups
	r.Register(authRoutes).
		Register(partnerRoutes).
		Register(workshopRoutes).
		Register(financeRoutes).
		Register(analyticsRoutes).
		Register(inventoryRoutes).
		Register(settingsRoutes).
		Register(backupRoutes).
		Register(reportRoutes).
		Register(mediaRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Push any journalled writes before the process exits
	syncer.Drain(ctx)

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
