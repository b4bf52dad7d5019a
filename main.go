package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"recipe-gamification/config"
	"recipe-gamification/handlers"
	"recipe-gamification/middleware"
	"recipe-gamification/models"
	"recipe-gamification/services"
	"recipe-gamification/utils"
	"recipe-gamification/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	clock := services.SystemClock(loc)

	var (
		backend services.Backend
		plans   *services.PlanResolver
		db      *gorm.DB
	)
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("⚠️  STORE_DRIVER=memory — state is lost on restart and every user is on the free plan")
		backend = services.NewMemoryBackend()
	default:
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(
			&models.GamificationRecord{},
			&models.PlanMirror{},
		); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		backend = services.NewGormBackend(db)
		plans = services.NewPlanResolver(db, clock)
	}

	var snapshots *services.SnapshotService
	if cfg.BackupsEnabled() {
		blobs, err := utils.NewR2BlobStore(ctx, utils.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2Bucket,
		})
		if err != nil {
			logger.Fatal("failed to initialize R2 client", zap.Error(err))
		}
		snapshots = services.NewSnapshotService(backend, blobs, clock)
	} else {
		logger.Warn("⚠️  R2 not configured — backups disabled")
	}

	engines := services.NewEngineFactory(backend, plans, clock)

	if cfg.PlanSyncEnabled() && db != nil {
		client := workers.NewPlanSyncClient(cfg.SubscriptionSyncURL, cfg.ServiceToken)
		go workers.PollPlans(ctx, db, client, cfg.PlanSyncInterval, func(userIDs []string) { plans.Invalidate(userIDs...) })
	} else {
		logger.Warn("⚠️  Plan sync disabled — plans come from whatever is already mirrored")
	}

	scheduler := services.NewScheduler(backend, snapshots, clock, loc)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	app := fiber.New()

	// 🔐❗ GLOBAL: only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	handlers.SetupGamificationRoutes(app, engines, snapshots, cfg.StreamInterval)
	handlers.SetupChallengeRoutes(app, engines)
	handlers.SetupBadgeRoutes(app, engines)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	logger.Info("✅ Server running", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver), zap.String("timezone", loc.String()))
	logger.Info("✅ CORS configured", zap.String("origins", cfg.Origins()))

	<-ctx.Done()
	logger.Info("Shutting down server...")
	_ = app.Shutdown()
}
