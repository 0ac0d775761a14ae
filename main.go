// Package main provides the main entry point for the Localyard marketplace API
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/localyard/localyard/app/handlers"
	"github.com/localyard/localyard/app/middleware"
	"github.com/localyard/localyard/app/router"
	"github.com/localyard/localyard/app/services"
	businessflow "github.com/localyard/localyard/business_flow"
	"github.com/localyard/localyard/config"
	_ "github.com/localyard/localyard/docs"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Localyard application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// The cache is optional: when disabled, centroid lookups go straight to the
// database and the rest of the system is unaffected.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
// ensureAdminAccount creates the panel account named in config when it does
// not exist yet. Skipped when no bootstrap password is configured.
func ensureAdminAccount(ctx context.Context, adminRepo repository.AdminRepository, cfg config.AdminConfig) error {
	if cfg.Password == "" {
		log.Println("Admin bootstrap skipped (ADMIN_PASSWORD not set)")
		return nil
	}

	existing, err := adminRepo.ByUsername(ctx, cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     cfg.Username,
		PasswordHash: string(passwordHash),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := adminRepo.Save(ctx, admin); err != nil {
		return err
	}

	log.Printf("Admin account %q created", cfg.Username)
	return nil
}

func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	providerRepo := repository.NewProviderRepository(db)
	sessionRepo := repository.NewProviderSessionRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	serviceAreaRepo := repository.NewServiceAreaRepository(db)
	globalZipRepo := repository.NewGlobalZipRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	productRepo := repository.NewProductRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	centroidRepo := repository.NewZipCentroidRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Startup probes run once; their outcome fixes the capability mode for
	// the process lifetime.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startupCancel()

	if err := ensureAdminAccount(startupCtx, adminRepo, cfg.Admin); err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	// Distance service: disabled when the centroid dataset is empty, so
	// eligibility degrades to exact-match only.
	distanceSvc, err := services.NewCentroidDistanceService(startupCtx, centroidRepo, rc, cfg.Geo.CentroidCacheTTL, cfg.Geo.ResolveTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize distance service: %w", err)
	}
	if distanceSvc.Enabled() {
		log.Println("Proximity matching enabled (zip centroid dataset present)")
	} else {
		log.Println("Proximity matching disabled, eligibility runs in exact-only mode")
	}

	// Captcha service for admin login
	captchaSvc, err := services.NewCaptchaServiceRotate(cfg.Captcha.TTL, cfg.Captcha.AnglePadding, cfg.Captcha.ImageSizePx)
	if err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	eligibilityFlow := businessflow.NewEligibilityFlow(
		providerRepo,
		globalZipRepo,
		profileRepo,
		distanceSvc,
	)
	log.Printf("Eligibility engine running in %q mode", eligibilityFlow.Mode())

	searchFlow := businessflow.NewSearchFlow(startupCtx, serviceRepo, cfg.Geo.SearchResultLimit)
	log.Printf("Search engine running in %q mode", searchFlow.Mode())

	authFlow := businessflow.NewProviderAuthFlow(
		providerRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		db,
	)

	profileFlow := businessflow.NewProviderProfileFlow(
		providerRepo,
		serviceAreaRepo,
		serviceRepo,
		leadRepo,
		auditRepo,
		db,
	)

	catalogFlow := businessflow.NewCatalogFlow(
		serviceRepo,
		productRepo,
		providerRepo,
		profileRepo,
		db,
	)

	leadFlow := businessflow.NewLeadFlow(
		leadRepo,
		providerRepo,
		auditRepo,
		eligibilityFlow,
		db,
	)

	adminFlow := businessflow.NewAdminFlow(
		adminRepo,
		providerRepo,
		serviceRepo,
		productRepo,
		leadRepo,
		globalZipRepo,
		profileRepo,
		centroidRepo,
		auditRepo,
		tokenService,
		captchaSvc,
		eligibilityFlow,
		searchFlow,
		db,
	)

	// Initialize handlers
	publicHandler := handlers.NewPublicHandler(eligibilityFlow, searchFlow, catalogFlow, leadFlow)
	authHandler := handlers.NewProviderAuthHandler(authFlow)
	providerHandler := handlers.NewProviderHandler(profileFlow, catalogFlow, leadFlow)
	adminHandler := handlers.NewAdminHandler(adminFlow, leadFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		publicHandler,
		authHandler,
		providerHandler,
		adminHandler,
		authMiddleware,
		cfg.Security.AllowedOrigins,
	)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
