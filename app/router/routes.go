// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/app/handlers"
	"github.com/localyard/localyard/app/middleware"
	_ "github.com/localyard/localyard/docs"
	"github.com/localyard/localyard/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app             *fiber.App
	publicHandler   handlers.PublicHandlerInterface
	authHandler     handlers.ProviderAuthHandlerInterface
	providerHandler handlers.ProviderHandlerInterface
	adminHandler    handlers.AdminHandlerInterface
	authMiddleware  *middleware.AuthMiddleware
	corsOrigins     []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	publicHandler handlers.PublicHandlerInterface,
	authHandler handlers.ProviderAuthHandlerInterface,
	providerHandler handlers.ProviderHandlerInterface,
	adminHandler handlers.AdminHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
	corsOrigins []string,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Localyard API",
		ServerHeader: "Localyard",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:             app,
		publicHandler:   publicHandler,
		authHandler:     authHandler,
		providerHandler: providerHandler,
		adminHandler:    adminHandler,
		authMiddleware:  authMiddleware,
		corsOrigins:     corsOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the API group and rate limits
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// API documentation route (development only)
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/swagger.json", r.serveSwaggerJSON)
		r.app.Get("/swagger", r.serveSwaggerUI)
		log.Println("API documentation enabled for development")
	}

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Public marketplace surface
	api.Get("/zip-check", r.publicHandler.CheckZip)
	api.Get("/search", r.publicHandler.Search)
	api.Get("/listings", r.publicHandler.Listings)
	api.Get("/services/:id", r.publicHandler.ServiceDetail)
	api.Post("/contact", r.publicHandler.Contact)

	// Provider account routes with stricter rate limiting on credentials
	providers := api.Group("/providers")
	authLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	})

	providers.Post("/register", r.authHandler.Register, authLimiter)
	providers.Post("/login", r.authHandler.Login, authLimiter)
	providers.Post("/refresh", r.authHandler.Refresh, authLimiter)
	providers.Post("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate())
	providers.Put("/password", r.authHandler.ChangePassword, r.authMiddleware.Authenticate())

	// Authenticated provider dashboard
	me := providers.Group("/me", r.authMiddleware.Authenticate())
	me.Get("/", r.providerHandler.GetProfile)
	me.Put("/", r.providerHandler.UpdateProfile)
	me.Get("/analytics", r.providerHandler.Analytics)

	me.Get("/service-areas", r.providerHandler.ListServiceAreas)
	me.Post("/service-areas", r.providerHandler.AddServiceArea)
	me.Delete("/service-areas/:id", r.providerHandler.RemoveServiceArea)

	me.Get("/leads", r.providerHandler.ListLeads)
	me.Post("/leads/:id/complete", r.providerHandler.CompleteLead)
	me.Post("/leads/:id/reject", r.providerHandler.RejectLead)
	me.Post("/leads/:id/schedule", r.providerHandler.ScheduleLead)
	me.Post("/leads/:id/recurring", r.providerHandler.ToggleLeadRecurring)

	me.Get("/services", r.providerHandler.ListServices)
	me.Post("/services", r.providerHandler.CreateService)
	me.Put("/services/:id", r.providerHandler.UpdateService)
	me.Delete("/services/:id", r.providerHandler.DeleteService)

	me.Get("/products", r.providerHandler.ListProducts)
	me.Post("/products", r.providerHandler.CreateProduct)
	me.Put("/products/:id", r.providerHandler.UpdateProduct)
	me.Delete("/products/:id", r.providerHandler.DeleteProduct)

	// Public provider pages. Registered after /providers/me so the
	// authenticated dashboard wins the match.
	providers.Get("/", r.publicHandler.ProviderDirectory)
	providers.Get("/:id", r.publicHandler.ProviderProfile)

	// Admin panel
	admin := api.Group("/admin")
	admin.Get("/captcha", r.adminHandler.Captcha, authLimiter)
	admin.Post("/login", r.adminHandler.Login, authLimiter)

	panel := admin.Group("/", r.authMiddleware.AdminAuthenticate())
	panel.Get("/dashboard", r.adminHandler.Dashboard)

	panel.Get("/providers", r.adminHandler.ListProviders)
	panel.Put("/providers/:id/active", r.adminHandler.SetProviderActive)
	panel.Put("/services/:id/certified", r.adminHandler.SetServiceCertified)

	panel.Get("/leads", r.adminHandler.ListLeads)
	panel.Put("/leads/:id/assign", r.adminHandler.AssignLead)
	panel.Post("/leads/:id/complete", r.adminHandler.CompleteLead)
	panel.Post("/leads/:id/reject", r.adminHandler.RejectLead)
	panel.Post("/leads/:id/schedule", r.adminHandler.ScheduleLead)

	panel.Get("/zips", r.adminHandler.ListGlobalZips)
	panel.Put("/zips", r.adminHandler.UpsertGlobalZip)
	panel.Delete("/zips/:zip", r.adminHandler.DeleteGlobalZip)

	panel.Get("/profile", r.adminHandler.GetOperatorProfile)
	panel.Put("/profile", r.adminHandler.UpdateOperatorProfile)
	panel.Post("/centroids", r.adminHandler.LoadCentroids)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.corsOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Structured access log
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Prometheus HTTP metrics
	r.app.Use(middleware.Metrics())

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "localyard-api",
		},
	})
}

// Serve Swagger UI HTML page
func (r *FiberRouter) serveSwaggerUI(c fiber.Ctx) error {
	htmlContent := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Localyard API - Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
    <style>
        html { box-sizing: border-box; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin: 0; background: #fafafa; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/v1/swagger.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],
                layout: "StandaloneLayout",
                validatorUrl: null
            });
        };
    </script>
</body>
</html>`

	c.Set("Content-Type", "text/html")
	return c.SendString(htmlContent)
}

// Serve Swagger JSON specification
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	swaggerData, err := os.ReadFile("docs/swagger.json")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.Send(swaggerData)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Rate limit response shared by the API and credential limiters
func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
