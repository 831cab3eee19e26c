package routes

import (
	"rentaguard/internal/adapters/http/handlers"
	"rentaguard/internal/adapters/http/middleware"
	"rentaguard/internal/adapters/persistence/repositories"
	"rentaguard/internal/config"
	"rentaguard/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	policyRepo := repositories.NewPolicyRepository(db)
	guarantorRepo := repositories.NewGuarantorRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	activityRepo := repositories.NewActivityLogRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	activityService := services.NewActivityService(activityRepo)
	addressService := services.NewAddressService(addressRepo)
	documentService := services.NewDocumentService(documentRepo, activityService)
	tokenService := services.NewAccessTokenService(guarantorRepo, activityService)
	policyService := services.NewPolicyService(policyRepo, guarantorRepo, addressService, activityService)

	// The policy service doubles as the completion checker so a policy
	// flips to GUARANTORS_COMPLETE as soon as its last guarantor submits.
	guarantorService := services.NewGuarantorService(
		guarantorRepo,
		policyRepo,
		tokenService,
		addressService,
		documentService,
		activityService,
		policyService,
	)

	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	policyHandler := handlers.NewPolicyHandler(policyService, guarantorService, activityService)
	guarantorHandler := handlers.NewGuarantorHandler(guarantorService, tokenService, documentService, activityService)
	accessHandler := handlers.NewAccessHandler(guarantorService, documentService)
	catalogHandler := handlers.NewCatalogHandler(documentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, policyHandler,
		guarantorHandler, accessHandler, catalogHandler, dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	policyHandler *handlers.PolicyHandler,
	guarantorHandler *handlers.GuarantorHandler,
	accessHandler *handlers.AccessHandler,
	catalogHandler *handlers.CatalogHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Public guarantor access routes (token in path, no login)
	accessRoutes := router.Group("/access")
	accessRoutes.Use(middleware.TokenRateLimiter())
	accessRoutes.Use(middleware.NoCacheHeaders())
	setupAccessRoutes(accessRoutes, accessHandler)

	// Catalog routes (public, cacheable)
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Use(middleware.CatalogCache())
	setupCatalogRoutes(catalogRoutes, catalogHandler)

	// Policy routes (Agent/Admin)
	policyRoutes := router.Group("/policies")
	policyRoutes.Use(middleware.AuthMiddleware(cfg))
	policyRoutes.Use(middleware.AgentOrAdmin())
	setupPolicyRoutes(policyRoutes, policyHandler, guarantorHandler)

	// Guarantor routes (Agent/Admin)
	guarantorRoutes := router.Group("/guarantors")
	guarantorRoutes.Use(middleware.AuthMiddleware(cfg))
	guarantorRoutes.Use(middleware.AgentOrAdmin())
	setupGuarantorRoutes(guarantorRoutes, guarantorHandler)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Dashboard routes
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against credential stuffing)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupAccessRoutes configures public token-based guarantor routes.
// The token itself is the credential; every handler validates it before
// touching guarantor data.
func setupAccessRoutes(router fiber.Router, handler *handlers.AccessHandler) {
	router.Get("/:token", handler.Get)
	router.Patch("/:token", handler.Update)
	router.Put("/:token/references", handler.SaveReferences)
	router.Get("/:token/completion", handler.GetCompletion)
	router.Get("/:token/can-submit", handler.CanSubmit)
	router.Post("/:token/submit", handler.Submit)
	router.Post("/:token/documents", handler.RegisterDocument)
}

// setupCatalogRoutes configures public catalog routes
func setupCatalogRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	router.Get("/document-categories", handler.DocumentCategories)
	router.Get("/enums", handler.Enums)
	router.Get("/reference-requirements", handler.ReferenceRequirements)
}

// setupPolicyRoutes configures rental policy routes (Agent/Admin)
func setupPolicyRoutes(router fiber.Router, handler *handlers.PolicyHandler, guarantorHandler *handlers.GuarantorHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Patch("/:id", handler.Update)
	router.Get("/:id/guarantors", handler.ListGuarantors)
	router.Post("/:id/guarantors", guarantorHandler.Create)
	router.Get("/:id/history", handler.GetHistory)
}

// setupGuarantorRoutes configures guarantor routes (Agent/Admin)
func setupGuarantorRoutes(router fiber.Router, handler *handlers.GuarantorHandler) {
	router.Post("/", handler.Create)
	router.Get("/:id", handler.GetByID)
	router.Patch("/:id", handler.Update)
	router.Delete("/:id", handler.Archive)
	router.Post("/:id/restore", handler.Restore)

	// Guarantee method & references
	router.Put("/:id/guarantee-method", handler.SetGuaranteeMethod)
	router.Put("/:id/references", handler.SaveReferences)

	// Completion & submission
	router.Get("/:id/completion", handler.GetCompletion)
	router.Get("/:id/can-submit", handler.CanSubmit)
	router.Post("/:id/submit", handler.Submit)

	// Verification verdict (Admin only)
	router.Put("/:id/verification", middleware.AdminOnly(), handler.SetVerification)

	// Access token lifecycle
	router.Post("/:id/token/refresh", handler.RefreshToken)
	router.Delete("/:id/token", handler.RevokeToken)

	// Documents & history
	router.Get("/:id/documents", handler.ListDocuments)
	router.Post("/:id/documents", handler.RegisterDocument)
	router.Get("/:id/history", handler.GetHistory)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	// Auto-detect role dashboard (All authenticated users)
	router.Get("/", handler.GetMyDashboard)

	// Agent dashboard (own policies only)
	router.Get("/agent", handler.GetAgentDashboard)

	// Admin dashboard (Admin only)
	router.Get("/admin", middleware.AdminOnly(), handler.GetAdminDashboard)
}
