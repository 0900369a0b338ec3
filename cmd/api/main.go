package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/taravadumane/portal-backend/internal/config"
	"github.com/taravadumane/portal-backend/internal/handler"
	"github.com/taravadumane/portal-backend/internal/middleware"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/database"
	"github.com/taravadumane/portal-backend/pkg/email"
	"github.com/taravadumane/portal-backend/pkg/payment"
	"github.com/taravadumane/portal-backend/pkg/storage"
	"github.com/taravadumane/portal-backend/pkg/utils"
)

func main() {
	// Missing .env is fine in production; env vars come from the platform.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	db := database.NewDatabase()

	if err := db.AutoMigrate(
		&models.AuthAccount{},
		&models.User{},
		&models.AccessRequest{},
		&models.Contribution{},
		&models.Expense{},
		&models.Transaction{},
		&models.AuditLog{},
		&models.Event{},
		&models.Announcement{},
		&models.GalleryPhoto{},
		&models.RateLimitCounter{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	accountRepo := repository.NewAuthAccountRepository(db)
	userRepo := repository.NewUserRepository(db)
	accessRequestRepo := repository.NewAccessRequestRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)

	// Storage services
	receiptStorage, err := storage.NewR2Storage(cfg.R2)
	if err != nil {
		log.Fatal("Failed to initialize receipt storage:", err)
	}
	imageService := storage.NewCloudinaryImages(cfg.CloudinaryURL)

	// Email service
	emailService := email.NewEmailService()

	// Services
	authService := service.NewAuthService(accountRepo, userRepo)
	userService := service.NewUserService(userRepo)
	accessRequestService := service.NewAccessRequestService(
		db,
		accessRequestRepo,
		accountRepo,
		userRepo,
		emailService,
		cfg.AppBaseURL+"/login",
		logger,
	)
	ledgerService := service.NewLedgerService(
		db,
		contributionRepo,
		expenseRepo,
		transactionRepo,
		auditRepo,
		eventRepo,
		userRepo,
		receiptStorage,
		logger,
	)
	eventService := service.NewEventService(eventRepo)
	announcementService := service.NewAnnouncementService(announcementRepo)
	galleryService := service.NewGalleryService(db, galleryRepo, auditRepo, imageService, cfg.MaxUploadBytes, logger)
	rateLimitService := service.NewRateLimitService(rateLimitRepo, logger)

	stripeService := payment.NewStripeService(os.Getenv("STRIPE_SECRET_KEY"))
	paymentService := service.NewPaymentService(
		stripeService,
		contributionRepo,
		ledgerService,
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
		cfg.AppBaseURL,
		logger,
	)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	accessRequestHandler := handler.NewAccessRequestHandler(accessRequestService, validator)
	financeHandler := handler.NewFinanceHandler(ledgerService, validator)
	eventHandler := handler.NewEventHandler(eventService, validator)
	announcementHandler := handler.NewAnnouncementHandler(announcementService, validator)
	galleryHandler := handler.NewGalleryHandler(galleryService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Gallery uploads are batched, so the body limit is a multiple of the
	// per-file cap.
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes) * 10,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AppBaseURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE",
	}))
	app.Use(fiberlogger.New())
	// Coarse global backstop; the access-request endpoint additionally has
	// its own database-backed per-IP limit.
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	api.Post("/auth/login", authHandler.Login)
	api.Post("/access-requests",
		middleware.IPRateLimit(rateLimitService, "access_request_submit",
			cfg.RateLimit.AccessRequestMax, cfg.RateLimit.AccessRequestWindow),
		accessRequestHandler.Submit,
	)
	api.Get("/gallery", galleryHandler.List)
	api.Post("/payments/webhook", paymentHandler.Webhook)

	// Member routes
	api.Use(middleware.AuthMiddleware(userRepo))

	api.Get("/profile", userHandler.GetProfile)
	api.Put("/profile", userHandler.UpdateProfile)
	api.Post("/auth/change-password", authHandler.ChangePassword)
	api.Get("/members", userHandler.ListMembers)
	api.Get("/events", eventHandler.List)
	api.Get("/events/:id", eventHandler.Get)
	api.Get("/announcements", announcementHandler.List)
	api.Get("/contributions/mine", financeHandler.MyContributions)
	api.Post("/payments/contributions/:id/checkout", paymentHandler.CreateCheckout)

	// Admin routes
	admin := api.Group("/admin")

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	finance := middleware.RequireRoles(models.RoleAdmin, models.RoleTreasurer)

	admin.Get("/access-requests", adminOnly, accessRequestHandler.List)
	admin.Patch("/access-requests/:id/approve", adminOnly, accessRequestHandler.Approve)
	admin.Patch("/access-requests/:id/deny", adminOnly, accessRequestHandler.Deny)

	admin.Post("/gallery", adminOnly, galleryHandler.Upload)
	admin.Delete("/gallery/:id", adminOnly, galleryHandler.Delete)

	admin.Post("/events", adminOnly, eventHandler.Create)
	admin.Put("/events/:id", adminOnly, eventHandler.Update)
	admin.Delete("/events/:id", adminOnly, eventHandler.Delete)

	admin.Post("/announcements", adminOnly, announcementHandler.Create)
	admin.Delete("/announcements/:id", adminOnly, announcementHandler.Delete)

	admin.Get("/audit-logs", adminOnly, financeHandler.ListAuditLogs)

	admin.Get("/contributions", finance, financeHandler.ListContributions)
	admin.Post("/contributions", finance, financeHandler.CreateContribution)
	admin.Patch("/contributions/:id", finance, financeHandler.UpdateContribution)
	admin.Delete("/contributions/:id", finance, financeHandler.DeleteContribution)

	admin.Get("/expenses", finance, financeHandler.ListExpenses)
	admin.Post("/expenses", finance, financeHandler.CreateExpense)
	admin.Patch("/expenses/:id", finance, financeHandler.UpdateExpense)
	admin.Delete("/expenses/:id", finance, financeHandler.DeleteExpense)
	admin.Post("/expenses/:id/receipt", finance, financeHandler.UploadExpenseReceipt)

	admin.Get("/transactions", finance, financeHandler.ListTransactions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("starting server", zap.String("port", port))
	log.Fatal(app.Listen(":" + port))
}
