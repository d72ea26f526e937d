package routes

import (
	"context"

	"freshpress-pos/internal/adapters/http/handlers"
	"freshpress-pos/internal/adapters/http/middleware"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/adapters/remote"
	"freshpress-pos/internal/config"
	"freshpress-pos/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. The captcha service
// is shared with the scheduler, so the caller owns it.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, captchaService *services.CaptchaService) {
	// Repositories
	noticeRepo := repositories.NewNoticeRepository(db)
	sysConfigRepo := repositories.NewSysConfigRepository(db)

	// Central server client and session
	remoteClient := remote.NewClient(cfg.Central.BaseURL)
	sessionService := services.NewSessionService(remoteClient, captchaService, func() bool {
		// The captcha switch is process-wide and precedes login, so it
		// lives under store 0.
		return sysConfigRepo.CaptchaEnabled(context.Background(), 0)
	})
	remoteClient.Bearer = sessionService.Bearer

	// Domain services
	var gateway services.SMSGateway
	if cfg.SMS.Endpoint != "" {
		gateway = services.NewHTTPSMSGateway(cfg.SMS.Endpoint, cfg.SMS.APIKey)
	}
	smsService := services.NewSMSService(gateway, noticeRepo)
	orderService := services.NewOrderService(db, remoteClient, smsService)
	paymentService := services.NewPaymentService(db, remoteClient)
	rackService := services.NewRackService(db)
	couponService := services.NewCouponService(db)
	customerService := services.NewCustomerService(db)
	printerService := services.NewPrinterService("")

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(sessionService, captchaService)
	customerHandler := handlers.NewCustomerHandler(customerService, couponService)
	orderHandler := handlers.NewOrderHandler(orderService, smsService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	rackHandler := handlers.NewRackHandler(rackService)
	couponHandler := handlers.NewCouponHandler(couponService)
	printerHandler := handlers.NewPrinterHandler(printerService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	apiV1 := app.Group("/api/v1")

	// Auth routes (public)
	auth := apiV1.Group("/auth")
	auth.Get("/captcha", authHandler.NewCaptcha)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// Everything below needs an active central session
	secured := apiV1.Group("", middleware.RequireSession(sessionService))

	secured.Get("/profile", authHandler.Profile)

	customers := secured.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Put("/:id/pay-password", customerHandler.SetPayPassword)
	customers.Get("/:id/coupons", customerHandler.Coupons)

	orders := secured.Group("/orders")
	orders.Post("/", orderHandler.Intake)
	orders.Get("/", orderHandler.List)
	orders.Post("/pickup", orderHandler.Pickup)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/quote", orderHandler.Quote)
	orders.Put("/:id/adjustment", orderHandler.SetAdjustment)
	orders.Post("/:id/price-tags", orderHandler.AttachPriceTag)
	orders.Get("/:id/notices", orderHandler.Notices)
	orders.Post("/:id/payment", paymentHandler.Pay)
	orders.Get("/:id/payment", paymentHandler.Get)
	orders.Post("/:id/refund", paymentHandler.Refund)

	garments := secured.Group("/garments")
	garments.Post("/:id/ready", orderHandler.MarkGarmentReady)

	racks := secured.Group("/racks")
	racks.Get("/", rackHandler.List)
	racks.Post("/", rackHandler.Create)
	racks.Post("/:id/release", rackHandler.Release)

	coupons := secured.Group("/coupons")
	coupons.Get("/", couponHandler.ListTemplates)
	coupons.Post("/", couponHandler.CreateTemplate)
	coupons.Post("/grant", couponHandler.Grant)
	coupons.Post("/purchase", couponHandler.Purchase)

	printer := secured.Group("/printer")
	printer.Get("/", printerHandler.Get)
	printer.Put("/", printerHandler.Set)
	printer.Post("/print", printerHandler.Print)
}
