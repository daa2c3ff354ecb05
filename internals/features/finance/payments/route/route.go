package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	payController "kampusku_backend/internals/features/finance/payments/controller"
	paySvc "kampusku_backend/internals/features/finance/payments/service"
	"kampusku_backend/internals/middlewares"
)

func UserRoutes(r fiber.Router, db *gorm.DB, sessions *paySvc.Manager, ttl time.Duration) {
	h := payController.NewPaymentSessionController(db, sessions, ttl)

	g := r.Group("/payment-sessions", middlewares.PaymentSessionRateLimiter())
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Post("/:id/cancel", h.Cancel)
	g.Post("/:id/regenerate", h.Regenerate)
	g.Get("/:id/events", h.Events)
}

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	h := payController.NewPaymentAdminController(db)

	r.Get("/payment-sessions", h.ListSessions)
	r.Get("/payment-gateway-events", h.ListGatewayEvents)
}

// WebhookRoutes publik (tanpa JWT), dibatasi rate limiter.
func WebhookRoutes(r fiber.Router, db *gorm.DB, sessions *paySvc.Manager) {
	h := payController.NewPaymentWebhookController(db, sessions)

	r.Post("/payment-gateway/callback", middlewares.GatewayCallbackRateLimiter(), h.Callback)
}
