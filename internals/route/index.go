// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	paySvc "kampusku_backend/internals/features/finance/payments/service"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
	routeDetails "kampusku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, sessions *paySvc.Manager) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== WEBHOOK (public, rate-limited) =====================
	log.Println("[INFO] Setting up WebhookRoutes...")
	routeDetails.WebhookRoutes(app.Group("/api"), db, sessions)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group (/api/u)...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware())
	routeDetails.AcademicUserRoutes(private, db)
	routeDetails.FinanceUserRoutes(private, db, sessions, configs.PaymentSettingsFromEnv().SessionTTL)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (/api/a)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(),
		authMiddleware.RequireRole("admin", "staff"),
	)
	routeDetails.AcademicAdminRoutes(admin, db)
	routeDetails.FinanceAdminRoutes(admin, db)

	log.Println("[INFO] ✅ Semua route terpasang")
}
