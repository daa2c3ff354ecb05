// file: internals/route/details/finance_routes.go
package details

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentRoute "kampusku_backend/internals/features/finance/payments/route"
	paySvc "kampusku_backend/internals/features/finance/payments/service"
)

func FinanceUserRoutes(r fiber.Router, db *gorm.DB, sessions *paySvc.Manager, ttl time.Duration) {
	paymentRoute.UserRoutes(r, db, sessions, ttl)
}

func FinanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	paymentRoute.AdminRoutes(r, db)
}

func WebhookRoutes(r fiber.Router, db *gorm.DB, sessions *paySvc.Manager) {
	paymentRoute.WebhookRoutes(r, db, sessions)
}
