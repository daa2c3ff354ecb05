package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	regController "kampusku_backend/internals/features/academics/registrations/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	h := regController.NewRegistrationController(db)

	g := r.Group("/registrations")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Patch("/:id", h.Update)
	g.Patch("/:id/payment-status", h.OverridePaymentStatus)
	g.Delete("/:id", h.Delete)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	h := regController.NewRegistrationController(db)

	g := r.Group("/registrations")
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
}
