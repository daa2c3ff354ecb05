package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	cgController "kampusku_backend/internals/features/academics/class_groups/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	h := cgController.NewClassGroupController(db)

	g := r.Group("/class-groups")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	h := cgController.NewClassGroupController(db)

	g := r.Group("/class-groups")
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
}
