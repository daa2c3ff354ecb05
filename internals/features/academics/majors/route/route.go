package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	majorController "kampusku_backend/internals/features/academics/majors/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	h := majorController.NewMajorController(db)

	g := r.Group("/majors")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	h := majorController.NewMajorController(db)

	g := r.Group("/majors")
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
}
