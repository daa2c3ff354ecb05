package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	stController "kampusku_backend/internals/features/academics/students/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	h := stController.NewStudentController(db)

	g := r.Group("/students")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	h := stController.NewStudentController(db)

	g := r.Group("/students")
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
}
