package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subjectController "kampusku_backend/internals/features/academics/subjects/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	h := subjectController.NewSubjectController(db)

	g := r.Group("/subjects")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	h := subjectController.NewSubjectController(db)

	g := r.Group("/subjects")
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
}
