package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	deptController "kampusku_backend/internals/features/academics/departments/controller"
)

// AdminRoutes: CRUD penuh (group sudah dijaga role admin/staff)
func AdminRoutes(r fiber.Router, db *gorm.DB) {
	h := deptController.NewDepartmentController(db)

	g := r.Group("/departments")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

// UserRoutes: read-only untuk mahasiswa
func UserRoutes(r fiber.Router, db *gorm.DB) {
	h := deptController.NewDepartmentController(db)

	g := r.Group("/departments")
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
}
