// file: internals/route/details/academic_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classGroupRoute "kampusku_backend/internals/features/academics/class_groups/route"
	departmentRoute "kampusku_backend/internals/features/academics/departments/route"
	majorRoute "kampusku_backend/internals/features/academics/majors/route"
	registrationRoute "kampusku_backend/internals/features/academics/registrations/route"
	studentRoute "kampusku_backend/internals/features/academics/students/route"
	subjectRoute "kampusku_backend/internals/features/academics/subjects/route"
)

func AcademicAdminRoutes(r fiber.Router, db *gorm.DB) {
	departmentRoute.AdminRoutes(r, db)
	majorRoute.AdminRoutes(r, db)
	subjectRoute.AdminRoutes(r, db)
	classGroupRoute.AdminRoutes(r, db)
	studentRoute.AdminRoutes(r, db)
	registrationRoute.AdminRoutes(r, db)
}

func AcademicUserRoutes(r fiber.Router, db *gorm.DB) {
	departmentRoute.UserRoutes(r, db)
	majorRoute.UserRoutes(r, db)
	subjectRoute.UserRoutes(r, db)
	classGroupRoute.UserRoutes(r, db)
	studentRoute.UserRoutes(r, db)
	registrationRoute.UserRoutes(r, db)
}
