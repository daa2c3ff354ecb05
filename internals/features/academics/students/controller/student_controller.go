// internals/features/academics/students/controller/student_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	majorModel "kampusku_backend/internals/features/academics/majors/model"
	stDTO "kampusku_backend/internals/features/academics/students/dto"
	stModel "kampusku_backend/internals/features/academics/students/model"
	helper "kampusku_backend/internals/helpers"
)

type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db}
}

func ensureMajorExists(tx *gorm.DB, id uuid.UUID) error {
	var cnt int64
	if err := tx.Model(&majorModel.MajorModel{}).
		Where("majors_id = ? AND majors_deleted_at IS NULL", id).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek prodi")
	}
	if cnt == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Prodi tidak ditemukan")
	}
	return nil
}

// POST /api/a/students
func (h *StudentController) Create(c *fiber.Ctx) error {
	var req stDTO.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var created stModel.StudentModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureMajorExists(tx, req.MajorID); err != nil {
			return err
		}

		// NIM unik kampus-wide
		var cnt int64
		if err := tx.Model(&stModel.StudentModel{}).
			Where("students_number = ? AND students_deleted_at IS NULL", req.Number).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi NIM")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "NIM sudah terdaftar")
		}

		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "NIM sudah terdaftar")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat data mahasiswa")
		}
		created = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonCreated(c, "Mahasiswa berhasil dibuat", stDTO.FromStudentModel(created))
}

// GET /api/a/students/:id
func (h *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m stModel.StudentModel
	if err := h.DB.First(&m, "students_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Detail mahasiswa ditemukan", stDTO.FromStudentModel(m))
}

// GET /api/a/students
func (h *StudentController) List(c *fiber.Ctx) error {
	var q stDTO.ListStudentQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&stModel.StudentModel{})
	if q.WithDeleted == nil || !*q.WithDeleted {
		tx = tx.Where("students_deleted_at IS NULL")
	} else {
		tx = tx.Unscoped()
	}
	if q.MajorID != nil && strings.TrimSpace(*q.MajorID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.MajorID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "major_id tidak valid")
		}
		tx = tx.Where("students_major_id = ?", id)
	}
	if q.Status != nil && strings.TrimSpace(*q.Status) != "" {
		st := strings.ToLower(strings.TrimSpace(*q.Status))
		if !stModel.ValidStudentStatus(st) {
			return fiber.NewError(fiber.StatusBadRequest, "status tidak valid")
		}
		tx = tx.Where("students_status = ?", st)
	}
	if q.EnrollmentYear != nil {
		tx = tx.Where("students_enrollment_year = ?", *q.EnrollmentYear)
	}
	if q.Q != nil && strings.TrimSpace(*q.Q) != "" {
		kw := "%" + strings.ToLower(strings.TrimSpace(*q.Q)) + "%"
		tx = tx.Where(`LOWER(students_number) LIKE ? OR LOWER(students_name) LIKE ? OR LOWER(students_email) LIKE ?`, kw, kw, kw)
	}

	orderBy := "students_created_at"
	if q.OrderBy != nil {
		switch strings.ToLower(*q.OrderBy) {
		case "number":
			orderBy = "students_number"
		case "name":
			orderBy = "students_name"
		case "enrollment_year":
			orderBy = "students_enrollment_year"
		}
	}
	sort := "ASC"
	if q.Sort != nil && strings.ToLower(*q.Sort) == "desc" {
		sort = "DESC"
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung total data")
	}

	var rows []stModel.StudentModel
	if err := tx.Order(orderBy + " " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar mahasiswa",
		stDTO.FromStudentModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}

// PATCH /api/a/students/:id
func (h *StudentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req stDTO.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updated stModel.StudentModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m stModel.StudentModel
		if err := tx.First(&m, "students_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if req.MajorID != nil {
			if err := ensureMajorExists(tx, *req.MajorID); err != nil {
				return err
			}
		}

		req.Apply(&m)

		if err := tx.Model(&stModel.StudentModel{}).
			Where("students_id = ?", m.StudentsID).
			Updates(map[string]interface{}{
				"students_major_id":        m.StudentsMajorID,
				"students_name":            m.StudentsName,
				"students_email":           m.StudentsEmail,
				"students_phone":           m.StudentsPhone,
				"students_enrollment_year": m.StudentsEnrollmentYear,
				"students_status":          m.StudentsStatus,
				"students_updated_at":      m.StudentsUpdatedAt,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui data mahasiswa")
		}

		updated = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Mahasiswa berhasil diperbarui", stDTO.FromStudentModel(updated))
}

// DELETE /api/a/students/:id[?force=true]
func (h *StudentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	force := strings.EqualFold(c.Query("force"), "true")

	var deleted stModel.StudentModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m stModel.StudentModel
		if err := tx.First(&m, "students_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if force {
			if err := tx.Unscoped().Delete(&stModel.StudentModel{}, "students_id = ?", id).Error; err != nil {
				if helper.IsForeignKeyViolation(err) {
					return fiber.NewError(fiber.StatusBadRequest, "Tidak dapat menghapus karena masih ada registrasi terkait")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus mahasiswa")
			}
		} else {
			if m.StudentsDeletedAt.Valid {
				return fiber.NewError(fiber.StatusBadRequest, "Mahasiswa sudah dihapus")
			}
			if err := tx.Delete(&stModel.StudentModel{}, "students_id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus mahasiswa")
			}
		}

		deleted = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonDeleted(c, "Mahasiswa berhasil dihapus", stDTO.FromStudentModel(deleted))
}
