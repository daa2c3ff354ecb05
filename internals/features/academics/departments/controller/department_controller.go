// internals/features/academics/departments/controller/department_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	deptDTO "kampusku_backend/internals/features/academics/departments/dto"
	deptModel "kampusku_backend/internals/features/academics/departments/model"
	helper "kampusku_backend/internals/helpers"
)

type DepartmentController struct {
	DB *gorm.DB
}

func NewDepartmentController(db *gorm.DB) *DepartmentController {
	return &DepartmentController{DB: db}
}

// CREATE
// POST /api/a/departments
func (h *DepartmentController) Create(c *fiber.Ctx) error {
	var req deptDTO.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var created deptModel.DepartmentModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		// cek duplikat code, abaikan yang soft-deleted
		var cnt int64
		if err := tx.Model(&deptModel.DepartmentModel{}).
			Where("lower(departments_code) = lower(?) AND departments_deleted_at IS NULL", req.Code).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi kode")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Kode jurusan sudah digunakan")
		}

		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Kode/Slug jurusan sudah digunakan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat jurusan")
		}
		created = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonCreated(c, "Jurusan berhasil dibuat", deptDTO.FromDepartmentModel(created))
}

// GET BY ID
// GET /api/a/departments/:id[?with_deleted=true]
func (h *DepartmentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	q := h.DB
	if strings.EqualFold(c.Query("with_deleted"), "true") {
		q = q.Unscoped()
	}

	var m deptModel.DepartmentModel
	if err := q.First(&m, "departments_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Jurusan tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Detail jurusan ditemukan", deptDTO.FromDepartmentModel(m))
}

/* =========================================================
   LIST
   GET /api/a/departments?q=&is_active=&order_by=&sort=&page=&per_page=
========================================================= */
func (h *DepartmentController) List(c *fiber.Ctx) error {
	var q deptDTO.ListDepartmentQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&deptModel.DepartmentModel{})
	if q.WithDeleted == nil || !*q.WithDeleted {
		tx = tx.Where("departments_deleted_at IS NULL")
	} else {
		tx = tx.Unscoped()
	}
	if q.IsActive != nil {
		tx = tx.Where("departments_is_active = ?", *q.IsActive)
	}
	if q.Q != nil && strings.TrimSpace(*q.Q) != "" {
		kw := "%" + strings.ToLower(strings.TrimSpace(*q.Q)) + "%"
		tx = tx.Where("(LOWER(departments_code) LIKE ? OR LOWER(departments_name) LIKE ?)", kw, kw)
	}

	// order by whitelist
	orderBy := "departments_created_at"
	if q.OrderBy != nil {
		switch strings.ToLower(*q.OrderBy) {
		case "code":
			orderBy = "departments_code"
		case "name":
			orderBy = "departments_name"
		case "updated_at":
			orderBy = "departments_updated_at"
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

	var rows []deptModel.DepartmentModel
	if err := tx.Order(orderBy + " " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar jurusan",
		deptDTO.FromDepartmentModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}

// UPDATE (partial)
// PATCH /api/a/departments/:id
func (h *DepartmentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req deptDTO.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updated deptModel.DepartmentModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m deptModel.DepartmentModel
		if err := tx.First(&m, "departments_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Jurusan tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		// cek duplikat code (jika berubah)
		if req.Code != nil && !strings.EqualFold(*req.Code, m.DepartmentsCode) {
			var cnt int64
			if err := tx.Model(&deptModel.DepartmentModel{}).
				Where("lower(departments_code) = lower(?) AND departments_id <> ? AND departments_deleted_at IS NULL",
					*req.Code, m.DepartmentsID).
				Count(&cnt).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi kode")
			}
			if cnt > 0 {
				return fiber.NewError(fiber.StatusConflict, "Kode jurusan sudah digunakan")
			}
		}

		req.Apply(&m)

		if err := tx.Model(&deptModel.DepartmentModel{}).
			Where("departments_id = ?", m.DepartmentsID).
			Updates(map[string]interface{}{
				"departments_code":       m.DepartmentsCode,
				"departments_name":       m.DepartmentsName,
				"departments_desc":       m.DepartmentsDesc,
				"departments_slug":       m.DepartmentsSlug,
				"departments_is_active":  m.DepartmentsIsActive,
				"departments_updated_at": m.DepartmentsUpdatedAt,
			}).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Duplikasi data (kode/slug)")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui jurusan")
		}

		updated = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Jurusan berhasil diperbarui", deptDTO.FromDepartmentModel(updated))
}

// DELETE (soft; ?force=true hard delete)
// DELETE /api/a/departments/:id
func (h *DepartmentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	force := strings.EqualFold(c.Query("force"), "true")

	var deleted deptModel.DepartmentModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m deptModel.DepartmentModel
		if err := tx.First(&m, "departments_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Jurusan tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if force {
			if err := tx.Unscoped().Delete(&deptModel.DepartmentModel{}, "departments_id = ?", id).Error; err != nil {
				if helper.IsForeignKeyViolation(err) {
					return fiber.NewError(fiber.StatusBadRequest, "Tidak dapat menghapus karena masih ada prodi terkait")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus jurusan")
			}
		} else {
			if m.DepartmentsDeletedAt.Valid {
				return fiber.NewError(fiber.StatusBadRequest, "Jurusan sudah dihapus")
			}
			if err := tx.Delete(&deptModel.DepartmentModel{}, "departments_id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus jurusan")
			}
		}

		deleted = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonDeleted(c, "Jurusan berhasil dihapus", deptDTO.FromDepartmentModel(deleted))
}
