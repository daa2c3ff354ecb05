// internals/features/academics/majors/controller/major_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	deptModel "kampusku_backend/internals/features/academics/departments/model"
	majorDTO "kampusku_backend/internals/features/academics/majors/dto"
	majorModel "kampusku_backend/internals/features/academics/majors/model"
	helper "kampusku_backend/internals/helpers"
)

type MajorController struct {
	DB *gorm.DB
}

func NewMajorController(db *gorm.DB) *MajorController {
	return &MajorController{DB: db}
}

// ensureDepartmentExists: FK containment — parent harus ada & belum dihapus
func ensureDepartmentExists(tx *gorm.DB, id uuid.UUID) error {
	var cnt int64
	if err := tx.Model(&deptModel.DepartmentModel{}).
		Where("departments_id = ? AND departments_deleted_at IS NULL", id).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek jurusan")
	}
	if cnt == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Jurusan tidak ditemukan")
	}
	return nil
}

// POST /api/a/majors
func (h *MajorController) Create(c *fiber.Ctx) error {
	var req majorDTO.CreateMajorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var created majorModel.MajorModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureDepartmentExists(tx, req.DepartmentID); err != nil {
			return err
		}

		var cnt int64
		if err := tx.Model(&majorModel.MajorModel{}).
			Where("lower(majors_code) = lower(?) AND majors_deleted_at IS NULL", req.Code).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi kode")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Kode prodi sudah digunakan")
		}

		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Kode/Slug prodi sudah digunakan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat prodi")
		}
		created = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonCreated(c, "Prodi berhasil dibuat", majorDTO.FromMajorModel(created))
}

// GET /api/a/majors/:id
func (h *MajorController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m majorModel.MajorModel
	if err := h.DB.First(&m, "majors_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Prodi tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Detail prodi ditemukan", majorDTO.FromMajorModel(m))
}

// GET /api/a/majors?q=&department_id=&degree=&is_active=&order_by=&sort=&page=&per_page=
func (h *MajorController) List(c *fiber.Ctx) error {
	var q majorDTO.ListMajorQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&majorModel.MajorModel{})
	if q.WithDeleted == nil || !*q.WithDeleted {
		tx = tx.Where("majors_deleted_at IS NULL")
	} else {
		tx = tx.Unscoped()
	}
	if q.DepartmentID != nil && strings.TrimSpace(*q.DepartmentID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.DepartmentID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "department_id tidak valid")
		}
		tx = tx.Where("majors_department_id = ?", id)
	}
	if q.Degree != nil && strings.TrimSpace(*q.Degree) != "" {
		d := strings.ToLower(strings.TrimSpace(*q.Degree))
		if !majorModel.ValidMajorDegree(d) {
			return fiber.NewError(fiber.StatusBadRequest, "degree tidak valid")
		}
		tx = tx.Where("majors_degree = ?", d)
	}
	if q.IsActive != nil {
		tx = tx.Where("majors_is_active = ?", *q.IsActive)
	}
	if q.Q != nil && strings.TrimSpace(*q.Q) != "" {
		kw := "%" + strings.ToLower(strings.TrimSpace(*q.Q)) + "%"
		tx = tx.Where("(LOWER(majors_code) LIKE ? OR LOWER(majors_name) LIKE ?)", kw, kw)
	}

	orderBy := "majors_created_at"
	if q.OrderBy != nil {
		switch strings.ToLower(*q.OrderBy) {
		case "code":
			orderBy = "majors_code"
		case "name":
			orderBy = "majors_name"
		case "updated_at":
			orderBy = "majors_updated_at"
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

	var rows []majorModel.MajorModel
	if err := tx.Order(orderBy + " " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar prodi",
		majorDTO.FromMajorModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}

// PATCH /api/a/majors/:id
func (h *MajorController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req majorDTO.UpdateMajorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updated majorModel.MajorModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m majorModel.MajorModel
		if err := tx.First(&m, "majors_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Prodi tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if req.DepartmentID != nil {
			if err := ensureDepartmentExists(tx, *req.DepartmentID); err != nil {
				return err
			}
		}
		if req.Code != nil && !strings.EqualFold(*req.Code, m.MajorsCode) {
			var cnt int64
			if err := tx.Model(&majorModel.MajorModel{}).
				Where("lower(majors_code) = lower(?) AND majors_id <> ? AND majors_deleted_at IS NULL",
					*req.Code, m.MajorsID).
				Count(&cnt).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi kode")
			}
			if cnt > 0 {
				return fiber.NewError(fiber.StatusConflict, "Kode prodi sudah digunakan")
			}
		}

		req.Apply(&m)

		if err := tx.Model(&majorModel.MajorModel{}).
			Where("majors_id = ?", m.MajorsID).
			Updates(map[string]interface{}{
				"majors_department_id": m.MajorsDepartmentID,
				"majors_code":          m.MajorsCode,
				"majors_name":          m.MajorsName,
				"majors_degree":        m.MajorsDegree,
				"majors_slug":          m.MajorsSlug,
				"majors_is_active":     m.MajorsIsActive,
				"majors_updated_at":    m.MajorsUpdatedAt,
			}).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Duplikasi data (kode/slug)")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui prodi")
		}

		updated = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Prodi berhasil diperbarui", majorDTO.FromMajorModel(updated))
}

// DELETE /api/a/majors/:id[?force=true]
func (h *MajorController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	force := strings.EqualFold(c.Query("force"), "true")

	var deleted majorModel.MajorModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m majorModel.MajorModel
		if err := tx.First(&m, "majors_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Prodi tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if force {
			if err := tx.Unscoped().Delete(&majorModel.MajorModel{}, "majors_id = ?", id).Error; err != nil {
				if helper.IsForeignKeyViolation(err) {
					return fiber.NewError(fiber.StatusBadRequest, "Tidak dapat menghapus karena masih ada data terkait")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus prodi")
			}
		} else {
			if m.MajorsDeletedAt.Valid {
				return fiber.NewError(fiber.StatusBadRequest, "Prodi sudah dihapus")
			}
			if err := tx.Delete(&majorModel.MajorModel{}, "majors_id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus prodi")
			}
		}

		deleted = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonDeleted(c, "Prodi berhasil dihapus", majorDTO.FromMajorModel(deleted))
}
