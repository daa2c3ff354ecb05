// internals/features/academics/class_groups/controller/class_group_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	cgDTO "kampusku_backend/internals/features/academics/class_groups/dto"
	cgModel "kampusku_backend/internals/features/academics/class_groups/model"
	majorModel "kampusku_backend/internals/features/academics/majors/model"
	helper "kampusku_backend/internals/helpers"
)

type ClassGroupController struct {
	DB *gorm.DB
}

func NewClassGroupController(db *gorm.DB) *ClassGroupController {
	return &ClassGroupController{DB: db}
}

// POST /api/a/class-groups
func (h *ClassGroupController) Create(c *fiber.Ctx) error {
	var req cgDTO.CreateClassGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var created cgModel.ClassGroupModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&majorModel.MajorModel{}).
			Where("majors_id = ? AND majors_deleted_at IS NULL", req.MajorID).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek prodi")
		}
		if cnt == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Prodi tidak ditemukan")
		}

		// nama unik per prodi per tahun akademik
		cnt = 0
		if err := tx.Model(&cgModel.ClassGroupModel{}).
			Where(`class_groups_major_id = ?
				AND lower(class_groups_name) = lower(?)
				AND class_groups_academic_year = ?
				AND class_groups_deleted_at IS NULL`,
				req.MajorID, req.Name, req.AcademicYear).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi nama kelas")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Nama kelas sudah digunakan di tahun akademik ini")
		}

		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Nama kelas sudah digunakan di tahun akademik ini")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat kelas")
		}
		created = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonCreated(c, "Kelas berhasil dibuat", cgDTO.FromClassGroupModel(created))
}

// GET /api/a/class-groups/:id
func (h *ClassGroupController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m cgModel.ClassGroupModel
	if err := h.DB.First(&m, "class_groups_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Detail kelas ditemukan", cgDTO.FromClassGroupModel(m))
}

// GET /api/a/class-groups
func (h *ClassGroupController) List(c *fiber.Ctx) error {
	var q cgDTO.ListClassGroupQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&cgModel.ClassGroupModel{})
	if q.WithDeleted == nil || !*q.WithDeleted {
		tx = tx.Where("class_groups_deleted_at IS NULL")
	} else {
		tx = tx.Unscoped()
	}
	if q.MajorID != nil && strings.TrimSpace(*q.MajorID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.MajorID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "major_id tidak valid")
		}
		tx = tx.Where("class_groups_major_id = ?", id)
	}
	if q.AcademicYear != nil && strings.TrimSpace(*q.AcademicYear) != "" {
		tx = tx.Where("class_groups_academic_year = ?", strings.TrimSpace(*q.AcademicYear))
	}
	if q.IsActive != nil {
		tx = tx.Where("class_groups_is_active = ?", *q.IsActive)
	}
	if q.Q != nil && strings.TrimSpace(*q.Q) != "" {
		kw := "%" + strings.ToLower(strings.TrimSpace(*q.Q)) + "%"
		tx = tx.Where("LOWER(class_groups_name) LIKE ?", kw)
	}

	orderBy := "class_groups_created_at"
	if q.OrderBy != nil {
		switch strings.ToLower(*q.OrderBy) {
		case "name":
			orderBy = "class_groups_name"
		case "academic_year":
			orderBy = "class_groups_academic_year"
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

	var rows []cgModel.ClassGroupModel
	if err := tx.Order(orderBy + " " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar kelas",
		cgDTO.FromClassGroupModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}

// PATCH /api/a/class-groups/:id
func (h *ClassGroupController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req cgDTO.UpdateClassGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updated cgModel.ClassGroupModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m cgModel.ClassGroupModel
		if err := tx.First(&m, "class_groups_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		// kapasitas tidak boleh di bawah jumlah terdaftar
		if req.Capacity != nil && *req.Capacity < m.ClassGroupsEnrolledCount {
			return fiber.NewError(fiber.StatusBadRequest, "Kapasitas tidak boleh lebih kecil dari jumlah mahasiswa terdaftar")
		}

		req.Apply(&m)

		if err := tx.Model(&cgModel.ClassGroupModel{}).
			Where("class_groups_id = ?", m.ClassGroupsID).
			Updates(map[string]interface{}{
				"class_groups_name":          m.ClassGroupsName,
				"class_groups_academic_year": m.ClassGroupsAcademicYear,
				"class_groups_capacity":      m.ClassGroupsCapacity,
				"class_groups_is_active":     m.ClassGroupsIsActive,
				"class_groups_updated_at":    m.ClassGroupsUpdatedAt,
			}).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Nama kelas sudah digunakan di tahun akademik ini")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui kelas")
		}

		updated = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Kelas berhasil diperbarui", cgDTO.FromClassGroupModel(updated))
}

// DELETE /api/a/class-groups/:id[?force=true]
func (h *ClassGroupController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	force := strings.EqualFold(c.Query("force"), "true")

	var deleted cgModel.ClassGroupModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m cgModel.ClassGroupModel
		if err := tx.First(&m, "class_groups_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}
		if m.ClassGroupsEnrolledCount > 0 && !force {
			return fiber.NewError(fiber.StatusBadRequest, "Kelas masih punya mahasiswa terdaftar")
		}

		if force {
			if err := tx.Unscoped().Delete(&cgModel.ClassGroupModel{}, "class_groups_id = ?", id).Error; err != nil {
				if helper.IsForeignKeyViolation(err) {
					return fiber.NewError(fiber.StatusBadRequest, "Tidak dapat menghapus karena masih ada registrasi terkait")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus kelas")
			}
		} else {
			if m.ClassGroupsDeletedAt.Valid {
				return fiber.NewError(fiber.StatusBadRequest, "Kelas sudah dihapus")
			}
			if err := tx.Delete(&cgModel.ClassGroupModel{}, "class_groups_id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus kelas")
			}
		}

		deleted = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonDeleted(c, "Kelas berhasil dihapus", cgDTO.FromClassGroupModel(deleted))
}
