// internals/features/academics/subjects/controller/subject_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	majorModel "kampusku_backend/internals/features/academics/majors/model"
	subjectDTO "kampusku_backend/internals/features/academics/subjects/dto"
	subjectModel "kampusku_backend/internals/features/academics/subjects/model"
	helper "kampusku_backend/internals/helpers"
)

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
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

// POST /api/a/subjects
func (h *SubjectController) Create(c *fiber.Ctx) error {
	var req subjectDTO.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var created subjectModel.SubjectModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureMajorExists(tx, req.MajorID); err != nil {
			return err
		}

		// kode unik per prodi
		var cnt int64
		if err := tx.Model(&subjectModel.SubjectModel{}).
			Where("subjects_major_id = ? AND lower(subjects_code) = lower(?) AND subjects_deleted_at IS NULL",
				req.MajorID, req.Code).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi kode")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Kode mata kuliah sudah digunakan di prodi ini")
		}

		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Kode mata kuliah sudah digunakan di prodi ini")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat mata kuliah")
		}
		created = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonCreated(c, "Mata kuliah berhasil dibuat", subjectDTO.FromSubjectModel(created))
}

// GET /api/a/subjects/:id
func (h *SubjectController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m subjectModel.SubjectModel
	if err := h.DB.First(&m, "subjects_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Mata kuliah tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Detail mata kuliah ditemukan", subjectDTO.FromSubjectModel(m))
}

// GET /api/a/subjects
func (h *SubjectController) List(c *fiber.Ctx) error {
	var q subjectDTO.ListSubjectQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&subjectModel.SubjectModel{})
	if q.WithDeleted == nil || !*q.WithDeleted {
		tx = tx.Where("subjects_deleted_at IS NULL")
	} else {
		tx = tx.Unscoped()
	}
	if q.MajorID != nil && strings.TrimSpace(*q.MajorID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.MajorID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "major_id tidak valid")
		}
		tx = tx.Where("subjects_major_id = ?", id)
	}
	if q.SemesterNo != nil {
		tx = tx.Where("subjects_semester_no = ?", *q.SemesterNo)
	}
	if q.IsActive != nil {
		tx = tx.Where("subjects_is_active = ?", *q.IsActive)
	}
	if q.Q != nil && strings.TrimSpace(*q.Q) != "" {
		kw := "%" + strings.ToLower(strings.TrimSpace(*q.Q)) + "%"
		tx = tx.Where("(LOWER(subjects_code) LIKE ? OR LOWER(subjects_name) LIKE ?)", kw, kw)
	}

	orderBy := "subjects_created_at"
	if q.OrderBy != nil {
		switch strings.ToLower(*q.OrderBy) {
		case "code":
			orderBy = "subjects_code"
		case "name":
			orderBy = "subjects_name"
		case "semester_no":
			orderBy = "subjects_semester_no"
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

	var rows []subjectModel.SubjectModel
	if err := tx.Order(orderBy + " " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar mata kuliah",
		subjectDTO.FromSubjectModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}

// PATCH /api/a/subjects/:id
func (h *SubjectController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req subjectDTO.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updated subjectModel.SubjectModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m subjectModel.SubjectModel
		if err := tx.First(&m, "subjects_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Mata kuliah tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if req.MajorID != nil {
			if err := ensureMajorExists(tx, *req.MajorID); err != nil {
				return err
			}
		}

		req.Apply(&m)

		if err := tx.Model(&subjectModel.SubjectModel{}).
			Where("subjects_id = ?", m.SubjectsID).
			Updates(map[string]interface{}{
				"subjects_major_id":    m.SubjectsMajorID,
				"subjects_code":        m.SubjectsCode,
				"subjects_name":        m.SubjectsName,
				"subjects_desc":        m.SubjectsDesc,
				"subjects_credits":     m.SubjectsCredits,
				"subjects_semester_no": m.SubjectsSemesterNo,
				"subjects_is_active":   m.SubjectsIsActive,
				"subjects_updated_at":  m.SubjectsUpdatedAt,
			}).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Kode mata kuliah sudah digunakan di prodi ini")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui mata kuliah")
		}

		updated = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Mata kuliah berhasil diperbarui", subjectDTO.FromSubjectModel(updated))
}

// DELETE /api/a/subjects/:id[?force=true]
func (h *SubjectController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	force := strings.EqualFold(c.Query("force"), "true")

	var deleted subjectModel.SubjectModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m subjectModel.SubjectModel
		if err := tx.First(&m, "subjects_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Mata kuliah tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if force {
			if err := tx.Unscoped().Delete(&subjectModel.SubjectModel{}, "subjects_id = ?", id).Error; err != nil {
				if helper.IsForeignKeyViolation(err) {
					return fiber.NewError(fiber.StatusBadRequest, "Tidak dapat menghapus karena masih ada data terkait")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus mata kuliah")
			}
		} else {
			if m.SubjectsDeletedAt.Valid {
				return fiber.NewError(fiber.StatusBadRequest, "Mata kuliah sudah dihapus")
			}
			if err := tx.Delete(&subjectModel.SubjectModel{}, "subjects_id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus mata kuliah")
			}
		}

		deleted = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonDeleted(c, "Mata kuliah berhasil dihapus", subjectDTO.FromSubjectModel(deleted))
}
