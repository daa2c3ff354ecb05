// internals/features/academics/registrations/controller/registration_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cgModel "kampusku_backend/internals/features/academics/class_groups/model"
	regDTO "kampusku_backend/internals/features/academics/registrations/dto"
	regModel "kampusku_backend/internals/features/academics/registrations/model"
	stModel "kampusku_backend/internals/features/academics/students/model"
	helper "kampusku_backend/internals/helpers"
)

type RegistrationController struct {
	DB *gorm.DB
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{DB: db}
}

// Ambil kelas dengan lock supaya enrolled_count konsisten saat concurrent.
func lockClassGroup(tx *gorm.DB, id uuid.UUID) (*cgModel.ClassGroupModel, error) {
	var cg cgModel.ClassGroupModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cg, "class_groups_id = ? AND class_groups_deleted_at IS NULL", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Kelas tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal cek kelas")
	}
	return &cg, nil
}

func bumpEnrolledCount(tx *gorm.DB, id uuid.UUID, delta int) error {
	if err := tx.Model(&cgModel.ClassGroupModel{}).
		Where("class_groups_id = ?", id).
		UpdateColumn("class_groups_enrolled_count", gorm.Expr("class_groups_enrolled_count + ?", delta)).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui jumlah terdaftar")
	}
	return nil
}

// POST /api/a/registrations
func (h *RegistrationController) Create(c *fiber.Ctx) error {
	var req regDTO.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var created regModel.RegistrationModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&stModel.StudentModel{}).
			Where("students_id = ? AND students_deleted_at IS NULL", req.StudentID).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek mahasiswa")
		}
		if cnt == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Mahasiswa tidak ditemukan")
		}

		// satu registrasi per mahasiswa per semester
		cnt = 0
		if err := tx.Model(&regModel.RegistrationModel{}).
			Where(`registrations_student_id = ?
				AND registrations_semester = ?
				AND registrations_deleted_at IS NULL`,
				req.StudentID, req.Semester).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi registrasi")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Mahasiswa sudah terdaftar di semester ini")
		}

		if req.ClassGroupID != nil {
			cg, err := lockClassGroup(tx, *req.ClassGroupID)
			if err != nil {
				return err
			}
			if !cg.ClassGroupsIsActive {
				return fiber.NewError(fiber.StatusBadRequest, "Kelas tidak aktif")
			}
			if cg.IsFull() {
				return fiber.NewError(fiber.StatusConflict, "Kelas sudah penuh")
			}
			if err := bumpEnrolledCount(tx, cg.ClassGroupsID, 1); err != nil {
				return err
			}
		}

		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Mahasiswa sudah terdaftar di semester ini")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat registrasi")
		}
		created = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonCreated(c, "Registrasi berhasil dibuat", regDTO.FromRegistrationModel(created))
}

// GET /api/a/registrations/:id
func (h *RegistrationController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m regModel.RegistrationModel
	if err := h.DB.First(&m, "registrations_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Registrasi tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Detail registrasi ditemukan", regDTO.FromRegistrationModel(m))
}

// GET /api/a/registrations
func (h *RegistrationController) List(c *fiber.Ctx) error {
	var q regDTO.ListRegistrationQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&regModel.RegistrationModel{})
	if q.WithDeleted == nil || !*q.WithDeleted {
		tx = tx.Where("registrations_deleted_at IS NULL")
	} else {
		tx = tx.Unscoped()
	}
	if q.StudentID != nil && strings.TrimSpace(*q.StudentID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.StudentID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "student_id tidak valid")
		}
		tx = tx.Where("registrations_student_id = ?", id)
	}
	if q.ClassGroupID != nil && strings.TrimSpace(*q.ClassGroupID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.ClassGroupID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "class_group_id tidak valid")
		}
		tx = tx.Where("registrations_class_group_id = ?", id)
	}
	if q.Semester != nil && strings.TrimSpace(*q.Semester) != "" {
		tx = tx.Where("registrations_semester = ?", strings.TrimSpace(*q.Semester))
	}
	if q.PaymentStatus != nil && strings.TrimSpace(*q.PaymentStatus) != "" {
		st := strings.ToLower(strings.TrimSpace(*q.PaymentStatus))
		if !regModel.ValidRegistrationPaymentStatus(st) {
			return fiber.NewError(fiber.StatusBadRequest, "payment_status tidak valid")
		}
		tx = tx.Where("registrations_payment_status = ?", st)
	}

	orderBy := "registrations_created_at"
	if q.OrderBy != nil {
		switch strings.ToLower(*q.OrderBy) {
		case "semester":
			orderBy = "registrations_semester"
		case "amount_due":
			orderBy = "registrations_amount_due"
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

	var rows []regModel.RegistrationModel
	if err := tx.Order(orderBy + " " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar registrasi",
		regDTO.FromRegistrationModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}

// PATCH /api/a/registrations/:id
//
// Status pembayaran TIDAK bisa diubah lewat endpoint ini — gunakan
// OverridePaymentStatus (admin) atau biarkan sesi pembayaran yang menulisnya.
func (h *RegistrationController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req regDTO.UpdateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updated regModel.RegistrationModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m regModel.RegistrationModel
		if err := tx.First(&m, "registrations_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Registrasi tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		if m.IsPaid() && req.AmountDue != nil && *req.AmountDue != m.RegistrationsAmountDue {
			return fiber.NewError(fiber.StatusBadRequest, "Tagihan yang sudah lunas tidak bisa diubah nominalnya")
		}

		// pindah kelas: kurangi hitungan kelas lama, tambah kelas baru
		if req.ClassGroupID != nil {
			same := m.RegistrationsClassGroupID != nil && *m.RegistrationsClassGroupID == *req.ClassGroupID
			if !same {
				cg, err := lockClassGroup(tx, *req.ClassGroupID)
				if err != nil {
					return err
				}
				if !cg.ClassGroupsIsActive {
					return fiber.NewError(fiber.StatusBadRequest, "Kelas tidak aktif")
				}
				if cg.IsFull() {
					return fiber.NewError(fiber.StatusConflict, "Kelas sudah penuh")
				}
				if m.RegistrationsClassGroupID != nil {
					if err := bumpEnrolledCount(tx, *m.RegistrationsClassGroupID, -1); err != nil {
						return err
					}
				}
				if err := bumpEnrolledCount(tx, cg.ClassGroupsID, 1); err != nil {
					return err
				}
				m.RegistrationsClassGroupID = req.ClassGroupID
			}
		}

		if req.AmountDue != nil {
			m.RegistrationsAmountDue = *req.AmountDue
		}
		if req.Notes != nil {
			m.RegistrationsNotes = req.Notes
		}
		m.RegistrationsUpdatedAt = time.Now()

		if err := tx.Model(&regModel.RegistrationModel{}).
			Where("registrations_id = ?", m.RegistrationsID).
			Updates(map[string]interface{}{
				"registrations_class_group_id": m.RegistrationsClassGroupID,
				"registrations_amount_due":     m.RegistrationsAmountDue,
				"registrations_notes":          m.RegistrationsNotes,
				"registrations_updated_at":     m.RegistrationsUpdatedAt,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui registrasi")
		}

		updated = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Registrasi berhasil diperbarui", regDTO.FromRegistrationModel(updated))
}

// PATCH /api/a/registrations/:id/payment-status
//
// Jalur koreksi manual oleh admin (mis. pembayaran via teller bank).
func (h *RegistrationController) OverridePaymentStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req regDTO.OverridePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updated regModel.RegistrationModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m regModel.RegistrationModel
		if err := tx.First(&m, "registrations_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Registrasi tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}

		m.RegistrationsPaymentStatus = regModel.RegistrationPaymentStatus(req.PaymentStatus)
		now := time.Now()
		if m.RegistrationsPaymentStatus == regModel.RegistrationPaymentPaid {
			if m.RegistrationsPaidAt == nil {
				m.RegistrationsPaidAt = &now
			}
		} else {
			m.RegistrationsPaidAt = nil
		}
		if req.Notes != nil {
			m.RegistrationsNotes = req.Notes
		}
		m.RegistrationsUpdatedAt = now

		if err := tx.Model(&regModel.RegistrationModel{}).
			Where("registrations_id = ?", m.RegistrationsID).
			Updates(map[string]interface{}{
				"registrations_payment_status": m.RegistrationsPaymentStatus,
				"registrations_paid_at":        m.RegistrationsPaidAt,
				"registrations_notes":          m.RegistrationsNotes,
				"registrations_updated_at":     m.RegistrationsUpdatedAt,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui status pembayaran")
		}

		updated = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Status pembayaran berhasil diperbarui", regDTO.FromRegistrationModel(updated))
}

// DELETE /api/a/registrations/:id[?force=true]
func (h *RegistrationController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	force := strings.EqualFold(c.Query("force"), "true")

	var deleted regModel.RegistrationModel
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var m regModel.RegistrationModel
		if err := tx.First(&m, "registrations_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Registrasi tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
		}
		if m.IsPaid() && !force {
			return fiber.NewError(fiber.StatusBadRequest, "Registrasi yang sudah lunas tidak bisa dihapus")
		}

		if m.RegistrationsClassGroupID != nil && !m.RegistrationsDeletedAt.Valid {
			if err := bumpEnrolledCount(tx, *m.RegistrationsClassGroupID, -1); err != nil {
				return err
			}
		}

		if force {
			if err := tx.Unscoped().Delete(&regModel.RegistrationModel{}, "registrations_id = ?", id).Error; err != nil {
				if helper.IsForeignKeyViolation(err) {
					return fiber.NewError(fiber.StatusBadRequest, "Tidak dapat menghapus karena masih ada sesi pembayaran terkait")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus registrasi")
			}
		} else {
			if m.RegistrationsDeletedAt.Valid {
				return fiber.NewError(fiber.StatusBadRequest, "Registrasi sudah dihapus")
			}
			if err := tx.Delete(&regModel.RegistrationModel{}, "registrations_id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus registrasi")
			}
		}

		deleted = m
		return nil
	}); err != nil {
		return err
	}

	return helper.JsonDeleted(c, "Registrasi berhasil dihapus", regDTO.FromRegistrationModel(deleted))
}
