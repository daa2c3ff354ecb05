// internals/features/finance/payments/controller/payment_admin_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	payDTO "kampusku_backend/internals/features/finance/payments/dto"
	payModel "kampusku_backend/internals/features/finance/payments/model"
	helper "kampusku_backend/internals/helpers"
)

type PaymentAdminController struct {
	DB *gorm.DB
}

func NewPaymentAdminController(db *gorm.DB) *PaymentAdminController {
	return &PaymentAdminController{DB: db}
}

// GET /api/a/payment-sessions
func (h *PaymentAdminController) ListSessions(c *fiber.Ctx) error {
	var q payDTO.ListPaymentSessionQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&payModel.PaymentSessionModel{}).
		Where("payment_sessions_deleted_at IS NULL")
	if q.RegistrationID != nil && strings.TrimSpace(*q.RegistrationID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.RegistrationID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "registration_id tidak valid")
		}
		tx = tx.Where("payment_sessions_registration_id = ?", id)
	}
	if q.Status != nil && strings.TrimSpace(*q.Status) != "" {
		tx = tx.Where("payment_sessions_status = ?", strings.ToLower(strings.TrimSpace(*q.Status)))
	}
	if q.Provider != nil && strings.TrimSpace(*q.Provider) != "" {
		pv := strings.ToLower(strings.TrimSpace(*q.Provider))
		if !payModel.ValidPaymentProvider(pv) {
			return fiber.NewError(fiber.StatusBadRequest, "provider tidak valid")
		}
		tx = tx.Where("payment_sessions_provider = ?", pv)
	}

	orderBy := "payment_sessions_created_at"
	if q.OrderBy != nil && strings.ToLower(*q.OrderBy) == "amount" {
		orderBy = "payment_sessions_amount_idr"
	}
	sort := "DESC"
	if q.Sort != nil && strings.ToLower(*q.Sort) == "asc" {
		sort = "ASC"
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung total data")
	}

	var rows []payModel.PaymentSessionModel
	if err := tx.Order(orderBy + " " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar sesi pembayaran",
		payDTO.FromPaymentSessionModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}

// GET /api/a/payment-gateway-events
func (h *PaymentAdminController) ListGatewayEvents(c *fiber.Ctx) error {
	var q payDTO.ListGatewayEventQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.Model(&payModel.PaymentGatewayEventModel{})
	if q.SessionID != nil && strings.TrimSpace(*q.SessionID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*q.SessionID))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "session_id tidak valid")
		}
		tx = tx.Where("gateway_events_session_id = ?", id)
	}
	if q.TranID != nil && strings.TrimSpace(*q.TranID) != "" {
		tx = tx.Where("gateway_events_tran_id = ?", strings.TrimSpace(*q.TranID))
	}
	if q.Source != nil && strings.TrimSpace(*q.Source) != "" {
		tx = tx.Where("gateway_events_source = ?", strings.ToLower(strings.TrimSpace(*q.Source)))
	}

	sort := "DESC"
	if q.Sort != nil && strings.ToLower(*q.Sort) == "asc" {
		sort = "ASC"
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung total data")
	}

	var rows []payModel.PaymentGatewayEventModel
	if err := tx.Order("gateway_events_received_at " + sort).
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar event gateway",
		payDTO.FromGatewayEventModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	)
}
