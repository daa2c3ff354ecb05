// internals/features/finance/payments/controller/payment_session_controller.go
package controller

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	regModel "kampusku_backend/internals/features/academics/registrations/model"
	stModel "kampusku_backend/internals/features/academics/students/model"
	payDTO "kampusku_backend/internals/features/finance/payments/dto"
	payModel "kampusku_backend/internals/features/finance/payments/model"
	paySvc "kampusku_backend/internals/features/finance/payments/service"
	helper "kampusku_backend/internals/helpers"
)

type PaymentSessionController struct {
	DB       *gorm.DB
	Sessions *paySvc.Manager
	TTL      time.Duration
}

func NewPaymentSessionController(db *gorm.DB, sessions *paySvc.Manager, ttl time.Duration) *PaymentSessionController {
	return &PaymentSessionController{DB: db, Sessions: sessions, TTL: ttl}
}

// POST /api/u/payment-sessions
//
// Idempoten per registrasi: kalau masih ada sesi pending yang hidup,
// sesi itu yang dikembalikan, bukan bikin baru.
func (h *PaymentSessionController) Create(c *fiber.Ctx) error {
	var req payDTO.CreatePaymentSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	return h.createFor(c, req.RegistrationID, payModel.PaymentProvider(req.Provider))
}

func (h *PaymentSessionController) createFor(c *fiber.Ctx, registrationID uuid.UUID, provider payModel.PaymentProvider) error {
	var reg regModel.RegistrationModel
	if err := h.DB.First(&reg, "registrations_id = ? AND registrations_deleted_at IS NULL", registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Registrasi tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil registrasi")
	}
	if reg.IsPaid() {
		return fiber.NewError(fiber.StatusConflict, "Tagihan sudah dibayar")
	}
	if reg.RegistrationsAmountDue <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nominal tagihan tidak valid")
	}

	// sesi pending yang masih hidup dipakai ulang
	var existing payModel.PaymentSessionModel
	err := h.DB.First(&existing,
		"payment_sessions_registration_id = ? AND payment_sessions_status = 'pending' AND payment_sessions_deleted_at IS NULL",
		registrationID).Error
	if err == nil {
		return helper.JsonOK(c, "Sesi pembayaran masih berjalan", payDTO.FromPaymentSessionModel(existing))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek sesi berjalan")
	}

	sess := payModel.PaymentSessionModel{
		PaymentSessionsRegistrationID: registrationID,
		PaymentSessionsProvider:       provider,
		PaymentSessionsAmountIDR:      reg.RegistrationsAmountDue,
		PaymentSessionsCurrency:       "IDR",
		PaymentSessionsStatus:         payModel.SessionPending,
		PaymentSessionsExpiresAt:      time.Now().Add(h.TTL),
	}
	if err := h.DB.Create(&sess).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			// dua Create paralel untuk registrasi yang sama: yang kalah
			// balapan index tetap dapat sesi si pemenang, bukan 409
			var winner payModel.PaymentSessionModel
			if err := h.DB.First(&winner,
				"payment_sessions_registration_id = ? AND payment_sessions_status = 'pending' AND payment_sessions_deleted_at IS NULL",
				registrationID).Error; err == nil {
				return helper.JsonOK(c, "Sesi pembayaran masih berjalan", payDTO.FromPaymentSessionModel(winner))
			}
			return fiber.NewError(fiber.StatusConflict, "Sesi pembayaran untuk registrasi ini masih berjalan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat sesi pembayaran")
	}

	if err := h.Sessions.Store().MarkRegistrationPending(registrationID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menandai registrasi")
	}

	var payerName string
	var student stModel.StudentModel
	if err := h.DB.First(&student, "students_id = ?", reg.RegistrationsStudentID).Error; err == nil {
		payerName = student.StudentsName
	}
	h.Sessions.Start(sess, reg.RegistrationsSemester, payerName)

	return helper.JsonCreated(c, "Sesi pembayaran dibuat", payDTO.FromPaymentSessionModel(sess))
}

// GET /api/u/payment-sessions/:id
func (h *PaymentSessionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m payModel.PaymentSessionModel
	if err := h.DB.First(&m, "payment_sessions_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Sesi pembayaran tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Detail sesi pembayaran", payDTO.FromPaymentSessionModel(m))
}

// POST /api/u/payment-sessions/:id/cancel
//
// Idempoten: sesi yang sudah terminal dibalas apa adanya.
func (h *PaymentSessionController) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m payModel.PaymentSessionModel
	if err := h.DB.First(&m, "payment_sessions_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Sesi pembayaran tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	if m.IsTerminal() {
		return helper.JsonOK(c, "Sesi sudah selesai", payDTO.FromPaymentSessionModel(m))
	}

	// pengawas hidup: biarkan dia yang menulis status + side effects.
	// kalau tidak ada (proses pernah restart), tulis langsung.
	if !h.Sessions.Cancel(id) {
		if err := h.Sessions.Store().MarkTerminal(id, payModel.SessionCanceled, nil); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membatalkan sesi")
		}
		if err := h.Sessions.Store().MarkRegistrationUnpaid(m.PaymentSessionsRegistrationID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengembalikan status registrasi")
		}
	}

	if err := h.DB.First(&m, "payment_sessions_id = ?", id).Error; err == nil {
		return helper.JsonOK(c, "Sesi pembayaran dibatalkan", payDTO.FromPaymentSessionModel(m))
	}
	return helper.JsonOK(c, "Sesi pembayaran dibatalkan", nil)
}

// POST /api/u/payment-sessions/:id/regenerate
//
// "Generate ulang" eksplisit: sesi lama harus sudah terminal;
// hasilnya SESI BARU untuk registrasi yang sama.
func (h *PaymentSessionController) Regenerate(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var old payModel.PaymentSessionModel
	if err := h.DB.First(&old, "payment_sessions_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Sesi pembayaran tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}
	if !old.IsTerminal() {
		return fiber.NewError(fiber.StatusConflict, "Sesi lama masih berjalan, batalkan dulu")
	}
	if old.PaymentSessionsStatus == payModel.SessionPaid {
		return fiber.NewError(fiber.StatusConflict, "Tagihan sudah dibayar")
	}

	return h.createFor(c, old.PaymentSessionsRegistrationID, old.PaymentSessionsProvider)
}

// GET /api/u/payment-sessions/:id/events
//
// SSE untuk browser: replay status terkini dulu, lalu teruskan frame dari
// broadcaster sampai frame closing (terminal + jeda auto-close) atau klien
// pergi. Heartbeat comment tiap 15s supaya proxy tidak memutus koneksi.
func (h *PaymentSessionController) Events(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var m payModel.PaymentSessionModel
	if err := h.DB.First(&m, "payment_sessions_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Sesi pembayaran tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	events, unsubscribe := h.Sessions.Broadcaster().Subscribe(id)

	snapshot := paySvc.SessionEvent{
		SessionID:  m.PaymentSessionsID,
		Status:     string(m.PaymentSessionsStatus),
		QRImageURL: m.PaymentSessionsQRImageURL,
		PaidAt:     m.PaymentSessionsPaidAt,
		LastError:  m.PaymentSessionsLastError,
	}
	alreadyTerminal := m.IsTerminal()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		if !writeSSEFrame(w, snapshot) {
			return
		}
		if alreadyTerminal {
			// sesi lama: kirim snapshot + frame closing, selesai
			snapshot.Closing = true
			writeSSEFrame(w, snapshot)
			return
		}

		heartbeat := time.NewTicker(15 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !writeSSEFrame(w, ev) {
					return
				}
				if ev.Closing {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeSSEFrame(w *bufio.Writer, ev paySvc.SessionEvent) bool {
	payload, err := sonic.Marshal(ev)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return false
	}
	return w.Flush() == nil
}
