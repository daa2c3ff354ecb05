// internals/features/finance/payments/controller/payment_webhook_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/finance/payments/gateway"
	payModel "kampusku_backend/internals/features/finance/payments/model"
	paySvc "kampusku_backend/internals/features/finance/payments/service"
	helper "kampusku_backend/internals/helpers"
)

type PaymentWebhookController struct {
	DB       *gorm.DB
	Sessions *paySvc.Manager
}

func NewPaymentWebhookController(db *gorm.DB, sessions *paySvc.Manager) *PaymentWebhookController {
	return &PaymentWebhookController{DB: db, Sessions: sessions}
}

// callbackPayload menampung dua bentuk: gateway QR ({tran_id, status.message})
// dan notifikasi midtrans ({order_id, transaction_status}).
type callbackPayload struct {
	TranID string `json:"tran_id"`
	Status struct {
		Message string `json:"message"`
	} `json:"status"`

	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
}

// POST /api/payment-gateway/callback
//
// Selalu dibalas 200 untuk payload yang bisa dipetakan — gateway akan
// retry kalau tidak. Duplikat aman: reconciler & store sama-sama idempoten.
func (h *PaymentWebhookController) Callback(c *fiber.Ctx) error {
	var p callbackPayload
	if err := c.BodyParser(&p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}

	raw := make([]byte, len(c.Body()))
	copy(raw, c.Body())

	tranID := strings.TrimSpace(p.TranID)
	statusMsg := p.Status.Message
	if statusMsg == "" {
		statusMsg = p.TransactionStatus
	}

	st, err := gateway.ParseStatus(statusMsg)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Status tidak dikenal")
	}

	// cari sesi: tran_id (qrgate) atau order_id = id sesi (midtrans)
	var sess payModel.PaymentSessionModel
	var found bool
	if tranID != "" {
		if err := h.DB.First(&sess, "payment_sessions_tran_id = ?", tranID).Error; err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mencari sesi")
		}
	}
	if !found && p.OrderID != "" {
		if sessID, parseErr := uuid.Parse(strings.TrimSpace(p.OrderID)); parseErr == nil {
			if err := h.DB.First(&sess, "payment_sessions_id = ?", sessID).Error; err == nil {
				found = true
				if tranID == "" && sess.PaymentSessionsTranID != nil {
					tranID = *sess.PaymentSessionsTranID
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal mencari sesi")
			}
		}
	}

	// rekam SEMUA callback, termasuk yang sesinya tidak ketemu
	var sessIDRef *uuid.UUID
	if found {
		sessIDRef = &sess.PaymentSessionsID
	}
	var tranRef *string
	if tranID != "" {
		tranRef = &tranID
	}
	if err := h.Sessions.Store().RecordEvent(sessIDRef, tranRef, payModel.EventSourceWebhook, string(st), raw); err != nil {
		log.Printf("[WARN] rekam callback gateway: %v", err)
	}

	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	if sess.IsTerminal() {
		return helper.JsonOK(c, "Callback diterima (sesi sudah selesai)", nil)
	}

	ev := gateway.StatusEvent{TranID: tranID, Status: st, Raw: raw, ObservedAt: time.Now()}

	// pengawas hidup → suapkan; kalau tidak (proses pernah restart),
	// terminal ditulis langsung lewat store yang idempoten.
	delivered := h.Sessions.DispatchSession(sess.PaymentSessionsID, ev)
	if !delivered && st.IsTerminal() {
		target := payModel.SessionFailed
		var lastErr *string
		if st == gateway.StatusPaid {
			target = payModel.SessionPaid
		} else {
			msg := "gateway melaporkan pembayaran gagal"
			lastErr = &msg
		}
		if err := h.Sessions.Store().MarkTerminal(sess.PaymentSessionsID, target, lastErr); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memproses callback")
		}
		if target != payModel.SessionPaid {
			if err := h.Sessions.Store().MarkRegistrationUnpaid(sess.PaymentSessionsRegistrationID); err != nil {
				log.Printf("[WARN] kembalikan status registrasi %s: %v", sess.PaymentSessionsRegistrationID, err)
			}
		}
	}

	return helper.JsonOK(c, "Callback diterima", nil)
}
