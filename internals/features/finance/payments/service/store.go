// internals/features/finance/payments/service/store.go
package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	regModel "kampusku_backend/internals/features/academics/registrations/model"
	payModel "kampusku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Store = satu-satunya penulis payment_sessions & registrasi
   (status pembayaran registrasi hanya ditulis dari sini dan
   dari endpoint override admin).
========================================================= */

type SessionStore interface {
	MarkInitiated(sessionID uuid.UUID, tranID, qrImageURL string) error
	MarkCheckout(sessionID uuid.UUID, tranID, checkoutURL string) error
	MarkTerminal(sessionID uuid.UUID, status payModel.PaymentSessionStatus, lastError *string) error
	RecordEvent(sessionID *uuid.UUID, tranID *string, source payModel.GatewayEventSource, observedStatus string, payload []byte) error
}

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) MarkInitiated(sessionID uuid.UUID, tranID, qrImageURL string) error {
	return s.DB.Model(&payModel.PaymentSessionModel{}).
		Where("payment_sessions_id = ?", sessionID).
		Updates(map[string]interface{}{
			"payment_sessions_tran_id":      tranID,
			"payment_sessions_qr_image_url": qrImageURL,
			"payment_sessions_updated_at":   time.Now(),
		}).Error
}

func (s *Store) MarkCheckout(sessionID uuid.UUID, tranID, checkoutURL string) error {
	return s.DB.Model(&payModel.PaymentSessionModel{}).
		Where("payment_sessions_id = ?", sessionID).
		Updates(map[string]interface{}{
			"payment_sessions_tran_id":      tranID,
			"payment_sessions_checkout_url": checkoutURL,
			"payment_sessions_updated_at":   time.Now(),
		}).Error
}

// MarkTerminal menulis status terminal sesi DAN, untuk status paid, menandai
// registrasi lunas — satu transaksi. Sesi yang sudah terminal tidak disentuh
// lagi (guard di WHERE), jadi aman terhadap pengiriman ganda.
func (s *Store) MarkTerminal(sessionID uuid.UUID, status payModel.PaymentSessionStatus, lastError *string) error {
	now := time.Now()
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sess payModel.PaymentSessionModel
		if err := tx.First(&sess, "payment_sessions_id = ?", sessionID).Error; err != nil {
			return err
		}
		if sess.IsTerminal() {
			return nil
		}

		updates := map[string]interface{}{
			"payment_sessions_status":     status,
			"payment_sessions_updated_at": now,
		}
		if lastError != nil {
			updates["payment_sessions_last_error"] = *lastError
		}
		if status == payModel.SessionPaid {
			updates["payment_sessions_paid_at"] = now
		}

		res := tx.Model(&payModel.PaymentSessionModel{}).
			Where("payment_sessions_id = ? AND payment_sessions_status = 'pending'", sessionID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // sudah didahului penulis lain
		}

		if status == payModel.SessionPaid {
			if err := tx.Model(&regModel.RegistrationModel{}).
				Where("registrations_id = ?", sess.PaymentSessionsRegistrationID).
				Updates(map[string]interface{}{
					"registrations_payment_status": regModel.RegistrationPaymentPaid,
					"registrations_paid_at":        now,
					"registrations_updated_at":     now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkRegistrationPending dipanggil saat sesi dibuat: unpaid → pending.
func (s *Store) MarkRegistrationPending(registrationID uuid.UUID) error {
	return s.DB.Model(&regModel.RegistrationModel{}).
		Where("registrations_id = ? AND registrations_payment_status = 'unpaid'", registrationID).
		Updates(map[string]interface{}{
			"registrations_payment_status": regModel.RegistrationPaymentPending,
			"registrations_updated_at":     time.Now(),
		}).Error
}

// MarkRegistrationUnpaid mengembalikan pending → unpaid saat sesi gagal/batal.
func (s *Store) MarkRegistrationUnpaid(registrationID uuid.UUID) error {
	return s.DB.Model(&regModel.RegistrationModel{}).
		Where("registrations_id = ? AND registrations_payment_status = 'pending'", registrationID).
		Updates(map[string]interface{}{
			"registrations_payment_status": regModel.RegistrationPaymentUnpaid,
			"registrations_updated_at":     time.Now(),
		}).Error
}

func (s *Store) RecordEvent(sessionID *uuid.UUID, tranID *string, source payModel.GatewayEventSource, observedStatus string, payload []byte) error {
	ev := payModel.PaymentGatewayEventModel{
		GatewayEventsSessionID:      sessionID,
		GatewayEventsTranID:         tranID,
		GatewayEventsSource:         source,
		GatewayEventsObservedStatus: observedStatus,
		GatewayEventsReceivedAt:     time.Now(),
	}
	if len(payload) > 0 {
		ev.GatewayEventsPayload = datatypes.JSON(payload)
	}
	return s.DB.Create(&ev).Error
}
