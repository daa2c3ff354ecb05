// internals/features/finance/payments/model/payment_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentProvider string

const (
	ProviderQRGate   PaymentProvider = "qrgate"
	ProviderMidtrans PaymentProvider = "midtrans"
)

func ValidPaymentProvider(s string) bool {
	switch PaymentProvider(s) {
	case ProviderQRGate, ProviderMidtrans:
		return true
	}
	return false
}

type PaymentSessionStatus string

const (
	SessionPending  PaymentSessionStatus = "pending"
	SessionPaid     PaymentSessionStatus = "paid"
	SessionFailed   PaymentSessionStatus = "failed"
	SessionCanceled PaymentSessionStatus = "canceled"
	SessionExpired  PaymentSessionStatus = "expired"
)

// Terminal = tidak ada transisi lagi setelah status ini.
func (s PaymentSessionStatus) IsTerminal() bool {
	switch s {
	case SessionPaid, SessionFailed, SessionCanceled, SessionExpired:
		return true
	}
	return false
}

/* =========================================================
   payment_sessions = satu percobaan pembayaran per registrasi
   - Maks. SATU sesi non-terminal per registrasi (partial unique index).
   - tran_id baru terisi setelah inisiasi gateway sukses.
========================================================= */

type PaymentSessionModel struct {
	PaymentSessionsID             uuid.UUID `gorm:"column:payment_sessions_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_sessions_id"`
	PaymentSessionsRegistrationID uuid.UUID `gorm:"column:payment_sessions_registration_id;type:uuid;not null;index:idx_payment_sessions_registration;uniqueIndex:uq_payment_sessions_live,where:payment_sessions_status = 'pending' AND payment_sessions_deleted_at IS NULL" json:"payment_sessions_registration_id"`

	PaymentSessionsProvider  PaymentProvider `gorm:"column:payment_sessions_provider;type:varchar(16);not null;default:'qrgate'" json:"payment_sessions_provider"`
	PaymentSessionsAmountIDR int64           `gorm:"column:payment_sessions_amount_idr;not null" json:"payment_sessions_amount_idr"`
	PaymentSessionsCurrency  string          `gorm:"column:payment_sessions_currency;type:varchar(8);not null;default:'IDR'" json:"payment_sessions_currency"`

	PaymentSessionsTranID      *string `gorm:"column:payment_sessions_tran_id;type:varchar(64);index" json:"payment_sessions_tran_id,omitempty"`
	PaymentSessionsQRImageURL  *string `gorm:"column:payment_sessions_qr_image_url;type:text" json:"payment_sessions_qr_image_url,omitempty"`
	PaymentSessionsCheckoutURL *string `gorm:"column:payment_sessions_checkout_url;type:text" json:"payment_sessions_checkout_url,omitempty"`

	PaymentSessionsStatus    PaymentSessionStatus `gorm:"column:payment_sessions_status;type:varchar(12);not null;default:'pending';index" json:"payment_sessions_status"`
	PaymentSessionsPaidAt    *time.Time           `gorm:"column:payment_sessions_paid_at" json:"payment_sessions_paid_at,omitempty"`
	PaymentSessionsLastError *string              `gorm:"column:payment_sessions_last_error;type:text" json:"payment_sessions_last_error,omitempty"`
	PaymentSessionsExpiresAt time.Time            `gorm:"column:payment_sessions_expires_at;not null" json:"payment_sessions_expires_at"`

	PaymentSessionsCreatedAt time.Time      `gorm:"column:payment_sessions_created_at;not null;autoCreateTime" json:"payment_sessions_created_at"`
	PaymentSessionsUpdatedAt time.Time      `gorm:"column:payment_sessions_updated_at;not null;autoUpdateTime" json:"payment_sessions_updated_at"`
	PaymentSessionsDeletedAt gorm.DeletedAt `gorm:"column:payment_sessions_deleted_at;index" json:"payment_sessions_deleted_at,omitempty"`
}

func (PaymentSessionModel) TableName() string { return "payment_sessions" }

func (m PaymentSessionModel) IsTerminal() bool {
	return m.PaymentSessionsStatus.IsTerminal()
}
