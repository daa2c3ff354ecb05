package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/finance/payments/model"
)

type CreatePaymentSessionRequest struct {
	RegistrationID uuid.UUID `json:"payment_sessions_registration_id" validate:"required"`
	Provider       string    `json:"payment_sessions_provider" validate:"omitempty,oneof=qrgate midtrans"`
}

func (r *CreatePaymentSessionRequest) Normalize() {
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	if r.Provider == "" {
		r.Provider = string(m.ProviderQRGate)
	}
}

type ListPaymentSessionQuery struct {
	RegistrationID *string `query:"registration_id"`
	Status         *string `query:"status"`
	Provider       *string `query:"provider"`
	OrderBy        *string `query:"order_by"` // created_at|amount
	Sort           *string `query:"sort"`
}

type PaymentSessionResponse struct {
	PaymentSessionsID             uuid.UUID              `json:"payment_sessions_id"`
	PaymentSessionsRegistrationID uuid.UUID              `json:"payment_sessions_registration_id"`
	PaymentSessionsProvider       m.PaymentProvider      `json:"payment_sessions_provider"`
	PaymentSessionsAmountIDR      int64                  `json:"payment_sessions_amount_idr"`
	PaymentSessionsCurrency       string                 `json:"payment_sessions_currency"`
	PaymentSessionsTranID         *string                `json:"payment_sessions_tran_id,omitempty"`
	PaymentSessionsQRImageURL     *string                `json:"payment_sessions_qr_image_url,omitempty"`
	PaymentSessionsCheckoutURL    *string                `json:"payment_sessions_checkout_url,omitempty"`
	PaymentSessionsStatus         m.PaymentSessionStatus `json:"payment_sessions_status"`
	PaymentSessionsPaidAt         *time.Time             `json:"payment_sessions_paid_at,omitempty"`
	PaymentSessionsLastError      *string                `json:"payment_sessions_last_error,omitempty"`
	PaymentSessionsExpiresAt      time.Time              `json:"payment_sessions_expires_at"`
	PaymentSessionsCreatedAt      time.Time              `json:"payment_sessions_created_at"`
	PaymentSessionsUpdatedAt      time.Time              `json:"payment_sessions_updated_at"`
}

func FromPaymentSessionModel(mo m.PaymentSessionModel) PaymentSessionResponse {
	return PaymentSessionResponse{
		PaymentSessionsID:             mo.PaymentSessionsID,
		PaymentSessionsRegistrationID: mo.PaymentSessionsRegistrationID,
		PaymentSessionsProvider:       mo.PaymentSessionsProvider,
		PaymentSessionsAmountIDR:      mo.PaymentSessionsAmountIDR,
		PaymentSessionsCurrency:       mo.PaymentSessionsCurrency,
		PaymentSessionsTranID:         mo.PaymentSessionsTranID,
		PaymentSessionsQRImageURL:     mo.PaymentSessionsQRImageURL,
		PaymentSessionsCheckoutURL:    mo.PaymentSessionsCheckoutURL,
		PaymentSessionsStatus:         mo.PaymentSessionsStatus,
		PaymentSessionsPaidAt:         mo.PaymentSessionsPaidAt,
		PaymentSessionsLastError:      mo.PaymentSessionsLastError,
		PaymentSessionsExpiresAt:      mo.PaymentSessionsExpiresAt,
		PaymentSessionsCreatedAt:      mo.PaymentSessionsCreatedAt,
		PaymentSessionsUpdatedAt:      mo.PaymentSessionsUpdatedAt,
	}
}

func FromPaymentSessionModels(rows []m.PaymentSessionModel) []PaymentSessionResponse {
	out := make([]PaymentSessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromPaymentSessionModel(rows[i]))
	}
	return out
}
