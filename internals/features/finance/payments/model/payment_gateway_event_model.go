// internals/features/finance/payments/model/payment_gateway_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GatewayEventSource string

const (
	EventSourceStream  GatewayEventSource = "stream"
	EventSourcePoll    GatewayEventSource = "poll"
	EventSourceWebhook GatewayEventSource = "webhook"
)

/*
  payment_gateway_events = LOG setiap observasi status dari gateway
  - Bisa banyak row per 1 sesi (tiap tick poll / frame stream / webhook).
  - Nyimpen raw payload buat debug / replay.
*/

type PaymentGatewayEventModel struct {
	GatewayEventsID        uuid.UUID  `gorm:"column:gateway_events_id;type:uuid;default:gen_random_uuid();primaryKey" json:"gateway_events_id"`
	GatewayEventsSessionID *uuid.UUID `gorm:"column:gateway_events_session_id;type:uuid;index" json:"gateway_events_session_id,omitempty"`
	GatewayEventsTranID    *string    `gorm:"column:gateway_events_tran_id;type:varchar(64);index" json:"gateway_events_tran_id,omitempty"`

	GatewayEventsSource         GatewayEventSource `gorm:"column:gateway_events_source;type:varchar(12);not null" json:"gateway_events_source"`
	GatewayEventsObservedStatus string             `gorm:"column:gateway_events_observed_status;type:varchar(16);not null" json:"gateway_events_observed_status"`
	GatewayEventsPayload        datatypes.JSON     `gorm:"column:gateway_events_payload;type:jsonb" json:"gateway_events_payload"`

	GatewayEventsReceivedAt time.Time `gorm:"column:gateway_events_received_at;not null;default:now()" json:"gateway_events_received_at"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }
