package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "kampusku_backend/internals/features/finance/payments/model"
)

type ListGatewayEventQuery struct {
	SessionID *string `query:"session_id"`
	TranID    *string `query:"tran_id"`
	Source    *string `query:"source"`
	Sort      *string `query:"sort"`
}

type GatewayEventResponse struct {
	GatewayEventsID             uuid.UUID            `json:"gateway_events_id"`
	GatewayEventsSessionID      *uuid.UUID           `json:"gateway_events_session_id,omitempty"`
	GatewayEventsTranID         *string              `json:"gateway_events_tran_id,omitempty"`
	GatewayEventsSource         m.GatewayEventSource `json:"gateway_events_source"`
	GatewayEventsObservedStatus string               `json:"gateway_events_observed_status"`
	GatewayEventsPayload        datatypes.JSON       `json:"gateway_events_payload,omitempty"`
	GatewayEventsReceivedAt     time.Time            `json:"gateway_events_received_at"`
}

func FromGatewayEventModel(mo m.PaymentGatewayEventModel) GatewayEventResponse {
	return GatewayEventResponse{
		GatewayEventsID:             mo.GatewayEventsID,
		GatewayEventsSessionID:      mo.GatewayEventsSessionID,
		GatewayEventsTranID:         mo.GatewayEventsTranID,
		GatewayEventsSource:         mo.GatewayEventsSource,
		GatewayEventsObservedStatus: mo.GatewayEventsObservedStatus,
		GatewayEventsPayload:        mo.GatewayEventsPayload,
		GatewayEventsReceivedAt:     mo.GatewayEventsReceivedAt,
	}
}

func FromGatewayEventModels(rows []m.PaymentGatewayEventModel) []GatewayEventResponse {
	out := make([]GatewayEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromGatewayEventModel(rows[i]))
	}
	return out
}
