package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/registrations/model"
)

type CreateRegistrationRequest struct {
	StudentID    uuid.UUID  `json:"registrations_student_id" validate:"required"`
	ClassGroupID *uuid.UUID `json:"registrations_class_group_id"`
	Semester     string     `json:"registrations_semester" validate:"required,min=6,max=8"` // 2025-1
	AmountDue    int64      `json:"registrations_amount_due" validate:"required,min=0"`
	Notes        *string    `json:"registrations_notes" validate:"omitempty,max=2000"`
}

func (r *CreateRegistrationRequest) Normalize() {
	r.Semester = strings.TrimSpace(r.Semester)
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		if n == "" {
			r.Notes = nil
		} else {
			r.Notes = &n
		}
	}
}

func (r CreateRegistrationRequest) ToModel() m.RegistrationModel {
	return m.RegistrationModel{
		RegistrationsStudentID:     r.StudentID,
		RegistrationsClassGroupID:  r.ClassGroupID,
		RegistrationsSemester:      r.Semester,
		RegistrationsAmountDue:     r.AmountDue,
		RegistrationsPaymentStatus: m.RegistrationPaymentUnpaid,
		RegistrationsNotes:         r.Notes,
	}
}

type UpdateRegistrationRequest struct {
	ClassGroupID *uuid.UUID `json:"registrations_class_group_id"`
	AmountDue    *int64     `json:"registrations_amount_due" validate:"omitempty,min=0"`
	Notes        *string    `json:"registrations_notes" validate:"omitempty,max=2000"`
}

func (r *UpdateRegistrationRequest) Normalize() {
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		r.Notes = &n
	}
}

// Override manual status pembayaran oleh admin.
type OverridePaymentStatusRequest struct {
	PaymentStatus string  `json:"registrations_payment_status" validate:"required,oneof=unpaid pending paid"`
	Notes         *string `json:"registrations_notes" validate:"omitempty,max=2000"`
}

func (r *OverridePaymentStatusRequest) Normalize() {
	r.PaymentStatus = strings.ToLower(strings.TrimSpace(r.PaymentStatus))
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		if n == "" {
			r.Notes = nil
		} else {
			r.Notes = &n
		}
	}
}

type ListRegistrationQuery struct {
	StudentID     *string `query:"student_id"`
	ClassGroupID  *string `query:"class_group_id"`
	Semester      *string `query:"semester"`
	PaymentStatus *string `query:"payment_status"`
	WithDeleted   *bool   `query:"with_deleted"`
	OrderBy       *string `query:"order_by"` // semester|amount_due|created_at
	Sort          *string `query:"sort"`
}

type RegistrationResponse struct {
	RegistrationsID            uuid.UUID                   `json:"registrations_id"`
	RegistrationsStudentID     uuid.UUID                   `json:"registrations_student_id"`
	RegistrationsClassGroupID  *uuid.UUID                  `json:"registrations_class_group_id,omitempty"`
	RegistrationsSemester      string                      `json:"registrations_semester"`
	RegistrationsAmountDue     int64                       `json:"registrations_amount_due"`
	RegistrationsPaymentStatus m.RegistrationPaymentStatus `json:"registrations_payment_status"`
	RegistrationsPaidAt        *time.Time                  `json:"registrations_paid_at,omitempty"`
	RegistrationsNotes         *string                     `json:"registrations_notes,omitempty"`
	RegistrationsCreatedAt     time.Time                   `json:"registrations_created_at"`
	RegistrationsUpdatedAt     time.Time                   `json:"registrations_updated_at"`
	RegistrationsDeletedAt     *time.Time                  `json:"registrations_deleted_at,omitempty"`
}

func FromRegistrationModel(mo m.RegistrationModel) RegistrationResponse {
	var deletedAt *time.Time
	if mo.RegistrationsDeletedAt.Valid {
		t := mo.RegistrationsDeletedAt.Time
		deletedAt = &t
	}
	return RegistrationResponse{
		RegistrationsID:            mo.RegistrationsID,
		RegistrationsStudentID:     mo.RegistrationsStudentID,
		RegistrationsClassGroupID:  mo.RegistrationsClassGroupID,
		RegistrationsSemester:      mo.RegistrationsSemester,
		RegistrationsAmountDue:     mo.RegistrationsAmountDue,
		RegistrationsPaymentStatus: mo.RegistrationsPaymentStatus,
		RegistrationsPaidAt:        mo.RegistrationsPaidAt,
		RegistrationsNotes:         mo.RegistrationsNotes,
		RegistrationsCreatedAt:     mo.RegistrationsCreatedAt,
		RegistrationsUpdatedAt:     mo.RegistrationsUpdatedAt,
		RegistrationsDeletedAt:     deletedAt,
	}
}

func FromRegistrationModels(rows []m.RegistrationModel) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromRegistrationModel(rows[i]))
	}
	return out
}
