// internals/features/academics/registrations/model/registration_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationPaymentStatus string

const (
	RegistrationPaymentUnpaid  RegistrationPaymentStatus = "unpaid"
	RegistrationPaymentPending RegistrationPaymentStatus = "pending"
	RegistrationPaymentPaid    RegistrationPaymentStatus = "paid"
)

func ValidRegistrationPaymentStatus(s string) bool {
	switch RegistrationPaymentStatus(s) {
	case RegistrationPaymentUnpaid, RegistrationPaymentPending, RegistrationPaymentPaid:
		return true
	}
	return false
}

type RegistrationModel struct {
	RegistrationsID        uuid.UUID  `gorm:"column:registrations_id;type:uuid;default:gen_random_uuid();primaryKey" json:"registrations_id"`
	RegistrationsStudentID uuid.UUID  `gorm:"column:registrations_student_id;type:uuid;not null;uniqueIndex:uq_registrations_student_semester,priority:1,where:registrations_deleted_at IS NULL" json:"registrations_student_id"`
	RegistrationsClassGroupID *uuid.UUID `gorm:"column:registrations_class_group_id;type:uuid;index" json:"registrations_class_group_id,omitempty"`

	// format: 2025-1 (tahun-terms)
	RegistrationsSemester string `gorm:"column:registrations_semester;type:varchar(8);not null;uniqueIndex:uq_registrations_student_semester,priority:2,where:registrations_deleted_at IS NULL" json:"registrations_semester"`

	RegistrationsAmountDue     int64                     `gorm:"column:registrations_amount_due;not null;default:0" json:"registrations_amount_due"`
	RegistrationsPaymentStatus RegistrationPaymentStatus `gorm:"column:registrations_payment_status;type:varchar(12);not null;default:'unpaid'" json:"registrations_payment_status"`
	RegistrationsPaidAt        *time.Time                `gorm:"column:registrations_paid_at" json:"registrations_paid_at,omitempty"`

	RegistrationsNotes *string `gorm:"column:registrations_notes;type:text" json:"registrations_notes,omitempty"`

	RegistrationsCreatedAt time.Time      `gorm:"column:registrations_created_at;not null;autoCreateTime" json:"registrations_created_at"`
	RegistrationsUpdatedAt time.Time      `gorm:"column:registrations_updated_at;not null;autoUpdateTime" json:"registrations_updated_at"`
	RegistrationsDeletedAt gorm.DeletedAt `gorm:"column:registrations_deleted_at;index" json:"registrations_deleted_at,omitempty"`
}

func (RegistrationModel) TableName() string { return "registrations" }

func (m RegistrationModel) IsPaid() bool {
	return m.RegistrationsPaymentStatus == RegistrationPaymentPaid
}
