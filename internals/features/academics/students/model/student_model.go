// internals/features/academics/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentStatusActive     StudentStatus = "active"
	StudentStatusOnLeave    StudentStatus = "on_leave"
	StudentStatusGraduated  StudentStatus = "graduated"
	StudentStatusDroppedOut StudentStatus = "dropped_out"
)

func ValidStudentStatus(s string) bool {
	switch StudentStatus(s) {
	case StudentStatusActive, StudentStatusOnLeave, StudentStatusGraduated, StudentStatusDroppedOut:
		return true
	}
	return false
}

type StudentModel struct {
	StudentsID      uuid.UUID `gorm:"column:students_id;type:uuid;default:gen_random_uuid();primaryKey" json:"students_id"`
	StudentsMajorID uuid.UUID `gorm:"column:students_major_id;type:uuid;not null;index" json:"students_major_id"`

	// NIM — unik kampus-wide
	StudentsNumber string `gorm:"column:students_number;type:varchar(20);not null;uniqueIndex:uq_students_number,where:students_deleted_at IS NULL" json:"students_number"`

	StudentsName  string  `gorm:"column:students_name;type:varchar(120);not null" json:"students_name"`
	StudentsEmail *string `gorm:"column:students_email;type:varchar(160)" json:"students_email,omitempty"`
	StudentsPhone *string `gorm:"column:students_phone;type:varchar(32)" json:"students_phone,omitempty"`

	StudentsEnrollmentYear int           `gorm:"column:students_enrollment_year;not null" json:"students_enrollment_year"`
	StudentsStatus         StudentStatus `gorm:"column:students_status;type:varchar(16);not null;default:'active'" json:"students_status"`

	StudentsCreatedAt time.Time      `gorm:"column:students_created_at;not null;autoCreateTime" json:"students_created_at"`
	StudentsUpdatedAt time.Time      `gorm:"column:students_updated_at;not null;autoUpdateTime" json:"students_updated_at"`
	StudentsDeletedAt gorm.DeletedAt `gorm:"column:students_deleted_at;index" json:"students_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }
