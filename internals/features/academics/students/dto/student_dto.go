package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/students/model"
)

type CreateStudentRequest struct {
	MajorID        uuid.UUID `json:"students_major_id" validate:"required"`
	Number         string    `json:"students_number" validate:"required,min=5,max=20"`
	Name           string    `json:"students_name" validate:"required,min=1,max=120"`
	Email          *string   `json:"students_email" validate:"omitempty,email,max=160"`
	Phone          *string   `json:"students_phone" validate:"omitempty,max=32"`
	EnrollmentYear int       `json:"students_enrollment_year" validate:"required,min=1980,max=2100"`
	Status         string    `json:"students_status" validate:"omitempty,oneof=active on_leave graduated dropped_out"`
}

func (r *CreateStudentRequest) Normalize() {
	r.Number = strings.TrimSpace(r.Number)
	r.Name = strings.TrimSpace(r.Name)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		if e == "" {
			r.Email = nil
		} else {
			r.Email = &e
		}
	}
	if r.Phone != nil {
		p := strings.TrimSpace(*r.Phone)
		if p == "" {
			r.Phone = nil
		} else {
			r.Phone = &p
		}
	}
}

func (r CreateStudentRequest) ToModel() m.StudentModel {
	status := m.StudentStatusActive
	if r.Status != "" {
		status = m.StudentStatus(r.Status)
	}
	return m.StudentModel{
		StudentsMajorID:        r.MajorID,
		StudentsNumber:         r.Number,
		StudentsName:           r.Name,
		StudentsEmail:          r.Email,
		StudentsPhone:          r.Phone,
		StudentsEnrollmentYear: r.EnrollmentYear,
		StudentsStatus:         status,
	}
}

type UpdateStudentRequest struct {
	MajorID        *uuid.UUID `json:"students_major_id"`
	Name           *string    `json:"students_name" validate:"omitempty,min=1,max=120"`
	Email          *string    `json:"students_email" validate:"omitempty,email,max=160"`
	Phone          *string    `json:"students_phone" validate:"omitempty,max=32"`
	EnrollmentYear *int       `json:"students_enrollment_year" validate:"omitempty,min=1980,max=2100"`
	Status         *string    `json:"students_status" validate:"omitempty,oneof=active on_leave graduated dropped_out"`
}

func (r *UpdateStudentRequest) Normalize() {
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	if r.Email != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &s
	}
	if r.Phone != nil {
		s := strings.TrimSpace(*r.Phone)
		r.Phone = &s
	}
	if r.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
}

func (r UpdateStudentRequest) Apply(mo *m.StudentModel) {
	if r.MajorID != nil {
		mo.StudentsMajorID = *r.MajorID
	}
	if r.Name != nil {
		mo.StudentsName = *r.Name
	}
	if r.Email != nil {
		mo.StudentsEmail = r.Email
	}
	if r.Phone != nil {
		mo.StudentsPhone = r.Phone
	}
	if r.EnrollmentYear != nil {
		mo.StudentsEnrollmentYear = *r.EnrollmentYear
	}
	if r.Status != nil {
		mo.StudentsStatus = m.StudentStatus(*r.Status)
	}
	mo.StudentsUpdatedAt = time.Now()
}

type ListStudentQuery struct {
	Q              *string `query:"q"` // cari di number/name/email
	MajorID        *string `query:"major_id"`
	Status         *string `query:"status"`
	EnrollmentYear *int    `query:"enrollment_year"`
	WithDeleted    *bool   `query:"with_deleted"`
	OrderBy        *string `query:"order_by"` // number|name|enrollment_year|created_at
	Sort           *string `query:"sort"`
}

type StudentResponse struct {
	StudentsID             uuid.UUID       `json:"students_id"`
	StudentsMajorID        uuid.UUID       `json:"students_major_id"`
	StudentsNumber         string          `json:"students_number"`
	StudentsName           string          `json:"students_name"`
	StudentsEmail          *string         `json:"students_email,omitempty"`
	StudentsPhone          *string         `json:"students_phone,omitempty"`
	StudentsEnrollmentYear int             `json:"students_enrollment_year"`
	StudentsStatus         m.StudentStatus `json:"students_status"`
	StudentsCreatedAt      time.Time       `json:"students_created_at"`
	StudentsUpdatedAt      time.Time       `json:"students_updated_at"`
	StudentsDeletedAt      *time.Time      `json:"students_deleted_at,omitempty"`
}

func FromStudentModel(mo m.StudentModel) StudentResponse {
	var deletedAt *time.Time
	if mo.StudentsDeletedAt.Valid {
		t := mo.StudentsDeletedAt.Time
		deletedAt = &t
	}
	return StudentResponse{
		StudentsID:             mo.StudentsID,
		StudentsMajorID:        mo.StudentsMajorID,
		StudentsNumber:         mo.StudentsNumber,
		StudentsName:           mo.StudentsName,
		StudentsEmail:          mo.StudentsEmail,
		StudentsPhone:          mo.StudentsPhone,
		StudentsEnrollmentYear: mo.StudentsEnrollmentYear,
		StudentsStatus:         mo.StudentsStatus,
		StudentsCreatedAt:      mo.StudentsCreatedAt,
		StudentsUpdatedAt:      mo.StudentsUpdatedAt,
		StudentsDeletedAt:      deletedAt,
	}
}

func FromStudentModels(rows []m.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromStudentModel(rows[i]))
	}
	return out
}
