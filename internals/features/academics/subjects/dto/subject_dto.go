package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/subjects/model"
)

type CreateSubjectRequest struct {
	MajorID    uuid.UUID `json:"subjects_major_id" validate:"required"`
	Code       string    `json:"subjects_code" validate:"required,min=1,max=20"`
	Name       string    `json:"subjects_name" validate:"required,min=1,max=120"`
	Desc       *string   `json:"subjects_desc"`
	Credits    int       `json:"subjects_credits" validate:"required,min=1,max=6"`
	SemesterNo int       `json:"subjects_semester_no" validate:"required,min=1,max=14"`
	IsActive   *bool     `json:"subjects_is_active"`
}

func (r *CreateSubjectRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
	r.Name = strings.TrimSpace(r.Name)
	if r.Desc != nil {
		d := strings.TrimSpace(*r.Desc)
		if d == "" {
			r.Desc = nil
		} else {
			r.Desc = &d
		}
	}
}

func (r CreateSubjectRequest) ToModel() m.SubjectModel {
	mm := m.SubjectModel{
		SubjectsMajorID:    r.MajorID,
		SubjectsCode:       r.Code,
		SubjectsName:       r.Name,
		SubjectsDesc:       r.Desc,
		SubjectsCredits:    r.Credits,
		SubjectsSemesterNo: r.SemesterNo,
		SubjectsIsActive:   true,
	}
	if r.IsActive != nil {
		mm.SubjectsIsActive = *r.IsActive
	}
	return mm
}

type UpdateSubjectRequest struct {
	MajorID    *uuid.UUID `json:"subjects_major_id"`
	Code       *string    `json:"subjects_code" validate:"omitempty,min=1,max=20"`
	Name       *string    `json:"subjects_name" validate:"omitempty,min=1,max=120"`
	Desc       *string    `json:"subjects_desc"`
	Credits    *int       `json:"subjects_credits" validate:"omitempty,min=1,max=6"`
	SemesterNo *int       `json:"subjects_semester_no" validate:"omitempty,min=1,max=14"`
	IsActive   *bool      `json:"subjects_is_active"`
}

func (r *UpdateSubjectRequest) Normalize() {
	if r.Code != nil {
		s := strings.TrimSpace(*r.Code)
		r.Code = &s
	}
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	if r.Desc != nil {
		s := strings.TrimSpace(*r.Desc)
		r.Desc = &s
	}
}

func (r UpdateSubjectRequest) Apply(mo *m.SubjectModel) {
	if r.MajorID != nil {
		mo.SubjectsMajorID = *r.MajorID
	}
	if r.Code != nil {
		mo.SubjectsCode = *r.Code
	}
	if r.Name != nil {
		mo.SubjectsName = *r.Name
	}
	if r.Desc != nil {
		mo.SubjectsDesc = r.Desc
	}
	if r.Credits != nil {
		mo.SubjectsCredits = *r.Credits
	}
	if r.SemesterNo != nil {
		mo.SubjectsSemesterNo = *r.SemesterNo
	}
	if r.IsActive != nil {
		mo.SubjectsIsActive = *r.IsActive
	}
	mo.SubjectsUpdatedAt = time.Now()
}

type ListSubjectQuery struct {
	Q           *string `query:"q"`
	MajorID     *string `query:"major_id"`
	SemesterNo  *int    `query:"semester_no"`
	IsActive    *bool   `query:"is_active"`
	WithDeleted *bool   `query:"with_deleted"`
	OrderBy     *string `query:"order_by"` // code|name|semester_no|created_at
	Sort        *string `query:"sort"`
}

type SubjectResponse struct {
	SubjectsID         uuid.UUID  `json:"subjects_id"`
	SubjectsMajorID    uuid.UUID  `json:"subjects_major_id"`
	SubjectsCode       string     `json:"subjects_code"`
	SubjectsName       string     `json:"subjects_name"`
	SubjectsDesc       *string    `json:"subjects_desc,omitempty"`
	SubjectsCredits    int        `json:"subjects_credits"`
	SubjectsSemesterNo int        `json:"subjects_semester_no"`
	SubjectsIsActive   bool       `json:"subjects_is_active"`
	SubjectsCreatedAt  time.Time  `json:"subjects_created_at"`
	SubjectsUpdatedAt  time.Time  `json:"subjects_updated_at"`
	SubjectsDeletedAt  *time.Time `json:"subjects_deleted_at,omitempty"`
}

func FromSubjectModel(mo m.SubjectModel) SubjectResponse {
	var deletedAt *time.Time
	if mo.SubjectsDeletedAt.Valid {
		t := mo.SubjectsDeletedAt.Time
		deletedAt = &t
	}
	return SubjectResponse{
		SubjectsID:         mo.SubjectsID,
		SubjectsMajorID:    mo.SubjectsMajorID,
		SubjectsCode:       mo.SubjectsCode,
		SubjectsName:       mo.SubjectsName,
		SubjectsDesc:       mo.SubjectsDesc,
		SubjectsCredits:    mo.SubjectsCredits,
		SubjectsSemesterNo: mo.SubjectsSemesterNo,
		SubjectsIsActive:   mo.SubjectsIsActive,
		SubjectsCreatedAt:  mo.SubjectsCreatedAt,
		SubjectsUpdatedAt:  mo.SubjectsUpdatedAt,
		SubjectsDeletedAt:  deletedAt,
	}
}

func FromSubjectModels(rows []m.SubjectModel) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromSubjectModel(rows[i]))
	}
	return out
}
