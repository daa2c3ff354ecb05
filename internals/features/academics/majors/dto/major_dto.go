package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/majors/model"
	helper "kampusku_backend/internals/helpers"
)

type CreateMajorRequest struct {
	DepartmentID uuid.UUID `json:"majors_department_id" validate:"required"`
	Code         string    `json:"majors_code" validate:"required,min=1,max=20"`
	Name         string    `json:"majors_name" validate:"required,min=1,max=120"`
	Degree       string    `json:"majors_degree" validate:"omitempty,oneof=d3 s1 s2 s3"`
	Slug         *string   `json:"majors_slug" validate:"omitempty,min=1,max=160"`
	IsActive     *bool     `json:"majors_is_active"`
}

func (r *CreateMajorRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
	r.Name = strings.TrimSpace(r.Name)
	r.Degree = strings.ToLower(strings.TrimSpace(r.Degree))
	if r.Slug != nil {
		s := helper.Slugify(*r.Slug, 160)
		if s == "" {
			r.Slug = nil
		} else {
			r.Slug = &s
		}
	}
}

func (r CreateMajorRequest) ToModel() m.MajorModel {
	slug := ""
	if r.Slug != nil {
		slug = *r.Slug
	} else {
		slug = helper.Slugify(r.Name, 160)
	}
	degree := m.MajorDegreeS1
	if r.Degree != "" {
		degree = m.MajorDegree(r.Degree)
	}

	mm := m.MajorModel{
		MajorsDepartmentID: r.DepartmentID,
		MajorsCode:         r.Code,
		MajorsName:         r.Name,
		MajorsDegree:       degree,
		MajorsSlug:         slug,
		MajorsIsActive:     true,
	}
	if r.IsActive != nil {
		mm.MajorsIsActive = *r.IsActive
	}
	return mm
}

type UpdateMajorRequest struct {
	DepartmentID *uuid.UUID `json:"majors_department_id"`
	Code         *string    `json:"majors_code" validate:"omitempty,min=1,max=20"`
	Name         *string    `json:"majors_name" validate:"omitempty,min=1,max=120"`
	Degree       *string    `json:"majors_degree" validate:"omitempty,oneof=d3 s1 s2 s3"`
	Slug         *string    `json:"majors_slug" validate:"omitempty,min=1,max=160"`
	IsActive     *bool      `json:"majors_is_active"`
}

func (r *UpdateMajorRequest) Normalize() {
	if r.Code != nil {
		s := strings.TrimSpace(*r.Code)
		r.Code = &s
	}
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	if r.Degree != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Degree))
		r.Degree = &s
	}
	if r.Slug != nil {
		s := helper.Slugify(*r.Slug, 160)
		r.Slug = &s
	}
}

func (r UpdateMajorRequest) Apply(mo *m.MajorModel) {
	if r.DepartmentID != nil {
		mo.MajorsDepartmentID = *r.DepartmentID
	}
	if r.Code != nil {
		mo.MajorsCode = *r.Code
	}
	if r.Name != nil {
		mo.MajorsName = *r.Name
		if r.Slug == nil {
			mo.MajorsSlug = helper.Slugify(*r.Name, 160)
		}
	}
	if r.Degree != nil {
		mo.MajorsDegree = m.MajorDegree(*r.Degree)
	}
	if r.Slug != nil {
		mo.MajorsSlug = *r.Slug
	}
	if r.IsActive != nil {
		mo.MajorsIsActive = *r.IsActive
	}
	mo.MajorsUpdatedAt = time.Now()
}

type ListMajorQuery struct {
	Q            *string `query:"q"`
	DepartmentID *string `query:"department_id"`
	Degree       *string `query:"degree"`
	IsActive     *bool   `query:"is_active"`
	WithDeleted  *bool   `query:"with_deleted"`
	OrderBy      *string `query:"order_by"` // code|name|created_at|updated_at
	Sort         *string `query:"sort"`
}

type MajorResponse struct {
	MajorsID           uuid.UUID     `json:"majors_id"`
	MajorsDepartmentID uuid.UUID     `json:"majors_department_id"`
	MajorsCode         string        `json:"majors_code"`
	MajorsName         string        `json:"majors_name"`
	MajorsDegree       m.MajorDegree `json:"majors_degree"`
	MajorsSlug         string        `json:"majors_slug"`
	MajorsIsActive     bool          `json:"majors_is_active"`
	MajorsCreatedAt    time.Time     `json:"majors_created_at"`
	MajorsUpdatedAt    time.Time     `json:"majors_updated_at"`
	MajorsDeletedAt    *time.Time    `json:"majors_deleted_at,omitempty"`
}

func FromMajorModel(mo m.MajorModel) MajorResponse {
	var deletedAt *time.Time
	if mo.MajorsDeletedAt.Valid {
		t := mo.MajorsDeletedAt.Time
		deletedAt = &t
	}
	return MajorResponse{
		MajorsID:           mo.MajorsID,
		MajorsDepartmentID: mo.MajorsDepartmentID,
		MajorsCode:         mo.MajorsCode,
		MajorsName:         mo.MajorsName,
		MajorsDegree:       mo.MajorsDegree,
		MajorsSlug:         mo.MajorsSlug,
		MajorsIsActive:     mo.MajorsIsActive,
		MajorsCreatedAt:    mo.MajorsCreatedAt,
		MajorsUpdatedAt:    mo.MajorsUpdatedAt,
		MajorsDeletedAt:    deletedAt,
	}
}

func FromMajorModels(rows []m.MajorModel) []MajorResponse {
	out := make([]MajorResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromMajorModel(rows[i]))
	}
	return out
}
