package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/departments/model"
	helper "kampusku_backend/internals/helpers"
)

/* =========================================================
   CREATE
========================================================= */

type CreateDepartmentRequest struct {
	Code string  `json:"departments_code" validate:"required,min=1,max=20"`
	Name string  `json:"departments_name" validate:"required,min=1,max=120"`
	Desc *string `json:"departments_desc"`

	Slug     *string `json:"departments_slug" validate:"omitempty,min=1,max=160"`
	IsActive *bool   `json:"departments_is_active"`
}

func (r *CreateDepartmentRequest) Normalize() {
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
	if r.Slug != nil {
		s := helper.Slugify(*r.Slug, 160)
		if s == "" {
			r.Slug = nil
		} else {
			r.Slug = &s
		}
	}
}

func (r CreateDepartmentRequest) ToModel() m.DepartmentModel {
	slug := ""
	if r.Slug != nil {
		slug = *r.Slug
	} else {
		slug = helper.Slugify(r.Name, 160)
	}

	mm := m.DepartmentModel{
		DepartmentsCode:     r.Code,
		DepartmentsName:     r.Name,
		DepartmentsDesc:     r.Desc,
		DepartmentsSlug:     slug,
		DepartmentsIsActive: true,
	}
	if r.IsActive != nil {
		mm.DepartmentsIsActive = *r.IsActive
	}
	return mm
}

/* =========================================================
   UPDATE (partial, pointer = field dikirim)
========================================================= */

type UpdateDepartmentRequest struct {
	Code     *string `json:"departments_code" validate:"omitempty,min=1,max=20"`
	Name     *string `json:"departments_name" validate:"omitempty,min=1,max=120"`
	Desc     *string `json:"departments_desc"`
	Slug     *string `json:"departments_slug" validate:"omitempty,min=1,max=160"`
	IsActive *bool   `json:"departments_is_active"`
}

func (r *UpdateDepartmentRequest) Normalize() {
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
	if r.Slug != nil {
		s := helper.Slugify(*r.Slug, 160)
		r.Slug = &s
	}
}

func (r UpdateDepartmentRequest) Apply(mo *m.DepartmentModel) {
	if r.Code != nil {
		mo.DepartmentsCode = *r.Code
	}
	if r.Name != nil {
		mo.DepartmentsName = *r.Name
		if r.Slug == nil {
			mo.DepartmentsSlug = helper.Slugify(*r.Name, 160)
		}
	}
	if r.Desc != nil {
		mo.DepartmentsDesc = r.Desc
	}
	if r.Slug != nil {
		mo.DepartmentsSlug = *r.Slug
	}
	if r.IsActive != nil {
		mo.DepartmentsIsActive = *r.IsActive
	}
	mo.DepartmentsUpdatedAt = time.Now()
}

/* =========================================================
   LIST QUERY & RESPONSE
========================================================= */

type ListDepartmentQuery struct {
	Q           *string `query:"q"`
	IsActive    *bool   `query:"is_active"`
	WithDeleted *bool   `query:"with_deleted"`
	OrderBy     *string `query:"order_by"` // code|name|created_at|updated_at
	Sort        *string `query:"sort"`     // asc|desc
}

type DepartmentResponse struct {
	DepartmentsID        uuid.UUID  `json:"departments_id"`
	DepartmentsCode      string     `json:"departments_code"`
	DepartmentsName      string     `json:"departments_name"`
	DepartmentsDesc      *string    `json:"departments_desc,omitempty"`
	DepartmentsSlug      string     `json:"departments_slug"`
	DepartmentsIsActive  bool       `json:"departments_is_active"`
	DepartmentsCreatedAt time.Time  `json:"departments_created_at"`
	DepartmentsUpdatedAt time.Time  `json:"departments_updated_at"`
	DepartmentsDeletedAt *time.Time `json:"departments_deleted_at,omitempty"`
}

func FromDepartmentModel(mo m.DepartmentModel) DepartmentResponse {
	var deletedAt *time.Time
	if mo.DepartmentsDeletedAt.Valid {
		t := mo.DepartmentsDeletedAt.Time
		deletedAt = &t
	}
	return DepartmentResponse{
		DepartmentsID:        mo.DepartmentsID,
		DepartmentsCode:      mo.DepartmentsCode,
		DepartmentsName:      mo.DepartmentsName,
		DepartmentsDesc:      mo.DepartmentsDesc,
		DepartmentsSlug:      mo.DepartmentsSlug,
		DepartmentsIsActive:  mo.DepartmentsIsActive,
		DepartmentsCreatedAt: mo.DepartmentsCreatedAt,
		DepartmentsUpdatedAt: mo.DepartmentsUpdatedAt,
		DepartmentsDeletedAt: deletedAt,
	}
}

func FromDepartmentModels(rows []m.DepartmentModel) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromDepartmentModel(rows[i]))
	}
	return out
}
