package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/class_groups/model"
)

type CreateClassGroupRequest struct {
	MajorID      uuid.UUID `json:"class_groups_major_id" validate:"required"`
	Name         string    `json:"class_groups_name" validate:"required,min=1,max=60"`
	AcademicYear string    `json:"class_groups_academic_year" validate:"required,len=9"` // 2025/2026
	Capacity     *int      `json:"class_groups_capacity" validate:"omitempty,min=1,max=500"`
	IsActive     *bool     `json:"class_groups_is_active"`
}

func (r *CreateClassGroupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
}

func (r CreateClassGroupRequest) ToModel() m.ClassGroupModel {
	mm := m.ClassGroupModel{
		ClassGroupsMajorID:      r.MajorID,
		ClassGroupsName:         r.Name,
		ClassGroupsAcademicYear: r.AcademicYear,
		ClassGroupsCapacity:     40,
		ClassGroupsIsActive:     true,
	}
	if r.Capacity != nil {
		mm.ClassGroupsCapacity = *r.Capacity
	}
	if r.IsActive != nil {
		mm.ClassGroupsIsActive = *r.IsActive
	}
	return mm
}

type UpdateClassGroupRequest struct {
	Name         *string `json:"class_groups_name" validate:"omitempty,min=1,max=60"`
	AcademicYear *string `json:"class_groups_academic_year" validate:"omitempty,len=9"`
	Capacity     *int    `json:"class_groups_capacity" validate:"omitempty,min=1,max=500"`
	IsActive     *bool   `json:"class_groups_is_active"`
}

func (r *UpdateClassGroupRequest) Normalize() {
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	if r.AcademicYear != nil {
		s := strings.TrimSpace(*r.AcademicYear)
		r.AcademicYear = &s
	}
}

func (r UpdateClassGroupRequest) Apply(mo *m.ClassGroupModel) {
	if r.Name != nil {
		mo.ClassGroupsName = *r.Name
	}
	if r.AcademicYear != nil {
		mo.ClassGroupsAcademicYear = *r.AcademicYear
	}
	if r.Capacity != nil {
		mo.ClassGroupsCapacity = *r.Capacity
	}
	if r.IsActive != nil {
		mo.ClassGroupsIsActive = *r.IsActive
	}
	mo.ClassGroupsUpdatedAt = time.Now()
}

type ListClassGroupQuery struct {
	Q            *string `query:"q"`
	MajorID      *string `query:"major_id"`
	AcademicYear *string `query:"academic_year"`
	IsActive     *bool   `query:"is_active"`
	WithDeleted  *bool   `query:"with_deleted"`
	OrderBy      *string `query:"order_by"` // name|academic_year|created_at
	Sort         *string `query:"sort"`
}

type ClassGroupResponse struct {
	ClassGroupsID            uuid.UUID  `json:"class_groups_id"`
	ClassGroupsMajorID       uuid.UUID  `json:"class_groups_major_id"`
	ClassGroupsName          string     `json:"class_groups_name"`
	ClassGroupsAcademicYear  string     `json:"class_groups_academic_year"`
	ClassGroupsCapacity      int        `json:"class_groups_capacity"`
	ClassGroupsEnrolledCount int        `json:"class_groups_enrolled_count"`
	ClassGroupsIsFull        bool       `json:"class_groups_is_full"`
	ClassGroupsIsActive      bool       `json:"class_groups_is_active"`
	ClassGroupsCreatedAt     time.Time  `json:"class_groups_created_at"`
	ClassGroupsUpdatedAt     time.Time  `json:"class_groups_updated_at"`
	ClassGroupsDeletedAt     *time.Time `json:"class_groups_deleted_at,omitempty"`
}

func FromClassGroupModel(mo m.ClassGroupModel) ClassGroupResponse {
	var deletedAt *time.Time
	if mo.ClassGroupsDeletedAt.Valid {
		t := mo.ClassGroupsDeletedAt.Time
		deletedAt = &t
	}
	return ClassGroupResponse{
		ClassGroupsID:            mo.ClassGroupsID,
		ClassGroupsMajorID:       mo.ClassGroupsMajorID,
		ClassGroupsName:          mo.ClassGroupsName,
		ClassGroupsAcademicYear:  mo.ClassGroupsAcademicYear,
		ClassGroupsCapacity:      mo.ClassGroupsCapacity,
		ClassGroupsEnrolledCount: mo.ClassGroupsEnrolledCount,
		ClassGroupsIsFull:        mo.IsFull(),
		ClassGroupsIsActive:      mo.ClassGroupsIsActive,
		ClassGroupsCreatedAt:     mo.ClassGroupsCreatedAt,
		ClassGroupsUpdatedAt:     mo.ClassGroupsUpdatedAt,
		ClassGroupsDeletedAt:     deletedAt,
	}
}

func FromClassGroupModels(rows []m.ClassGroupModel) []ClassGroupResponse {
	out := make([]ClassGroupResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromClassGroupModel(rows[i]))
	}
	return out
}
